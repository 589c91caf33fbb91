// Command podctl inspects, negotiates and archives POD values.
//
//	podctl dump offer.pod
//	podctl filter request.pod offer.pod --fixate -o format.pod
//	podctl pack -o formats.podar a.pod b.pod
//	podctl types AudioFormats
//
// Settings come from defaults, then the TOML config file, then flags.
// filter exits with status 2 when the two values share nothing.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/arloliu/pod/errs"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "podctl:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a command error to the process status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errs.ErrNoCommonValue):
		return 2
	default:
		return 1
	}
}
