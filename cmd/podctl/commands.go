package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arloliu/pod"
	"github.com/arloliu/pod/archive"
	"github.com/arloliu/pod/debug"
	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/parser"
	"github.com/arloliu/pod/section"
	"github.com/arloliu/pod/typeinfo"
)

// readInput reads a file, or stdin for "-", enforcing the size limit.
func (c *commandContext) readInput(cmd *cobra.Command, path string) ([]byte, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	limit := c.settings.maxSize
	if limit > 0 {
		r = io.LimitReader(r, int64(limit)+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if limit > 0 && len(data) > limit {
		return nil, fmt.Errorf("%s: larger than max size %d", path, limit)
	}

	return data, nil
}

func (c *commandContext) parse(data []byte) (parser.Pod, error) {
	return parser.Parse(data, parser.WithByteOrder(c.settings.engine))
}

// emit writes data to out, or renders it to stdout when out is empty.
func (c *commandContext) emit(cmd *cobra.Command, out string, data []byte) error {
	if out != "" {
		if err := os.WriteFile(out, data, 0o644); err != nil { //nolint: gosec
			return err
		}
		c.logger.Info().Str("file", out).Int("bytes", len(data)).Msg("value written")

		return nil
	}

	p, err := c.parse(data)
	if err != nil {
		return err
	}

	return debug.Fprint(cmd.OutOrStdout(), p)
}

func isArchive(data []byte) bool {
	_, err := section.ParseHeader(data)
	return err == nil
}

func newDumpCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dump FILE",
		Short: "Print a value or every value of an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ctx.readInput(cmd, args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			if !isArchive(data) {
				p, err := ctx.parse(data)
				if err != nil {
					return err
				}

				return debug.Fprint(w, p)
			}

			i := 0
			for p, err := range archive.Decode(data, archive.WithMaxSize(ctx.settings.maxSize)) {
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "# value %d\n", i)
				if err := debug.Fprint(w, p); err != nil {
					return err
				}
				i++
			}

			return nil
		},
	}
}

func newFilterCommand(ctx *commandContext) *cobra.Command {
	var out string
	var fixate bool

	cmd := &cobra.Command{
		Use:   "filter REQUEST OFFER",
		Short: "Intersect a request with an offer",
		Long: "Intersect a request with an offer and print or write the common value.\n" +
			"Exits with status 2 when the two share no value.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := ctx.readInput(cmd, args[0])
			if err != nil {
				return err
			}
			offer, err := ctx.readInput(cmd, args[1])
			if err != nil {
				return err
			}

			opt := pod.WithByteOrder(ctx.settings.engine)
			result, err := pod.Filter(request, offer, opt)
			if errors.Is(err, errs.ErrNoCommonValue) {
				ctx.logger.Warn().Err(err).Str("request", args[0]).Str("offer", args[1]).Msg("negotiation failed")
				return err
			}
			if err != nil {
				return err
			}
			if fixate {
				if result, err = pod.Fixate(result, opt); err != nil {
					return err
				}
			}

			return ctx.emit(cmd, out, result)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write the result to a file instead of printing it")
	cmd.Flags().BoolVar(&fixate, "fixate", false, "replace choices in the result by their defaults")

	return cmd
}

func newFixateCommand(ctx *commandContext) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "fixate FILE",
		Short: "Replace choices by their defaults",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ctx.readInput(cmd, args[0])
			if err != nil {
				return err
			}
			fixed, err := pod.Fixate(data, pod.WithByteOrder(ctx.settings.engine))
			if err != nil {
				return err
			}

			return ctx.emit(cmd, out, fixed)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write the result to a file instead of printing it")

	return cmd
}

func newHashCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "hash FILE...",
		Short: "Print the structural fingerprint of values",
		Long:  "Print the structural fingerprint of values. Equal values print the same fingerprint.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				data, err := ctx.readInput(cmd, path)
				if err != nil {
					return err
				}
				h, err := pod.Hash(data, pod.WithByteOrder(ctx.settings.engine))
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%016x  %s\n", h, path)
			}

			return nil
		},
	}
}

func newTypesCommand(_ *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "types [TABLE]",
		Short: "List the type registry tables or the entries of one table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			if len(args) == 0 {
				var rows [][]string
				for _, t := range typeinfo.Tables() {
					rows = append(rows, []string{t.Name(), strconv.Itoa(t.Len())})
				}
				fmt.Fprintln(w, renderTable([]string{"Table", "Entries"}, rows, 1))

				return nil
			}

			t, ok := typeinfo.TableByName(args[0])
			if !ok {
				return fmt.Errorf("%w: table %q", errs.ErrNotFound, args[0])
			}
			var rows [][]string
			for info := range t.All() {
				rows = append(rows, []string{fmt.Sprintf("%#x", info.ID), info.Name, info.ShortName(), info.Parent.String()})
			}
			fmt.Fprintln(w, renderTable([]string{"ID", "Name", "Short", "Type"}, rows, 0))

			return nil
		},
	}
}

func newPackCommand(ctx *commandContext) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "pack -o ARCHIVE FILE...",
		Short: "Store values in one archive",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := archive.NewEncoder(
				archive.WithByteOrder(ctx.settings.engine),
				archive.WithCompression(ctx.settings.compression),
				archive.WithMaxSize(ctx.settings.maxSize),
				archive.WithLogger(ctx.logger),
			)
			if err != nil {
				return err
			}
			defer enc.Release()

			for _, path := range args {
				data, err := ctx.readInput(cmd, path)
				if err != nil {
					return err
				}
				if err := enc.AddBytes(data); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}

			data, err := enc.Finish()
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil { //nolint: gosec
				return err
			}

			stats := enc.Stats()
			ctx.logger.Info().
				Str("file", out).
				Int("values", enc.Count()).
				Stringer("compression", stats.Algorithm).
				Float64("savings_pct", stats.SpaceSavings()).
				Msg("archive written")

			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "archive file to write")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func newUnpackCommand(ctx *commandContext) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "unpack ARCHIVE -d DIR",
		Short: "Write every value of an archive to its own file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ctx.readInput(cmd, args[0])
			if err != nil {
				return err
			}
			pods, err := archive.DecodeAll(data, archive.WithMaxSize(ctx.settings.maxSize))
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil { //nolint: gosec
				return err
			}

			for i, p := range pods {
				path := filepath.Join(dir, fmt.Sprintf("%04d.pod", i))
				if err := os.WriteFile(path, p.AppendTo(nil), 0o644); err != nil { //nolint: gosec
					return err
				}
			}
			ctx.logger.Info().Str("dir", dir).Int("values", len(pods)).Msg("archive unpacked")

			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "directory to write the values to")

	return cmd
}
