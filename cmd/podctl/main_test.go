package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/pod"
	"github.com/arloliu/pod/endian"
	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/format"
	"github.com/arloliu/pod/value"
)

type cliEnv struct {
	t   *testing.T
	dir string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))

	return &cliEnv{t: t, dir: dir}
}

func (e *cliEnv) write(name string, v value.Value, opts ...pod.Option) string {
	e.t.Helper()

	data, err := pod.Marshal(v, opts...)
	require.NoError(e.t, err)
	path := filepath.Join(e.dir, name)
	require.NoError(e.t, os.WriteFile(path, data, 0o600))

	return path
}

func (e *cliEnv) run(args ...string) (string, string, error) {
	e.t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func TestFilterCommand(t *testing.T) {
	env := newCLIEnv(t)
	req := env.write("req.pod", value.NewRange(value.Int(1), value.Int(1), value.Int(10)))
	off := env.write("off.pod", value.NewRange(value.Int(5), value.Int(5), value.Int(20)))

	stdout, _, err := env.run("filter", req, off)
	require.NoError(t, err)
	require.Equal(t, "Choice Range Int\n  Int 5\n  Int 5\n  Int 10\n", stdout)

	out := filepath.Join(env.dir, "out.pod")
	_, stderr, err := env.run("filter", req, off, "--fixate", "-o", out)
	require.NoError(t, err)
	require.Contains(t, stderr, "value written")

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	want, err := pod.Marshal(value.Int(5))
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestFilterCommand_NoCommonValue(t *testing.T) {
	env := newCLIEnv(t)
	req := env.write("req.pod", value.NewEnum(value.ID(1), value.ID(1), value.ID(2)))
	off := env.write("off.pod", value.ID(3))

	_, stderr, err := env.run("filter", req, off)
	require.ErrorIs(t, err, errs.ErrNoCommonValue)
	require.Equal(t, 2, exitCode(err))
	require.Contains(t, stderr, "negotiation failed")

	_, _, err = env.run("filter", req, filepath.Join(env.dir, "missing.pod"))
	require.Error(t, err)
	require.Equal(t, 1, exitCode(err))
	require.Equal(t, 0, exitCode(nil))
}

func TestFixateAndDumpCommands(t *testing.T) {
	env := newCLIEnv(t)
	path := env.write("fmt.pod", value.Object{
		ObjectType: format.TypeObjectFormat,
		ID:         uint32(format.ParamEnumFormat),
		Props: []value.Prop{
			{Key: uint32(format.FormatMediaType), Value: value.ID(format.MediaAudio)},
			{Key: uint32(format.FormatAudioRate), Value: value.NewRange(value.Int(48000), value.Int(8000), value.Int(96000))},
		},
	})

	stdout, _, err := env.run("fixate", path)
	require.NoError(t, err)
	require.Equal(t, "Object Format id=EnumFormat\n"+
		"  mediaType: Id audio (1)\n"+
		"  rate: Choice None Int\n"+
		"    Int 48000\n"+
		"    Int 8000\n"+
		"    Int 96000\n", stdout)

	stdout, _, err = env.run("dump", path)
	require.NoError(t, err)
	require.Contains(t, stdout, "  rate: Choice Range Int\n")
}

func TestHashCommand(t *testing.T) {
	env := newCLIEnv(t)
	a := env.write("a.pod", value.Struct{value.Int(1), value.String("x")})
	b := env.write("b.pod", value.Struct{value.Int(1), value.String("x")})

	stdout, _, err := env.run("hash", a, b)
	require.NoError(t, err)
	lines := bytes.Split(bytes.TrimSpace([]byte(stdout)), []byte("\n"))
	require.Len(t, lines, 2)
	require.Equal(t, lines[0][:16], lines[1][:16])
}

func TestTypesCommand(t *testing.T) {
	env := newCLIEnv(t)

	stdout, _, err := env.run("types")
	require.NoError(t, err)
	require.Contains(t, stdout, "AudioFormats")
	require.Contains(t, stdout, "ParamIDs")

	stdout, _, err = env.run("types", "audioformats")
	require.NoError(t, err)
	require.Contains(t, stdout, "Spa:Enum:AudioFormat:F32LE")
	require.Contains(t, stdout, "0x11b")

	_, _, err = env.run("types", "nope")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestPackUnpackCommands(t *testing.T) {
	env := newCLIEnv(t)
	files := []string{
		env.write("0.pod", value.Int(1)),
		env.write("1.pod", value.String("two")),
		env.write("2.pod", value.NewEnum(value.ID(3), value.ID(3), value.ID(4))),
	}
	archivePath := filepath.Join(env.dir, "all.podar")

	args := append([]string{"pack", "--compression", "lz4", "-o", archivePath}, files...)
	_, stderr, err := env.run(args...)
	require.NoError(t, err)
	require.Contains(t, stderr, "archive written")

	stdout, _, err := env.run("dump", archivePath)
	require.NoError(t, err)
	require.Contains(t, stdout, "# value 0\nInt 1\n# value 1\nString \"two\"\n# value 2\nChoice Enum Id\n")

	outDir := filepath.Join(env.dir, "out")
	_, _, err = env.run("unpack", archivePath, "-d", outDir)
	require.NoError(t, err)
	for i, f := range files {
		want, err := os.ReadFile(f)
		require.NoError(t, err)
		got, err := os.ReadFile(filepath.Join(outDir, []string{"0000.pod", "0001.pod", "0002.pod"}[i]))
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, _, err = env.run("pack", files[0])
	require.Error(t, err, "output is required")
}

func TestConfig(t *testing.T) {
	env := newCLIEnv(t)
	big := pod.WithByteOrder(endian.GetBigEndianEngine())
	path := env.write("big.pod", value.Int(7), big)

	cfgPath := filepath.Join(env.dir, "podctl.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("byte_order = \"big\"\nlog_level = \"debug\"\n"), 0o600))

	stdout, _, err := env.run("--config", cfgPath, "dump", path)
	require.NoError(t, err)
	require.Equal(t, "Int 7\n", stdout)

	// flags override the file
	_, _, err = env.run("--config", cfgPath, "--byte-order", "little", "dump", path)
	require.ErrorIs(t, err, errs.ErrTruncated)

	_, _, err = env.run("--config", filepath.Join(env.dir, "missing.toml"), "types")
	require.Error(t, err)

	require.NoError(t, os.WriteFile(cfgPath, []byte("compression = \"brotli\"\n"), 0o600))
	_, _, err = env.run("--config", cfgPath, "types")
	require.ErrorIs(t, err, errs.ErrInvalidOption)

	require.NoError(t, os.WriteFile(cfgPath, []byte("max_size = \"big\"\n"), 0o600))
	_, _, err = env.run("--config", cfgPath, "types")
	require.Error(t, err)

	_, _, err = env.run("--max-size", "8", "dump", path)
	require.ErrorContains(t, err, "larger than max size")
}

func TestLoadConfig_Defaults(t *testing.T) {
	newCLIEnv(t)

	cfg, err := loadConfig("")
	require.NoError(t, err)
	require.Equal(t, defaultConfig(), cfg)

	s, err := cfg.validate()
	require.NoError(t, err)
	require.Equal(t, format.CompressionZstd, s.compression)
	require.Equal(t, endian.GetNativeEngine(), s.engine)
}
