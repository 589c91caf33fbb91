package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// commandContext carries the settings resolved before a command runs.
type commandContext struct {
	configPath  string
	byteOrder   string
	compression string
	logLevel    string
	maxSize     int

	settings settings
	logger   zerolog.Logger
}

// resolve loads the config file and applies the flags the user set.
func (c *commandContext) resolve(cmd *cobra.Command) error {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("byte-order") {
		cfg.ByteOrder = c.byteOrder
	}
	if flags.Changed("compression") {
		cfg.Compression = c.compression
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = c.logLevel
	}
	if flags.Changed("max-size") {
		cfg.MaxSize = c.maxSize
	}

	if c.settings, err = cfg.validate(); err != nil {
		return err
	}
	c.logger = newLogger(cmd.ErrOrStderr(), c.settings.level)

	return nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "podctl",
		Short:         "Inspect, negotiate and archive POD values",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return ctx.resolve(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ctx.configPath, "config", "c", "", "configuration file (default $XDG_CONFIG_HOME/podctl/config.toml)")
	flags.StringVar(&ctx.byteOrder, "byte-order", "", "byte order of values: native, little or big")
	flags.StringVar(&ctx.compression, "compression", "", "archive compression: none, zstd, s2 or lz4")
	flags.StringVar(&ctx.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.IntVar(&ctx.maxSize, "max-size", 0, fmt.Sprintf("largest input file in bytes, 0 for no limit (default %d)", defaultConfig().MaxSize))

	rootCmd.AddCommand(
		newDumpCommand(ctx),
		newFilterCommand(ctx),
		newFixateCommand(ctx),
		newHashCommand(ctx),
		newTypesCommand(ctx),
		newPackCommand(ctx),
		newUnpackCommand(ctx),
	)

	return rootCmd
}
