package main

import (
	"io"
	"log"
	"log/slog"
	"os"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/spf13/cobra"

	"github.com/matt-g-everett/cardtx/config"
)

type commandContext struct {
	configPath string
	verbose    bool

	cfg *config.Config
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.verbose {
		cfg.LogLevel = "debug"
	}
	c.cfg = cfg
	return cfg, nil
}

func (c *commandContext) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if c.cfg != nil {
		_ = level.UnmarshalText([]byte(c.cfg.LogLevel))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "cardtx",
		Short:         "Scroll driven card reveal transmitter",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&ctx.configPath, "config", "c", "", "YAML or TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&ctx.verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newPreviewCommand(ctx))
	rootCmd.AddCommand(newStatesCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

// routeMQTTLogs sends paho's error output to stderr.
func routeMQTTLogs() {
	mqtt.ERROR = log.New(os.Stderr, "mqtt: ", 0)
	mqtt.CRITICAL = log.New(os.Stderr, "mqtt: ", 0)
}
