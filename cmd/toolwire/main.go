// Package main provides the toolwire CLI entrypoint.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/skosovsky/toolwire"
	"github.com/skosovsky/toolwire/internal/config"
)

var version = "0.1.0"

// app is the state shared by subcommands once the config is loaded.
type app struct {
	env      map[string]string
	cfg      *config.Config
	logger   *slog.Logger
	registry *toolwire.Registry
}

func main() {
	env := map[string]string{
		"TOOLWIRE_CONFIG":    os.Getenv("TOOLWIRE_CONFIG"),
		"TOOLWIRE_LOG_LEVEL": os.Getenv("TOOLWIRE_LOG_LEVEL"),
	}
	if err := newRootCmd(env).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(env map[string]string) *cobra.Command {
	a := &app{env: env}
	var configPath, logLevel string

	rootCmd := &cobra.Command{
		Use:   "toolwire",
		Short: "Decode tool calls from AI responses and redact private data",
		Long: `toolwire extracts tool calls from model output (JSON arrays, XML tags,
fenced code blocks) and applies reversible privacy substitutions.

Tools and privacy pairs are read from a YAML file (--config, $TOOLWIRE_CONFIG,
or ./toolwire.yaml).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				a.env["TOOLWIRE_CONFIG"] = configPath
			}
			if logLevel != "" {
				a.env["TOOLWIRE_LOG_LEVEL"] = logLevel
			}
			return a.init(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		decodeCmd(a),
		redactCmd(a),
		restoreCmd(a),
		validateCmd(a),
		schemaCmd(a),
	)
	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.env)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.Level()}))

	a.registry = toolwire.NewRegistry(cfg.DecoderOptions(a.logger)...)
	if err := a.registry.Register(cfg.Tools...); err != nil {
		return err
	}
	a.registry.Decoder().Use(toolwire.WithLogging(a.logger))

	if err := toolwire.CheckPairs(cfg.Privacy); err != nil {
		a.logger.Warn("privacy pairs may not round-trip", "error", err)
	}
	a.logger.Debug("config loaded", "tools", len(cfg.Tools), "pairs", len(cfg.Privacy))
	return nil
}
