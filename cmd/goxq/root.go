package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandrolain/goxq"
)

type rootParams struct {
	configFile string
	logLevel   string
	logFormat  string
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	params := &rootParams{}
	root := &cobra.Command{
		Use:           "goxq",
		Short:         "XML query engine",
		Long:          "Evaluate queries against XML documents and directory trees.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadEnvironment(cmd, params.configFile)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&params.configFile, "config", "", "configuration file (yaml, json or toml)")
	flags.StringVar(&params.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	flags.StringVar(&params.logFormat, "log-format", "text", "log format: text or json")

	root.AddCommand(
		newQueryCommand(params, false),
		newQueryCommand(params, true),
		newVersionCommand(),
	)
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), goxq.Version())
			return err
		},
	}
}

// logger builds the structured logger selected by the log flags. Logs go to w.
func (p *rootParams) logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(p.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", p.logLevel)
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(p.logFormat) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", p.logFormat)
	}
}
