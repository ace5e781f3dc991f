package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kobzarvs/ropedit/internal/app"
	"github.com/kobzarvs/ropedit/internal/logger"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	var (
		debug   bool
		logFile string
	)
	cmd := &cobra.Command{
		Use:           "ropedit [file]",
		Short:         "A small terminal text editor",
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Init(debug, logFile); err != nil {
				return err
			}
			defer logger.Close()
			return app.New(args).Run()
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "log at debug level")
	cmd.Flags().StringVar(&logFile, "log-file", "", "log file (default: ~/.config/ropedit/ropedit.log)")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ropedit:", err)
		os.Exit(1)
	}
}
