package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pgmodel/pgmodel/cmd/build"
	"github.com/pgmodel/pgmodel/internal/logger"
	"github.com/pgmodel/pgmodel/internal/version"
	"github.com/spf13/cobra"
)

var debug bool

var RootCmd = &cobra.Command{
	Use:   "pgmodel",
	Short: "PostgreSQL schema model builder",
	Long: fmt.Sprintf(`pgmodel resolves a PostgreSQL schema into a normalized model for code generation.

Version: %s@%s %s %s

Commands:
  build   Introspect a database and output the resolved schema model

Use "pgmodel [command] --help" for more information about a command.`,
		version.App(), version.GitCommit, version.Platform(), version.BuildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	RootCmd.AddCommand(build.BuildCmd)
	RootCmd.AddCommand(VersionCmd)
}

func setupLogger() {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	logger.SetGlobal(slog.New(handler), debug)
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
