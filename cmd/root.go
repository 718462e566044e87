// Package cmd implements the CLI commands for coursegrab using Cobra.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gaurav-prasanna/coursegrab/config"
	"github.com/spf13/cobra"
)

// Persistent flag variables.
var (
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "coursegrab",
	Short: "Download course lessons from LinkedIn Learning and Teachable",
	Long: `coursegrab drives a Chromium tab through a course, lesson by lesson, and
saves each lesson's video, attachments or quiz under a sortable file name.

Usage:
  coursegrab download [course-url] [flags]
  coursegrab list [course-url] [flags]`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", config.DefaultFile, "Config file (json5); a .local variant next to it overrides it")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output")
}

// Execute runs the root command. SIGINT and SIGTERM cancel the run between
// polls, leaving no partial files behind.
func Execute() {
	if err := rootCmd.ExecuteContext(signalContext()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func signalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		slog.Warn("interrupted, stopping after the current step")
		cancel()
	}()

	return ctx
}
