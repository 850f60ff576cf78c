package main

import (
	"context"
	"log/slog"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/garrettladley/gconnect/internal/version"
	"github.com/garrettladley/gconnect/internal/xslog"
)

func main() {
	_ = godotenv.Load()

	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "gconnect",
		Short:   "Garmin Connect data in your terminal",
		Version: version.Get(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			cmd.SetContext(xslog.WithLogger(cmd.Context(), logger))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests to stderr")

	rootCmd.AddCommand(
		loginCmd(),
		logoutCmd(),
		tokenCmd(),
		summaryCmd(),
		activitiesCmd(),
		weightCmd(),
		devicesCmd(),
		downloadCmd(),
	)

	if err := fang.Execute(context.Background(), rootCmd, fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM)); err != nil {
		os.Exit(1)
	}
}
