package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gatherer-crawler/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	configPath *string
	debug      *bool
)

var rootCmd = &cobra.Command{
	Use:   "cardcrawl",
	Short: "cardcrawl is a CLI for looking up single cards on gatherer.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if *debug {
			telemetry.InitSlog(true)
		}
	},
}

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "cardcrawl.json5", "The config file to read, it is searched for up from the working directory.")
	debug = rootCmd.PersistentFlags().Bool("debug", false, "Log every request made to gatherer.")
}

func fatal(message string, err error) {
	slog.Error(message, "err", err.Error())
	os.Exit(1)
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
