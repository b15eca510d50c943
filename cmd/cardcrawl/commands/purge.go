package commands

import (
	"errors"
	"log/slog"

	"gatherer-crawler/internal/components/chrono"
	"gatherer-crawler/internal/components/telemetry"
	"gatherer-crawler/internal/pagecache"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(purgeCmd)
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Removes expired pages from the page cache.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			fatal("failed to read config", err)
		}
		if cfg.Cache == "" {
			fatal("nothing to purge", errors.New("no cache is configured"))
		}

		cache, err := pagecache.Open(cfg.Cache, cfg.cacheTtl(), chrono.StandardImpl{}, telemetry.SlogAPI{})
		if err != nil {
			fatal("failed to open cache", err)
		}
		defer cache.Close()

		removed, err := cache.Purge(cmd.Context())
		if err != nil {
			fatal("failed to purge cache", err)
		}
		slog.Info("purged cache", "path", cfg.Cache, "removed", removed)
	},
}
