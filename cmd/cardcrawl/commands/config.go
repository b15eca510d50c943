package commands

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gatherer-crawler/internal/gatherer"
	"gatherer-crawler/lib/configutil"
)

type Config struct {
	Gatherer gatherer.Options `json:"gatherer"`
	// Cache is the path of the sqlite page cache, caching is disabled when
	// it is empty.
	Cache string `json:"cache"`
	// CacheTtlHours is how long a cached page stays fresh.
	CacheTtlHours int `json:"cache_ttl_hours"`
}

func DefaultConfig() Config {
	return Config{
		Gatherer:      gatherer.DefaultOptions(),
		CacheTtlHours: 24 * 7,
	}
}

func (c Config) cacheTtl() time.Duration {
	return time.Duration(c.CacheTtlHours) * time.Hour
}

// loadConfig reads the config at `path` and fills in the defaults, a missing
// file is the same as an empty one. Relative paths are searched for up from
// the working directory.
func loadConfig(path string) (Config, error) {
	read := configutil.ReadRecursively[Config]
	if filepath.IsAbs(path) {
		read = configutil.ReadConfig[Config]
	}

	cfg, err := read(path)
	if os.IsNotExist(err) {
		slog.Debug("no config file found, using defaults", "path", path)
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, err
	}
	return configutil.WithDefaults(cfg, DefaultConfig())
}
