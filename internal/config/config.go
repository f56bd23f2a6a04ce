// Package config loads cachefang configuration from file, environment, and
// defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// toolCacheDirName is the cachefang subdirectory of the user cache dir.
const toolCacheDirName = "cachefang"

// statsFileName is the default stats store name inside the tool cache dir.
const statsFileName = "tu_stats.db"

// ErrResolveStatsPath indicates no default stats path could be resolved.
var ErrResolveStatsPath = errors.New("resolve default stats path")

// Config holds all cachefang configuration.
type Config struct {
	// TUStats configures translation unit statistics collection.
	TUStats TUStatsConfig `mapstructure:"tu_stats"`
}

// TUStatsConfig configures the translation unit statistics recorder.
type TUStatsConfig struct {
	// Enabled turns stats collection on. Off by default.
	Enabled bool `mapstructure:"enabled"`

	// StatsFile overrides the store location. Empty selects the default
	// path under the tool cache directory.
	StatsFile string `mapstructure:"stats_file"`
}

// ResolveStatsPath returns the configured stats store path, falling back to
// the default under the tool cache directory.
func (c TUStatsConfig) ResolveStatsPath() (string, error) {
	if c.StatsFile != "" {
		return c.StatsFile, nil
	}

	return DefaultStatsPath()
}

// DefaultStatsPath returns <user cache dir>/cachefang/tu_stats.db.
func DefaultStatsPath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrResolveStatsPath, err)
	}

	return filepath.Join(cacheDir, toolCacheDirName, statsFileName), nil
}
