package tustats

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Sumatoshi-tech/cachefang/internal/config"
)

// Process-wide recording sink. Guarded by recorderMu; the store underneath
// has its own concurrency control, so the mutex scopes only the singleton
// swap and read.
var (
	recorderMu sync.Mutex
	recorder   *Store
)

// InitRecorder installs the process-wide stats sink. With stats disabled it
// is a no-op and the sink stays unset. A second call replaces the previous
// sink and closes the displaced store. The installed store itself is never
// closed explicitly; it lives until process exit.
func InitRecorder(cfg config.TUStatsConfig) error {
	if !cfg.Enabled {
		return nil
	}

	path, err := cfg.ResolveStatsPath()
	if err != nil {
		return fmt.Errorf("init stats recorder: %w", err)
	}

	store, openErr := OpenStore(path)
	if openErr != nil {
		return fmt.Errorf("init stats recorder: %w", openErr)
	}

	recorderMu.Lock()
	old := recorder
	recorder = store
	recorderMu.Unlock()

	// A displaced sink is closed so its directory lock is released.
	if old != nil {
		closeErr := old.Close()
		if closeErr != nil {
			slog.Warn("failed to close replaced stats store", "error", closeErr)
		}
	}

	return nil
}

// RecordStats records one compilation's statistics through the process-wide
// sink. Without an installed sink it does nothing. Failures are logged and
// swallowed: telemetry must never abort or delay the compilation it
// describes, but a record accepted by the store is durable.
func RecordStats(stats TranslationUnitStats) {
	recorderMu.Lock()
	sink := recorder
	recorderMu.Unlock()

	if sink == nil {
		return
	}

	err := sink.Insert(&stats)
	if err != nil {
		recorderMetrics().recordFailure()
		slog.Warn("failed to record translation unit stats", "input_file", stats.InputFile, "error", err)

		return
	}

	recorderMetrics().recordAccepted()
}
