package tustats

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/cachefang/internal/config"
)

// resetRecorder detaches any installed sink. Recorder tests share the
// process-wide singleton, so they do not run in parallel.
func resetRecorder(t *testing.T) {
	t.Helper()

	recorderMu.Lock()
	old := recorder
	recorder = nil
	recorderMu.Unlock()

	if old != nil {
		require.NoError(t, old.Close())
	}
}

func TestInitRecorder_DisabledIsNoOp(t *testing.T) {
	resetRecorder(t)

	require.NoError(t, InitRecorder(config.TUStatsConfig{Enabled: false}))

	recorderMu.Lock()
	sink := recorder
	recorderMu.Unlock()

	assert.Nil(t, sink)

	// Recording without a sink performs no I/O and never fails.
	RecordStats(sampleStats("src/main.cc", time.Now()))
}

func TestInitRecorder_InstallsSinkAndRecords(t *testing.T) {
	resetRecorder(t)

	path := filepath.Join(t.TempDir(), "tu_stats.db")

	require.NoError(t, InitRecorder(config.TUStatsConfig{Enabled: true, StatsFile: path}))

	defer resetRecorder(t)

	stats := sampleStats("src/main.cc", time.Date(2026, 8, 2, 8, 0, 0, 0, time.UTC))

	RecordStats(stats)

	recorderMu.Lock()
	sink := recorder
	recorderMu.Unlock()

	require.NotNil(t, sink)

	records, err := sink.Scan()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, stats, records[0])
}

func TestInitRecorder_ReinitReplacesAndClosesSink(t *testing.T) {
	resetRecorder(t)

	dir := t.TempDir()
	firstPath := filepath.Join(dir, "first.db")
	secondPath := filepath.Join(dir, "second.db")

	require.NoError(t, InitRecorder(config.TUStatsConfig{Enabled: true, StatsFile: firstPath}))

	RecordStats(sampleStats("src/a.cc", time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)))

	require.NoError(t, InitRecorder(config.TUStatsConfig{Enabled: true, StatsFile: secondPath}))

	defer resetRecorder(t)

	RecordStats(sampleStats("src/b.cc", time.Date(2026, 8, 2, 9, 30, 0, 0, time.UTC)))

	// The displaced store was closed: its directory lock is released, so
	// reopening the path succeeds and shows only the pre-replacement record.
	first, err := OpenStore(firstPath)
	require.NoError(t, err)

	defer func() {
		require.NoError(t, first.Close())
	}()

	firstRecords, scanErr := first.Scan()
	require.NoError(t, scanErr)
	require.Len(t, firstRecords, 1)
	assert.Equal(t, "src/a.cc", firstRecords[0].InputFile)

	// The record after reinit landed in the replacement store.
	recorderMu.Lock()
	second := recorder
	recorderMu.Unlock()

	secondRecords, err := second.Scan()
	require.NoError(t, err)
	require.Len(t, secondRecords, 1)
	assert.Equal(t, "src/b.cc", secondRecords[0].InputFile)
}

func TestInitRecorder_OpenFailurePropagates(t *testing.T) {
	resetRecorder(t)

	// A plain file where the store should go makes open fail.
	path := filepath.Join(t.TempDir(), "blocked")
	writeFile(t, path, "in the way")

	err := InitRecorder(config.TUStatsConfig{Enabled: true, StatsFile: path})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreOpen)
}
