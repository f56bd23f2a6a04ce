package tustats

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
)

// ErrStoreOpen indicates the store path is unusable (permissions, corrupt
// on-disk structure, or a collision with a non-store file).
var ErrStoreOpen = errors.New("open stats store")

// ErrStoreWrite indicates a record could not be serialized or written.
var ErrStoreWrite = errors.New("write stats record")

// ErrStoreRead indicates a stored value could not be read back or decoded.
var ErrStoreRead = errors.New("read stats record")

// keyTimestampLayout formats the timestamp half of a record key. Nanosecond
// precision keeps repeated compilations of the same file from colliding.
const keyTimestampLayout = time.RFC3339Nano

// Store is durable storage for translation unit statistics, backed by an
// embedded ordered key-value engine. Insert and Scan are safe for concurrent
// use; the engine is the sole serialization point.
type Store struct {
	db *pebble.DB
}

// OpenStore opens or creates a store rooted at path.
func OpenStore(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreOpen, err)
	}

	return &Store{db: db}, nil
}

// Insert writes one record under a key derived from its timestamp and input
// file, then forces a synchronous durability barrier: once Insert returns,
// the record survives an immediate crash. Records with identical timestamp
// and input file collide last-write-wins.
func (s *Store) Insert(stats *TranslationUnitStats) error {
	value, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}

	setErr := s.db.Set(recordKey(stats), value, pebble.Sync)
	if setErr != nil {
		return fmt.Errorf("%w: %w", ErrStoreWrite, setErr)
	}

	return nil
}

// Scan returns every stored record. Order is an implementation detail;
// callers needing chronological order must sort by Timestamp themselves.
// A record that fails to decode halts the scan with an error rather than
// being skipped, since silent loss during analysis is worse than a halted
// query.
func (s *Store) Scan() ([]TranslationUnitStats, error) {
	iter, err := s.db.NewIter(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreRead, err)
	}

	var records []TranslationUnitStats

	for iter.First(); iter.Valid(); iter.Next() {
		var stats TranslationUnitStats

		unmarshalErr := json.Unmarshal(iter.Value(), &stats)
		if unmarshalErr != nil {
			closeErr := iter.Close()

			return nil, fmt.Errorf("%w: decode %q: %w", ErrStoreRead, iter.Key(), errors.Join(unmarshalErr, closeErr))
		}

		records = append(records, stats)
	}

	closeErr := iter.Close()
	if closeErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreRead, closeErr)
	}

	return records, nil
}

// Close releases the store. The global recorder never calls this; it is for
// query-path callers and tests.
func (s *Store) Close() error {
	err := s.db.Close()
	if err != nil {
		return fmt.Errorf("close stats store: %w", err)
	}

	return nil
}

// recordKey derives the storage key from timestamp and input file so that
// repeated compilations of the same file at different times stay distinct.
func recordKey(stats *TranslationUnitStats) []byte {
	return []byte(stats.Timestamp.UTC().Format(keyTimestampLayout) + ":" + stats.InputFile)
}
