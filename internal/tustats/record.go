// Package tustats collects and stores per-compilation translation unit
// statistics: preprocessing and compile timings, include counts, and bounded
// top-N rankings of which include prefixes contribute most to a unit.
package tustats

import "time"

// IncludeContribution is one included file's footprint in a translation unit,
// grouped under a path prefix before aggregation.
type IncludeContribution struct {
	// PathPrefix is the grouping key, typically an include directory.
	PathPrefix string `json:"path_prefix"`

	// SizeBytes is the preprocessed size this file contributed.
	SizeBytes int64 `json:"size_bytes"`
}

// IncludeStats is one ranked group in a top-N include summary.
type IncludeStats struct {
	// PathPrefix is unique within a ranking.
	PathPrefix string `json:"path_prefix"`

	// Count is the number of included files under this prefix.
	Count int `json:"count"`

	// Lines is the cumulative preprocessed size contributed by this prefix.
	Lines int64 `json:"lines"`
}

// TranslationUnitStats is an immutable snapshot of one compilation's
// measurements. It is created once, at the end of a compilation, and never
// mutated afterwards.
type TranslationUnitStats struct {
	// InputFile is the path to the input source file.
	InputFile string `json:"input_file"`

	// PreprocessedSize is the size of the preprocessed unit in bytes.
	PreprocessedSize uint64 `json:"preprocessed_size"`

	// NumIncludes is the number of files included in the unit.
	NumIncludes int `json:"num_includes"`

	// PreprocessDuration is the time taken to preprocess the file.
	PreprocessDuration time.Duration `json:"preprocess_duration"`

	// CompileDuration is the time taken to compile the file.
	CompileDuration time.Duration `json:"compile_duration"`

	// DistRetryCount is the number of distributed-compilation retry
	// attempts (0 if not distributed or no retries).
	DistRetryCount uint32 `json:"dist_retry_count"`

	// IsDistributed reports whether this was a distributed compilation.
	IsDistributed bool `json:"is_distributed"`

	// TopIncludesByCount ranks include prefixes by file count.
	TopIncludesByCount []IncludeStats `json:"top_includes_by_count"`

	// TopIncludesBySize ranks include prefixes by cumulative size.
	TopIncludesBySize []IncludeStats `json:"top_includes_by_size"`

	// Timestamp is when the compilation occurred.
	Timestamp time.Time `json:"timestamp"`
}
