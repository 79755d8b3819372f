package options

import "time"

const (
	// Specifies the default base directory where IgniteDB will store its data files.
	// If no other directory is specified during initialization, this path will be used.
	DefaultDataDir = "/var/lib/ignitedb"

	// Defines the default time duration between background waste re-checks.
	// By default, the background compactor re-checks every 5 hours.
	DefaultCompactInterval = time.Hour * 5

	// DefaultWasteThreshold is the default number of waste bytes a directory
	// may accumulate before a compaction is triggered. Chosen to match the
	// reference implementation's threshold so the two remain comparable.
	DefaultWasteThreshold uint64 = 1024

	// Specifies the default subdirectory within the main data directory
	// where segment files will be stored.
	DefaultSegmentDirectory = "segments"

	// Defines the default prefix for segment file names.
	// For example, the first segment file is named "data_0.txt".
	DefaultSegmentPrefix = "data"
)

// Holds the default configuration settings for an IgniteDB instance.
var defaultOptions = Options{
	DataDir:         DefaultDataDir,
	CompactInterval: DefaultCompactInterval,
	WasteThreshold:  DefaultWasteThreshold,
	SegmentOptions: &segmentOptions{
		Prefix:    DefaultSegmentPrefix,
		Directory: DefaultSegmentDirectory,
	},
}

// NewDefaultOptions returns a fresh Options value seeded from the package
// defaults. SegmentOptions is cloned rather than shared, so callers that
// apply WithSegmentDir or WithSegmentPrefix never mutate the shared
// defaultOptions value backing every other caller.
func NewDefaultOptions() Options {
	opts := defaultOptions
	segmentOpts := *defaultOptions.SegmentOptions
	opts.SegmentOptions = &segmentOpts
	return opts
}
