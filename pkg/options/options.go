// Package options provides data structures and functions for configuring
// the Ignite database. It defines various parameters that control Ignite's
// storage behavior, performance, and maintenance operations, such as
// directory paths, segment naming, and compaction thresholds.
package options

import (
	"strings"
	"time"
)

// Defines configurable parameters for segment file naming and placement.
type segmentOptions struct {
	// Specifies the subdirectory (relative to DataDir) where segment files
	// are stored.
	//
	// Default: "segments"
	Directory string `json:"directory"`

	// Defines the filename prefix for segment files. Final filename will be
	// `prefix_{n}.txt`, where n is the segment's monotonically increasing
	// number with no zero-padding.
	//
	// Default: "data"
	Prefix string `json:"prefix"`
}

// Defines the configuration parameters for Ignite DB.
// It provides control over storage, performance and maintenance aspects.
type Options struct {
	// Specifies the base path where files will be stored.
	//
	// Default: "/var/lib/ignitedb"
	DataDir string `json:"dataDir"`

	// Defines how often the background compactor re-checks waste. On each
	// tick it compacts if any waste has accumulated, even below
	// WasteThreshold. Compactions at the threshold happen synchronously
	// inside Set/Remove the moment it is crossed; this interval only
	// matters for waste that stays below the threshold.
	//
	// Default: 5h
	CompactInterval time.Duration `json:"compactInterval"`

	// WasteThreshold is the number of estimated-waste bytes (superseded
	// Set records plus Remove records) a directory may accumulate before
	// a compaction is triggered.
	//
	// Default: 1024
	WasteThreshold uint64 `json:"wasteThreshold"`

	// Configures segment file naming and placement.
	SegmentOptions *segmentOptions `json:"segmentOptions"`
}

// OptionFunc is a function type that modifies the Ignite system's configuration.
type OptionFunc func(*Options)

// Applies a predefined set of default configuration values to the Options struct.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		opts := NewDefaultOptions()
		o.DataDir = opts.DataDir
		o.SegmentOptions = opts.SegmentOptions
		o.CompactInterval = opts.CompactInterval
		o.WasteThreshold = opts.WasteThreshold
	}
}

// Sets the primary data directory for Ignite.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// Sets the interval at which the background compactor re-checks waste.
func WithCompactInterval(interval time.Duration) OptionFunc {
	return func(o *Options) {
		if interval > 0 {
			o.CompactInterval = interval
		}
	}
}

// Sets the directory (relative to DataDir) for storing segment files.
func WithSegmentDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.SegmentOptions.Directory = directory
		}
	}
}

// Sets the file name prefix for segment files.
func WithSegmentPrefix(prefix string) OptionFunc {
	return func(o *Options) {
		prefix = strings.TrimSpace(prefix)
		if prefix != "" {
			o.SegmentOptions.Prefix = prefix
		}
	}
}

// Sets the waste threshold, in bytes, that triggers compaction.
func WithWasteThreshold(threshold uint64) OptionFunc {
	return func(o *Options) {
		if threshold > 0 {
			o.WasteThreshold = threshold
		}
	}
}
