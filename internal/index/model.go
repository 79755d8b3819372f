package index

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// RecordPointer is the absolute minimum metadata needed to locate and
// retrieve a Set record from disk: which segment it lives in, where it
// starts, and how many bytes it occupies. Every currently-live key maps to
// exactly one of these. Field order follows Go's struct alignment rules
// (largest fields first) to avoid padding, since this struct is the
// dominant memory cost of a large store held entirely in RAM.
type RecordPointer struct {
	// Offset is the byte position within the segment where the record's
	// encoding begins.
	Offset int64

	// SegmentID identifies which segment file holds this record. A
	// compact uint32 instead of a string path keeps the per-entry
	// footprint small across millions of keys.
	SegmentID uint32

	// Length is the total number of encoded bytes the record occupies,
	// letting a read fetch exactly the right byte range in one seek+read.
	Length uint32
}

// Index is the in-memory hash table mapping each live key to the location
// of its latest Set record. It is the sole source of truth for what "live"
// means in an Ignite store between recovery passes: a key absent from the
// map is logically deleted regardless of what Set records for it remain on
// disk in older segments.
type Index struct {
	log     *zap.SugaredLogger
	mu      sync.RWMutex
	entries map[string]RecordPointer
	closed  atomic.Bool
}

// New creates an empty Index ready for concurrent use.
func New(log *zap.SugaredLogger) *Index {
	return &Index{log: log, entries: make(map[string]RecordPointer, 1024)}
}
