// Package recovery rebuilds an Ignite engine's in-memory state from the
// on-disk log at Open time. It is grounded directly on the reference
// implementation's KvStore::recover: segments are replayed in ascending
// number order so that a higher segment number always wins, exactly
// matching the compaction invariant that higher numbers hold strictly
// newer data.
package recovery

import (
	"fmt"
	"io"
	"os"

	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/internal/readerset"
	"github.com/ignitedb/ignite/internal/record"
	"github.com/ignitedb/ignite/pkg/segio"
	"go.uber.org/zap"
)

// Result is everything an engine needs to resume operation after a scan.
type Result struct {
	Index         *index.Index
	Readers       *readerset.Set
	MaxSegment    uint32
	Waste         uint64
	SegmentsFound []uint32
}

// Run enumerates every segment file in dir matching prefix, replays their
// records in ascending segment-number order into a fresh index, and
// installs a reader for each segment found. It never errors on an empty or
// brand-new directory: with no segments present, MaxSegment is 0 and Waste
// is 0.
func Run(dir, prefix string, log *zap.SugaredLogger) (*Result, error) {
	segments, err := segio.Discover(dir, prefix)
	if err != nil {
		return nil, fmt.Errorf("recovery: discover segments: %w", err)
	}

	idx := index.New(log)
	readers := readerset.New(log)

	var waste uint64
	for _, seg := range segments {
		path := segio.Path(dir, seg, prefix)
		if err := replaySegment(path, seg, idx, &waste); err != nil {
			readers.Close()
			return nil, fmt.Errorf("recovery: replay segment %d: %w", seg, err)
		}
		if err := readers.Install(seg, path); err != nil {
			readers.Close()
			return nil, fmt.Errorf("recovery: install reader for segment %d: %w", seg, err)
		}
	}

	var maxSegment uint32
	if len(segments) > 0 {
		maxSegment = segments[len(segments)-1]
	}

	log.Infow("recovery complete",
		"segmentsFound", len(segments),
		"maxSegment", maxSegment,
		"liveKeys", idx.Len(),
		"waste", waste,
	)

	return &Result{
		Index:         idx,
		Readers:       readers,
		MaxSegment:    maxSegment,
		Waste:         waste,
		SegmentsFound: segments,
	}, nil
}

// replaySegment streams every record out of the segment at path and folds
// it into idx and waste per spec §4.5: a Set installs (or supersedes) an
// index entry; a Remove evicts one and is itself counted as waste, since it
// carries no live data of its own.
func replaySegment(path string, segment uint32, idx *index.Index, waste *uint64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := record.NewDecoder(f)
	for {
		entry, err := dec.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		length := uint32(entry.End - entry.Begin)
		switch {
		case entry.Record.IsSet():
			evicted := idx.Put(entry.Record.Key, index.RecordPointer{
				SegmentID: segment,
				Offset:    entry.Begin,
				Length:    length,
			})
			*waste += uint64(evicted)
		default:
			evicted, had := idx.Delete(entry.Record.Key)
			if had {
				*waste += uint64(evicted)
			}
			*waste += uint64(length)
		}
	}
}
