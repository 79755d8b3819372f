// Package compaction rewrites every live record into a fresh segment and
// unlinks the segments that preceded it, reclaiming the space held by
// overwritten and removed records. It is grounded on the reference
// implementation's KvStore::compact.
package compaction

import (
	"fmt"
	"os"

	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/internal/readerset"
	"github.com/ignitedb/ignite/internal/writer"
	"github.com/ignitedb/ignite/pkg/segio"
	"go.uber.org/zap"
)

// Result reports the new writer and segment left active after compaction.
type Result struct {
	Writer        *writer.Writer
	ActiveSegment uint32
}

// Run performs one compaction pass:
//
//  1. Open a new segment (oldActiveSegment+1) and copy every live record's
//     raw bytes into it verbatim, updating the index in place.
//  2. Flush and drop+unlink every segment strictly below the new one.
//  3. Open yet another new segment (+2) as the post-compaction active
//     segment, so the just-compacted segment is treated as immutable live
//     data — no future write ever lands in a segment that also holds
//     pre-existing live records.
//
// Step 2 runs after step 1's segment is fully written and flushed to the
// OS (it is not fsynced), and new writes
// only ever land in a segment created in this call or after it — so a
// crash at any point leaves recovery able to replay the untouched old
// segments first and the partial rewritten segment second, with the
// higher segment number naturally superseding the lower ones (the
// stricter ordering flagged as an open question in the design notes).
func Run(dir, prefix string, idx *index.Index, readers *readerset.Set, oldActiveSegment uint32, log *zap.SugaredLogger) (*Result, error) {
	newSegment := oldActiveSegment + 1
	newPath := segio.Path(dir, newSegment, prefix)

	compactWriter, err := writer.Open(newPath, newSegment, log)
	if err != nil {
		return nil, fmt.Errorf("compaction: open segment %d: %w", newSegment, err)
	}
	if err := readers.Install(newSegment, newPath); err != nil {
		return nil, fmt.Errorf("compaction: install reader for segment %d: %w", newSegment, err)
	}

	snapshot := idx.Snapshot()
	relocated := make(map[string]index.RecordPointer, len(snapshot))
	for key, loc := range snapshot {
		section, err := readers.Section(loc.SegmentID, loc.Offset, loc.Length, key)
		if err != nil {
			return nil, fmt.Errorf("compaction: read source for key %q: %w", key, err)
		}
		begin, end, err := compactWriter.CopyFrom(section)
		if err != nil {
			return nil, fmt.Errorf("compaction: copy key %q into segment %d: %w", key, newSegment, err)
		}
		relocated[key] = index.RecordPointer{
			SegmentID: newSegment,
			Offset:    begin,
			Length:    uint32(end - begin),
		}
	}
	for key, loc := range relocated {
		idx.Update(key, loc)
	}

	log.Infow("compaction rewrote live records",
		"liveKeys", len(relocated),
		"newSegment", newSegment,
		"supersededUpTo", oldActiveSegment,
	)

	var obsolete []uint32
	for seg := uint32(0); seg <= oldActiveSegment; seg++ {
		obsolete = append(obsolete, seg)
	}
	for _, seg := range obsolete {
		if err := readers.Drop(seg); err != nil {
			log.Warnw("compaction: failed to close reader before unlink", "segment", seg, "error", err)
		}
		path := segio.Path(dir, seg, prefix)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Warnw("compaction: failed to unlink superseded segment", "segment", seg, "error", err)
		}
	}

	finalSegment := newSegment + 1
	finalPath := segio.Path(dir, finalSegment, prefix)
	finalWriter, err := writer.Rotate(compactWriter, finalPath, finalSegment, log)
	if err != nil {
		return nil, fmt.Errorf("compaction: open post-compaction active segment %d: %w", finalSegment, err)
	}
	if err := readers.Install(finalSegment, finalPath); err != nil {
		return nil, fmt.Errorf("compaction: install reader for segment %d: %w", finalSegment, err)
	}

	return &Result{Writer: finalWriter, ActiveSegment: finalSegment}, nil
}
