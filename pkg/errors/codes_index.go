package errors

// Index-specific error codes extend the base taxonomy to the failure modes
// of the in-memory key/location map.
const (
	// ErrorCodeIndexInvalidSegmentID indicates an index entry points at a
	// segment number with no corresponding reader, which can only happen if
	// the index and the reader set have fallen out of sync.
	ErrorCodeIndexInvalidSegmentID ErrorCode = "INDEX_INVALID_SEGMENT_ID"
)
