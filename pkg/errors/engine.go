package errors

// Engine-level error codes. These are the kinds a caller of the public
// Open/Set/Get/Remove contract actually needs to branch on; they sit above
// the StorageError/IndexError/ValidationError taxonomy, which stays around
// for collecting rich internal context before an operation surfaces one of
// these to its caller.
const (
	// ErrorCodeCodec marks a record that failed to decode, either during
	// recovery or while servicing a Get. It never corrupts the index.
	ErrorCodeCodec ErrorCode = "CODEC_ERROR"

	// ErrorCodeKeyNotFound marks a Remove call for a key the index has no
	// entry for. Never returned by Set.
	ErrorCodeKeyNotFound ErrorCode = "KEY_NOT_FOUND"

	// ErrorCodeUnknownCommandType marks an index entry whose on-disk record
	// decoded to something other than a Set — a log/index inconsistency.
	ErrorCodeUnknownCommandType ErrorCode = "UNKNOWN_COMMAND_TYPE"

	// ErrorCodeChangeEngine marks an Open call against a directory already
	// initialized by a different KvsEngine implementation.
	ErrorCodeChangeEngine ErrorCode = "CHANGE_ENGINE_ERROR"

	// ErrorCodeCommonString is the catch-all for domain-string errors
	// surfaced by collaborators (the thread pool, the server) that don't
	// carry richer structured context.
	ErrorCodeCommonString ErrorCode = "COMMON_STRING_ERROR"
)

// ErrKeyNotFound is returned by Remove when the key has no live index entry.
// It is a sentinel so callers can compare with errors.Is.
var ErrKeyNotFound = NewIndexError(nil, ErrorCodeKeyNotFound, "key not found").WithOperation("Remove")

// ErrUnknownCommandType is returned when an index location decodes to a
// Remove record instead of the Set it is required to point at.
var ErrUnknownCommandType = NewStorageError(nil, ErrorCodeUnknownCommandType, "index points at a non-Set record")

// ErrChangeEngine is the sentinel form of the error for a data directory
// whose engine-type sentinel does not match the engine being opened.
// kvengine.EnsureSentinel returns its own ValidationError with the same code
// and rule plus details, so callers test with IsChangeEngineError rather
// than errors.Is.
var ErrChangeEngine = NewValidationError(nil, ErrorCodeChangeEngine, "cannot change engine type after initialization").WithRule("engine_type_immutable")

// NewCodecError wraps a decode failure encountered during recovery or Get.
func NewCodecError(err error, context string) *StorageError {
	return NewStorageError(err, ErrorCodeCodec, "failed to decode record").WithDetail("context", context)
}

// NewCommonStringError builds the catch-all error kind for collaborators
// (thread pool, server) that only have a message to report.
func NewCommonStringError(msg string) error {
	return NewBaseError(nil, ErrorCodeCommonString, msg)
}

// IsKeyNotFound reports whether err is (or wraps) ErrKeyNotFound.
func IsKeyNotFound(err error) bool {
	ie, ok := AsIndexError(err)
	return ok && ie.Code() == ErrorCodeKeyNotFound
}

// IsChangeEngineError reports whether err is (or wraps) a ValidationError
// carrying ErrorCodeChangeEngine, such as ErrChangeEngine.
func IsChangeEngineError(err error) bool {
	ve, ok := AsValidationError(err)
	return ok && ve.Code() == ErrorCodeChangeEngine
}
