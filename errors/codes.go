package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Canonicalization errors (caller bugs, surfaced loudly)
const (
	// ErrCodeUnstableCanonicalization indicates a request field could not be
	// rendered to stable text and would have produced a meaningless cache key.
	ErrCodeUnstableCanonicalization ErrorCode = "UNSTABLE_CANONICALIZATION"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Storage errors
const (
	// ErrCodeCorruptCacheFile indicates the cache file on disk could not be
	// parsed. Recovered locally by discarding the file.
	ErrCodeCorruptCacheFile ErrorCode = "CORRUPT_CACHE_FILE"
	// ErrCodeMalformedCacheEntry indicates a single stored entry is not a
	// valid serialized response. Surfaced to the caller on replay.
	ErrCodeMalformedCacheEntry ErrorCode = "MALFORMED_CACHE_ENTRY"
	// ErrCodeStorageIO indicates a filesystem read or write failed.
	ErrCodeStorageIO ErrorCode = "STORAGE_IO"
)

var recoverableCodes = map[ErrorCode]bool{
	ErrCodeCorruptCacheFile: true,
}

// IsRecoverableCode returns true if the error code indicates a condition the
// library heals locally rather than surfacing as a failure.
func IsRecoverableCode(code ErrorCode) bool {
	return recoverableCodes[code]
}
