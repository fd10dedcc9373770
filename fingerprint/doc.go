// Package fingerprint reduces an outbound HTTP request to a deterministic,
// content-addressed cache key plus a human-diffable canonical string.
//
// Volatile parts of a request are normalized away before hashing: the
// authorization header is excluded entirely (tokens rotate and must never
// reach disk), and randomly generated multipart boundaries are stripped so
// byte-identical form payloads fingerprint identically across calls.
package fingerprint
