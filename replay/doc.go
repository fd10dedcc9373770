// Package replay orchestrates deterministic record/replay of outbound HTTP
// calls.
//
// The first call for a given logical request executes against the real
// network and its response is serialized into a TTL file cache; every
// subsequent call with the same fingerprint returns the recorded response
// instead of touching the network. Setting the online environment toggle
// bypasses replay entirely for the duration it is set.
//
// # Basic Usage
//
//	r, err := replay.New(replay.Config{CacheName: "api", CacheDir: ".cache"})
//	restore := replay.Install(http.DefaultClient, r)
//	defer restore()
//
// Every step (fingerprinting, serialization, deserialization, or the whole
// intercept) is independently replaceable through functional options,
// enabling full stubbing without touching the store or the codec.
package replay
