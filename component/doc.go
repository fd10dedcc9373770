// Package component defines the lifecycle interface shared by rereplay's
// managed pieces (the cache store, the replayer). Test helpers in the
// testutil package operate on these interfaces.
package component
