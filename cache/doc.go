// Package cache implements the TTL keyed store backing recorded responses.
//
// Entries carry a creation timestamp and optional metadata and are persisted
// to a JSON file after every mutation. A store can be rescoped to a
// different backing file at runtime; loading a corrupt file self-heals by
// discarding it and starting empty.
package cache
