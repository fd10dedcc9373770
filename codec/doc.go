// Package codec losslessly serializes an HTTP response to a string and
// reconstructs an equivalent response from it.
//
// Four body shapes are supported, selected by content type: plain text,
// JSON, binary payloads (stored as a base64 envelope), and event streams
// (stored as an ordered chunk sequence and replayed through a finite,
// single-pass reader). Status, status text, and the full header list are
// preserved verbatim for every shape.
package codec
