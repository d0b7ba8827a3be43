// Package server implements the stdio message server for the pixel-art
// conversion tools.
//
// This package speaks a small newline-delimited JSON protocol over stdio,
// letting a host process (an editor plugin, an Electron shell, a test
// harness) drive conversions without linking against the Go code.
//
// # Protocol
//
//   - Input: one JSON request object per line on stdin
//   - Output: one JSON response object per line on stdout
//
// Supported request types:
//   - pixelate: run the full conversion pipeline on a pixel buffer
//   - suggest: suggest palette additions for an image
//   - extract_palette: extract a representative palette from an image
//   - ping: health check
//
// Requests may carry an optional "id" field, echoed verbatim on the
// response so callers can correlate out-of-order replies.
//
// # Concurrency
//
// Conversion work runs on a dedicated worker goroutine behind a request
// queue. The server keeps reading stdin while work is in flight, so a slow
// conversion never blocks a subsequent request from being queued. Requests
// cannot be canceled once queued; responses arrive in completion order,
// and callers that issue overlapping requests are expected to discard the
// stale result.
//
// # Error Handling
//
// Failures are reported as {"type":"error","message":...} responses on the
// same stream. Malformed lines that cannot be parsed at all are logged to
// stderr and skipped; the server keeps running.
package server
