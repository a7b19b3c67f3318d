// Package source fetches homework review statuses from the remote API.
//
// The client performs exactly one HTTP GET per Fetch call and never retries.
// Every failure is returned as a failure.KindSourceUnavailable error whose
// Detail tells transport errors, non-2xx answers and undecodable bodies apart.
// The decoded body is handed out as an opaque Payload; only the homework
// validator is expected to look inside it.
package source
