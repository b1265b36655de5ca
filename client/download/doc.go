// Package download streams HTTP response bodies to disk with optional
// checksum validation and progress reporting.
//
// # Single Download
//
// [Handle] writes the response body to a temporary file alongside the
// destination path, then atomically renames it on success:
//
//	err := download.Handle(ctx, resp.Body, resp.ContentLength, destPath, logger,
//		download.WithChecksum(sha256.New(), expectedHex),
//	)
//
// # Batched Downloads
//
// A [Group] runs downloads concurrently under one limit; each [Result]
// tracks a single file while [Result.Wait] collects the whole batch.
//
// Most callers should use the higher-level
// [github.com/SARL-TKHA/HttpClientBuilder/client] package, which invokes
// Handle internally and re-exports all download options as
// client.With* functions.
package download
