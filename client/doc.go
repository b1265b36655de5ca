// Package client provides the core implementation of the configurable HTTP
// client built on [net/http].
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options. A base
// address is required; everything else is optional:
//
//	c, err := client.Build(
//		client.WithBaseAddress("https://api.example.com"),
//		client.WithHeader("X-Env", "staging"),
//		client.WithAccept(client.ContentTypeJSON, client.ContentTypeXML),
//		client.WithBearerToken(token),
//		client.WithTimeout(10 * time.Second),
//	)
//
// Configured headers, the Accept list, and the credential are stamped on
// every outgoing request unless the request already carries the header.
//
// # Pinning a Trusted Root
//
// [WithTrustedRoot] replaces the platform trust store for this client:
// connections succeed only when the server's chain terminates at the
// pinned certificate. [WithClientCertificate] adds mutual-TLS material
// to the handshake:
//
//	c, err := client.Build(
//		client.WithBaseAddress("https://internal.example.com"),
//		client.WithTrustedRootFromFile("ca.pem"),
//		client.WithClientCertificateFromFiles("client.pem", "client.key"),
//	)
//
// # Making Requests
//
// Build a request against the base address with [Client.NewRequest],
// then execute with [Client.Do]:
//
//	req, err := c.NewRequest(ctx, http.MethodGet, "/v1/resource")
//	err = c.Do(req, http.StatusOK, client.WithDestination(&result))
//
// [Client.Stream] hands back the raw body for incremental reads. Bodies
// larger than the configured [WithMaxResponseSize] cap fail with
// [ErrResponseTooLarge], whether buffered or streamed.
//
// # Downloading Files
//
// Stream a response body directly to disk with optional checksum
// verification and progress reporting:
//
//	err = c.Download(req, http.StatusOK, "/tmp/file.bin",
//		download.WithChecksum(sha256.New(), expectedHex),
//		download.WithProgress(),
//	)
//
// # Async Downloads
//
// A single file can be downloaded asynchronously with [Client.DownloadAsync]:
//
//	r, err := c.DownloadAsync(req, http.StatusOK, "/tmp/file.bin")
//	// ... do other work ...
//	if err := r.Err(); err != nil { ... }
//
// For multiple concurrent downloads, use [WithBatch] to set a concurrency
// limit and [download.Result.Add] to enqueue additional files:
//
//	r, err := c.DownloadAsync(req1, http.StatusOK, "/tmp/a.bin",
//		download.WithBatch(4),
//	)
//	r.Add(req2, http.StatusOK, "/tmp/b.bin")
//	r.Add(req3, http.StatusOK, "/tmp/c.bin")
//	err = r.Wait() // blocks until all downloads finish
//
// For lower-level control see the
// [github.com/SARL-TKHA/HttpClientBuilder/client/download] package.
package client
