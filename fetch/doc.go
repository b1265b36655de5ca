// Package fetch layers one-call GET helpers over a configured
// [client.Client]: grab a response body as text, bytes, or a stream, or
// save it straight to disk.
//
// # Fetching
//
// Build a client, wrap it in a [Service], and fetch by URI. Relative
// URIs resolve against the client's base address:
//
//	c, err := client.Build(client.WithBaseAddress("https://releases.example.com"))
//	svc, err := fetch.New(c)
//
//	notes, err := svc.Text(ctx, "/v2.1/RELEASE_NOTES.txt")
//	archive, err := svc.Bytes(ctx, "/v2.1/schema.json")
//
// Every fetch expects a 200 OK; other statuses surface as
// [client.UnexpectedStatusError]. Bodies larger than the client's
// configured cap fail with [client.ErrResponseTooLarge].
//
// # Streaming and Downloads
//
// [Service.Stream] hands back the raw body for incremental reads, and
// [Service.Download] persists it to a path, with
// [Service.DownloadAsync] as the non-blocking variant:
//
//	err := svc.Download(ctx, "/v2.1/dist.tar.gz", "/tmp/dist.tar.gz",
//		download.WithChecksum(sha256.New(), expectedHex),
//	)
//
// See [github.com/SARL-TKHA/HttpClientBuilder/client] for the full set
// of client options and
// [github.com/SARL-TKHA/HttpClientBuilder/client/download] for download
// options.
package fetch
