// Package http provides an HTTP client configured for Zippyshare requests.
//
// The Client in this package handles:
//   - User-Agent headers for mirror compatibility
//   - Share-page fetches with the raw response exposed (status checking
//     belongs to the resolver, which turns non-2xx answers into typed errors)
//   - Streaming file downloads with progress tracking
//   - Single-hop redirect probing used during direct-link finalization
//
// # Basic Usage
//
//	client := http.NewClient()
//
//	// Fetch a share page
//	resp, err := client.Fetch(ctx, pageURL)
//
//	// Download the file with a progress callback
//	n, err := client.DownloadFile(ctx, directURL, "/path/to/file.zip", func(written, total int64) {
//	    fmt.Printf("%.1f%%\n", float64(written)/float64(total)*100)
//	})
//
// # Progress Tracking
//
// The ProgressWriter type can be used to wrap any io.Writer for progress
// tracking:
//
//	pw := &http.ProgressWriter{
//	    Writer:   file,
//	    Total:    contentLength,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package http
