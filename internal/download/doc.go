// Package download provides the batch orchestration logic for resolving
// and downloading files from Zippyshare share URLs.
//
// # Manager
//
// The Manager drives one resolve+download cycle per input URL:
//
//  1. Resolve the share page into a direct link
//  2. Download the file to the configured directory
//  3. Optionally extract the file in place if it is an archive
//  4. After all URLs, optionally bundle every result into one zip
//     archive (replacing the originals)
//
// Zip bundling and per-file extraction are mutually exclusive; asking
// for both fails with ErrZipUnzipConflict before any network call.
//
// # Basic Usage
//
//	manager := download.NewManager(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	files, err := manager.Download(ctx, urls)
//
// # Failure model
//
// The batch is fail-fast: the first URL that cannot be resolved or
// downloaded aborts the run, later URLs are never fetched, and files
// already written stay on disk. There is no error aggregation and no
// rollback.
//
// # Blocking and non-blocking paths
//
// Download blocks the caller; DownloadAsync runs the identical batch on
// a worker goroutine and delivers one BatchResult on a channel. Both
// paths share a single implementation, differing only in which call
// shape each cycle uses, so their observable behavior cannot drift.
//
// # Concurrency
//
// Cycles run strictly sequentially by default. Settings can raise
// MaxConcurrentDownloads to fan cycles out through a bounded errgroup;
// result ordering then still equals input ordering.
//
// # Progress Tracking
//
// Progress is reported via a callback that receives ProgressEvent
// values with Info/Verbose/Warning/Error/Success levels; per-transfer
// byte counts flow through SetByteProgress.
package download
