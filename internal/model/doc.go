// Package model defines the core data structures used throughout
// zippyshare-downloader.
//
// # Info
//
// Info holds the metadata resolved from one share page:
//
//	info.PageURL      // the share page the file was resolved from
//	info.DownloadURL  // the direct URL for the file's bytes
//	info.Name         // display name
//
// # File
//
// File wraps one resolved Info and performs the actual byte transfer:
//
//	file := model.NewFile(info, client)
//	path, err := file.Download(ctx, &model.DownloadOptions{Dir: "/downloads"})
//
// DownloadAsync offers the same transfer without blocking the caller:
//
//	res := <-file.DownloadAsync(ctx, opts)
//	if res.Err != nil { ... }
package model
