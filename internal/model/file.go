package model

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"

	"github.com/rossiberto/zippyshare-downloader/internal/http"
	ioutils "github.com/rossiberto/zippyshare-downloader/internal/io"
)

// File represents one resolved remote file.
//
// A File is created after a share page has been successfully resolved and
// wraps the resolved Info. Its only mutation is recording LocalPath once
// a transfer succeeds. Files in a batch are independent of each other.
//
// Example:
//
//	file := model.NewFile(info, client)
//	path, err := file.Download(ctx, &model.DownloadOptions{Dir: "/downloads"})
type File struct {
	// Info is the resolved metadata. Treated as read-only.
	Info *Info

	// LocalPath is the path the file was downloaded to.
	// Empty until a transfer succeeds.
	LocalPath string

	client *http.Client
}

// DownloadOptions configures one transfer.
type DownloadOptions struct {
	// Dir is the destination directory. Defaults to the current
	// working directory.
	Dir string

	// Filename overrides the display name for the saved file.
	Filename string

	// OnProgress is called with (bytesWritten, totalBytes) while the
	// transfer runs. May be nil.
	OnProgress func(written, total int64)
}

// DownloadResult is delivered on the channel returned by DownloadAsync.
type DownloadResult struct {
	Path string
	Err  error
}

// NewFile creates a File wrapping the given resolved info.
//
// The client is used for the byte transfer; it is the same client the
// resolver used for the page fetch so connection reuse and timeouts stay
// consistent.
func NewFile(info *Info, client *http.Client) *File {
	return &File{
		Info:   info,
		client: client,
	}
}

// Name returns the display name, falling back to the last path segment
// of the direct URL when the page carried no name cell.
func (f *File) Name() string {
	if f.Info.Name != "" {
		return f.Info.Name
	}
	if u, err := url.Parse(f.Info.DownloadURL); err == nil && u.Path != "" && u.Path != "/" {
		if base, err := url.PathUnescape(path.Base(u.Path)); err == nil {
			return base
		}
		return path.Base(u.Path)
	}
	return "unknown"
}

// Download transfers the file's bytes to local storage and returns the
// local path, blocking until the transfer completes.
//
// Transport and filesystem errors are returned unchanged; there is no
// retry and no partial-file cleanup.
func (f *File) Download(ctx context.Context, opts *DownloadOptions) (string, error) {
	if opts == nil {
		opts = &DownloadOptions{}
	}

	dest := f.parseFilePath(opts)
	if dir := filepath.Dir(dest); dir != "." {
		if err := ioutils.EnsureDir(dir); err != nil {
			return "", err
		}
	}

	if _, err := f.client.DownloadFile(ctx, f.Info.DownloadURL, dest, opts.OnProgress); err != nil {
		return "", fmt.Errorf("downloading %s: %w", f.Name(), err)
	}

	f.LocalPath = dest
	return dest, nil
}

// DownloadAsync runs the same transfer as Download on its own goroutine
// and delivers one DownloadResult on the returned channel, so callers on
// a cooperative scheduler are never stalled by the byte transfer.
func (f *File) DownloadAsync(ctx context.Context, opts *DownloadOptions) <-chan DownloadResult {
	ch := make(chan DownloadResult, 1)
	go func() {
		p, err := f.Download(ctx, opts)
		ch <- DownloadResult{Path: p, Err: err}
		close(ch)
	}()
	return ch
}

// parseFilePath computes the destination path for this file.
func (f *File) parseFilePath(opts *DownloadOptions) string {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	name := opts.Filename
	if name == "" {
		name = f.Name()
	}

	return filepath.Join(dir, ioutils.SanitizeFileName(name))
}
