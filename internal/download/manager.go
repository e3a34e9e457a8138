package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/rossiberto/zippyshare-downloader/internal/config"
	"github.com/rossiberto/zippyshare-downloader/internal/http"
	ioutils "github.com/rossiberto/zippyshare-downloader/internal/io"
	"github.com/rossiberto/zippyshare-downloader/internal/model"
	"github.com/rossiberto/zippyshare-downloader/internal/zippyshare"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// ErrZipUnzipConflict is returned when a batch is configured to both
// bundle results into a zip and extract downloaded archives. The check
// runs before any network activity.
var ErrZipUnzipConflict = errors.New("zip and unzip options cannot be set together")

// InfoResolver is the share-page resolution collaborator of the
// Manager. Satisfied by *zippyshare.Resolver; replaceable for tests.
type InfoResolver interface {
	Resolve(ctx context.Context, url string) (*model.Info, error)
	ResolveAsync(ctx context.Context, url string) <-chan zippyshare.ResolveResult
}

// BatchResult is delivered on the channel returned by DownloadAsync.
type BatchResult struct {
	Files []*model.File
	Err   error
}

// FileResult is delivered on the channel returned by ExtractInfoAsync.
type FileResult struct {
	File *model.File
	Err  error
}

// Manager coordinates batch downloads across multiple share URLs.
//
// Each URL goes through one resolve+download cycle; cycles run strictly
// in input order unless MaxConcurrentDownloads raises the fan-out limit.
// The first failing URL aborts the whole batch; files already on disk
// from earlier cycles stay there.
//
// A Manager may run batches one after another; each Download call resets
// the accumulated files and progress counters. Batches must not overlap.
type Manager struct {
	settings *config.Settings
	client   *http.Client

	// Resolver resolves share pages. Defaults to the production
	// zippyshare resolver.
	Resolver InfoResolver

	files []*model.File
	paths []string

	receivedBytes   int64
	downloadedFiles int32
	totalFiles      int32

	onProgress func(ProgressEvent)
	onBytes    func(written, total int64)
}

// NewManager creates a new download Manager.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	client := http.NewClient()
	return &Manager{
		settings:   settings,
		client:     client,
		Resolver:   zippyshare.NewResolver(client),
		onProgress: onProgress,
	}
}

// SetByteProgress installs a per-transfer byte progress callback,
// receiving (bytesWritten, totalBytes) for the file currently moving.
// With fan-out enabled the callback is invoked from multiple goroutines.
func (m *Manager) SetByteProgress(fn func(written, total int64)) {
	m.onBytes = fn
}

// Download runs a batch over urls in input order, blocking until the
// batch completes or its first failure.
//
// Returned files are in input order and include the file whose download
// failed, if any. Post-processing follows the settings: per-file archive
// extraction, or zip bundling of all results (mutually exclusive).
func (m *Manager) Download(ctx context.Context, urls []string) ([]*model.File, error) {
	return m.run(ctx, urls, false)
}

// DownloadAsync runs the identical batch on its own goroutine, driving
// each cycle through the non-blocking resolver and transfer paths, and
// delivers one BatchResult on the returned channel.
func (m *Manager) DownloadAsync(ctx context.Context, urls []string) <-chan BatchResult {
	ch := make(chan BatchResult, 1)
	go func() {
		files, err := m.run(ctx, urls, true)
		ch <- BatchResult{Files: files, Err: err}
		close(ch)
	}()
	return ch
}

// ExtractInfo resolves a single URL and, when download is set, transfers
// the file (honoring the configured filename override) and optionally
// extracts it. The resolved File is returned whether or not a download
// happened. No zip bundling: bundling needs peer files.
func (m *Manager) ExtractInfo(ctx context.Context, url string, download, unzip bool) (*model.File, error) {
	return m.extractInfo(ctx, url, download, unzip, false)
}

// ExtractInfoAsync is the non-blocking counterpart of ExtractInfo.
func (m *Manager) ExtractInfoAsync(ctx context.Context, url string, download, unzip bool) <-chan FileResult {
	ch := make(chan FileResult, 1)
	go func() {
		file, err := m.extractInfo(ctx, url, download, unzip, true)
		ch <- FileResult{File: file, Err: err}
		close(ch)
	}()
	return ch
}

// GetProgress returns current batch progress.
func (m *Manager) GetProgress() (receivedBytes int64, filesDone, filesTotal int32) {
	return atomic.LoadInt64(&m.receivedBytes),
		atomic.LoadInt32(&m.downloadedFiles),
		atomic.LoadInt32(&m.totalFiles)
}

// Files returns the resolved files so far, in input order.
func (m *Manager) Files() []*model.File {
	return m.files
}

// FileNames returns display names of the resolved files so far.
func (m *Manager) FileNames() []string {
	names := make([]string, len(m.files))
	for i, f := range m.files {
		names[i] = f.Name()
	}
	return names
}

// DownloadedPaths returns the local paths recorded so far, parallel to
// the successfully downloaded files, in input order.
func (m *Manager) DownloadedPaths() []string {
	out := make([]string, len(m.paths))
	copy(out, m.paths)
	return out
}

// run is the single batch algorithm behind both Download and
// DownloadAsync; async selects which resolver/transfer call shape each
// cycle uses.
func (m *Manager) run(ctx context.Context, urls []string, async bool) ([]*model.File, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}

	// Each batch starts from a clean slate so a reused Manager never
	// bundles or counts files from an earlier run.
	m.files = nil
	m.paths = nil
	atomic.StoreInt64(&m.receivedBytes, 0)
	atomic.StoreInt32(&m.downloadedFiles, 0)
	atomic.StoreInt32(&m.totalFiles, int32(len(urls)))

	if m.settings.MaxConcurrentDownloads > 1 {
		return m.runFanOut(ctx, urls, async)
	}

	for _, url := range urls {
		// The batch deliberately ignores the filename override: a fixed
		// name would make every file overwrite the previous one.
		file, path, err := m.processURL(ctx, url, async, false)
		if file != nil {
			m.files = append(m.files, file)
		}
		if err != nil {
			return m.files, err
		}
		m.paths = append(m.paths, path)
	}

	if err := m.bundle(); err != nil {
		return m.files, err
	}
	return m.files, nil
}

// runFanOut drives the same per-URL cycle through a bounded errgroup.
// Results keep input ordering via indexed slots; the first error cancels
// the remaining cycles.
func (m *Manager) runFanOut(ctx context.Context, urls []string, async bool) ([]*model.File, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.settings.MaxConcurrentDownloads)

	files := make([]*model.File, len(urls))
	paths := make([]string, len(urls))

	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			file, path, err := m.processURL(gctx, url, async, false)
			files[i] = file
			paths[i] = path
			return err
		})
	}
	err := g.Wait()

	for i := range files {
		if files[i] == nil {
			continue
		}
		m.files = append(m.files, files[i])
		if paths[i] != "" {
			m.paths = append(m.paths, paths[i])
		}
	}
	if err != nil {
		return m.files, err
	}

	if err := m.bundle(); err != nil {
		return m.files, err
	}
	return m.files, nil
}

// processURL runs one resolve+download cycle. The returned File is
// non-nil as soon as resolution succeeded, even if the transfer failed.
func (m *Manager) processURL(ctx context.Context, url string, async, useFilenameOverride bool) (*model.File, string, error) {
	m.progress(LevelVerbose, "Resolving %s", url)

	info, err := m.resolveOne(ctx, url, async)
	if err != nil {
		m.progress(LevelError, "Error resolving %s: %v", url, err)
		return nil, "", err
	}

	file := model.NewFile(info, m.client)
	m.progress(LevelInfo, "Found file: %s", info)

	opts := &model.DownloadOptions{
		Dir:        m.settings.DownloadsPath,
		OnProgress: m.onBytes,
	}
	if useFilenameOverride {
		opts.Filename = m.settings.FileName
	}

	path, err := m.downloadOne(ctx, file, opts, async)
	if err != nil {
		m.progress(LevelError, "Error downloading %s: %v", file.Name(), err)
		return file, "", err
	}

	atomic.AddInt32(&m.downloadedFiles, 1)
	if fi, statErr := os.Stat(path); statErr == nil {
		atomic.AddInt64(&m.receivedBytes, fi.Size())
	}
	m.progress(LevelVerbose, "Downloaded: %s", filepath.Base(path))

	if m.settings.ExtractArchives {
		extracted, err := ioutils.ExtractArchive(path)
		if err != nil {
			m.progress(LevelError, "Error extracting %s: %v", filepath.Base(path), err)
			return file, path, err
		}
		if extracted {
			m.progress(LevelSuccess, "Extracted %s", filepath.Base(path))
		}
	}

	return file, path, nil
}

func (m *Manager) resolveOne(ctx context.Context, url string, async bool) (*model.Info, error) {
	if async {
		res := <-m.Resolver.ResolveAsync(ctx, url)
		return res.Info, res.Err
	}
	return m.Resolver.Resolve(ctx, url)
}

func (m *Manager) downloadOne(ctx context.Context, file *model.File, opts *model.DownloadOptions, async bool) (string, error) {
	if async {
		res := <-file.DownloadAsync(ctx, opts)
		return res.Path, res.Err
	}
	return file.Download(ctx, opts)
}

// bundle writes every downloaded file into the configured zip archive,
// placed next to the first downloaded file, and removes the originals.
func (m *Manager) bundle() error {
	if m.settings.ZipFileName == "" || len(m.paths) == 0 {
		return nil
	}

	zipPath := filepath.Join(filepath.Dir(m.paths[0]), m.settings.ZipFileName)
	m.progress(LevelInfo, "Zipping all downloaded files to %s", zipPath)

	if err := ioutils.BundleZip(zipPath, m.paths); err != nil {
		m.progress(LevelError, "Error zipping downloaded files: %v", err)
		return err
	}

	m.progress(LevelSuccess, "Successfully zipped all downloaded files to %s", zipPath)
	return nil
}

func (m *Manager) extractInfo(ctx context.Context, url string, download, unzip, async bool) (*model.File, error) {
	info, err := m.resolveOne(ctx, url, async)
	if err != nil {
		return nil, err
	}
	file := model.NewFile(info, m.client)
	m.progress(LevelInfo, "Found file: %s", info)

	if !download {
		return file, nil
	}

	opts := &model.DownloadOptions{
		Dir:        m.settings.DownloadsPath,
		Filename:   m.settings.FileName,
		OnProgress: m.onBytes,
	}
	path, err := m.downloadOne(ctx, file, opts, async)
	if err != nil {
		return nil, err
	}
	m.progress(LevelVerbose, "Downloaded: %s", filepath.Base(path))

	if unzip {
		if _, err := ioutils.ExtractArchive(path); err != nil {
			return nil, err
		}
	}
	return file, nil
}

func (m *Manager) validate() error {
	if m.settings.ZipFileName != "" && m.settings.ExtractArchives {
		return ErrZipUnzipConflict
	}
	return nil
}

func (m *Manager) progress(level ProgressLevel, format string, args ...any) {
	if m.onProgress != nil {
		m.onProgress(ProgressEvent{
			Message: fmt.Sprintf(format, args...),
			Level:   level,
		})
	}
}
