package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/schollz/progressbar/v3"

	"github.com/rossiberto/zippyshare-downloader/internal/config"
	"github.com/rossiberto/zippyshare-downloader/internal/download"
)

func main() {
	// Command line flags
	var (
		urlsFlag     = flag.String("url", "", "Zippyshare URL(s) to download (comma-separated or newline-separated)")
		outputFlag   = flag.String("output", "", "Output directory (overrides config)")
		configFlag   = flag.String("config", "", "Path to config file")
		zipFlag      = flag.String("zip", "", "Bundle all downloaded files into this zip archive")
		unzipFlag    = flag.Bool("unzip", false, "Extract downloaded archives in place")
		filenameFlag = flag.String("filename", "", "Filename override (single URL only; ignored for batches)")
		workersFlag  = flag.Int("workers", 0, "Max concurrent downloads (overrides config)")
		infoOnlyFlag = flag.Bool("info-only", false, "Resolve URLs and print file info without downloading")
		verboseFlag  = flag.Bool("verbose", false, "Show verbose output")
	)

	flag.Parse()

	// CLI mode - require URL
	if *urlsFlag == "" && flag.NArg() == 0 {
		fmt.Println("Zippyshare Downloader - Download files from Zippyshare share links")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  zippyshare-dl -url <URL> [options]")
		fmt.Println("  zippyshare-dl <URL> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: zippyshare-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *outputFlag != "" {
		settings.DownloadsPath = *outputFlag
	}
	if *zipFlag != "" {
		settings.ZipFileName = *zipFlag
	}
	if *unzipFlag {
		settings.ExtractArchives = true
	}
	if *filenameFlag != "" {
		settings.FileName = *filenameFlag
	}
	if *workersFlag > 0 {
		settings.MaxConcurrentDownloads = *workersFlag
	}

	urls := collectURLs(*urlsFlag, flag.Args())
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "No valid URLs given")
		os.Exit(1)
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	// Create manager with progress callback
	manager := download.NewManager(settings, func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := ""
		switch event.Level {
		case download.LevelError:
			prefix = "✗ "
		case download.LevelWarning:
			prefix = "! "
		case download.LevelSuccess:
			prefix = "✓ "
		case download.LevelInfo:
			prefix = "› "
		default:
			prefix = "  "
		}

		fmt.Println(prefix + event.Message)
	})

	if *infoOnlyFlag {
		runInfoOnly(ctx, manager, urls)
		return
	}

	// Byte progress rendering for the file currently transferring.
	manager.SetByteProgress(newByteProgress().update)

	files, err := manager.Download(ctx, urls)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nDownload cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	received, done, total := manager.GetProgress()
	fmt.Println()
	fmt.Printf("✨ Complete! Downloaded %d/%d files (%.2f MB)\n", done, total, float64(received)/1024/1024)
	for _, f := range files {
		if f.LocalPath != "" {
			fmt.Printf("   %s\n", f.LocalPath)
		}
	}
}

// byteProgress renders a byte progress bar for the file currently
// transferring, starting a fresh bar whenever a new transfer begins.
// The manager invokes the callback from multiple goroutines when
// concurrent downloads are enabled, so all state sits behind a mutex.
type byteProgress struct {
	mu sync.Mutex

	newBar func(total int64) *progressbar.ProgressBar

	bar         *progressbar.ProgressBar
	barTotal    int64
	lastWritten int64
}

func newByteProgress() *byteProgress {
	return &byteProgress{
		newBar: func(total int64) *progressbar.ProgressBar {
			return progressbar.DefaultBytes(total, "downloading")
		},
		barTotal: -1,
	}
}

func (p *byteProgress) update(written, total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil || total != p.barTotal || written < p.lastWritten {
		p.bar = p.newBar(total)
		p.barTotal = total
	}
	p.lastWritten = written
	p.bar.Set64(written)
}

// runInfoOnly resolves each URL and prints the file info as JSON.
func runInfoOnly(ctx context.Context, manager *download.Manager, urls []string) {
	for _, url := range urls {
		file, err := manager.ExtractInfo(ctx, url, false, false)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resolving %s: %v\n", url, err)
			os.Exit(1)
		}
		out, err := json.MarshalIndent(file.Info, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
	}
}

// collectURLs merges -url values and positional arguments into one list.
func collectURLs(flagValue string, args []string) []string {
	var raw []string
	raw = append(raw, strings.FieldsFunc(flagValue, func(r rune) bool {
		return r == ',' || r == '\n'
	})...)
	raw = append(raw, args...)

	var urls []string
	for _, u := range raw {
		u = strings.TrimSpace(u)
		if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
			urls = append(urls, u)
		}
	}
	return urls
}
