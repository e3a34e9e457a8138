package model

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	httpc "github.com/rossiberto/zippyshare-downloader/internal/http"
)

func TestInfo_String(t *testing.T) {
	info := &Info{
		Name:         "report.pdf",
		Size:         "1.2 MB",
		DateUploaded: "24-11-2022",
	}
	want := "report.pdf (1.2 MB, uploaded 24-11-2022)"
	if got := info.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestFile_Name(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{
			name: "display name from page",
			info: Info{Name: "My File.zip", DownloadURL: "https://www1.zippyshare.com/d/abc/1/other.zip"},
			want: "My File.zip",
		},
		{
			name: "fallback to url segment",
			info: Info{DownloadURL: "https://www1.zippyshare.com/d/abc/1/My%20File.zip"},
			want: "My File.zip",
		},
		{
			name: "nothing to go on",
			info: Info{},
			want: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFile(&tt.info, nil)
			if got := f.Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFile_Download(t *testing.T) {
	content := []byte("file payload bytes")
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Write(content)
	}))
	defer srv.Close()

	dir := t.TempDir()
	f := NewFile(&Info{
		Name:        "payload.bin",
		DownloadURL: srv.URL + "/d/abc/1/payload.bin",
	}, httpc.NewClient())

	var lastWritten int64
	path, err := f.Download(context.Background(), &DownloadOptions{
		Dir: dir,
		OnProgress: func(written, total int64) {
			lastWritten = written
		},
	})
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	if path != filepath.Join(dir, "payload.bin") {
		t.Errorf("path = %q", path)
	}
	if f.LocalPath != path {
		t.Errorf("LocalPath = %q, want %q", f.LocalPath, path)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content = %q, want %q", got, content)
	}
	if lastWritten != int64(len(content)) {
		t.Errorf("last progress written = %d, want %d", lastWritten, len(content))
	}
}

func TestFile_DownloadFilenameOverride(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	f := NewFile(&Info{
		Name:        "original.bin",
		DownloadURL: srv.URL + "/d/abc/1/original.bin",
	}, httpc.NewClient())

	path, err := f.Download(context.Background(), &DownloadOptions{Dir: dir, Filename: "renamed.bin"})
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if filepath.Base(path) != "renamed.bin" {
		t.Errorf("saved as %q, want renamed.bin", filepath.Base(path))
	}
}

func TestFile_DownloadAsync(t *testing.T) {
	content := []byte("async payload")
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Write(content)
	}))
	defer srv.Close()

	dir := t.TempDir()
	f := NewFile(&Info{
		Name:        "async.bin",
		DownloadURL: srv.URL + "/d/abc/1/async.bin",
	}, httpc.NewClient())

	res := <-f.DownloadAsync(context.Background(), &DownloadOptions{Dir: dir})
	if res.Err != nil {
		t.Fatalf("DownloadAsync failed: %v", res.Err)
	}

	got, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content = %q, want %q", got, content)
	}
}

func TestFile_DownloadTransportError(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFile(&Info{
		Name:        "gone.bin",
		DownloadURL: srv.URL + "/d/abc/1/gone.bin",
	}, httpc.NewClient())

	if _, err := f.Download(context.Background(), &DownloadOptions{Dir: t.TempDir()}); err == nil {
		t.Fatal("expected error for non-200 download")
	}
	if f.LocalPath != "" {
		t.Errorf("LocalPath = %q, want empty after failed transfer", f.LocalPath)
	}
}
