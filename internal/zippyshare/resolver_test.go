package zippyshare

import (
	"context"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	httpc "github.com/rossiberto/zippyshare-downloader/internal/http"
	"github.com/rossiberto/zippyshare-downloader/internal/model"
)

// stubParser returns a fixed Info for any page.
type stubParser struct {
	info model.Info
}

func (s *stubParser) Parse(pageURL, body string) (*model.Info, error) {
	info := s.info
	info.PageURL = pageURL
	return &info, nil
}

// stubFinalizer passes the info through and records whether it ran.
type stubFinalizer struct {
	called bool
}

func (s *stubFinalizer) Finalize(ctx context.Context, client *httpc.Client, info *model.Info) (*model.Info, error) {
	s.called = true
	return info, nil
}

func newTestResolver(body string, status int) (*Resolver, *httptest.Server) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	return NewResolver(httpc.NewClient()), srv
}

func TestDetectUnavailable(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{
			name: "expiry marker",
			body: "<html>File has expired and does not exist anymore on this server</html>",
			want: ErrFileExpired,
		},
		{
			name: "not-found marker",
			body: "<html>File does not exist on this server</html>",
			want: ErrFileNotFound,
		},
		{
			name: "both markers, expiry wins",
			body: "File does not exist on this server ... File has expired and does not exist anymore on this server",
			want: ErrFileExpired,
		},
		{
			name: "clean page",
			body: "<html>Download</html>",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectUnavailable(tt.body); !errors.Is(got, tt.want) {
				t.Errorf("DetectUnavailable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolver_ExpiredFile(t *testing.T) {
	r, srv := newTestResolver("<html>File has expired and does not exist anymore on this server</html>", nethttp.StatusOK)
	defer srv.Close()

	_, err := r.Resolve(context.Background(), srv.URL)
	if !errors.Is(err, ErrFileExpired) {
		t.Errorf("Resolve() error = %v, want ErrFileExpired", err)
	}
}

func TestResolver_MissingFile(t *testing.T) {
	r, srv := newTestResolver("<html>File does not exist on this server</html>", nethttp.StatusOK)
	defer srv.Close()

	_, err := r.Resolve(context.Background(), srv.URL)
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Resolve() error = %v, want ErrFileNotFound", err)
	}
}

func TestResolver_BadStatus(t *testing.T) {
	r, srv := newTestResolver("gone", nethttp.StatusNotFound)
	defer srv.Close()

	_, err := r.Resolve(context.Background(), srv.URL)

	var serr *StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("Resolve() error = %T, want *StatusError", err)
	}
	if serr.StatusCode != nethttp.StatusNotFound {
		t.Errorf("StatusCode = %d, want %d", serr.StatusCode, nethttp.StatusNotFound)
	}
	if serr.URL != srv.URL {
		t.Errorf("URL = %q, want %q", serr.URL, srv.URL)
	}
}

func TestResolver_Success(t *testing.T) {
	r, srv := newTestResolver("<html>Download</html>", nethttp.StatusOK)
	defer srv.Close()

	fin := &stubFinalizer{}
	r.Parser = &stubParser{info: model.Info{
		DownloadURL:  "https://www1.zippyshare.com/d/abc/42/file.zip",
		Name:         "file.zip",
		Size:         "1.2 MB",
		DateUploaded: "24-11-2022",
	}}
	r.Finalizer = fin

	info, err := r.Resolve(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !fin.called {
		t.Error("finalizer was not invoked")
	}
	if info.Name != "file.zip" || info.PageURL != srv.URL {
		t.Errorf("unexpected info: %+v", info)
	}
}

func TestResolver_AsyncMatchesBlocking(t *testing.T) {
	r, srv := newTestResolver("<html>Download</html>", nethttp.StatusOK)
	defer srv.Close()

	r.Parser = &stubParser{info: model.Info{
		DownloadURL:  "https://www1.zippyshare.com/d/abc/42/file.zip",
		Name:         "file.zip",
		Size:         "1.2 MB",
		DateUploaded: "24-11-2022",
	}}
	r.Finalizer = &stubFinalizer{}

	blocking, err := r.Resolve(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	res := <-r.ResolveAsync(context.Background(), srv.URL)
	if res.Err != nil {
		t.Fatalf("ResolveAsync failed: %v", res.Err)
	}

	if !reflect.DeepEqual(blocking, res.Info) {
		t.Errorf("async info %+v differs from blocking info %+v", res.Info, blocking)
	}
}

func TestFinalizer_RelativeURL(t *testing.T) {
	fin := NewFinalizer()
	info := &model.Info{
		PageURL:     "https://www9.zippyshare.com/v/abc/file.html",
		DownloadURL: "/d/abc/42/report%20final.zip",
	}

	out, err := fin.Finalize(context.Background(), nil, info)
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	if out.DownloadURL != "https://www9.zippyshare.com/d/abc/42/report%20final.zip" {
		t.Errorf("DownloadURL = %q", out.DownloadURL)
	}
	if out.Name != "report final.zip" {
		t.Errorf("Name = %q, want %q", out.Name, "report final.zip")
	}
	if info.DownloadURL != "/d/abc/42/report%20final.zip" {
		t.Error("input info was mutated")
	}
}

func TestFinalizer_Redirect(t *testing.T) {
	target := "https://edge3.zippyshare.com/d/abc/42/file.zip"
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		nethttp.Redirect(w, r, target, nethttp.StatusFound)
	}))
	defer srv.Close()

	fin := &StandardFinalizer{FollowRedirect: true}
	info := &model.Info{
		PageURL:     srv.URL + "/v/abc/file.html",
		DownloadURL: srv.URL + "/d/abc/42/file.zip",
	}

	out, err := fin.Finalize(context.Background(), httpc.NewClient(), info)
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if out.DownloadURL != target {
		t.Errorf("DownloadURL = %q, want %q", out.DownloadURL, target)
	}
}
