package zippyshare

import (
	"context"
	"io"

	"github.com/rossiberto/zippyshare-downloader/internal/http"
	"github.com/rossiberto/zippyshare-downloader/internal/model"
)

// ResolveResult is delivered on the channel returned by ResolveAsync.
type ResolveResult struct {
	Info *model.Info
	Err  error
}

// Resolver turns a share-page URL into a finalized Info.
//
// The resolve sequence is fixed: fetch the page, reject non-2xx
// statuses, check the body for the site's failure markers (expiry
// before non-existence), then hand the body to the parser and the
// result to the finalizer. Each URL gets exactly one fetch attempt.
type Resolver struct {
	client *http.Client

	// Parser and Finalizer are the page-format collaborators. They
	// default to the production implementations and are replaceable,
	// mainly for tests.
	Parser    Parser
	Finalizer Finalizer

	// detect scans a page body for failure markers. Kept as a field so
	// marker detection can change without touching the resolve flow.
	detect func(body string) error
}

// NewResolver creates a Resolver using the given HTTP client.
func NewResolver(client *http.Client) *Resolver {
	return &Resolver{
		client:    client,
		Parser:    NewPageParser(),
		Finalizer: NewFinalizer(),
		detect:    DetectUnavailable,
	}
}

// Resolve fetches and resolves one share page, blocking until done.
//
// Errors:
//   - transport failures from the HTTP layer, unchanged
//   - *StatusError for a non-2xx page status
//   - ErrFileExpired / ErrFileNotFound for the site's failure markers
//   - *ParseError when no known page pattern matches
func (r *Resolver) Resolve(ctx context.Context, url string) (*model.Info, error) {
	resp, err := r.client.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if err := r.detect(string(body)); err != nil {
		return nil, err
	}

	raw, err := r.Parser.Parse(url, string(body))
	if err != nil {
		return nil, err
	}

	return r.Finalizer.Finalize(ctx, r.client, raw)
}

// ResolveAsync runs the identical resolve sequence on its own goroutine
// and delivers one ResolveResult on the returned channel. The client is
// passed to the finalizer as the session handle for any follow-up
// request it needs.
func (r *Resolver) ResolveAsync(ctx context.Context, url string) <-chan ResolveResult {
	ch := make(chan ResolveResult, 1)
	go func() {
		info, err := r.Resolve(ctx, url)
		ch <- ResolveResult{Info: info, Err: err}
		close(ch)
	}()
	return ch
}
