package zippyshare

import (
	"context"
	"net/url"
	"path"

	"github.com/rossiberto/zippyshare-downloader/internal/http"
	"github.com/rossiberto/zippyshare-downloader/internal/model"
)

// Finalizer normalizes a parsed Info before it is considered
// authoritative.
//
// The client argument is the session handle of the resolve in progress:
// a finalizer may use it for one lightweight follow-up request (e.g.
// resolving a redirect on the direct URL). Implementations must accept a
// nil client and then skip any network work.
type Finalizer interface {
	Finalize(ctx context.Context, client *http.Client, info *model.Info) (*model.Info, error)
}

// StandardFinalizer corrects the fields the page parser cannot produce
// on its own:
//
//   - a relative DownloadURL is resolved against the share page's
//     scheme and host
//   - a missing display name is derived from the direct URL's last path
//     segment, URL-unescaped
//   - optionally, one no-redirect probe replaces the direct URL with the
//     Location a mirror answers with
//
// The input Info is never mutated; a corrected copy is returned.
type StandardFinalizer struct {
	// FollowRedirect enables the single probe request against the
	// direct URL. Off by default: most mirrors serve the file at the
	// constructed URL directly.
	FollowRedirect bool
}

// NewFinalizer creates a StandardFinalizer with default behavior.
func NewFinalizer() *StandardFinalizer {
	return &StandardFinalizer{}
}

// Finalize returns a corrected copy of info.
func (f *StandardFinalizer) Finalize(ctx context.Context, client *http.Client, info *model.Info) (*model.Info, error) {
	out := *info

	if out.DownloadURL != "" && out.DownloadURL[0] == '/' {
		base, err := url.Parse(out.PageURL)
		if err != nil {
			return nil, &ParseError{URL: out.PageURL, Reason: "invalid share page url: " + err.Error()}
		}
		out.DownloadURL = base.Scheme + "://" + base.Host + out.DownloadURL
	}

	if f.FollowRedirect && client != nil {
		loc, err := client.ResolveRedirect(ctx, out.DownloadURL)
		if err != nil {
			return nil, err
		}
		if loc != "" {
			out.DownloadURL = loc
		}
	}

	if out.Name == "" {
		out.Name = nameFromURL(out.DownloadURL)
	}

	return &out, nil
}

func nameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return ""
	}
	base := path.Base(u.Path)
	if unescaped, err := url.PathUnescape(base); err == nil {
		return unescaped
	}
	return base
}
