package zippyshare

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFileExpired is returned when the share page reports that the file
// has expired and no longer exists on the server. Terminal; retrying the
// same URL cannot succeed.
var ErrFileExpired = errors.New("file has expired and does not exist anymore on this server")

// ErrFileNotFound is returned when the share page reports that the file
// does not exist on the server. Terminal, like ErrFileExpired.
var ErrFileNotFound = errors.New("file does not exist on this server")

// StatusError reports a non-2xx HTTP status on the share-page fetch.
// The fetch is attempted exactly once; a StatusError is terminal for
// that URL.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d fetching %s", e.StatusCode, e.URL)
}

// ParseError reports that the share page did not match any known page
// format (missing download-button script, unmatched pattern, missing
// script variables).
type ParseError struct {
	URL    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %s", e.URL, e.Reason)
}

// Site failure markers. Detection is a literal substring search over the
// raw page body, exactly as the site renders them. The expiry marker
// must be checked first: both strings can co-occur and expiry wins.
const (
	markerExpired  = "File has expired and does not exist anymore on this server"
	markerNotFound = "File does not exist on this server"
)

// DetectUnavailable scans a share-page body for the site's failure
// markers and returns the matching sentinel error, or nil if the page
// looks like it carries a file.
func DetectUnavailable(body string) error {
	if strings.Contains(body, markerExpired) {
		return ErrFileExpired
	}
	if strings.Contains(body, markerNotFound) {
		return ErrFileNotFound
	}
	return nil
}
