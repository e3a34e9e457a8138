package model

import "fmt"

// Info holds the resolved metadata of one Zippyshare file.
//
// Info is produced by the page parser and corrected by the finalizer;
// after that it is treated as immutable and owned by the File wrapping
// it. The JSON field names follow the vocabulary the site's pages use.
//
// Size and DateUploaded are kept as the display strings scraped from the
// page ("124.22 MB", "24-11-2022") rather than parsed values: the page
// formats vary between mirrors and nothing downstream needs numbers.
type Info struct {
	// PageURL is the share-page URL the info was resolved from.
	PageURL string `json:"url"`

	// DownloadURL is the direct URL usable for streaming the file's bytes.
	DownloadURL string `json:"download_url"`

	// Name is the display name of the file.
	Name string `json:"name_file"`

	// Size is the display size reported by the share page.
	Size string `json:"size"`

	// DateUploaded is the upload date reported by the share page.
	DateUploaded string `json:"date_upload"`
}

// String renders the info in a compact single-line form for logs.
func (i *Info) String() string {
	return fmt.Sprintf("%s (%s, uploaded %s)", i.Name, i.Size, i.DateUploaded)
}
