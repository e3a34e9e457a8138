// Package ioutils provides file system and archive utilities.
//
// This package contains functions for:
//   - Filename sanitization for cross-platform compatibility
//   - Directory creation
//   - In-place extraction of downloaded archives (zip, tar, tar.gz)
//   - Bundling downloaded files into a single zip archive
//
// # Filename Sanitization
//
// Use SanitizeFileName to remove invalid characters from filenames:
//
//	safe := ioutils.SanitizeFileName("report: part 1/2.zip")
//
// # Archive Handling
//
//	// Extract a downloaded archive next to itself; non-archives are a no-op
//	extracted, err := ioutils.ExtractArchive("/downloads/bundle.zip")
//
//	// Bundle batch results into one archive and remove the originals
//	err := ioutils.BundleZip("/downloads/all.zip", []string{"/downloads/a.bin", "/downloads/b.bin"})
package ioutils
