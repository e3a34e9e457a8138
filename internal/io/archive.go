package ioutils

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// IsArchive reports whether the file at path has a recognized archive
// extension (.zip, .tar, .tar.gz, .tgz).
func IsArchive(path string) bool {
	name := strings.ToLower(path)
	switch {
	case strings.HasSuffix(name, ".zip"),
		strings.HasSuffix(name, ".tar"),
		strings.HasSuffix(name, ".tar.gz"),
		strings.HasSuffix(name, ".tgz"):
		return true
	}
	return false
}

// ExtractArchive extracts a downloaded archive in place, next to the
// archive file itself.
//
// Non-archive files are left untouched: the first return value reports
// whether an extraction actually happened, so callers can treat
// unrecognized formats as a no-op rather than a failure.
func ExtractArchive(path string) (bool, error) {
	if !IsArchive(path) {
		return false, nil
	}

	dir := filepath.Dir(path)
	name := strings.ToLower(path)
	switch {
	case strings.HasSuffix(name, ".zip"):
		return true, extractZip(path, dir)
	case strings.HasSuffix(name, ".tar"):
		return true, extractTar(path, dir, false)
	default:
		return true, extractTar(path, dir, true)
	}
}

// BundleZip creates a zip archive at zipPath containing every file in
// paths (stored under their base names), then removes the originals.
//
// The archive replaces the originals: this is destructive. A failure
// while writing leaves already-removed files gone; callers wanting
// atomicity must copy first.
func BundleZip(zipPath string, paths []string) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, p := range paths {
		if err := addToZip(zw, p); err != nil {
			zw.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return err
	}

	for _, p := range paths {
		if err := os.Remove(p); err != nil {
			return err
		}
	}
	return nil
}

func addToZip(zw *zip.Writer, path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	w, err := zw.Create(filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(w, in)
	return err
}

func extractZip(path, dir string) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return err
	}
	defer zr.Close()

	for _, f := range zr.File {
		target, err := securePath(dir, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		err = writeEntry(target, rc)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func extractTar(path, dir string, gzipped bool) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	var r io.Reader = in
	if gzipped {
		gz, err := gzip.NewReader(in)
		if err != nil {
			return err
		}
		defer gz.Close()
		r = gz
	}

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		target, err := securePath(dir, hdr.Name)
		if err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			if err := writeEntry(target, tr); err != nil {
				return err
			}
		}
	}
}

// securePath joins an archive entry name to dir, rejecting entries that
// would escape it (zip-slip).
func securePath(dir, name string) (string, error) {
	target := filepath.Join(dir, filepath.Clean(name))
	if !strings.HasPrefix(target, filepath.Clean(dir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry escapes destination: %s", name)
	}
	return target, nil
}

func writeEntry(target string, r io.Reader) error {
	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, r)
	return err
}
