package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Settings holds all configuration options.
type Settings struct {
	// Download settings
	DownloadsPath          string `json:"downloads_path"`
	FileName               string `json:"file_name"`
	MaxConcurrentDownloads int    `json:"max_concurrent_downloads"`

	// Post-processing. ZipFileName and ExtractArchives are mutually
	// exclusive; the download manager rejects configurations setting both.
	ZipFileName     string `json:"zip_file_name"`
	ExtractArchives bool   `json:"extract_archives"`
}

// DefaultSettings returns settings with default values.
//
// Files are saved to the current working directory under their display
// name, one URL at a time, with no post-processing.
func DefaultSettings() *Settings {
	return &Settings{
		DownloadsPath:          ".",
		FileName:               "",
		MaxConcurrentDownloads: 1,

		ZipFileName:     "",
		ExtractArchives: false,
	}
}

// Load reads settings from a JSON file.
//
// A missing file is not an error: defaults are returned so a fresh
// install works without a config file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
