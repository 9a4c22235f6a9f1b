// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package browse

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// newProfile creates a throwaway browser profile whose preferences save
// PDFs into downloadDir instead of opening them in the built-in viewer, so
// a DOI that redirects straight to a PDF still produces a download event.
func newProfile(downloadDir string) (string, error) {
	profile, err := os.MkdirTemp("", "doi-fetch-profile-*")
	if err != nil {
		return "", fmt.Errorf("creating browser profile: %w", err)
	}
	if err := writePreferences(profile, downloadDir); err != nil {
		os.RemoveAll(profile)
		return "", err
	}
	return profile, nil
}

// writePreferences writes <profile>/Default/Preferences.
func writePreferences(profile, downloadDir string) error {
	prefs := map[string]any{
		"plugins": map[string]any{
			"always_open_pdf_externally": true,
		},
		"download": map[string]any{
			"default_directory":   downloadDir,
			"prompt_for_download": false,
			"directory_upgrade":   true,
		},
		"savefile": map[string]any{
			"default_directory": downloadDir,
		},
	}
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encoding browser preferences: %w", err)
	}

	dir := filepath.Join(profile, "Default")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating profile directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Preferences"), data, 0o644); err != nil {
		return fmt.Errorf("writing browser preferences: %w", err)
	}
	return nil
}
