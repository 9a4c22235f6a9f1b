// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials and operator details that should not
// live in the committed config file. Values come from two places: a
// directory of plain-text files, where the filename is the key and the
// trimmed contents are the value, and a dotenv file.
//
// Supported keys: mailto, proxy-prefix.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// envPrefix is stripped from dotenv keys so DOI_FETCH_MAILTO and MAILTO
// both map to "mailto".
const envPrefix = "DOI_FETCH_"

// Load merges secrets from envFile and dir. Files in dir take precedence
// over dotenv entries with the same key. A missing directory or dotenv
// file is not an error. Unreadable secret files produce a warning on
// stderr but do not abort.
func Load(dir, envFile string) (map[string]string, error) {
	secrets := make(map[string]string)

	if envFile != "" {
		env, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			for k, v := range env {
				if v = strings.TrimSpace(v); v != "" {
					secrets[envKey(k)] = v
				}
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("reading env file %s: %w", envFile, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return secrets, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// envKey maps PROXY_PREFIX or DOI_FETCH_PROXY_PREFIX to proxy-prefix.
func envKey(k string) string {
	k = strings.TrimPrefix(strings.ToUpper(k), envPrefix)
	return strings.ReplaceAll(strings.ToLower(k), "_", "-")
}
