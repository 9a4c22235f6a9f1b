// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch holds the input and output-directory conventions shared by
// the resolver and the browser downloader: line-oriented input files,
// sequential NNN.pdf artifacts, and an advisory lock on the output directory.
package batch

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/pdiddy/doi-fetch/pkg/types"
)

const lockFile = ".doi-fetch.lock"

// ErrLocked is returned by LockDir when another process holds the lock.
var ErrLocked = errors.New("output directory is locked by another run")

// ReadLines reads path and returns its non-blank lines, trimmed, in order.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return lines, nil
}

// ArtifactPath returns dir/NNN.pdf for a 1-based input position.
func ArtifactPath(dir string, index int) string {
	return filepath.Join(dir, types.ArtifactName(index))
}

// Exists reports whether a file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LockDir creates dir if needed and takes an exclusive advisory lock on it.
// The returned function releases the lock.
func LockDir(dir string) (func() error, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", dir, err)
	}
	fl := flock.New(filepath.Join(dir, lockFile))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", dir, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", dir, ErrLocked)
	}
	return fl.Unlock, nil
}
