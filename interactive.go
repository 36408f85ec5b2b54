package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
)

// runInteractiveFinder walks the current directory and lets the user pick
// the scan root with a fuzzy finder. Returns "" with a nil error when the
// user aborts the selection.
func runInteractiveFinder() (string, error) {
	candidates := []string{"."}

	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // ignore unreadable entries while collecting candidates
		}
		if path == "." {
			return nil
		}
		candidates = append(candidates, path)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("error scanning for candidates: %w", err)
	}

	idx, err := fuzzyfinder.Find(
		candidates,
		func(i int) string {
			return candidates[i]
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return "Select the directory or file to count tokens in."
			}
			path := candidates[i]
			info, statErr := os.Stat(path)
			if statErr != nil {
				return fmt.Sprintf("Path: %s\nError getting info: %v", path, statErr)
			}
			fileType := "File"
			if info.IsDir() {
				fileType = "Directory"
			}
			return fmt.Sprintf("Path: %s\nType: %s\nSize: %d bytes", path, fileType, info.Size())
		}),
	)
	if err != nil {
		if err == fuzzyfinder.ErrAbort {
			return "", nil
		}
		return "", fmt.Errorf("fuzzy finder error: %w", err)
	}

	return candidates[idx], nil
}
