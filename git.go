package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// isGitURL checks if the input string looks like a Git repository URL.
func isGitURL(input string) bool {
	return strings.HasSuffix(input, ".git") ||
		strings.HasPrefix(input, "git@")
}

// cloneGitRepo clones a repository URL into a temporary directory so it can
// be scanned like any local tree. Only the default branch is fetched, at
// depth 1, since token counting never needs history. The caller removes the
// returned directory when the run ends.
func cloneGitRepo(url string) (string, error) {
	tempDir, err := os.MkdirTemp("", "toksum-git-")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary directory: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Cloning %s into %s...\n", url, tempDir)

	_, err = git.PlainClone(tempDir, false, &git.CloneOptions{
		URL:           url,
		ReferenceName: plumbing.HEAD,
		SingleBranch:  true,
		Depth:         1,
	})
	if err != nil {
		_ = os.RemoveAll(tempDir)
		return "", fmt.Errorf("failed to clone repository '%s': %w", url, err)
	}

	return tempDir, nil
}
