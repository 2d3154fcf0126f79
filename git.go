package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// isGitURL checks if the input string looks like a Git repository URL.
// Only a .git suffix or the git@ SSH form count; plain https URLs are web targets.
func isGitURL(input string) bool {
	if input == stdinTarget {
		return false
	}
	if _, err := os.Stat(input); err == nil {
		return false // an existing local path always wins
	}
	return strings.HasSuffix(input, ".git") ||
		strings.HasPrefix(input, "git@")
}

// cloneGitRepo clones a Git repository URL into a temporary directory.
// It returns the path to the temporary directory or an error. Clone progress
// goes to progress when it is non-nil.
func cloneGitRepo(url string, progress io.Writer) (string, error) {
	tempDir, err := os.MkdirTemp("", "grepr-git-")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary directory: %w", err)
	}

	logger.Debug("cloning git repository", "url", url, "dir", tempDir)

	_, err = git.PlainClone(tempDir, false, &git.CloneOptions{
		URL:           url,
		Progress:      progress,
		Depth:         1,
		ReferenceName: plumbing.HEAD,
		SingleBranch:  true,
	})
	if err != nil {
		_ = os.RemoveAll(tempDir)
		return "", fmt.Errorf("failed to clone repository: %w", err)
	}

	logger.Debug("finished cloning", "url", url)
	return tempDir, nil
}
