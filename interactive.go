package main

import (
	"errors"
	"fmt"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
)

// errInteractiveAborted is returned when the user leaves the finder without a selection.
var errInteractiveAborted = errors.New("interactive selection aborted")

// runInteractiveFinder lists the files and directories below root, using the
// same walk filters as a search, and lets the user pick targets.
func runInteractiveFinder(root string, opts WalkOptions) ([]string, error) {
	candidates, err := interactiveCandidates(root, opts)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no files found to select from in %s", root)
	}

	idx, err := fuzzyfinder.FindMulti(
		candidates,
		func(i int) string {
			return candidates[i].Path
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return "Select files to search. Press Tab to multi-select, Enter to confirm."
			}
			return fmt.Sprintf("Path: %s\nSize: %d bytes", candidates[i].Path, candidates[i].Size)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, errInteractiveAborted
		}
		return nil, fmt.Errorf("fuzzy finder error: %w", err)
	}

	selectedPaths := make([]string, len(idx))
	for i, index := range idx {
		selectedPaths[i] = candidates[index].Path
	}
	return selectedPaths, nil
}

// interactiveCandidates walks root recursively and returns the files in
// traversal order. Unreadable directories are left out of the list.
func interactiveCandidates(root string, opts WalkOptions) ([]TraversalEntry, error) {
	opts.Recursive = true
	var candidates []TraversalEntry
	err := walkDirectory(root, root, opts, func(entry TraversalEntry) error {
		if entry.Err == nil {
			candidates = append(candidates, entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning for files: %w", err)
	}
	return candidates, nil
}
