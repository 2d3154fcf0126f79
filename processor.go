package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
)

// stdinTarget is the target naming standard input.
const stdinTarget = "-"

// WalkOptions controls how targets are expanded into files.
type WalkOptions struct {
	Recursive    bool
	SkipHidden   bool
	UseGitignore bool
	MaxDepth     int   // 0 for no limit; 1 means direct children only
	MaxSize      int64 // 0 for no limit

	Includes    []string // file name globs; empty keeps everything
	Excludes    []string // file name globs
	ExcludeDirs []string // directory name globs
	Types       []string // language names, see language.go
	Langs       *LoadedLanguageData
}

// visitFunc receives every entry produced while resolving a target. Returning
// an error stops the resolution and is passed back to the caller.
type visitFunc func(entry TraversalEntry) error

// resolveTarget expands a single local target. Standard input and regular
// files yield one entry; directories are walked when opts.Recursive is set.
func resolveTarget(target string, opts WalkOptions, visit visitFunc) error {
	if target == stdinTarget {
		return visit(TraversalEntry{Path: stdinTarget, Label: "(standard input)"})
	}

	info, err := os.Stat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %w", ErrTargetNotFound, err)
		}
		return err
	}

	if info.IsDir() {
		if !opts.Recursive {
			return ErrIsDirectory
		}
		return walkDirectory(target, target, opts, visit)
	}

	return visit(TraversalEntry{
		Path:  target,
		Label: target,
		Size:  info.Size(),
	})
}

// frontierItem is a pending path in a directory walk.
type frontierItem struct {
	path  string
	label string
	depth int
	dir   bool
}

// walkDirectory visits every regular file below root in lexical depth-first
// order. It keeps an explicit stack instead of recursing, so depth is bounded
// by memory. Symbolic links and other non-regular entries are skipped.
// Labels are built from label plus the path relative to root.
func walkDirectory(root, label string, opts WalkOptions, visit visitFunc) error {
	parsedIncludes := opts.Includes
	parsedExcludes := opts.Excludes

	var ignoreMatcher gitignore.IgnoreMatcher
	if opts.UseGitignore {
		gitIgnorePath := filepath.Join(root, ".gitignore")
		if _, err := os.Stat(gitIgnorePath); err == nil {
			matcher, err := gitignore.NewGitIgnore(gitIgnorePath)
			if err != nil {
				logger.Warn("could not parse .gitignore", "path", gitIgnorePath, "err", err)
			} else {
				ignoreMatcher = matcher
			}
		}
	}

	stack := []frontierItem{{path: root, label: label, dir: true}}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !item.dir {
			info, err := os.Lstat(item.path)
			if err != nil {
				if err := visit(TraversalEntry{Path: item.path, Label: item.label, Err: err}); err != nil {
					return err
				}
				continue
			}
			if opts.MaxSize > 0 && info.Size() > opts.MaxSize {
				logger.Debug("skipping large file", "path", item.path, "size", info.Size())
				continue
			}
			entry := TraversalEntry{
				Path:  item.path,
				Label: item.label,
				Size:  info.Size(),
			}
			if err := visit(entry); err != nil {
				return err
			}
			continue
		}

		entries, err := os.ReadDir(item.path)
		if err != nil {
			if err := visit(TraversalEntry{Path: item.path, Label: item.label, Err: err}); err != nil {
				return err
			}
			continue
		}

		// Push in reverse so the smallest name is popped first.
		for i := len(entries) - 1; i >= 0; i-- {
			d := entries[i]
			baseName := d.Name()
			childPath := filepath.Join(item.path, baseName)
			child := frontierItem{
				path:  childPath,
				label: joinLabel(item.label, baseName),
				depth: item.depth + 1,
				dir:   d.IsDir(),
			}

			if d.Type()&fs.ModeSymlink != 0 {
				continue
			}
			if !child.dir && !d.Type().IsRegular() {
				continue
			}
			if opts.MaxDepth > 0 && child.depth > opts.MaxDepth {
				continue
			}
			if opts.SkipHidden && isHidden(baseName) {
				continue
			}
			if ignoreMatcher != nil && ignoreMatcher.Match(childPath, child.dir) {
				continue
			}

			if child.dir {
				excluded, err := matchesAnyPattern(baseName, opts.ExcludeDirs)
				if err != nil {
					return err
				}
				if !excluded {
					stack = append(stack, child)
				}
				continue
			}

			keep, err := keepFileName(childPath, parsedIncludes, parsedExcludes, opts)
			if err != nil {
				return err
			}
			if keep {
				stack = append(stack, child)
			}
		}
	}
	return nil
}

// keepFileName applies the include, exclude and language filters to a file
// found during a walk.
func keepFileName(path string, includes, excludes []string, opts WalkOptions) (bool, error) {
	baseName := filepath.Base(path)

	excluded, err := matchesAnyPattern(baseName, excludes)
	if err != nil {
		return false, err
	}
	if excluded {
		return false, nil
	}

	if len(includes) > 0 {
		included, err := matchesAnyPattern(baseName, includes)
		if err != nil {
			return false, err
		}
		if !included {
			return false, nil
		}
	}

	if len(opts.Types) > 0 {
		lang, ok := opts.Langs.GetLanguageForFile(path)
		if !ok || !containsFold(opts.Types, lang) {
			return false, nil
		}
	}
	return true, nil
}

// joinLabel appends name to a display label without cleaning it, so a
// target given as "./d" yields "./d/a.txt".
func joinLabel(label, name string) string {
	if strings.HasSuffix(label, "/") || strings.HasSuffix(label, string(filepath.Separator)) {
		return label + name
	}
	return label + string(filepath.Separator) + name
}

// parsePatterns splits a comma-separated string of patterns into a slice.
func parsePatterns(patterns string) []string {
	if patterns == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(patterns, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// matchesAnyPattern checks if the given name matches any of the provided glob patterns.
func matchesAnyPattern(name string, patterns []string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, name)
		if err != nil {
			return false, fmt.Errorf("invalid glob pattern '%s': %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

// validatePatterns rejects malformed globs before any target is touched.
func validatePatterns(patterns []string) error {
	_, err := matchesAnyPattern("", patterns)
	return err
}

// isHidden checks if a file name is hidden (starts with '.').
func isHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	baseName := filepath.Base(name)
	return len(baseName) > 0 && baseName[0] == '.'
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
