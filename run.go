package main

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Config is the fully resolved configuration of a run.
type Config struct {
	Pattern string
	Targets []string

	Match MatchOptions
	Scan  ScanOptions
	Walk  WalkOptions

	WithFilename bool
	LineNumbers  bool

	TraverseLinks bool
	LinkDepth     int

	Verbose bool
}

// Searcher runs a search over a list of targets. It owns the single Matcher
// of the run and hands every file to the scanner and the printer in turn.
type Searcher struct {
	cfg     Config
	matcher *Matcher
	printer *Printer
	stdin   io.Reader
}

// NewSearcher compiles the pattern and validates the walk filters. Any error
// here is fatal to the run: no target has been touched yet.
func NewSearcher(cfg Config, stdin io.Reader, printer *Printer) (*Searcher, error) {
	matcher, err := NewMatcher(cfg.Pattern, cfg.Match)
	if err != nil {
		return nil, err
	}
	for _, patterns := range [][]string{cfg.Walk.Includes, cfg.Walk.Excludes, cfg.Walk.ExcludeDirs} {
		if err := validatePatterns(patterns); err != nil {
			return nil, err
		}
	}
	for _, name := range cfg.Walk.Types {
		if !cfg.Walk.Langs.HasLanguage(name) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownType, name)
		}
	}
	if len(cfg.Targets) == 0 {
		cfg.Targets = []string{stdinTarget}
	}

	printer.CountOnly = cfg.Scan.CountOnly
	printer.Invert = cfg.Scan.Invert
	printer.WithFilename = cfg.WithFilename
	printer.LineNumbers = cfg.LineNumbers

	logger.Debug("pattern compiled", "regexp", matcher.String(), "ignore_case", matcher.IgnoreCase())
	return &Searcher{cfg: cfg, matcher: matcher, printer: printer, stdin: stdin}, nil
}

// Run processes every target in order. Failures are reported and skipped;
// a bad target never hides results from the others.
func (s *Searcher) Run() RunSummary {
	var summary RunSummary
	for _, target := range s.cfg.Targets {
		summary.Targets++
		files, failed, err := s.searchTarget(target, &summary)
		if err != nil {
			s.printer.Failure(target, err)
			summary.FailedTargets++
			continue
		}
		if files > 0 && failed == files {
			summary.FailedTargets++
		}
	}
	if s.printer.report != nil {
		s.printer.report.Summary = summary
	}
	return summary
}

// searchTarget resolves one target and scans each file it denotes. It returns
// how many files were reached and how many of them failed; err is set only
// when the target itself could not be resolved.
func (s *Searcher) searchTarget(target string, summary *RunSummary) (files, failed int, err error) {
	logger.Debug("resolving target", "target", target)

	visit := func(entry TraversalEntry) error {
		files++
		summary.Files++
		outcome := s.scanEntry(entry)
		if outcome.Err != nil {
			failed++
			summary.FailedFiles++
		} else {
			summary.SelectedLines += outcome.Selected(s.cfg.Scan.Invert)
		}
		s.printer.Outcome(outcome)
		return nil
	}

	switch {
	case isWebURL(target):
		err = fetchWebTargets(target, s.cfg.TraverseLinks, s.cfg.LinkDepth, visit)
	case isGitURL(target):
		err = s.searchGitTarget(target, visit)
	default:
		err = resolveTarget(target, s.cfg.Walk, visit)
	}
	return files, failed, err
}

// searchGitTarget clones a repository and walks the working tree. Labels use
// the URL in place of the temporary directory.
func (s *Searcher) searchGitTarget(url string, visit visitFunc) error {
	if !s.cfg.Walk.Recursive {
		return ErrIsDirectory
	}
	tempDir, err := cloneGitRepo(url, s.cloneProgress())
	if err != nil {
		return err
	}
	defer func() {
		logger.Debug("removing clone", "dir", tempDir)
		_ = os.RemoveAll(tempDir)
	}()

	opts := s.cfg.Walk
	opts.ExcludeDirs = append([]string{".git"}, opts.ExcludeDirs...)
	return walkDirectory(tempDir, strings.TrimSuffix(url, "/"), opts, visit)
}

// cloneProgress returns where clone progress is written: the error stream in
// verbose mode, nowhere otherwise. Standard output is reserved for matches.
func (s *Searcher) cloneProgress() io.Writer {
	if s.cfg.Verbose {
		return s.printer.errOut
	}
	return nil
}

// scanEntry opens one resolved file, scans it and closes it again before the
// next file is touched.
func (s *Searcher) scanEntry(entry TraversalEntry) ScanOutcome {
	if entry.Err != nil {
		return ScanOutcome{Label: entry.Label, Err: entry.Err}
	}

	r, closeFn, err := s.open(entry)
	if err != nil {
		return ScanOutcome{Label: entry.Label, Err: err}
	}
	defer closeFn()

	emit := func(lineNo int, line string) error {
		return s.printer.Line(entry.Label, lineNo, line)
	}
	outcome := scanLines(r, s.matcher, s.cfg.Scan, emit)
	outcome.Label = entry.Label
	return outcome
}

func (s *Searcher) open(entry TraversalEntry) (io.Reader, func(), error) {
	switch {
	case entry.Content != nil:
		return strings.NewReader(string(entry.Content)), func() {}, nil
	case entry.Path == stdinTarget:
		return s.stdin, func() {}, nil
	}

	f, err := os.Open(entry.Path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
