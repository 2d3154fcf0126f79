package main

// TraversalEntry is one file discovered while resolving a target.
type TraversalEntry struct {
	Path    string // What to open; "-" for standard input
	Label   string // What to print in summaries and error lines
	Size    int64  // Bytes on disk, or of the converted text for web pages
	Content []byte // Pre-loaded text (web pages); nil means read Path
	Err     error  // Set when this entry stands for a directory that could not be read
}

// ScanOutcome is the result of scanning a single file. A fresh value is
// produced for every file; nothing carries over between files.
type ScanOutcome struct {
	Label       string
	MatchCount  int
	InvertCount int
	Err         error
}

// Selected returns the count that is authoritative for the run mode.
func (o ScanOutcome) Selected(invert bool) int {
	if invert {
		return o.InvertCount
	}
	return o.MatchCount
}

// RunSummary holds aggregated information about a whole run.
type RunSummary struct {
	Targets       int
	FailedTargets int
	Files         int
	FailedFiles   int
	SelectedLines int
}

// Exit statuses.
const (
	exitMatch   = 0
	exitNoMatch = 1
	exitTrouble = 2
)

// ExitCode maps the summary to the process exit status: trouble when every
// target failed, success when at least one line was selected.
func (s RunSummary) ExitCode() int {
	if s.Targets > 0 && s.FailedTargets == s.Targets {
		return exitTrouble
	}
	if s.SelectedLines > 0 {
		return exitMatch
	}
	return exitNoMatch
}
