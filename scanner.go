package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ScanOptions selects the accounting mode of a scan.
type ScanOptions struct {
	Invert    bool
	CountOnly bool
}

// emitFunc receives each selected line with its 1-based line number.
type emitFunc func(lineNo int, line string) error

// scanLines streams r line by line and applies m to every line. Only the
// current line is held in memory. Matching lines are counted always and
// emitted unless inverting; non-matching lines are counted and emitted only
// when inverting. Nothing is emitted in count-only mode.
//
// A read error stops the scan and is returned in the outcome wrapped in
// ErrRead. Lines emitted before the failure have already been written.
func scanLines(r io.Reader, m *Matcher, opts ScanOptions, emit emitFunc) ScanOutcome {
	var outcome ScanOutcome
	reader := bufio.NewReader(r)

	for lineNo := 1; ; lineNo++ {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			outcome.Err = fmt.Errorf("%w: %w", ErrRead, err)
			return outcome
		}
		if len(line) == 0 && err != nil {
			return outcome
		}

		text := strings.TrimSuffix(line, "\n")
		selected := false
		if m.Matches(text) {
			outcome.MatchCount++
			selected = !opts.Invert
		} else if opts.Invert {
			outcome.InvertCount++
			selected = true
		}

		if selected && !opts.CountOnly {
			if emitErr := emit(lineNo, text); emitErr != nil {
				outcome.Err = emitErr
				return outcome
			}
		}

		if err != nil {
			// Final line without a terminating newline.
			return outcome
		}
	}
}
