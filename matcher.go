package main

import (
	"fmt"
	"regexp"
)

// MatchOptions configures how the pattern text is compiled.
type MatchOptions struct {
	IgnoreCase   bool
	FixedStrings bool
}

// Matcher answers whether a line matches the compiled pattern. It is built
// once per run and never modified afterwards, so it can be shared freely.
type Matcher struct {
	re         *regexp.Regexp
	ignoreCase bool
}

// NewMatcher compiles pattern. A syntax error is returned wrapped in
// ErrInvalidPattern.
func NewMatcher(pattern string, opts MatchOptions) (*Matcher, error) {
	expr := pattern
	if opts.FixedStrings {
		expr = regexp.QuoteMeta(expr)
	}
	if opts.IgnoreCase {
		expr = "(?i)" + expr
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, pattern, err)
	}
	return &Matcher{re: re, ignoreCase: opts.IgnoreCase}, nil
}

// Matches reports whether line contains a match of the pattern.
func (m *Matcher) Matches(line string) bool {
	return m.re.MatchString(line)
}

// IgnoreCase reports whether the matcher was built case-insensitive.
func (m *Matcher) IgnoreCase() bool {
	return m.ignoreCase
}

func (m *Matcher) String() string {
	return m.re.String()
}
