package main

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingReader returns data on the first read and err on every later one.
type failingReader struct {
	data string
	err  error
	done bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.done {
		return 0, r.err
	}
	r.done = true
	return copy(p, r.data), nil
}

type collected struct {
	lineNos []int
	lines   []string
}

func (c *collected) emit(lineNo int, line string) error {
	c.lineNos = append(c.lineNos, lineNo)
	c.lines = append(c.lines, line)
	return nil
}

func mustMatcher(t *testing.T, pattern string, opts MatchOptions) *Matcher {
	t.Helper()
	m, err := NewMatcher(pattern, opts)
	require.NoError(t, err)
	return m
}

const sampleInput = "ok\nerror\nOK\nERR\n"

func TestScanLines_EmitsMatchingLines(t *testing.T) {
	var got collected
	outcome := scanLines(strings.NewReader(sampleInput), mustMatcher(t, "err", MatchOptions{}), ScanOptions{}, got.emit)

	require.NoError(t, outcome.Err)
	assert.Equal(t, []string{"error"}, got.lines)
	assert.Equal(t, []int{2}, got.lineNos)
	assert.Equal(t, 1, outcome.MatchCount)
	assert.Equal(t, 0, outcome.InvertCount)
}

func TestScanLines_IgnoreCase(t *testing.T) {
	var got collected
	outcome := scanLines(strings.NewReader(sampleInput), mustMatcher(t, "err", MatchOptions{IgnoreCase: true}), ScanOptions{}, got.emit)

	require.NoError(t, outcome.Err)
	assert.Equal(t, []string{"error", "ERR"}, got.lines)
	assert.Equal(t, 2, outcome.Selected(false))
}

func TestScanLines_InvertEmitsOnlyNonMatching(t *testing.T) {
	var got collected
	outcome := scanLines(strings.NewReader(sampleInput), mustMatcher(t, "err", MatchOptions{}), ScanOptions{Invert: true}, got.emit)

	require.NoError(t, outcome.Err)
	assert.Equal(t, []string{"ok", "OK", "ERR"}, got.lines)
	assert.Equal(t, 1, outcome.MatchCount)
	assert.Equal(t, 3, outcome.InvertCount)
	assert.Equal(t, 3, outcome.Selected(true))
}

func TestScanLines_CountOnlyEmitsNothing(t *testing.T) {
	for _, invert := range []bool{false, true} {
		var got collected
		outcome := scanLines(strings.NewReader(sampleInput), mustMatcher(t, "err", MatchOptions{IgnoreCase: true}),
			ScanOptions{CountOnly: true, Invert: invert}, got.emit)

		require.NoError(t, outcome.Err)
		assert.Empty(t, got.lines)
		assert.Equal(t, 2, outcome.MatchCount, "invert=%v", invert)
		if invert {
			assert.Equal(t, 2, outcome.InvertCount)
		} else {
			assert.Equal(t, 0, outcome.InvertCount)
		}
	}
}

func TestScanLines_MatchCountIndependentOfMode(t *testing.T) {
	input := "alpha\nbeta\nalphabet\ngamma\n\nalpha beta\n"
	m := mustMatcher(t, "alpha", MatchOptions{})

	want := 0
	for _, line := range strings.Split(strings.TrimSuffix(input, "\n"), "\n") {
		if m.Matches(line) {
			want++
		}
	}

	for _, opts := range []ScanOptions{{}, {CountOnly: true}, {Invert: true}, {Invert: true, CountOnly: true}} {
		var got collected
		outcome := scanLines(strings.NewReader(input), m, opts, got.emit)
		assert.Equal(t, want, outcome.MatchCount, "opts %+v", opts)
	}
}

func TestScanLines_FinalLineWithoutNewline(t *testing.T) {
	var got collected
	outcome := scanLines(strings.NewReader("first err\nlast err"), mustMatcher(t, "err", MatchOptions{}), ScanOptions{}, got.emit)

	require.NoError(t, outcome.Err)
	assert.Equal(t, []string{"first err", "last err"}, got.lines)
	assert.Equal(t, []int{1, 2}, got.lineNos)
}

func TestScanLines_EmptyInput(t *testing.T) {
	var got collected
	outcome := scanLines(strings.NewReader(""), mustMatcher(t, "", MatchOptions{}), ScanOptions{Invert: true}, got.emit)

	require.NoError(t, outcome.Err)
	assert.Empty(t, got.lines)
	assert.Zero(t, outcome.MatchCount)
	assert.Zero(t, outcome.InvertCount)
}

func TestScanLines_KeepsCarriageReturn(t *testing.T) {
	var got collected
	scanLines(strings.NewReader("err\r\n"), mustMatcher(t, "err", MatchOptions{}), ScanOptions{}, got.emit)
	assert.Equal(t, []string{"err\r"}, got.lines)
}

func TestScanLines_LongLine(t *testing.T) {
	long := strings.Repeat("x", 1<<20) + "needle"
	var got collected
	outcome := scanLines(strings.NewReader(long+"\n"), mustMatcher(t, "needle", MatchOptions{}), ScanOptions{CountOnly: true}, got.emit)

	require.NoError(t, outcome.Err)
	assert.Equal(t, 1, outcome.MatchCount)
}

func TestScanLines_ReadErrorKeepsEarlierLines(t *testing.T) {
	boom := errors.New("device on fire")
	r := &failingReader{data: "ok\nerror one\n", err: boom}

	var got collected
	outcome := scanLines(r, mustMatcher(t, "err", MatchOptions{}), ScanOptions{}, got.emit)

	require.Error(t, outcome.Err)
	assert.ErrorIs(t, outcome.Err, ErrRead)
	assert.ErrorIs(t, outcome.Err, boom)
	assert.Equal(t, []string{"error one"}, got.lines)
	assert.Equal(t, 1, outcome.MatchCount)
}

func TestScanLines_EmitErrorStopsScan(t *testing.T) {
	calls := 0
	emit := func(int, string) error {
		calls++
		return io.ErrClosedPipe
	}
	outcome := scanLines(strings.NewReader("err\nerr\nerr\n"), mustMatcher(t, "err", MatchOptions{}), ScanOptions{}, emit)

	assert.ErrorIs(t, outcome.Err, io.ErrClosedPipe)
	assert.Equal(t, 1, calls)
}
