package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Printer writes selected lines and per-file summaries to the output stream
// and failures to the error stream.
type Printer struct {
	out    io.Writer
	errOut io.Writer

	CountOnly    bool
	Invert       bool
	WithFilename bool
	LineNumbers  bool

	// report is non-nil when the run also produces a PDF report.
	report *Report
}

// NewPrinter creates a Printer writing to out and errOut.
func NewPrinter(out, errOut io.Writer) *Printer {
	return &Printer{out: out, errOut: errOut}
}

// Line writes one selected line. By default the line is printed verbatim;
// -H and -n add "label:" and "n:" prefixes.
func (p *Printer) Line(label string, lineNo int, text string) error {
	var builder strings.Builder
	if p.WithFilename {
		builder.WriteString(label)
		builder.WriteString(":")
	}
	if p.LineNumbers {
		builder.WriteString(strconv.Itoa(lineNo))
		builder.WriteString(":")
	}
	builder.WriteString(text)
	builder.WriteString("\n")

	if p.report != nil {
		section := p.report.section(label)
		section.Lines = append(section.Lines, builder.String())
	}
	_, err := io.WriteString(p.out, builder.String())
	return err
}

// Outcome reports the end of a file: an error line when the scan failed,
// otherwise the count summary in count-only mode.
func (p *Printer) Outcome(o ScanOutcome) {
	if o.Err != nil {
		p.Failure(o.Label, o.Err)
		return
	}
	count := o.Selected(p.Invert)
	if p.report != nil {
		p.report.section(o.Label).Count = count
		p.report.closeSection()
	}
	if p.CountOnly {
		fmt.Fprintf(p.out, "%s:%d\n", o.Label, count)
	}
}

// Failure writes "label: reason" to the error stream.
func (p *Printer) Failure(label string, err error) {
	if p.report != nil {
		p.report.section(label).Err = err
		p.report.closeSection()
	}
	fmt.Fprintf(p.errOut, "%s: %s\n", label, describeError(err))
}

// Report keeps everything a run printed, one section per scanned file or
// failed target in output order, for renderers that need the whole result at
// the end (see pdf.go). A file searched twice gets two sections.
type Report struct {
	Pattern   string
	CountOnly bool
	Sections  []*ReportSection
	Summary   RunSummary
	open      *ReportSection
}

// ReportSection is the printed result of one file or failed target.
type ReportSection struct {
	Label string
	Lines []string
	Count int
	Err   error
}

// section returns the section being filled for label, starting a new one
// unless the previous call for the same label has not been closed yet.
func (r *Report) section(label string) *ReportSection {
	if r.open != nil && r.open.Label == label {
		return r.open
	}
	r.open = &ReportSection{Label: label}
	r.Sections = append(r.Sections, r.open)
	return r.open
}

func (r *Report) closeSection() {
	r.open = nil
}
