package main

import (
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 210 // A4 width in mm
	pdfMargin     = 10  // Margin in mm
	pdfLineHeight = 5   // Line height in mm
	pdfFontSize   = 9
	pdfTabWidth   = 4 // Number of spaces for a tab
)

// generatePDF writes the recorded results of a run to outputPath: one block
// per file with its selected lines or count, failures, and a summary.
func generatePDF(report *Report, outputPath string) error {
	logger.Debug("generating PDF report", "path", outputPath, "sections", len(report.Sections))

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	width := float64(pdfPageWidth - 2*pdfMargin)

	pdf.SetFont("Helvetica", "B", pdfFontSize+3)
	pdf.MultiCell(width, pdfLineHeight+2, tr(fmt.Sprintf("grepr: %s", report.Pattern)), "", "L", false)
	pdf.Ln(pdfLineHeight)

	for _, section := range report.Sections {
		if !report.CountOnly && section.Err == nil && len(section.Lines) == 0 {
			continue
		}
		pdf.SetFont("Helvetica", "B", pdfFontSize+1)
		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(width, pdfLineHeight, tr(section.Label), "", "L", false)
		pdf.Line(pdfMargin, pdf.GetY(), pdfPageWidth-pdfMargin, pdf.GetY())
		pdf.Ln(pdfLineHeight / 2)

		pdf.SetFont("Courier", "", pdfFontSize)
		switch {
		case section.Err != nil:
			pdf.SetTextColor(200, 0, 0)
			pdf.MultiCell(width, pdfLineHeight, tr("Error: "+describeError(section.Err)), "", "L", false)
			pdf.SetTextColor(0, 0, 0)
		case report.CountOnly:
			pdf.MultiCell(width, pdfLineHeight, fmt.Sprintf("Count: %d", section.Count), "", "L", false)
		default:
			text := strings.ReplaceAll(strings.Join(section.Lines, ""), "\t", strings.Repeat(" ", pdfTabWidth))
			pdf.MultiCell(width, pdfLineHeight, tr(strings.TrimSuffix(text, "\n")), "", "L", false)
		}
		pdf.Ln(pdfLineHeight)
	}

	pdf.SetFont("Helvetica", "B", pdfFontSize+1)
	pdf.MultiCell(width, pdfLineHeight, "--- Summary ---", "", "L", false)
	pdf.SetFont("Helvetica", "", pdfFontSize)
	summary := report.Summary
	summaryString := fmt.Sprintf("Targets: %d (failed: %d)\nFiles scanned: %d (failed: %d)\nSelected lines: %d",
		summary.Targets, summary.FailedTargets, summary.Files, summary.FailedFiles, summary.SelectedLines)
	pdf.MultiCell(width, pdfLineHeight, summaryString, "", "L", false)

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("failed to save PDF to %s: %w", outputPath, err)
	}
	logger.Debug("saved PDF report", "path", outputPath)
	return nil
}
