package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin     = 10 // mm
	pdfLineHeight = 5  // mm
	pdfFontSize   = 9
)

// buildReport renders the final human-readable report. With breakdown set,
// a per-file table (sorted by path) precedes the summary. The last line is
// always the total token count.
func buildReport(results []FileResult, sum Summary, breakdown bool) string {
	var builder strings.Builder

	if breakdown {
		sorted := make([]FileResult, len(results))
		copy(sorted, results)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].Path < sorted[j].Path
		})
		for _, res := range sorted {
			if res.Err != nil {
				builder.WriteString(fmt.Sprintf("%9s  %s\n", "error", res.Path))
			} else {
				builder.WriteString(fmt.Sprintf("%9d  %s\n", res.Tokens, res.Path))
			}
		}
		builder.WriteString("\n")
	}

	builder.WriteString(fmt.Sprintf("Total files processed: %d\n", sum.TotalFiles))
	if sum.FailedFiles > 0 {
		builder.WriteString(fmt.Sprintf("Files skipped due to errors: %d\n", sum.FailedFiles))
	}
	builder.WriteString(fmt.Sprintf("Total tokens: %d", sum.TotalTokens))
	return builder.String()
}

// emitReport sends the report to stdout, and optionally to the clipboard
// and/or a PDF file. Delivery failures to the optional destinations are
// warnings; stdout always gets the report.
func emitReport(report string, results []FileResult, sum Summary, toClipboard bool, pdfPath string) {
	fmt.Println(report)

	if toClipboard {
		if err := clipboard.WriteAll(report); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not copy report to clipboard: %v\n", err)
		} else {
			fmt.Fprintln(os.Stderr, "Report copied to clipboard.")
		}
	}

	if pdfPath != "" {
		if err := writePDF(results, sum, pdfPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not write PDF report: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "PDF report saved to %s\n", pdfPath)
		}
	}
}

// writePDF renders the per-file counts and the summary as an A4 PDF.
func writePDF(results []FileResult, sum Summary, outputPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	usable := pageWidth - 2*pdfMargin

	pdf.SetFont("Helvetica", "B", pdfFontSize+2)
	pdf.MultiCell(usable, pdfLineHeight, "Token Count Report", "", "L", false)
	pdf.Ln(pdfLineHeight / 2)

	sorted := make([]FileResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})

	pdf.SetFont("Courier", "", pdfFontSize)
	for _, res := range sorted {
		line := fmt.Sprintf("%9d  %s", res.Tokens, res.Path)
		if res.Err != nil {
			line = fmt.Sprintf("%9s  %s (%v)", "error", res.Path, res.Err)
		}
		pdf.MultiCell(usable, pdfLineHeight, line, "", "L", false)
	}

	pdf.Ln(pdfLineHeight)
	pdf.SetFont("Helvetica", "B", pdfFontSize+1)
	pdf.MultiCell(usable, pdfLineHeight, "Summary", "", "L", false)
	pdf.SetFont("Helvetica", "", pdfFontSize)
	summaryString := fmt.Sprintf("Total files processed: %d\nTotal tokens: %d", sum.TotalFiles, sum.TotalTokens)
	if sum.FailedFiles > 0 {
		summaryString += fmt.Sprintf("\nFiles skipped due to errors: %d", sum.FailedFiles)
	}
	pdf.MultiCell(usable, pdfLineHeight, summaryString, "", "L", false)

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("failed to save PDF to %s: %w", outputPath, err)
	}
	return nil
}
