package main

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin     = 10 // mm
	pdfLineHeight = 5  // mm
	pdfFontSize   = 9
)

// writePDFReport renders the report as a printable table, overwriting any
// existing file at path.
func writePDFReport(r Report, path string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	usable := pageWidth - 2*pdfMargin

	pdf.SetFont("Helvetica", "B", pdfFontSize+3)
	pdf.CellFormat(usable, pdfLineHeight+2, "Token Count Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", pdfFontSize)
	pdf.CellFormat(usable, pdfLineHeight, fmt.Sprintf("Generated: %s", r.GeneratedAt), "", 1, "L", false, 0, "")
	pdf.CellFormat(usable, pdfLineHeight, fmt.Sprintf("Root: %s", r.Root), "", 1, "L", false, 0, "")
	pdf.CellFormat(usable, pdfLineHeight, fmt.Sprintf("Model hint: %s (method=%s)", r.ModelHint, r.Method), "", 1, "L", false, 0, "")
	pdf.CellFormat(usable, pdfLineHeight, fmt.Sprintf("Files counted: %d    Total tokens: %d", r.FilesCounted, r.TotalTokens), "", 1, "L", false, 0, "")
	pdf.Ln(pdfLineHeight / 2)

	// Fixed-width columns; the path takes whatever is left.
	tokenW, methodW, langW := 22.0, 18.0, 28.0
	pathW := usable - tokenW - methodW - langW

	pdf.SetFont("Helvetica", "B", pdfFontSize)
	pdf.CellFormat(tokenW, pdfLineHeight, "Tokens", "B", 0, "R", false, 0, "")
	pdf.CellFormat(methodW, pdfLineHeight, "Method", "B", 0, "L", false, 0, "")
	pdf.CellFormat(langW, pdfLineHeight, "Language", "B", 0, "L", false, 0, "")
	pdf.CellFormat(pathW, pdfLineHeight, "Path", "B", 1, "L", false, 0, "")

	pdf.SetFont("Courier", "", pdfFontSize-1)
	for _, rec := range r.Files {
		p := rec.Path
		// Courier at this size fits roughly pathW/1.8 characters; keep
		// the tail of overlong paths, which carries the file name.
		if maxChars := int(pathW / 1.8); len(p) > maxChars && maxChars > 3 {
			p = "..." + p[len(p)-maxChars+3:]
		}
		pdf.CellFormat(tokenW, pdfLineHeight, fmt.Sprintf("%d", rec.Tokens), "", 0, "R", false, 0, "")
		pdf.CellFormat(methodW, pdfLineHeight, string(rec.Method), "", 0, "L", false, 0, "")
		pdf.CellFormat(langW, pdfLineHeight, rec.Language, "", 0, "L", false, 0, "")
		pdf.CellFormat(pathW, pdfLineHeight, p, "", 1, "L", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
