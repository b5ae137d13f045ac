package export

import (
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
)

// Page layout in millimetres.
const (
	pageMargin     = 10.0
	minColumnWidth = 22.0
	headerHeight   = 7.0
	rowHeight      = 6.0
	wideTableCols  = 6
)

// ToPDF renders result as a table under title. Tables with more than six
// columns use landscape pages and a smaller font. The header row is
// repeated on every page and values too wide for their cell are cut short.
func ToPDF(result *models.TabularResult, path, title string) error {
	return writePDF(result, path, title, time.Now())
}

func writePDF(result *models.TabularResult, path, title string, generated time.Time) error {
	if err := checkResult(FormatPDF, result, path); err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return apperrors.NewExportError(string(FormatPDF), path, err)
	}

	pdf := buildPDF(result, title, generated)
	if err := pdf.Error(); err != nil {
		return apperrors.NewExportError(string(FormatPDF), path, err)
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		_ = os.Remove(path)
		return apperrors.NewExportError(string(FormatPDF), path, err)
	}
	return nil
}

func buildPDF(result *models.TabularResult, title string, generated time.Time) *gofpdf.Fpdf {
	cols := len(result.Headers)
	orientation, fontSize := "P", 9.0
	if cols > wideTableCols {
		orientation, fontSize = "L", 7.0
	}

	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.SetTitle(title, true)
	pdf.SetCreator("studentrecords", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageWidth, pageHeight := pdf.GetPageSize()
	colWidth := (pageWidth - 2*pageMargin) / float64(cols)
	if colWidth < minColumnWidth {
		colWidth = minColumnWidth
	}

	drawHeader := func() {
		pdf.SetFont("Arial", "B", fontSize)
		pdf.SetFillColor(40, 145, 108)
		pdf.SetTextColor(255, 255, 255)
		for i, h := range result.Headers {
			ln := 0
			if i == cols-1 {
				ln = 1
			}
			pdf.CellFormat(colWidth, headerHeight, fit(pdf, tr(h), colWidth), "1", ln, "C", true, 0, "")
		}
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Arial", "", fontSize)
		pdf.SetFillColor(245, 245, 245)
	}

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 5, "Generated: "+helpers.FormatTimestamp(generated), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(3)
	drawHeader()

	for r, row := range result.Rows {
		if pdf.GetY()+rowHeight > pageHeight-pageMargin {
			pdf.AddPage()
			drawHeader()
		}
		fill := r%2 == 1
		for i, v := range row {
			ln := 0
			if i == cols-1 {
				ln = 1
			}
			pdf.CellFormat(colWidth, rowHeight, fit(pdf, tr(v), colWidth), "1", ln, "L", fill, 0, "")
		}
	}
	return pdf
}

// fit shortens s with a trailing ellipsis until it fits a cell of width w.
// s is already in the single byte encoding of the core fonts.
func fit(pdf *gofpdf.Fpdf, s string, w float64) string {
	avail := w - 2*pdf.GetCellMargin()
	if pdf.GetStringWidth(s) <= avail {
		return s
	}
	const ellipsis = "..."
	for n := len(s) - 1; n > 0; n-- {
		if cut := s[:n] + ellipsis; pdf.GetStringWidth(cut) <= avail {
			return cut
		}
	}
	return ""
}
