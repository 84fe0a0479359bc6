package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidth   = 190.0
	lineHeight  = 6.0
	tableHeight = 7.0
)

// Document is a small flowing-layout builder over gofpdf used for report files.
type Document struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// NewDocument starts an A4 portrait document with a first page.
func NewDocument(title string) *Document {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle(title, true)
	pdf.AddPage()
	return &Document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

// Title writes a centered large heading.
func (d *Document) Title(text string) {
	d.pdf.SetFont("Arial", "B", 16)
	d.pdf.SetTextColor(37, 99, 235)
	d.pdf.CellFormat(0, 10, d.tr(text), "", 1, "C", false, 0, "")
	d.pdf.SetTextColor(0, 0, 0)
}

// Subtitle writes a centered grey line below the title.
func (d *Document) Subtitle(text string) {
	d.pdf.SetFont("Arial", "", 10)
	d.pdf.SetTextColor(100, 100, 100)
	d.pdf.MultiCell(0, 5, d.tr(text), "", "C", false)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.Ln(4)
}

// Heading writes a section heading.
func (d *Document) Heading(text string) {
	d.pdf.Ln(2)
	d.pdf.SetFont("Arial", "B", 12)
	d.pdf.SetTextColor(37, 99, 235)
	d.pdf.CellFormat(0, 8, d.tr(text), "", 1, "L", false, 0, "")
	d.pdf.SetTextColor(0, 0, 0)
}

// SubHeading writes a smaller bold heading.
func (d *Document) SubHeading(text string) {
	d.pdf.SetFont("Arial", "B", 10)
	d.pdf.CellFormat(0, lineHeight, d.tr(text), "", 1, "L", false, 0, "")
}

// Paragraph writes wrapped text.
func (d *Document) Paragraph(text string, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	d.pdf.SetFont("Arial", style, 10)
	d.pdf.MultiCell(0, lineHeight, d.tr(text), "", "L", false)
	d.pdf.Ln(1)
}

// Bullet writes an indented list line.
func (d *Document) Bullet(text string) {
	d.pdf.SetFont("Arial", "", 10)
	d.pdf.SetX(d.pdf.GetX() + 4)
	d.pdf.MultiCell(0, lineHeight, d.tr("- "+text), "", "L", false)
}

// Table writes a header row and body rows with equal column widths.
func (d *Document) Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}
	colWidth := pageWidth / float64(len(headers))

	d.pdf.SetFont("Arial", "B", 9)
	d.pdf.SetFillColor(219, 234, 254)
	for _, header := range headers {
		d.pdf.CellFormat(colWidth, tableHeight, d.tr(header), "1", 0, "C", true, 0, "")
	}
	d.pdf.Ln(-1)

	d.pdf.SetFont("Arial", "", 8)
	for _, row := range rows {
		for i := range headers {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			d.pdf.CellFormat(colWidth, tableHeight, d.tr(value), "1", 0, "", false, 0, "")
		}
		d.pdf.Ln(-1)
	}
	d.pdf.Ln(3)
}

// PageBreak starts a new page.
func (d *Document) PageBreak() {
	d.pdf.AddPage()
}

// Bytes renders the document.
func (d *Document) Bytes() ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := d.pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
