// AngelaMos | 2026
// pdf.go

package report

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pdfFont       = "Helvetica"
	rowHeight     = 7.0
	maxNameRunes  = 40
	dateLayout    = "2006-01-02 15:04 MST"
	currencyScale = 2
)

type column struct {
	title string
	width float64
	align string
}

type document struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newDocument(title string, generatedAt time.Time) *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAuthor("PlayerOne", true)
	pdf.SetCreationDate(generatedAt)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	d := &document{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}

	pdf.SetFont(pdfFont, "B", 18)
	pdf.CellFormat(0, 12, d.tr(title), "", 1, "C", false, 0, "")
	pdf.SetFont(pdfFont, "", 10)
	pdf.CellFormat(0, 6, "Generated "+generatedAt.Format(dateLayout), "", 1, "R", false, 0, "")
	pdf.Ln(6)

	return d
}

func (d *document) header(cols []column) {
	d.pdf.SetFont(pdfFont, "B", 10)
	d.pdf.SetFillColor(230, 230, 230)
	for _, c := range cols {
		d.pdf.CellFormat(c.width, rowHeight, c.title, "1", 0, c.align, true, 0, "")
	}
	d.pdf.Ln(-1)
	d.pdf.SetFont(pdfFont, "", 10)
}

func (d *document) row(cols []column, values ...string) {
	for i, c := range cols {
		d.pdf.CellFormat(c.width, rowHeight, d.tr(values[i]), "1", 0, c.align, false, 0, "")
	}
	d.pdf.Ln(-1)
}

func (d *document) line(text string) {
	d.pdf.CellFormat(0, 6, d.tr(text), "", 1, "L", false, 0, "")
}

func (d *document) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

var productColumns = []column{
	{title: "Product", width: 80, align: "L"},
	{title: "Category", width: 40, align: "L"},
	{title: "Price", width: 35, align: "R"},
	{title: "Stock", width: 25, align: "R"},
}

func renderProductsPDF(report *ProductsReport) ([]byte, error) {
	d := newDocument("PlayerOne - Products Report", report.GeneratedAt)

	d.header(productColumns)
	for _, p := range report.Products {
		category := p.Category
		if category == "" {
			category = "N/A"
		}
		d.row(productColumns,
			truncate(p.Name, maxNameRunes),
			category,
			"$"+p.Price.StringFixed(currencyScale),
			strconv.Itoa(p.Stock),
		)
	}

	d.pdf.Ln(4)
	d.pdf.SetFont(pdfFont, "B", 11)
	d.line(fmt.Sprintf("Total products: %d", report.Total))

	return d.bytes()
}

var salesColumns = []column{
	{title: "Product", width: 100, align: "L"},
	{title: "Units", width: 30, align: "R"},
	{title: "Revenue", width: 50, align: "R"},
}

func renderSalesPDF(report *SalesReport) ([]byte, error) {
	d := newDocument("PlayerOne - Sales Report", report.GeneratedAt)

	d.header(salesColumns)
	for _, l := range report.Lines {
		d.row(salesColumns,
			truncate(l.Name, maxNameRunes),
			strconv.Itoa(l.Units),
			"$"+l.Revenue.StringFixed(currencyScale),
		)
	}

	d.pdf.SetFont(pdfFont, "B", 10)
	d.row(salesColumns,
		"TOTAL",
		strconv.Itoa(report.TotalUnits),
		"$"+report.TotalRevenue.StringFixed(currencyScale),
	)

	d.pdf.Ln(6)
	d.pdf.SetFont(pdfFont, "B", 12)
	d.line("Summary")
	d.pdf.SetFont(pdfFont, "", 10)
	d.line("Total revenue: $" + report.TotalRevenue.StringFixed(currencyScale))
	d.line(fmt.Sprintf("Units in demand: %d", report.TotalUnits))
	if report.BestSeller != nil {
		d.line(fmt.Sprintf("Best seller: %s (%d units)",
			report.BestSeller.Name, report.BestSeller.Units))
	}
	d.line("Average per product: $" + report.AveragePerProduct.StringFixed(currencyScale))

	return d.bytes()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
