package pdf

import (
	"strconv"
	"strings"

	"invoicing-crm/internal/domain"

	"github.com/jung-kurt/gofpdf"
)

const dateLayout = "02 Jan 2006"

func documentTitle(doc *domain.Document) string {
	if doc.Type == domain.DocumentTypeQuote {
		return "QUOTE"
	}
	return "INVOICE"
}

func customerBlock(doc *domain.Document) string {
	if doc.Customer == nil {
		return ""
	}
	lines := []string{doc.Customer.Name}
	if doc.Customer.Company != "" {
		lines = append(lines, doc.Customer.Company)
	}
	if doc.Customer.Address != "" {
		lines = append(lines, doc.Customer.Address)
	}
	if doc.Customer.Email != "" {
		lines = append(lines, doc.Customer.Email)
	}
	return strings.Join(lines, "\n")
}

func companyBlock(company domain.CompanyInfo) string {
	lines := []string{}
	if company.Name != "" {
		lines = append(lines, company.Name)
	}
	if company.Address != "" {
		lines = append(lines, company.Address)
	}
	if company.Email != "" {
		lines = append(lines, company.Email)
	}
	if company.TaxID != "" {
		lines = append(lines, "Tax ID: "+company.TaxID)
	}
	return strings.Join(lines, "\n")
}

// itemsTable draws the line-item table at the current Y position. Rows are
// drawn in a single pass; there is no page-overflow handling.
func itemsTable(pdf *gofpdf.Fpdf, doc *domain.Document, headerFill bool) {
	colWidths := []float64{95.0, 20.0, 30.0, 35.0}
	headers := []string{"Description", "Qty", "Unit Price", "Amount"}
	aligns := []string{"L", "C", "R", "R"}

	pdf.SetFont("Helvetica", "B", 10)
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, header, "B", 0, aligns[i], headerFill, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range doc.Items {
		cells := []string{
			item.Description,
			strconv.Itoa(item.Quantity),
			item.UnitPrice.StringFixed(2),
			item.Amount().StringFixed(2),
		}
		for i, cell := range cells {
			pdf.CellFormat(colWidths[i], 7, cell, "", 0, aligns[i], false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func totalsBlock(pdf *gofpdf.Fpdf, doc *domain.Document) {
	labelX := 125.0
	rows := [][2]string{
		{"Subtotal", doc.Subtotal.StringFixed(2)},
		{"Tax (" + doc.TaxRate.StringFixed(0) + "%)", doc.Total.Sub(doc.Subtotal).StringFixed(2)},
		{"Total", doc.Total.StringFixed(2)},
	}

	pdf.Ln(4)
	for i, row := range rows {
		style := ""
		if i == len(rows)-1 {
			style = "B"
			pdf.Line(labelX, pdf.GetY(), 195, pdf.GetY())
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.SetX(labelX)
		pdf.CellFormat(35, 7, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, row[1], "", 1, "R", false, 0, "")
	}
}

func notesBlock(pdf *gofpdf.Fpdf, doc *domain.Document) {
	if doc.Notes == "" {
		return
	}
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(0, 6, "Notes", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(0, 5, doc.Notes, "", "L", false)
}

func metaLines(doc *domain.Document) [][2]string {
	return [][2]string{
		{"Number", doc.Number},
		{"Issue date", doc.IssueDate.Format(dateLayout)},
		{"Due date", doc.DueDate.Format(dateLayout)},
	}
}

// layoutModern: teal accent bar, sans-serif, filled table header.
func layoutModern(pdf *gofpdf.Fpdf, doc *domain.Document, company domain.CompanyInfo) {
	pdf.SetFillColor(13, 148, 136)
	pdf.Rect(0, 0, 210, 8, "F")

	pdf.SetY(18)
	pdf.SetTextColor(13, 148, 136)
	pdf.SetFont("Helvetica", "B", 26)
	pdf.CellFormat(0, 12, documentTitle(doc), "", 1, "L", false, 0, "")

	pdf.SetTextColor(60, 60, 60)
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(110, 5, companyBlock(company), "", "L", false)

	metaY := 32.0
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range metaLines(doc) {
		pdf.SetXY(130, metaY)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(25, 5, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(40, 5, row[1], "", 1, "L", false, 0, "")
		metaY += 6
	}

	pdf.SetY(66)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(13, 148, 136)
	pdf.CellFormat(0, 6, "Bill to", "", 1, "L", false, 0, "")
	pdf.SetTextColor(60, 60, 60)
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(110, 5, customerBlock(doc), "", "L", false)

	pdf.SetY(96)
	pdf.SetFillColor(230, 246, 244)
	itemsTable(pdf, doc, true)
	totalsBlock(pdf, doc)
	notesBlock(pdf, doc)
}

// layoutClassic: serif headings, ruled lines, no fills.
func layoutClassic(pdf *gofpdf.Fpdf, doc *domain.Document, company domain.CompanyInfo) {
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Times", "B", 22)
	pdf.CellFormat(0, 12, documentTitle(doc), "", 1, "C", false, 0, "")
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(6)

	pdf.SetFont("Times", "", 10)
	pdf.MultiCell(100, 5, companyBlock(company), "", "L", false)

	metaY := 34.0
	for _, row := range metaLines(doc) {
		pdf.SetXY(130, metaY)
		pdf.SetFont("Times", "B", 10)
		pdf.CellFormat(25, 5, row[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Times", "", 10)
		pdf.CellFormat(40, 5, row[1], "", 1, "L", false, 0, "")
		metaY += 6
	}

	pdf.SetY(64)
	pdf.SetFont("Times", "B", 11)
	pdf.CellFormat(0, 6, "Bill To", "", 1, "L", false, 0, "")
	pdf.SetFont("Times", "", 10)
	pdf.MultiCell(110, 5, customerBlock(doc), "", "L", false)

	pdf.SetY(94)
	itemsTable(pdf, doc, false)
	totalsBlock(pdf, doc)
	notesBlock(pdf, doc)
}

// layoutMinimal: grayscale, small type, generous whitespace.
func layoutMinimal(pdf *gofpdf.Fpdf, doc *domain.Document, company domain.CompanyInfo) {
	pdf.SetY(20)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8, documentTitle(doc)+"  -  "+doc.Number, "", 1, "L", false, 0, "")

	pdf.SetTextColor(40, 40, 40)
	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(100, 4.5, companyBlock(company), "", "L", false)
	pdf.Ln(4)
	pdf.MultiCell(100, 4.5, customerBlock(doc), "", "L", false)
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, "Issued "+doc.IssueDate.Format(dateLayout)+"   Due "+doc.DueDate.Format(dateLayout), "", 1, "L", false, 0, "")

	pdf.Ln(8)
	itemsTable(pdf, doc, false)
	totalsBlock(pdf, doc)
	notesBlock(pdf, doc)
}
