package render

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/voicebill/voice-billing-be/internal/core/billing"
)

// Template references an uploaded bill layout. FileType decides how the
// layout is applied: image templates (jpg/jpeg/png) become the page
// background, anything else falls back to the plain layout.
type Template struct {
	ID       uint
	Name     string
	FileName string
	FileType string
	FilePath string
}

// ErrTemplateNotFound is returned when the referenced template does not
// exist in the template store.
var ErrTemplateNotFound = errors.New("template not found")

// Error reports a failed render (unreadable template, PDF generation
// failure). Fatal for the request; never retried here.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("render failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("render failed: %s", e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// PDFRenderer renders a bill into a PDF document using gofpdf
type PDFRenderer struct {
	orientation string
	pageSize    string
}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{
		orientation: "P",
		pageSize:    "A4",
	}
}

// Render applies the template to the bill and returns the document bytes.
// billRef is printed on the bill and encoded into the footer QR code.
func (r *PDFRenderer) Render(bill *billing.Bill, tmpl *Template, billRef string) ([]byte, error) {
	if tmpl == nil {
		return nil, ErrTemplateNotFound
	}

	pdf := gofpdf.New(r.orientation, "mm", r.pageSize, "")
	pdf.AddPage()

	if isImageType(tmpl.FileType) {
		if err := r.drawBackground(pdf, tmpl); err != nil {
			return nil, err
		}
	}

	pageWidth, pageHeight := pdf.GetPageSize()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.SetY(18)
	pdf.CellFormat(0, 10, tmpl.Name, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.Ln(4)
	pdf.CellFormat(0, 6, fmt.Sprintf("Customer: %s", bill.CustomerName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Phone: %s", bill.CustomerPhone), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Address: %s", bill.CustomerAddress), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Bill Ref: %s", billRef), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	// Item table
	colWidths := []float64{70, 25, 30, 20, 35}
	headers := []string{"Product", "Qty", "Unit Price", "GST%", "Total"}

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, item := range bill.Items {
		qty := item.Quantity.String()
		if item.Unit != "" {
			qty = qty + " " + item.Unit
		}
		pdf.CellFormat(colWidths[0], 6, item.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 6, qty, "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[2], 6, "Rs. "+item.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 6, item.GSTPercent.StringFixed(1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[4], 6, "Rs. "+item.LineTotal.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)

		if pdf.GetY() > pageHeight-40 {
			pdf.AddPage()
			if isImageType(tmpl.FileType) {
				if err := r.drawBackground(pdf, tmpl); err != nil {
					return nil, err
				}
			}
		}
	}

	// Totals
	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 11)
	r.totalRow(pdf, "Subtotal:", bill.Subtotal.StringFixed(2))
	r.totalRow(pdf, "Total GST:", bill.TotalGST.StringFixed(2))
	r.totalRow(pdf, "Grand Total:", bill.TotalAmount.StringFixed(2))

	// Reference QR in the footer
	if err := r.drawQR(pdf, billRef, pageWidth-32, pageHeight-32); err != nil {
		return nil, err
	}

	pdf.SetFont("Arial", "", 8)
	pdf.SetY(pageHeight - 12)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated: %s", time.Now().Format("02-01-2006 15:04")), "", 0, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &Error{Reason: "pdf generation failed", Err: err}
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) totalRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetX(120)
	pdf.CellFormat(40, 6, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(35, 6, "Rs. "+value, "", 1, "R", false, 0, "")
}

// drawBackground stretches the template image across the whole page
func (r *PDFRenderer) drawBackground(pdf *gofpdf.Fpdf, tmpl *Template) error {
	data, err := os.ReadFile(tmpl.FilePath)
	if err != nil {
		return &Error{Reason: fmt.Sprintf("template file %q unreadable", tmpl.FileName), Err: err}
	}

	imageType := strings.ToUpper(strings.TrimPrefix(strings.ToLower(tmpl.FileType), "."))
	if imageType == "JPEG" {
		imageType = "JPG"
	}

	opts := gofpdf.ImageOptions{ImageType: imageType, ReadDpi: true}
	name := "tmpl-" + filepath.Base(tmpl.FileName)
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if pdf.Err() {
		return &Error{Reason: "template image rejected", Err: pdf.Error()}
	}

	w, h := pdf.GetPageSize()
	pdf.ImageOptions(name, 0, 0, w, h, false, opts, 0, "")
	return nil
}

func (r *PDFRenderer) drawQR(pdf *gofpdf.Fpdf, content string, x, y float64) error {
	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		return &Error{Reason: "qr code generation failed", Err: err}
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("bill-qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("bill-qr", x, y, 24, 24, false, opts, 0, "")
	return nil
}

func isImageType(fileType string) bool {
	switch strings.ToLower(strings.TrimPrefix(fileType, ".")) {
	case "jpg", "jpeg", "png":
		return true
	}
	return false
}
