package render

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/voicebill/voice-billing-be/internal/core/billing"
)

func sampleBill() *billing.Bill {
	return &billing.Bill{
		CustomerName:    "Ramesh Kumar",
		CustomerPhone:   "9876543210",
		CustomerAddress: "Lajpat Nagar",
		Items: []billing.LineItem{
			{
				ProductID:   1,
				ProductName: "Rice",
				Quantity:    decimal.NewFromInt(2),
				Unit:        "kg",
				UnitPrice:   decimal.NewFromInt(50),
				GSTPercent:  decimal.NewFromInt(5),
				LineBase:    decimal.NewFromInt(100),
				GSTAmount:   decimal.NewFromInt(5),
				LineTotal:   decimal.NewFromInt(105),
			},
		},
		Subtotal:    decimal.NewFromInt(100),
		TotalGST:    decimal.NewFromInt(5),
		TotalAmount: decimal.NewFromInt(105),
	}
}

func TestRenderPlainTemplate(t *testing.T) {
	r := NewPDFRenderer()
	tmpl := &Template{ID: 1, Name: "Shree General Store", FileName: "plain.pdf", FileType: "pdf"}

	out, err := r.Render(sampleBill(), tmpl, "ref-1234")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("Render() output does not start with %%PDF header")
	}
}

func TestRenderImageBackground(t *testing.T) {
	// Any valid PNG works as a background; a QR code is a cheap one
	png, err := qrcode.Encode("background", qrcode.Low, 64)
	if err != nil {
		t.Fatalf("qrcode.Encode() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "layout.png")
	if err := os.WriteFile(path, png, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	r := NewPDFRenderer()
	tmpl := &Template{ID: 2, Name: "Image Layout", FileName: "layout.png", FileType: "png", FilePath: path}

	out, err := r.Render(sampleBill(), tmpl, "ref-5678")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("Render() output does not start with %%PDF header")
	}
}

func TestRenderMissingTemplateFile(t *testing.T) {
	r := NewPDFRenderer()
	tmpl := &Template{ID: 3, Name: "Broken", FileName: "gone.png", FileType: "png", FilePath: "/nonexistent/gone.png"}

	_, err := r.Render(sampleBill(), tmpl, "ref-9999")
	if err == nil {
		t.Fatal("Render() error = nil, want render error for missing template file")
	}
	var rerr *Error
	if !errors.As(err, &rerr) {
		t.Errorf("Render() error type = %T, want *render.Error", err)
	}
}

func TestRenderNilTemplate(t *testing.T) {
	r := NewPDFRenderer()

	_, err := r.Render(sampleBill(), nil, "ref-0000")
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("Render() error = %v, want ErrTemplateNotFound", err)
	}
}
