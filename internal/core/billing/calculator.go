package billing

import (
	"github.com/shopspring/decimal"

	"github.com/voicebill/voice-billing-be/internal/core/extract"
	"github.com/voicebill/voice-billing-be/internal/core/resolve"
)

// Customer fields default to this when the transcript never mentioned them
const unknownField = "N/A"

// LineItem is a priced bill line. All monetary fields are exact decimals;
// nothing is rounded until presentation.
type LineItem struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	GSTPercent  decimal.Decimal `json:"gst_percent"`
	LineBase    decimal.Decimal `json:"line_base"`
	GSTAmount   decimal.Decimal `json:"gst_amount"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// Bill is the finalized structured invoice.
// Invariants: Subtotal = Σ line base, TotalGST = Σ line GST,
// TotalAmount = Subtotal + TotalGST, all held exactly.
type Bill struct {
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerAddress string          `json:"customer_address"`
	Items           []LineItem      `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TotalGST        decimal.Decimal `json:"total_gst"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}

// Calculate prices the resolved line items into a complete bill. Pure
// arithmetic: no side effects, no rounding, deterministic for the same
// input.
func Calculate(customer extract.CustomerInfo, items []resolve.ResolvedLineItem) *Bill {
	bill := &Bill{
		CustomerName:    orUnknown(customer.Name),
		CustomerPhone:   orUnknown(customer.Phone),
		CustomerAddress: orUnknown(customer.Address),
		Items:           make([]LineItem, 0, len(items)),
		Subtotal:        decimal.Zero,
		TotalGST:        decimal.Zero,
		TotalAmount:     decimal.Zero,
	}

	for _, item := range items {
		lineBase := item.UnitPrice.Mul(item.Quantity)
		// Shift(-2) divides by 100 exactly, unlike Div which rounds at
		// DivisionPrecision.
		gstAmount := lineBase.Mul(item.GSTPercent).Shift(-2)

		bill.Items = append(bill.Items, LineItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			UnitPrice:   item.UnitPrice,
			GSTPercent:  item.GSTPercent,
			LineBase:    lineBase,
			GSTAmount:   gstAmount,
			LineTotal:   lineBase.Add(gstAmount),
		})

		bill.Subtotal = bill.Subtotal.Add(lineBase)
		bill.TotalGST = bill.TotalGST.Add(gstAmount)
	}

	bill.TotalAmount = bill.Subtotal.Add(bill.TotalGST)
	return bill
}

func orUnknown(s string) string {
	if s == "" {
		return unknownField
	}
	return s
}
