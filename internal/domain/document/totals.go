package document

import (
	"github.com/printstudio/docengine/internal/types"
	"github.com/shopspring/decimal"
)

// VATRate is the Thai value added tax rate
var VATRate = decimal.NewFromFloat(0.07)

// LineAmount is qty * unitPrice - discount
func LineAmount(item LineItem) decimal.Decimal {
	return item.Qty.Mul(item.UnitPrice).Sub(item.Discount)
}

// ComputeTotals sums the item lines. VAT is 7% of the discounted subtotal,
// rounded to 2 places, and is left nil for document types without a VAT line.
func ComputeTotals(docType types.DocType, items []LineItem) Totals {
	subtotal := decimal.Zero
	discount := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Qty.Mul(item.UnitPrice))
		discount = discount.Add(item.Discount)
	}
	return totalsFrom(docType, subtotal, discount)
}

// ComputeFixedTotals sums the fixed charge rows of a transport receipt
func ComputeFixedTotals(docType types.DocType, rows []FixedRow) Totals {
	subtotal := decimal.Zero
	for _, row := range rows {
		subtotal = subtotal.Add(row.Amount)
	}
	return totalsFrom(docType, subtotal, decimal.Zero)
}

func totalsFrom(docType types.DocType, subtotal, discount decimal.Decimal) Totals {
	afterDiscount := subtotal.Sub(discount)
	totals := Totals{
		Subtotal:      subtotal,
		Discount:      discount,
		AfterDiscount: afterDiscount,
		Total:         afterDiscount,
	}
	if docType.HasVAT() {
		vat := afterDiscount.Mul(VATRate).Round(2)
		totals.VAT = &vat
		totals.Total = afterDiscount.Add(vat)
	}
	return totals
}
