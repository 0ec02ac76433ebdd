package provider

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/printstudio/docengine/internal/domain/document"
	"github.com/printstudio/docengine/internal/types"
	"github.com/shopspring/decimal"
)

// SampleProvider builds deterministic sample documents for the editor preview
type SampleProvider struct {
	itemCount int
	items     []document.LineItem
	now       func() time.Time
}

// SampleOption configures a SampleProvider
type SampleOption func(*SampleProvider)

// WithItems replaces the generated line items
func WithItems(items []document.LineItem) SampleOption {
	return func(p *SampleProvider) {
		p.items = slices.Clone(items)
	}
}

// WithItemCount sets the number of generated line items
func WithItemCount(n int) SampleOption {
	return func(p *SampleProvider) {
		if n > 0 {
			p.itemCount = n
		}
	}
}

// WithClock sets the source of the document date
func WithClock(now func() time.Time) SampleOption {
	return func(p *SampleProvider) {
		p.now = now
	}
}

// NewSampleProvider creates a sample provider with three generated items
func NewSampleProvider(opts ...SampleOption) *SampleProvider {
	p := &SampleProvider{itemCount: 3, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var numberPrefixes = map[types.DocType]string{
	types.DocTypeQuotation:    "QT",
	types.DocTypeReceiptFull:  "RC",
	types.DocTypeReceiptShort: "RS",
	types.DocTypeTrfReceipt:   "TRF",
}

func (p *SampleProvider) GetDocumentDTO(ctx context.Context, docType types.DocType, recordID string) (*document.DocumentDTO, error) {
	if err := docType.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if recordID == "" {
		recordID = "0001"
	}
	today := document.NewDate(p.now())

	dto := &document.DocumentDTO{
		DocType: docType,
		Company: &document.Party{
			Name:         "บริษัท ตัวอย่าง จำกัด",
			NameEn:       "Sample Company Co., Ltd.",
			TaxID:        "0105561234567",
			Branch:       "สำนักงานใหญ่",
			AddressLines: []string{"99/1 ถนนสุขุมวิท", "แขวงคลองเตย เขตคลองเตย กรุงเทพฯ 10110"},
			Phone:        "02-123-4567",
			Email:        "sales@example.com",
		},
		Partner: &document.Party{
			Code:         "C-0001",
			Name:         "ลูกค้า ตัวอย่าง",
			NameEn:       "Sample Customer",
			TaxID:        "0105569876543",
			AddressLines: []string{"12 ถนนพระราม 4", "กรุงเทพฯ 10500"},
			Phone:        "081-234-5678",
			ContactName:  "คุณสมชาย",
		},
		Document: &document.Meta{
			Number:      fmt.Sprintf("%s-%s", numberPrefixes[docType], recordID),
			Date:        today,
			Reference:   "PO-" + recordID,
			Salesperson: "Sales Team",
			Currency:    "THB",
			Notes:       "ราคานี้รวมค่าขนส่งแล้ว",
		},
	}

	if docType == types.DocTypeQuotation {
		due := document.NewDate(today.AddDate(0, 0, 30))
		dto.Document.DueDate = due
	}

	if docType == types.DocTypeTrfReceipt {
		dto.FixedRows = sampleFixedRows()
		dto.JournalItems = sampleJournal(dto.FixedRows)
		totals := document.ComputeFixedTotals(docType, dto.FixedRows)
		dto.Totals = &totals
	} else {
		dto.Items = p.lineItems()
		totals := document.ComputeTotals(docType, dto.Items)
		dto.Totals = &totals
	}

	if docType.IsReceipt() || docType == types.DocTypeTrfReceipt {
		dto.Payment = samplePayment(docType, today, dto.Totals.Total)
	}
	return dto, nil
}

func (p *SampleProvider) lineItems() []document.LineItem {
	if p.items != nil {
		items := slices.Clone(p.items)
		for i := range items {
			if items[i].Amount.IsZero() {
				items[i].Amount = document.LineAmount(items[i])
			}
		}
		return items
	}

	items := make([]document.LineItem, 0, p.itemCount)
	for i := 0; i < p.itemCount; i++ {
		item := document.LineItem{
			Code:        fmt.Sprintf("P-%03d", i+1),
			Description: fmt.Sprintf("สินค้าตัวอย่าง %d", i+1),
			Qty:         decimal.NewFromInt(1),
			Unit:        "ชิ้น",
			UnitPrice:   decimal.NewFromInt(int64(1500 + i*500)),
			Discount:    decimal.Zero,
		}
		item.Amount = document.LineAmount(item)
		items = append(items, item)
	}
	return items
}

func samplePayment(docType types.DocType, paidAt *document.Date, amount decimal.Decimal) *document.Payment {
	switch docType {
	case types.DocTypeReceiptShort:
		return &document.Payment{Method: "cash", PaidAt: paidAt, Amount: amount}
	default:
		return &document.Payment{
			Method:    "transfer",
			BankName:  "ธนาคารกสิกรไทย",
			Reference: "TXN-000123",
			PaidAt:    paidAt,
			Amount:    amount,
		}
	}
}

func sampleFixedRows() []document.FixedRow {
	return []document.FixedRow{
		{Label: "ค่าขนส่ง", LabelEn: "Freight", Amount: decimal.NewFromInt(1200)},
		{Label: "ค่าขึ้นลงสินค้า", LabelEn: "Loading", Amount: decimal.NewFromInt(300)},
		{Label: "ค่าประกันสินค้า", LabelEn: "Insurance", Amount: decimal.NewFromInt(150)},
	}
}

func sampleJournal(rows []document.FixedRow) []document.JournalItem {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Amount)
	}
	return []document.JournalItem{
		{AccountCode: "1110", AccountName: "เงินสด", Debit: total, Credit: decimal.Zero},
		{AccountCode: "4100", AccountName: "รายได้ค่าขนส่ง", Debit: decimal.Zero, Credit: total},
	}
}
