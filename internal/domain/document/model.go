package document

import (
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/printstudio/docengine/internal/types"
	"github.com/shopspring/decimal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DocumentDTO is one concrete printable document instance. DocType decides
// which variant fields are meaningful: receipts carry Payment, trf_receipt
// carries FixedRows and JournalItems instead of Items.
type DocumentDTO struct {
	DocType  types.DocType `json:"docType"`
	Company  *Party        `json:"company,omitempty"`
	Partner  *Party        `json:"partner,omitempty"`
	Document *Meta         `json:"document,omitempty"`
	Items    []LineItem    `json:"items,omitempty"`
	Totals   *Totals       `json:"totals,omitempty"`

	Payment      *Payment      `json:"payment,omitempty"`
	FixedRows    []FixedRow    `json:"fixedRows,omitempty"`
	JournalItems []JournalItem `json:"journalItems,omitempty"`
}

// Party is the issuing company or the customer
type Party struct {
	Code         string   `json:"code,omitempty"`
	Name         string   `json:"name"`
	NameEn       string   `json:"nameEn,omitempty"`
	TaxID        string   `json:"taxId,omitempty"`
	Branch       string   `json:"branch,omitempty"`
	AddressLines []string `json:"addressLines,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Email        string   `json:"email,omitempty"`
	ContactName  string   `json:"contactName,omitempty"`
}

// Meta is the document header data
type Meta struct {
	Number      string `json:"number"`
	Date        *Date  `json:"date,omitempty"`
	DueDate     *Date  `json:"dueDate,omitempty"`
	Reference   string `json:"reference,omitempty"`
	Salesperson string `json:"salesperson,omitempty"`
	Currency    string `json:"currency,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// LineItem is one row of the items table
type LineItem struct {
	Code        string          `json:"code,omitempty"`
	Description string          `json:"description"`
	Qty         decimal.Decimal `json:"qty"`
	Unit        string          `json:"unit,omitempty"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Discount    decimal.Decimal `json:"discount"`
	Amount      decimal.Decimal `json:"amount"`
}

// Totals is the summary block data. VAT is nil when the document carries no VAT line.
type Totals struct {
	Subtotal      decimal.Decimal  `json:"subtotal"`
	Discount      decimal.Decimal  `json:"discount"`
	AfterDiscount decimal.Decimal  `json:"afterDiscount"`
	VAT           *decimal.Decimal `json:"vat,omitempty"`
	Total         decimal.Decimal  `json:"total"`
}

// Payment is how a receipt was settled
type Payment struct {
	Method    string          `json:"method"`
	BankName  string          `json:"bankName,omitempty"`
	Reference string          `json:"reference,omitempty"`
	PaidAt    *Date           `json:"paidAt,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
}

// FixedRow is a labelled charge line of a transport receipt
type FixedRow struct {
	Label   string          `json:"label"`
	LabelEn string          `json:"labelEn,omitempty"`
	Amount  decimal.Decimal `json:"amount"`
}

// JournalItem is one posting line of a transport receipt
type JournalItem struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// Date is a calendar date. It decodes both YYYY-MM-DD and RFC 3339 values and
// always encodes as YYYY-MM-DD.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate truncates t to its calendar date
func NewDate(t time.Time) *Date {
	y, m, d := t.Date()
	return &Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*d = Date{}
		return nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	*d = *NewDate(t)
	return nil
}

// IsSet reports whether the date carries a value
func (d *Date) IsSet() bool {
	return d != nil && !d.IsZero()
}

// ResolvedTotals returns the document totals, computing them from the lines when absent
func (d *DocumentDTO) ResolvedTotals() Totals {
	if d.Totals != nil {
		return *d.Totals
	}
	if d.DocType == types.DocTypeTrfReceipt {
		return ComputeFixedTotals(d.DocType, d.FixedRows)
	}
	return ComputeTotals(d.DocType, d.Items)
}
