package template

import (
	"time"

	"github.com/printstudio/docengine/internal/types"
	"github.com/samber/lo"
)

// Ids of the built-in templates shipped with this build
const (
	DefaultQuotationID    = "default-quotation"
	DefaultReceiptFullID  = "default-receipt-full"
	DefaultReceiptShortID = "default-receipt-short"
	DefaultTrfReceiptID   = "default-trf-receipt"

	QuotationHeaderBarColor = "#26D6F0"
)

// shippedAt is stamped on every shipped template so two builds of the list compare equal
var shippedAt = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

// ShippedDefaults returns a fresh copy of the built-in templates. Block ids are
// stable across calls.
func ShippedDefaults() []*Template {
	return []*Template{
		quotationDefault(),
		receiptFullDefault(),
		receiptShortDefault(),
		trfReceiptDefault(),
	}
}

// ShippedDefault returns the built-in template used for a document type
func ShippedDefault(docType types.DocType) (*Template, bool) {
	return lo.Find(ShippedDefaults(), func(t *Template) bool {
		return t.DocType == docType
	})
}

func shipped(id, name string, docType types.DocType, theme Theme, page Page, blocks ...*Block) *Template {
	// each type appears at most once per shipped template
	for _, b := range blocks {
		b.ID = id + "-" + string(b.Type)
	}
	return &Template{
		ID:            id,
		Name:          name,
		DocType:       docType,
		SchemaVersion: SchemaVersion,
		Published:     true,
		IsDefault:     true,
		Theme:         theme,
		Page:          page,
		Blocks:        blocks,
		UpdatedAt:     shippedAt,
	}
}

func block(props BlockProps) *Block {
	return &Block{Type: props.BlockType(), Props: props}
}

func defaultsOf[P BlockProps](blockType types.BlockType) P {
	return lo.Must(DefaultProps(blockType)).(P)
}

func quotationDefault() *Template {
	theme := DefaultTheme()
	theme.HeaderBarColor = QuotationHeaderBarColor
	theme.AccentColor = QuotationHeaderBarColor
	theme.TableHeaderBgColor = "#E0F7FB"
	theme.TotalsBarBgColor = QuotationHeaderBarColor
	theme.TotalsBarTextColor = "#0F172A"

	title := defaultsOf[*TitleProps](types.BlockTypeTitle)
	title.Text = "ใบเสนอราคา"
	title.TextEn = "QUOTATION"

	notes := defaultsOf[*NotesProps](types.BlockTypeNotes)
	notes.Title = "หมายเหตุ / Remarks"

	signature := defaultsOf[*SignatureProps](types.BlockTypeSignature)
	signature.Labels = []string{"ผู้เสนอราคา / Quoted by", "ผู้อนุมัติ / Approved by"}

	items := defaultsOf[*ItemsTableProps](types.BlockTypeItemsTable)
	items.MinRows = 8

	return shipped(DefaultQuotationID, "Quotation (default)", types.DocTypeQuotation, theme, DefaultPage(),
		block(defaultsOf[*HeaderProps](types.BlockTypeHeader)),
		block(title),
		block(defaultsOf[*CustomerInfoProps](types.BlockTypeCustomerInfo)),
		block(defaultsOf[*DocMetaProps](types.BlockTypeDocMeta)),
		block(items),
		block(defaultsOf[*SummaryTotalsProps](types.BlockTypeSummaryTotals)),
		block(defaultsOf[*AmountInWordsProps](types.BlockTypeAmountInWords)),
		block(notes),
		block(signature),
	)
}

func receiptFullDefault() *Template {
	title := defaultsOf[*TitleProps](types.BlockTypeTitle)
	title.Text = "ใบเสร็จรับเงิน / ใบกำกับภาษี"
	title.TextEn = "RECEIPT / TAX INVOICE"

	signature := defaultsOf[*SignatureProps](types.BlockTypeSignature)
	signature.Labels = []string{"ผู้รับเงิน / Collector", "ผู้มีอำนาจลงนาม / Authorized"}

	items := defaultsOf[*ItemsTableProps](types.BlockTypeItemsTable)
	items.MinRows = 6

	return shipped(DefaultReceiptFullID, "Receipt / Tax invoice (default)", types.DocTypeReceiptFull, DefaultTheme(), DefaultPage(),
		block(defaultsOf[*HeaderProps](types.BlockTypeHeader)),
		block(title),
		block(defaultsOf[*CustomerInfoProps](types.BlockTypeCustomerInfo)),
		block(defaultsOf[*DocMetaProps](types.BlockTypeDocMeta)),
		block(items),
		block(defaultsOf[*SummaryTotalsProps](types.BlockTypeSummaryTotals)),
		block(defaultsOf[*AmountInWordsProps](types.BlockTypeAmountInWords)),
		block(defaultsOf[*PaymentMethodProps](types.BlockTypePaymentMethod)),
		block(signature),
		block(defaultsOf[*StampProps](types.BlockTypeStamp)),
	)
}

func receiptShortDefault() *Template {
	page := DefaultPage()
	page.Mode = types.PageModeThermal
	page.ThermalMM = lo.ToPtr(DefaultThermal())

	header := defaultsOf[*HeaderProps](types.BlockTypeHeader)
	header.ShowContact = false
	header.LogoHeightPx = 40

	title := defaultsOf[*TitleProps](types.BlockTypeTitle)
	title.Text = "ใบเสร็จรับเงิน (อย่างย่อ)"

	items := defaultsOf[*ItemsTableProps](types.BlockTypeItemsTable)
	items.Columns = []ItemColumn{ItemColumnDescription, ItemColumnQty, ItemColumnAmount}
	items.ShowRowNumbers = false

	totals := defaultsOf[*SummaryTotalsProps](types.BlockTypeSummaryTotals)
	totals.ShowVAT = false

	payment := defaultsOf[*PaymentMethodProps](types.BlockTypePaymentMethod)
	payment.Methods = []PaymentMethodKind{PaymentMethodCash, PaymentMethodTransfer}

	notes := defaultsOf[*NotesProps](types.BlockTypeNotes)
	notes.Title = ""
	notes.Text = "ขอบคุณที่ใช้บริการ"

	return shipped(DefaultReceiptShortID, "Short receipt (default)", types.DocTypeReceiptShort, DefaultTheme(), page,
		block(header),
		block(title),
		block(defaultsOf[*DocMetaProps](types.BlockTypeDocMeta)),
		block(items),
		block(totals),
		block(payment),
		block(notes),
	)
}

func trfReceiptDefault() *Template {
	title := defaultsOf[*TitleProps](types.BlockTypeTitle)
	title.Text = "ใบรับเงินค่าขนส่ง"
	title.TextEn = "TRANSPORT RECEIPT"
	title.Align = types.TextAlignLeft

	customer := defaultsOf[*CustomerInfoProps](types.BlockTypeCustomerInfo)
	customer.ShowTaxID = false

	return shipped(DefaultTrfReceiptID, "Transport receipt (default)", types.DocTypeTrfReceipt, DefaultTheme(), DefaultPage(),
		block(defaultsOf[*HeaderProps](types.BlockTypeHeader)),
		block(title),
		block(customer),
		block(defaultsOf[*DocMetaProps](types.BlockTypeDocMeta)),
		block(defaultsOf[*JournalItemsProps](types.BlockTypeJournalItems)),
		block(defaultsOf[*SummaryTotalsProps](types.BlockTypeSummaryTotals)),
		block(defaultsOf[*AmountInWordsProps](types.BlockTypeAmountInWords)),
		block(defaultsOf[*SignatureProps](types.BlockTypeSignature)),
	)
}
