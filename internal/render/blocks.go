package render

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/printstudio/docengine/internal/domain/document"
	domain "github.com/printstudio/docengine/internal/domain/template"
	"github.com/printstudio/docengine/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Label is a caption in Thai with its English counterpart
type Label struct {
	Th string
	En string
}

type baseView struct {
	Bilingual bool
	DocType   types.DocType
	Theme     domain.Theme
}

func base(rc Context) baseView {
	return baseView{Bilingual: rc.bilingual(), DocType: rc.docType(), Theme: rc.Theme}
}

// company merges the branding profile with the company of the loaded document.
// Branding wins because it is the presentation default of the install.
type companyView struct {
	Name         string
	NameEn       string
	AddressLines []string
	Phone        string
	Email        string
	Website      string
	TaxID        string
	Branch       string
	LogoURL      template.URL
}

func company(rc Context) companyView {
	var c companyView
	if rc.DTO != nil && rc.DTO.Company != nil {
		p := rc.DTO.Company
		c = companyView{
			Name:         p.Name,
			NameEn:       p.NameEn,
			AddressLines: p.AddressLines,
			Phone:        p.Phone,
			Email:        p.Email,
			TaxID:        p.TaxID,
			Branch:       p.Branch,
		}
	}
	if b := rc.Branding; b != nil {
		c.Name = lo.CoalesceOrEmpty(b.CompanyName, c.Name)
		c.NameEn = lo.CoalesceOrEmpty(b.CompanyNameEn, c.NameEn)
		if len(b.AddressLines) > 0 {
			c.AddressLines = b.AddressLines
		}
		c.Phone = lo.CoalesceOrEmpty(b.Phone, c.Phone)
		c.Email = lo.CoalesceOrEmpty(b.Email, c.Email)
		c.Website = b.Website
		c.TaxID = lo.CoalesceOrEmpty(b.TaxID, c.TaxID)
		c.Branch = lo.CoalesceOrEmpty(b.Branch, c.Branch)
		c.LogoURL = imageSrc(b.LogoURL)
	}
	return c
}

type headerView struct {
	baseView
	Company      companyView
	ShowLogo     bool
	ShowAddress  bool
	ShowTaxID    bool
	ShowContact  bool
	LogoHeightPx int
}

func header(p *domain.HeaderProps, rc Context) any {
	c := company(rc)
	return headerView{
		baseView:     base(rc),
		Company:      c,
		ShowLogo:     p.ShowLogo && c.LogoURL != "",
		ShowAddress:  p.ShowAddress,
		ShowTaxID:    p.ShowTaxID,
		ShowContact:  p.ShowContact,
		LogoHeightPx: p.LogoHeightPx,
	}
}

var documentTitles = map[types.DocType]Label{
	types.DocTypeQuotation:    {Th: "ใบเสนอราคา", En: "Quotation"},
	types.DocTypeReceiptFull:  {Th: "ใบเสร็จรับเงิน / ใบกำกับภาษี", En: "Receipt / Tax Invoice"},
	types.DocTypeReceiptShort: {Th: "ใบกำกับภาษีอย่างย่อ", En: "Abbreviated Tax Invoice"},
	types.DocTypeTrfReceipt:   {Th: "ใบเสร็จรับเงินค่าขนส่ง", En: "Transport Receipt"},
}

type titleView struct {
	baseView
	Title Label
	Align types.TextAlign
}

func title(p *domain.TitleProps, rc Context) any {
	fallback := documentTitles[rc.docType()]
	return titleView{
		baseView: base(rc),
		Title: Label{
			Th: lo.CoalesceOrEmpty(p.Text, fallback.Th, Placeholder),
			En: lo.CoalesceOrEmpty(p.TextEn, fallback.En),
		},
		Align: lo.CoalesceOrEmpty(p.Align, types.TextAlignCenter),
	}
}

type customerInfoView struct {
	baseView
	Label        Label
	Code         string
	Name         string
	NameEn       string
	ContactName  string
	TaxID        string
	Branch       string
	AddressLines []string
	Phone        string
	ShowTaxID    bool
	ShowPhone    bool
	ShowAddress  bool
}

func customerInfo(p *domain.CustomerInfoProps, rc Context) any {
	v := customerInfoView{
		baseView:    base(rc),
		Label:       Label{Th: lo.CoalesceOrEmpty(p.Label, "ลูกค้า"), En: "Customer"},
		Name:        Placeholder,
		Code:        Placeholder,
		ContactName: Placeholder,
		TaxID:       Placeholder,
		Branch:      Placeholder,
		Phone:       Placeholder,
		ShowTaxID:   p.ShowTaxID,
		ShowPhone:   p.ShowPhone,
		ShowAddress: p.ShowAddress,
	}
	if rc.DTO != nil && rc.DTO.Partner != nil {
		c := rc.DTO.Partner
		v.Code = OrDash(c.Code)
		v.Name = OrDash(c.Name)
		v.NameEn = c.NameEn
		v.ContactName = OrDash(c.ContactName)
		v.TaxID = OrDash(c.TaxID)
		v.Branch = OrDash(c.Branch)
		v.Phone = OrDash(c.Phone)
		v.AddressLines = c.AddressLines
	}
	if len(v.AddressLines) == 0 {
		v.AddressLines = []string{Placeholder}
	}
	return v
}

// Field is one captioned value
type Field struct {
	Label Label
	Value string
}

type docMetaView struct {
	baseView
	Fields []Field
}

func docMeta(p *domain.DocMetaProps, rc Context) any {
	bilingual := rc.bilingual()
	date := func(d *document.Date) string {
		if bilingual {
			return ThaiDate(d)
		}
		return ShortDate(d)
	}

	var m document.Meta
	if rc.DTO != nil && rc.DTO.Document != nil {
		m = *rc.DTO.Document
	}

	fields := []Field{
		{Label: Label{Th: "เลขที่", En: "No."}, Value: OrDash(m.Number)},
		{Label: Label{Th: "วันที่", En: "Date"}, Value: date(m.Date)},
	}
	if p.ShowDueDate && rc.docType() == types.DocTypeQuotation {
		fields = append(fields, Field{Label: Label{Th: "ยืนราคาถึง", En: "Valid until"}, Value: date(m.DueDate)})
	}
	if p.ShowReference {
		fields = append(fields, Field{Label: Label{Th: "อ้างอิง", En: "Reference"}, Value: OrDash(m.Reference)})
	}
	if p.ShowSalesperson {
		fields = append(fields, Field{Label: Label{Th: "พนักงานขาย", En: "Salesperson"}, Value: OrDash(m.Salesperson)})
	}
	return docMetaView{baseView: base(rc), Fields: fields}
}

var columnLabels = map[domain.ItemColumn]Label{
	domain.ItemColumnNo:          {Th: "ลำดับ", En: "No."},
	domain.ItemColumnDescription: {Th: "รายการ", En: "Description"},
	domain.ItemColumnQty:         {Th: "จำนวน", En: "Qty"},
	domain.ItemColumnUnit:        {Th: "หน่วย", En: "Unit"},
	domain.ItemColumnUnitPrice:   {Th: "ราคา/หน่วย", En: "Unit Price"},
	domain.ItemColumnDiscount:    {Th: "ส่วนลด", En: "Discount"},
	domain.ItemColumnAmount:      {Th: "จำนวนเงิน", En: "Amount"},
}

// Column is one rendered items table column
type Column struct {
	Key   domain.ItemColumn
	Label Label
	Align types.TextAlign
}

type itemsTableView struct {
	baseView
	Columns []Column
	Rows    [][]string
	Fillers []int
	Empty   bool
}

func columnAlign(c domain.ItemColumn) types.TextAlign {
	switch c {
	case domain.ItemColumnDescription:
		return types.TextAlignLeft
	case domain.ItemColumnNo, domain.ItemColumnUnit:
		return types.TextAlignCenter
	default:
		return types.TextAlignRight
	}
}

func itemsTable(p *domain.ItemsTableProps, rc Context) any {
	columns := lo.FilterMap(p.Columns, func(c domain.ItemColumn, _ int) (Column, bool) {
		if c == domain.ItemColumnNo && !p.ShowRowNumbers {
			return Column{}, false
		}
		label, ok := columnLabels[c]
		return Column{Key: c, Label: label, Align: columnAlign(c)}, ok
	})

	var rows [][]string
	if rc.DTO != nil {
		if rc.DTO.DocType == types.DocTypeTrfReceipt {
			for i, r := range rc.DTO.FixedRows {
				rows = append(rows, lo.Map(columns, func(c Column, _ int) string {
					return fixedRowCell(c.Key, i, r)
				}))
			}
		} else {
			for i, item := range rc.DTO.Items {
				rows = append(rows, lo.Map(columns, func(c Column, _ int) string {
					return itemCell(c.Key, i, item)
				}))
			}
		}
	}

	fillers := 0
	if p.MinRows > len(rows) {
		fillers = p.MinRows - len(rows)
	}
	return itemsTableView{
		baseView: base(rc),
		Columns:  columns,
		Rows:     rows,
		Fillers:  make([]int, fillers),
		Empty:    len(rows) == 0,
	}
}

func itemCell(c domain.ItemColumn, i int, item document.LineItem) string {
	switch c {
	case domain.ItemColumnNo:
		return strconv.Itoa(i + 1)
	case domain.ItemColumnDescription:
		return OrDash(item.Description)
	case domain.ItemColumnQty:
		return Quantity(item.Qty)
	case domain.ItemColumnUnit:
		return OrDash(item.Unit)
	case domain.ItemColumnUnitPrice:
		return Money(item.UnitPrice)
	case domain.ItemColumnDiscount:
		return Money(item.Discount)
	case domain.ItemColumnAmount:
		amount := item.Amount
		if amount.IsZero() {
			amount = document.LineAmount(item)
		}
		return Money(amount)
	}
	return Placeholder
}

func fixedRowCell(c domain.ItemColumn, i int, row document.FixedRow) string {
	switch c {
	case domain.ItemColumnNo:
		return strconv.Itoa(i + 1)
	case domain.ItemColumnDescription:
		return OrDash(row.Label)
	case domain.ItemColumnAmount:
		return Money(row.Amount)
	}
	return ""
}

// TotalRow is one line of the totals block
type TotalRow struct {
	Label Label
	Value string
	Grand bool
}

type summaryTotalsView struct {
	baseView
	Rows []TotalRow
}

func summaryTotals(p *domain.SummaryTotalsProps, rc Context) any {
	if rc.DTO == nil {
		return summaryTotalsView{
			baseView: base(rc),
			Rows:     []TotalRow{{Label: Label{Th: "รวมทั้งสิ้น", En: "Grand Total"}, Value: Placeholder, Grand: true}},
		}
	}

	t := rc.DTO.ResolvedTotals()
	rows := []TotalRow{{Label: Label{Th: "รวมเงิน", En: "Subtotal"}, Value: Money(t.Subtotal)}}
	if p.ShowDiscount && !t.Discount.IsZero() {
		rows = append(rows,
			TotalRow{Label: Label{Th: "ส่วนลด", En: "Discount"}, Value: Money(t.Discount)},
			TotalRow{Label: Label{Th: "หลังหักส่วนลด", En: "After Discount"}, Value: Money(t.AfterDiscount)},
		)
	}
	if p.ShowVAT && t.VAT != nil {
		rows = append(rows, TotalRow{
			Label: Label{Th: "ภาษีมูลค่าเพิ่ม 7%", En: lo.CoalesceOrEmpty(p.VATLabel, "VAT 7%")},
			Value: MoneyPtr(t.VAT),
		})
	}
	rows = append(rows, TotalRow{Label: Label{Th: "รวมทั้งสิ้น", En: "Grand Total"}, Value: Money(t.Total), Grand: true})
	return summaryTotalsView{baseView: base(rc), Rows: rows}
}

type amountInWordsView struct {
	baseView
	Thai        string
	English     string
	ShowEnglish bool
}

func amountInWords(p *domain.AmountInWordsProps, rc Context) any {
	v := amountInWordsView{
		baseView:    base(rc),
		Thai:        Placeholder,
		English:     Placeholder,
		ShowEnglish: p.ShowEnglish && rc.bilingual(),
	}
	if rc.DTO != nil {
		total := rc.DTO.ResolvedTotals().Total
		v.Thai = ThaiBahtText(total)
		v.English = EnglishBahtText(total)
	}
	return v
}

type notesView struct {
	baseView
	Title   string
	Caption Label
	Text    string
}

func notes(p *domain.NotesProps, rc Context) any {
	text := p.Text
	if text == "" && rc.DTO != nil && rc.DTO.Document != nil {
		text = rc.DTO.Document.Notes
	}
	return notesView{
		baseView: base(rc),
		Title:    p.Title,
		Caption:  Label{Th: "หมายเหตุ", En: p.Title},
		Text:     OrDash(text),
	}
}

type signatureView struct {
	baseView
	Labels   []string
	ShowDate bool
}

func signature(p *domain.SignatureProps, rc Context) any {
	return signatureView{baseView: base(rc), Labels: p.Labels, ShowDate: p.ShowDate}
}

type stampView struct {
	baseView
	Label    string
	Caption  Label
	ImageURL template.URL
}

func stamp(p *domain.StampProps, rc Context) any {
	en := p.Label
	if en == "" {
		en = "Company Seal"
	}
	v := stampView{baseView: base(rc), Label: p.Label, Caption: Label{Th: "ตราประทับ", En: en}}
	if p.ShowImage && rc.Branding != nil {
		v.ImageURL = imageSrc(rc.Branding.StampURL)
	}
	return v
}

var methodLabels = map[domain.PaymentMethodKind]Label{
	domain.PaymentMethodCash:     {Th: "เงินสด", En: "Cash"},
	domain.PaymentMethodTransfer: {Th: "โอนเงิน", En: "Bank Transfer"},
	domain.PaymentMethodCheque:   {Th: "เช็ค", En: "Cheque"},
	domain.PaymentMethodCard:     {Th: "บัตรเครดิต", En: "Credit Card"},
}

// Method is one payment method checkbox
type Method struct {
	Label   Label
	Checked bool
}

type paymentMethodView struct {
	baseView
	Methods   []Method
	BankName  string
	Reference string
	PaidAt    string
	Amount    string
	Terms     string
}

func paymentMethod(p *domain.PaymentMethodProps, rc Context) any {
	var pay *document.Payment
	if rc.DTO != nil {
		pay = rc.DTO.Payment
	}

	v := paymentMethodView{
		baseView:  base(rc),
		BankName:  Placeholder,
		Reference: Placeholder,
		PaidAt:    Placeholder,
		Amount:    Placeholder,
		Terms:     p.Terms,
	}
	v.Methods = lo.Map(p.Methods, func(m domain.PaymentMethodKind, _ int) Method {
		return Method{Label: methodLabels[m], Checked: pay != nil && pay.Method == string(m)}
	})
	if pay != nil {
		v.BankName = OrDash(pay.BankName)
		v.Reference = OrDash(pay.Reference)
		if rc.bilingual() {
			v.PaidAt = ThaiDate(pay.PaidAt)
		} else {
			v.PaidAt = ShortDate(pay.PaidAt)
		}
		v.Amount = Money(pay.Amount)
	}
	return v
}

// JournalRow is one rendered posting line
type JournalRow struct {
	AccountCode string
	AccountName string
	Debit       string
	Credit      string
}

// journalHeadings are the account, name, debit and credit column captions
var journalHeadings = []Label{
	{Th: "รหัสบัญชี", En: "Account Code"},
	{Th: "ชื่อบัญชี", En: "Account Name"},
	{Th: "เดบิต", En: "Debit"},
	{Th: "เครดิต", En: "Credit"},
}

var journalTotalLabel = Label{Th: "รวม", En: "Total"}

type journalItemsView struct {
	baseView
	Headings    []Label
	TotalLabel  Label
	Rows        []JournalRow
	ShowTotals  bool
	TotalDebit  string
	TotalCredit string
}

func journalItems(p *domain.JournalItemsProps, rc Context) any {
	v := journalItemsView{
		baseView:    base(rc),
		Headings:    journalHeadings,
		TotalLabel:  journalTotalLabel,
		ShowTotals:  p.ShowTotals,
		TotalDebit:  Placeholder,
		TotalCredit: Placeholder,
	}
	if rc.DTO == nil || len(rc.DTO.JournalItems) == 0 {
		return v
	}

	debit, credit := decimal.Zero, decimal.Zero
	for _, j := range rc.DTO.JournalItems {
		v.Rows = append(v.Rows, JournalRow{
			AccountCode: OrDash(j.AccountCode),
			AccountName: OrDash(j.AccountName),
			Debit:       amountOrBlank(j.Debit),
			Credit:      amountOrBlank(j.Credit),
		})
		debit = debit.Add(j.Debit)
		credit = credit.Add(j.Credit)
	}
	v.TotalDebit = Money(debit)
	v.TotalCredit = Money(credit)
	return v
}

func amountOrBlank(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return Money(d)
}

var imagePrefixes = []string{
	"https://",
	"http://",
	"data:image/png;base64,",
	"data:image/jpeg;base64,",
	"data:image/gif;base64,",
	"data:image/webp;base64,",
}

// imageSrc trusts remote images and inline raster images only
func imageSrc(s string) template.URL {
	s = strings.TrimSpace(s)
	for _, prefix := range imagePrefixes {
		if strings.HasPrefix(s, prefix) {
			return template.URL(s)
		}
	}
	return ""
}
