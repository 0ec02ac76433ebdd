package template

import (
	"slices"

	"github.com/printstudio/docengine/internal/types"
)

// BlockProps is the variant payload of a block. The set of implementations is
// closed: one struct per block type.
type BlockProps interface {
	BlockType() types.BlockType
	clone() BlockProps
}

// ItemColumn is one column of the items table
type ItemColumn string

const (
	ItemColumnNo          ItemColumn = "no"
	ItemColumnDescription ItemColumn = "description"
	ItemColumnQty         ItemColumn = "qty"
	ItemColumnUnit        ItemColumn = "unit"
	ItemColumnUnitPrice   ItemColumn = "unitPrice"
	ItemColumnDiscount    ItemColumn = "discount"
	ItemColumnAmount      ItemColumn = "amount"
)

// PaymentMethodKind is one selectable payment method
type PaymentMethodKind string

const (
	PaymentMethodCash     PaymentMethodKind = "cash"
	PaymentMethodTransfer PaymentMethodKind = "transfer"
	PaymentMethodCheque   PaymentMethodKind = "cheque"
	PaymentMethodCard     PaymentMethodKind = "card"
)

type HeaderProps struct {
	ShowLogo     bool `json:"showLogo"`
	ShowAddress  bool `json:"showAddress"`
	ShowTaxID    bool `json:"showTaxId"`
	ShowContact  bool `json:"showContact"`
	LogoHeightPx int  `json:"logoHeightPx" validate:"gte=0,lte=400"`
}

type TitleProps struct {
	Text   string          `json:"text" validate:"max=200"`
	TextEn string          `json:"textEn" validate:"max=200"`
	Align  types.TextAlign `json:"align" validate:"oneof=left center right"`
}

type CustomerInfoProps struct {
	Label       string `json:"label" validate:"max=120"`
	ShowTaxID   bool   `json:"showTaxId"`
	ShowPhone   bool   `json:"showPhone"`
	ShowAddress bool   `json:"showAddress"`
}

type DocMetaProps struct {
	ShowDueDate     bool `json:"showDueDate"`
	ShowReference   bool `json:"showReference"`
	ShowSalesperson bool `json:"showSalesperson"`
}

type ItemsTableProps struct {
	Columns        []ItemColumn `json:"columns" validate:"min=1,dive,oneof=no description qty unit unitPrice discount amount"`
	MinRows        int          `json:"minRows" validate:"gte=0,lte=50"`
	ShowRowNumbers bool         `json:"showRowNumbers"`
}

type SummaryTotalsProps struct {
	ShowDiscount bool   `json:"showDiscount"`
	ShowVAT      bool   `json:"showVat"`
	VATLabel     string `json:"vatLabel" validate:"max=60"`
}

type AmountInWordsProps struct {
	ShowEnglish bool `json:"showEnglish"`
}

type NotesProps struct {
	Title string `json:"title" validate:"max=120"`
	Text  string `json:"text" validate:"max=4000"`
}

type SignatureProps struct {
	Labels   []string `json:"labels" validate:"min=1,max=4,dive,max=80"`
	ShowDate bool     `json:"showDate"`
}

type StampProps struct {
	Label     string `json:"label" validate:"max=80"`
	ShowImage bool   `json:"showImage"`
}

type PaymentMethodProps struct {
	Methods []PaymentMethodKind `json:"methods" validate:"min=1,dive,oneof=cash transfer cheque card"`
	Terms   string              `json:"terms" validate:"max=500"`
}

type JournalItemsProps struct {
	ShowTotals bool `json:"showTotals"`
}

func (*HeaderProps) BlockType() types.BlockType        { return types.BlockTypeHeader }
func (*TitleProps) BlockType() types.BlockType         { return types.BlockTypeTitle }
func (*CustomerInfoProps) BlockType() types.BlockType  { return types.BlockTypeCustomerInfo }
func (*DocMetaProps) BlockType() types.BlockType       { return types.BlockTypeDocMeta }
func (*ItemsTableProps) BlockType() types.BlockType    { return types.BlockTypeItemsTable }
func (*SummaryTotalsProps) BlockType() types.BlockType { return types.BlockTypeSummaryTotals }
func (*AmountInWordsProps) BlockType() types.BlockType { return types.BlockTypeAmountInWords }
func (*NotesProps) BlockType() types.BlockType         { return types.BlockTypeNotes }
func (*SignatureProps) BlockType() types.BlockType     { return types.BlockTypeSignature }
func (*StampProps) BlockType() types.BlockType         { return types.BlockTypeStamp }
func (*PaymentMethodProps) BlockType() types.BlockType { return types.BlockTypePaymentMethod }
func (*JournalItemsProps) BlockType() types.BlockType  { return types.BlockTypeJournalItems }

func (p *HeaderProps) clone() BlockProps        { c := *p; return &c }
func (p *TitleProps) clone() BlockProps         { c := *p; return &c }
func (p *CustomerInfoProps) clone() BlockProps  { c := *p; return &c }
func (p *DocMetaProps) clone() BlockProps       { c := *p; return &c }
func (p *SummaryTotalsProps) clone() BlockProps { c := *p; return &c }
func (p *AmountInWordsProps) clone() BlockProps { c := *p; return &c }
func (p *NotesProps) clone() BlockProps         { c := *p; return &c }
func (p *StampProps) clone() BlockProps         { c := *p; return &c }
func (p *JournalItemsProps) clone() BlockProps  { c := *p; return &c }

func (p *ItemsTableProps) clone() BlockProps {
	c := *p
	c.Columns = slices.Clone(p.Columns)
	return &c
}

func (p *SignatureProps) clone() BlockProps {
	c := *p
	c.Labels = slices.Clone(p.Labels)
	return &c
}

func (p *PaymentMethodProps) clone() BlockProps {
	c := *p
	c.Methods = slices.Clone(p.Methods)
	return &c
}

// DefaultColumns is the column set of a new items table
func DefaultColumns() []ItemColumn {
	return []ItemColumn{
		ItemColumnNo,
		ItemColumnDescription,
		ItemColumnQty,
		ItemColumnUnit,
		ItemColumnUnitPrice,
		ItemColumnDiscount,
		ItemColumnAmount,
	}
}

// DefaultProps returns the props of a new block of the given type. Decoding
// stored props on top of these values injects defaults for omitted fields.
func DefaultProps(blockType types.BlockType) (BlockProps, error) {
	switch blockType {
	case types.BlockTypeHeader:
		return &HeaderProps{ShowLogo: true, ShowAddress: true, ShowTaxID: true, ShowContact: true, LogoHeightPx: 56}, nil
	case types.BlockTypeTitle:
		return &TitleProps{Align: types.TextAlignCenter}, nil
	case types.BlockTypeCustomerInfo:
		return &CustomerInfoProps{ShowTaxID: true, ShowPhone: true, ShowAddress: true}, nil
	case types.BlockTypeDocMeta:
		return &DocMetaProps{ShowDueDate: true, ShowReference: true, ShowSalesperson: true}, nil
	case types.BlockTypeItemsTable:
		return &ItemsTableProps{Columns: DefaultColumns(), ShowRowNumbers: true}, nil
	case types.BlockTypeSummaryTotals:
		return &SummaryTotalsProps{ShowDiscount: true, ShowVAT: true, VATLabel: "VAT 7%"}, nil
	case types.BlockTypeAmountInWords:
		return &AmountInWordsProps{ShowEnglish: true}, nil
	case types.BlockTypeNotes:
		return &NotesProps{Title: "Notes"}, nil
	case types.BlockTypeSignature:
		return &SignatureProps{Labels: []string{"Received by", "Authorized by"}, ShowDate: true}, nil
	case types.BlockTypeStamp:
		return &StampProps{Label: "Company stamp", ShowImage: true}, nil
	case types.BlockTypePaymentMethod:
		return &PaymentMethodProps{Methods: []PaymentMethodKind{PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCheque}}, nil
	case types.BlockTypeJournalItems:
		return &JournalItemsProps{ShowTotals: true}, nil
	default:
		return nil, blockType.Validate()
	}
}
