package types

import (
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/samber/lo"
)

// DocType identifies the shape of a printable document
type DocType string

const (
	DocTypeQuotation    DocType = "quotation"
	DocTypeReceiptFull  DocType = "receipt_full"
	DocTypeReceiptShort DocType = "receipt_short"
	DocTypeTrfReceipt   DocType = "trf_receipt"
)

// DocTypes lists every supported document type in a stable order
var DocTypes = []DocType{
	DocTypeQuotation,
	DocTypeReceiptFull,
	DocTypeReceiptShort,
	DocTypeTrfReceipt,
}

func (d DocType) String() string {
	return string(d)
}

func (d DocType) Validate() error {
	if !lo.Contains(DocTypes, d) {
		return ierr.NewErrorf("unsupported doc type: %s", d).
			WithHint("Please provide a valid document type").
			WithReportableDetails(map[string]any{
				"allowed": DocTypes,
			}).
			Mark(ierr.ErrUnsupportedDocType)
	}
	return nil
}

// IsReceipt reports whether the document carries payment details
func (d DocType) IsReceipt() bool {
	return d == DocTypeReceiptFull || d == DocTypeReceiptShort
}

// IsBilingual reports whether the document uses the boxed Thai/English layout
func (d DocType) IsBilingual() bool {
	return d == DocTypeQuotation || d == DocTypeReceiptFull
}

// HasVAT reports whether totals for the document include a VAT line
func (d DocType) HasVAT() bool {
	return d != DocTypeReceiptShort
}
