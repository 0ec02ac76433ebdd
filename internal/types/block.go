package types

import (
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/samber/lo"
)

// BlockType is the discriminator of the block union
type BlockType string

const (
	BlockTypeHeader        BlockType = "header"
	BlockTypeTitle         BlockType = "title"
	BlockTypeCustomerInfo  BlockType = "customerInfo"
	BlockTypeDocMeta       BlockType = "docMeta"
	BlockTypeItemsTable    BlockType = "itemsTable"
	BlockTypeSummaryTotals BlockType = "summaryTotals"
	BlockTypeAmountInWords BlockType = "amountInWords"
	BlockTypeNotes         BlockType = "notes"
	BlockTypeSignature     BlockType = "signature"
	BlockTypeStamp         BlockType = "stamp"
	BlockTypePaymentMethod BlockType = "paymentMethod"
	BlockTypeJournalItems  BlockType = "journalItems"
)

// BlockTypes lists the palette in display order
var BlockTypes = []BlockType{
	BlockTypeHeader,
	BlockTypeTitle,
	BlockTypeCustomerInfo,
	BlockTypeDocMeta,
	BlockTypeItemsTable,
	BlockTypeSummaryTotals,
	BlockTypeAmountInWords,
	BlockTypeNotes,
	BlockTypeSignature,
	BlockTypeStamp,
	BlockTypePaymentMethod,
	BlockTypeJournalItems,
}

func (b BlockType) String() string {
	return string(b)
}

func (b BlockType) Validate() error {
	if !lo.Contains(BlockTypes, b) {
		return ierr.NewErrorf("unknown block type: %s", b).
			WithHint("Please provide a valid block type").
			WithReportableDetails(map[string]any{
				"allowed": BlockTypes,
			}).
			Mark(ierr.ErrUnknownBlockType)
	}
	return nil
}
