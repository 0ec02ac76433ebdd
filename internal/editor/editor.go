// Package editor holds the canvas operations of the template designer. All
// functions are pure: they return new block slices and never modify their
// input.
package editor

import (
	"math"
	"slices"

	"github.com/printstudio/docengine/internal/domain/template"
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/types"
	"github.com/samber/lo"
)

// SnapToGrid rounds a drag delta to the nearest multiple of gridPx on each
// axis. A non-positive grid leaves the delta unchanged.
func SnapToGrid(dx, dy float64, gridPx int) (float64, float64) {
	if gridPx <= 0 {
		return dx, dy
	}
	g := float64(gridPx)
	snap := func(v float64) float64 {
		s := math.Round(v/g) * g
		if s == 0 {
			return 0 // no negative zero
		}
		return s
	}
	return snap(dx), snap(dy)
}

// PaletteEntry is one insertable block kind
type PaletteEntry struct {
	Type    types.BlockType `json:"type"`
	Label   string          `json:"label"`
	LabelTh string          `json:"labelTh"`
}

var paletteLabels = map[types.BlockType][2]string{
	types.BlockTypeHeader:        {"Company header", "หัวกระดาษบริษัท"},
	types.BlockTypeTitle:         {"Document title", "ชื่อเอกสาร"},
	types.BlockTypeCustomerInfo:  {"Customer", "ข้อมูลลูกค้า"},
	types.BlockTypeDocMeta:       {"Document details", "รายละเอียดเอกสาร"},
	types.BlockTypeItemsTable:    {"Items table", "ตารางรายการ"},
	types.BlockTypeSummaryTotals: {"Totals", "สรุปยอด"},
	types.BlockTypeAmountInWords: {"Amount in words", "จำนวนเงินตัวอักษร"},
	types.BlockTypeNotes:         {"Notes", "หมายเหตุ"},
	types.BlockTypeSignature:     {"Signatures", "ลายเซ็น"},
	types.BlockTypeStamp:         {"Company stamp", "ตราประทับ"},
	types.BlockTypePaymentMethod: {"Payment method", "วิธีชำระเงิน"},
	types.BlockTypeJournalItems:  {"Journal items", "รายการบัญชี"},
}

// Palette lists every block kind in display order
func Palette() []PaletteEntry {
	return lo.Map(types.BlockTypes, func(t types.BlockType, _ int) PaletteEntry {
		l := paletteLabels[t]
		return PaletteEntry{Type: t, Label: l[0], LabelTh: l[1]}
	})
}

// InsertBlock inserts a new block with default props at index at, clamped to
// the slice bounds.
func InsertBlock(blocks []*template.Block, blockType types.BlockType, at int) ([]*template.Block, *template.Block, error) {
	b, err := template.NewBlock(blockType)
	if err != nil {
		return nil, nil, err
	}
	at = clamp(at, 0, len(blocks))
	return slices.Insert(slices.Clone(blocks), at, b), b, nil
}

// MoveBlock moves the block at from to index to. to is clamped; an out of
// range from is an error.
func MoveBlock(blocks []*template.Block, from, to int) ([]*template.Block, error) {
	if from < 0 || from >= len(blocks) {
		return nil, ierr.NewErrorf("block index %d out of range", from).
			WithHint("The block to move does not exist").
			Mark(ierr.ErrInvalidOperation)
	}
	to = clamp(to, 0, len(blocks)-1)

	out := slices.Clone(blocks)
	moved := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, moved), nil
}

// Reorder rebuilds the block order from orderedIDs. Unknown and repeated ids
// are ignored and blocks missing from orderedIDs keep their relative order at
// the end, so the block count never changes.
func Reorder(blocks []*template.Block, orderedIDs []string) []*template.Block {
	byID := lo.SliceToMap(blocks, func(b *template.Block) (string, *template.Block) {
		return b.ID, b
	})

	out := make([]*template.Block, 0, len(blocks))
	placed := make(map[string]bool, len(blocks))
	for _, id := range orderedIDs {
		b, ok := byID[id]
		if !ok || placed[id] {
			continue
		}
		placed[id] = true
		out = append(out, b)
	}
	for _, b := range blocks {
		if !placed[b.ID] {
			out = append(out, b)
		}
	}
	return out
}

func clamp(v, low, high int) int {
	return max(low, min(v, high))
}
