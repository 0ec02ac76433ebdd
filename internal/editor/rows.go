package editor

import (
	"github.com/printstudio/docengine/internal/domain/template"
	"github.com/printstudio/docengine/internal/types"
)

// Row is one line of the rendered page: a single block or a two-column pair
type Row struct {
	Blocks []*template.Block
}

// Paired reports whether the row renders as two columns
func (r Row) Paired() bool {
	return len(r.Blocks) == 2
}

// Rows groups blocks for display. A customerInfo block immediately followed by
// a docMeta block shares one row. The pairing is derived from order on every
// call and is never stored.
func Rows(blocks []*template.Block) []Row {
	rows := make([]Row, 0, len(blocks))
	for i := 0; i < len(blocks); i++ {
		b := blocks[i]
		if b.Type == types.BlockTypeCustomerInfo && i+1 < len(blocks) && blocks[i+1].Type == types.BlockTypeDocMeta {
			rows = append(rows, Row{Blocks: []*template.Block{b, blocks[i+1]}})
			i++
			continue
		}
		rows = append(rows, Row{Blocks: []*template.Block{b}})
	}
	return rows
}
