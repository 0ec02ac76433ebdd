package editor

import (
	"github.com/printstudio/docengine/internal/domain/template"
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/types"
)

// Source is what is being dragged: a palette entry or an existing block
type Source interface {
	isSource()
}

// PaletteSource drags a new block of Type from the palette
type PaletteSource struct {
	Type types.BlockType
}

// BlockSource drags an existing block
type BlockSource struct {
	BlockID string
}

func (PaletteSource) isSource() {}
func (BlockSource) isSource()   {}

// DropResult is the block list after a drop and the block that landed
type DropResult struct {
	Blocks []*template.Block
	Block  *template.Block
}

// Drop applies a drag that ended over the block overID. An empty or unknown
// overID means the empty canvas area. A palette entry is inserted before the
// target or appended; a block is moved to the target's position or to the end.
func Drop(blocks []*template.Block, source Source, overID string) (*DropResult, error) {
	over := indexOf(blocks, overID)

	switch src := source.(type) {
	case PaletteSource:
		at := over
		if at < 0 {
			at = len(blocks)
		}
		out, b, err := InsertBlock(blocks, src.Type, at)
		if err != nil {
			return nil, err
		}
		return &DropResult{Blocks: out, Block: b}, nil

	case BlockSource:
		from := indexOf(blocks, src.BlockID)
		if from < 0 {
			return nil, ierr.NewErrorf("block %s not found", src.BlockID).
				WithHint("The dragged block no longer exists").
				Mark(ierr.ErrNotFound)
		}
		to := over
		if to < 0 {
			to = len(blocks) - 1
		}
		out, err := MoveBlock(blocks, from, to)
		if err != nil {
			return nil, err
		}
		return &DropResult{Blocks: out, Block: blocks[from]}, nil

	default:
		return nil, ierr.NewErrorf("unsupported drag source %T", source).
			Mark(ierr.ErrInvalidOperation)
	}
}

func indexOf(blocks []*template.Block, id string) int {
	if id == "" {
		return -1
	}
	for i, b := range blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}
