package template

import (
	jsoniter "github.com/json-iterator/go"
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/types"
	"github.com/samber/lo"
)

// Block is one visual unit of a template. Props is one of the twelve *Props
// structs below and always matches Type.
type Block struct {
	ID         string          `json:"id" validate:"required"`
	Type       types.BlockType `json:"type" validate:"required"`
	Locked     bool            `json:"locked,omitempty"`
	Style      *StyleOverride  `json:"style,omitempty"`
	Visibility *Visibility     `json:"visibility,omitempty"`
	Props      BlockProps      `json:"props" validate:"-"`
}

// StyleOverride is the fixed set of per-block style knobs
type StyleOverride struct {
	PaddingPx       *int            `json:"paddingPx,omitempty" validate:"omitempty,gte=0,lte=200"`
	MarginPx        *int            `json:"marginPx,omitempty" validate:"omitempty,gte=0,lte=200"`
	BorderPx        *int            `json:"borderPx,omitempty" validate:"omitempty,gte=0,lte=20"`
	BorderColor     string          `json:"borderColor,omitempty" validate:"omitempty,doccolor"`
	BackgroundColor string          `json:"backgroundColor,omitempty" validate:"omitempty,doccolor"`
	TextColor       string          `json:"textColor,omitempty" validate:"omitempty,doccolor"`
	Align           types.TextAlign `json:"align,omitempty" validate:"omitempty,oneof=left center right"`
	FontFamily      string          `json:"fontFamily,omitempty" validate:"omitempty,max=120"`
	FontSizePx      *int            `json:"fontSizePx,omitempty" validate:"omitempty,gte=6,lte=72"`
}

// Visibility hides a block in screen preview or print output
type Visibility struct {
	Screen bool `json:"screen"`
	Print  bool `json:"print"`
}

func (v *Visibility) UnmarshalJSON(data []byte) error {
	type alias Visibility
	a := alias{Screen: true, Print: true}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*v = Visibility(a)
	return nil
}

// VisibleIn reports whether the block is shown in the given render mode
func (b *Block) VisibleIn(mode types.RenderMode) bool {
	if b.Visibility == nil {
		return true
	}
	if mode == types.RenderModePrint {
		return b.Visibility.Print
	}
	return b.Visibility.Screen
}

// NewBlockID returns a fresh block id
func NewBlockID() string {
	return types.NewID(types.IDPrefixBlock)
}

// NewBlock creates a block of the given type carrying default props
func NewBlock(blockType types.BlockType) (*Block, error) {
	props, err := DefaultProps(blockType)
	if err != nil {
		return nil, err
	}
	return &Block{
		ID:    NewBlockID(),
		Type:  blockType,
		Props: props,
	}, nil
}

func (b *Block) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID         string              `json:"id"`
		Type       types.BlockType     `json:"type"`
		Locked     bool                `json:"locked"`
		Style      *StyleOverride      `json:"style"`
		Visibility *Visibility         `json:"visibility"`
		Props      jsoniter.RawMessage `json:"props"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	props, err := DefaultProps(wire.Type)
	if err != nil {
		return err
	}
	if len(wire.Props) > 0 && string(wire.Props) != "null" {
		if err := json.Unmarshal(wire.Props, props); err != nil {
			return ierr.WithError(err).
				WithHintf("invalid props for %s block", wire.Type).
				Mark(ierr.ErrValidation)
		}
	}

	*b = Block{
		ID:         wire.ID,
		Type:       wire.Type,
		Locked:     wire.Locked,
		Style:      wire.Style,
		Visibility: wire.Visibility,
		Props:      props,
	}
	return nil
}

// Clone returns a deep copy of the block
func (b *Block) Clone() *Block {
	if b == nil {
		return nil
	}
	c := *b
	if b.Style != nil {
		s := b.Style.clone()
		c.Style = &s
	}
	if b.Visibility != nil {
		v := *b.Visibility
		c.Visibility = &v
	}
	if b.Props != nil {
		c.Props = b.Props.clone()
	}
	return &c
}

func (s StyleOverride) clone() StyleOverride {
	s.PaddingPx = clonePtr(s.PaddingPx)
	s.MarginPx = clonePtr(s.MarginPx)
	s.BorderPx = clonePtr(s.BorderPx)
	s.FontSizePx = clonePtr(s.FontSizePx)
	return s
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	return lo.ToPtr(*p)
}
