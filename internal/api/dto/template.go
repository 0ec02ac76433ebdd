package dto

import (
	"github.com/printstudio/docengine/internal/domain/template"
	"github.com/printstudio/docengine/internal/editor"
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/types"
	"github.com/printstudio/docengine/internal/validator"
	"github.com/samber/lo"
)

// ListTemplatesResponse represents a template listing
type ListTemplatesResponse struct {
	Items []*template.Template `json:"items"`
	Total int                  `json:"total"`
}

func NewListTemplatesResponse(items []*template.Template) *ListTemplatesResponse {
	if items == nil {
		items = []*template.Template{}
	}
	return &ListTemplatesResponse{Items: items, Total: len(items)}
}

// RenameTemplateRequest represents the request to rename a template
type RenameTemplateRequest struct {
	Name string `json:"name" binding:"required" validate:"required,max=120"`
}

func (r *RenameTemplateRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// UpdateThemeRequest is a partial theme update. Nil fields are kept.
type UpdateThemeRequest struct {
	PrimaryColor       *string `json:"primaryColor,omitempty" validate:"omitempty,doccolor"`
	AccentColor        *string `json:"accentColor,omitempty" validate:"omitempty,doccolor"`
	HeaderBarColor     *string `json:"headerBarColor,omitempty" validate:"omitempty,doccolor"`
	TableHeaderBgColor *string `json:"tableHeaderBgColor,omitempty" validate:"omitempty,doccolor"`
	TotalsBarBgColor   *string `json:"totalsBarBgColor,omitempty" validate:"omitempty,doccolor"`
	TotalsBarTextColor *string `json:"totalsBarTextColor,omitempty" validate:"omitempty,doccolor"`
	FontFamily         *string `json:"fontFamily,omitempty" validate:"omitempty,max=120"`
}

func (r *UpdateThemeRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// Apply returns theme with the request's fields applied
func (r *UpdateThemeRequest) Apply(theme template.Theme) template.Theme {
	theme.PrimaryColor = lo.FromPtrOr(r.PrimaryColor, theme.PrimaryColor)
	theme.AccentColor = lo.FromPtrOr(r.AccentColor, theme.AccentColor)
	theme.HeaderBarColor = lo.FromPtrOr(r.HeaderBarColor, theme.HeaderBarColor)
	theme.TableHeaderBgColor = lo.FromPtrOr(r.TableHeaderBgColor, theme.TableHeaderBgColor)
	theme.TotalsBarBgColor = lo.FromPtrOr(r.TotalsBarBgColor, theme.TotalsBarBgColor)
	theme.TotalsBarTextColor = lo.FromPtrOr(r.TotalsBarTextColor, theme.TotalsBarTextColor)
	theme.FontFamily = lo.FromPtrOr(r.FontFamily, theme.FontFamily)
	return theme
}

// UpdatePageRequest is a partial page update. Nil fields are kept.
type UpdatePageRequest struct {
	MarginMM  *float64            `json:"marginMm,omitempty"`
	GridPx    *int                `json:"gridPx,omitempty"`
	CanvasPx  *template.CanvasPx  `json:"canvasPx,omitempty"`
	Mode      *types.PageMode     `json:"mode,omitempty"`
	ThermalMM *template.ThermalMM `json:"thermalMm,omitempty"`
}

// Apply returns page with the request's fields applied. Range checks happen
// when the whole template is validated.
func (r *UpdatePageRequest) Apply(page template.Page) template.Page {
	page.MarginMM = lo.FromPtrOr(r.MarginMM, page.MarginMM)
	page.GridPx = lo.FromPtrOr(r.GridPx, page.GridPx)
	page.CanvasPx = lo.FromPtrOr(r.CanvasPx, page.CanvasPx)
	page.Mode = lo.FromPtrOr(r.Mode, page.Mode)
	if r.ThermalMM != nil {
		page.ThermalMM = lo.ToPtr(*r.ThermalMM)
	}
	return page
}

// ReorderBlocksRequest lists block ids in their new order
type ReorderBlocksRequest struct {
	BlockIDs []string `json:"blockIds" binding:"required" validate:"required"`
}

func (r *ReorderBlocksRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// InsertBlockRequest inserts a new block with default props at Index
type InsertBlockRequest struct {
	Type  types.BlockType `json:"type" binding:"required" validate:"required"`
	Index int             `json:"index"`
}

func (r *InsertBlockRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.Type.Validate()
}

// MoveBlockRequest moves the block at From to To
type MoveBlockRequest struct {
	From int `json:"from" validate:"gte=0"`
	To   int `json:"to"`
}

func (r *MoveBlockRequest) Validate() error {
	return validator.ValidateRequest(r)
}

const (
	DragSourcePalette = "palette"
	DragSourceBlock   = "block"
)

// DragSource is the thing being dragged onto the canvas
type DragSource struct {
	Kind    string          `json:"kind" validate:"required,oneof=palette block"`
	Type    types.BlockType `json:"type,omitempty"`
	BlockID string          `json:"blockId,omitempty"`
}

// DropRequest ends a drag over the block OverID, or the empty canvas when empty
type DropRequest struct {
	Source DragSource `json:"source"`
	OverID string     `json:"overId,omitempty"`
}

func (r *DropRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	switch r.Source.Kind {
	case DragSourcePalette:
		return r.Source.Type.Validate()
	case DragSourceBlock:
		if r.Source.BlockID == "" {
			return ierr.NewError("blockId is required for a block drag").
				WithHint("Please provide the id of the dragged block").
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// ToSource converts the request into an editor drag source
func (r *DropRequest) ToSource() editor.Source {
	if r.Source.Kind == DragSourcePalette {
		return editor.PaletteSource{Type: r.Source.Type}
	}
	return editor.BlockSource{BlockID: r.Source.BlockID}
}

// BlockMutationResponse carries the updated template and the affected block
type BlockMutationResponse struct {
	Template *template.Template `json:"template"`
	Block    *template.Block    `json:"block,omitempty"`
}

// PaletteResponse lists the block kinds the editor can insert
type PaletteResponse struct {
	Items []editor.PaletteEntry `json:"items"`
}

// RefreshDefaultsResponse summarizes a reconciliation pass
type RefreshDefaultsResponse struct {
	Added      []string `json:"added"`
	Refreshed  []string `json:"refreshed"`
	Pruned     []string `json:"pruned"`
	Collisions []string `json:"collisions"`
	Total      int      `json:"total"`
}

func NewRefreshDefaultsResponse(res *template.ReconcileResult) *RefreshDefaultsResponse {
	orEmpty := func(ids []string) []string {
		if ids == nil {
			return []string{}
		}
		return ids
	}
	return &RefreshDefaultsResponse{
		Added:      orEmpty(res.Added),
		Refreshed:  orEmpty(res.Refreshed),
		Pruned:     orEmpty(res.Pruned),
		Collisions: orEmpty(res.Collisions),
		Total:      len(res.Templates),
	}
}
