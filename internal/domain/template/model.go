package template

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/printstudio/docengine/internal/types"
	"github.com/samber/lo"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SchemaVersion is the only template schema version this build understands
const SchemaVersion = 1

// MaxNameLen is the longest template name in runes, kept in sync with the
// max rule on Template.Name
const MaxNameLen = 120

// Template is a named, versioned arrangement of blocks for one document type
type Template struct {
	ID            string        `json:"id" validate:"required"`
	Name          string        `json:"name" validate:"required,max=120"`
	DocType       types.DocType `json:"docType" validate:"required,oneof=quotation receipt_full receipt_short trf_receipt"`
	SchemaVersion int           `json:"schemaVersion" validate:"eq=1"`
	Published     bool          `json:"published"`
	IsDefault     bool          `json:"isDefault,omitempty"`
	Theme         Theme         `json:"theme"`
	Page          Page          `json:"page"`
	Blocks        []*Block      `json:"blocks" validate:"dive,required"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// Theme holds the fixed color/font knobs of a template
type Theme struct {
	PrimaryColor       string `json:"primaryColor" validate:"required,doccolor"`
	AccentColor        string `json:"accentColor" validate:"required,doccolor"`
	HeaderBarColor     string `json:"headerBarColor" validate:"required,doccolor"`
	TableHeaderBgColor string `json:"tableHeaderBgColor" validate:"required,doccolor"`
	TotalsBarBgColor   string `json:"totalsBarBgColor" validate:"required,doccolor"`
	TotalsBarTextColor string `json:"totalsBarTextColor" validate:"required,doccolor"`
	FontFamily         string `json:"fontFamily" validate:"required"`
}

// Page describes the physical page model of a template
type Page struct {
	Size      types.PageSize `json:"size" validate:"oneof=A4"`
	MarginMM  float64        `json:"marginMm" validate:"gte=0,lte=50"`
	GridPx    int            `json:"gridPx" validate:"gte=1,lte=100"`
	CanvasPx  CanvasPx       `json:"canvasPx"`
	Mode      types.PageMode `json:"mode,omitempty" validate:"omitempty,oneof=A4 THERMAL"`
	ThermalMM *ThermalMM     `json:"thermalMm,omitempty"`
}

// CanvasPx is the editor canvas size in CSS pixels
type CanvasPx struct {
	Width  int `json:"width" validate:"gt=0"`
	Height int `json:"height" validate:"gt=0"`
}

// ThermalMM is the roll geometry used in thermal mode
type ThermalMM struct {
	WidthMM  float64 `json:"widthMm" validate:"gte=40,lte=120"`
	MarginMM float64 `json:"marginMm" validate:"gte=0,lte=20"`
}

// DefaultTheme returns the theme injected for omitted theme fields
func DefaultTheme() Theme {
	return Theme{
		PrimaryColor:       "#1F2937",
		AccentColor:        "#2563EB",
		HeaderBarColor:     "#1F2937",
		TableHeaderBgColor: "#E5E7EB",
		TotalsBarBgColor:   "#1F2937",
		TotalsBarTextColor: "#FFFFFF",
		FontFamily:         "Sarabun, sans-serif",
	}
}

// DefaultPage returns the page injected for omitted page fields
func DefaultPage() Page {
	return Page{
		Size:     types.PageSizeA4,
		MarginMM: 10,
		GridPx:   8,
		CanvasPx: CanvasPx{Width: 794, Height: 1123},
	}
}

// DefaultThermal returns the roll geometry injected for omitted thermal fields
func DefaultThermal() ThermalMM {
	return ThermalMM{WidthMM: 80, MarginMM: 3}
}

func (t *Template) UnmarshalJSON(data []byte) error {
	type alias Template
	a := alias{
		SchemaVersion: SchemaVersion,
		Theme:         DefaultTheme(),
		Page:          DefaultPage(),
	}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.Blocks == nil {
		a.Blocks = []*Block{}
	}
	*t = Template(a)
	return nil
}

func (th *Theme) UnmarshalJSON(data []byte) error {
	type alias Theme
	a := alias(DefaultTheme())
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*th = Theme(a)
	return nil
}

func (p *Page) UnmarshalJSON(data []byte) error {
	type alias Page
	a := alias(DefaultPage())
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = Page(a)
	return nil
}

func (c *CanvasPx) UnmarshalJSON(data []byte) error {
	type alias CanvasPx
	a := alias(DefaultPage().CanvasPx)
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*c = CanvasPx(a)
	return nil
}

func (m *ThermalMM) UnmarshalJSON(data []byte) error {
	type alias ThermalMM
	a := alias(DefaultThermal())
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*m = ThermalMM(a)
	return nil
}

// IsThermal reports whether the template prints on a thermal roll
func (t *Template) IsThermal() bool {
	return t.DocType == types.DocTypeReceiptShort || t.Page.Mode == types.PageModeThermal
}

// Thermal returns the thermal geometry, falling back to defaults
func (p Page) Thermal() ThermalMM {
	if p.ThermalMM == nil {
		return DefaultThermal()
	}
	return *p.ThermalMM
}

// FindBlock returns the index of the block with the given id or -1
func (t *Template) FindBlock(id string) int {
	_, idx, ok := lo.FindIndexOf(t.Blocks, func(b *Block) bool {
		return b.ID == id
	})
	if !ok {
		return -1
	}
	return idx
}

// BlockIDs returns the ids of the template's blocks in order
func (t *Template) BlockIDs() []string {
	return lo.Map(t.Blocks, func(b *Block, _ int) string {
		return b.ID
	})
}

// Clone returns a deep copy of the template
func (t *Template) Clone() *Template {
	if t == nil {
		return nil
	}
	c := *t
	if t.Page.ThermalMM != nil {
		thermal := *t.Page.ThermalMM
		c.Page.ThermalMM = &thermal
	}
	c.Blocks = lo.Map(t.Blocks, func(b *Block, _ int) *Block {
		return b.Clone()
	})
	return &c
}

// Stamp normalizes a mutation time to UTC millisecond precision so that it
// survives a JSON round trip unchanged.
func Stamp(now time.Time) time.Time {
	return now.UTC().Truncate(time.Millisecond)
}

// Derive deep-copies the template into an editable, unpublished custom template.
// The copy and each of its blocks get fresh ids; block content is preserved positionally.
func (t *Template) Derive(name string, now time.Time) *Template {
	c := t.Clone()
	c.ID = types.NewID(types.IDPrefixTemplate)
	c.Name = name
	c.IsDefault = false
	c.Published = false
	c.UpdatedAt = Stamp(now)
	for _, b := range c.Blocks {
		b.ID = NewBlockID()
	}
	return c
}
