package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/printstudio/docengine/internal/domain/branding"
	"github.com/printstudio/docengine/internal/domain/document"
	domain "github.com/printstudio/docengine/internal/domain/template"
	"github.com/printstudio/docengine/internal/editor"
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/types"
	"github.com/samber/lo"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

//go:embed templates/page.css
var baseCSS string

const (
	a4WidthMM  = 210.0
	a4HeightMM = 297.0
)

// Geometry is the physical page model of a rendered template
type Geometry struct {
	Thermal  bool
	WidthMM  float64
	HeightMM float64 // zero on a thermal roll, the page grows with content
	MarginMM float64
}

// PageGeometry picks thermal roll geometry for short receipts and THERMAL
// pages, A4 otherwise.
func PageGeometry(t *domain.Template) Geometry {
	if t.IsThermal() {
		th := t.Page.Thermal()
		return Geometry{Thermal: true, WidthMM: th.WidthMM, MarginMM: th.MarginMM}
	}
	return Geometry{WidthMM: a4WidthMM, HeightMM: a4HeightMM, MarginMM: t.Page.MarginMM}
}

// CSS returns the page box rules for the geometry
func (g Geometry) CSS() string {
	var sb strings.Builder
	if g.Thermal {
		fmt.Fprintf(&sb, "@page{size:%gmm auto;margin:0}\n", g.WidthMM)
		fmt.Fprintf(&sb, ".page{width:%gmm;padding:%gmm;box-sizing:border-box;font-size:11px}\n", g.WidthMM, g.MarginMM)
		return sb.String()
	}
	fmt.Fprintf(&sb, "@page{size:%gmm %gmm;margin:0}\n", g.WidthMM, g.HeightMM)
	fmt.Fprintf(&sb, ".page{width:%gmm;min-height:%gmm;padding:%gmm;box-sizing:border-box;position:relative}\n",
		g.WidthMM, g.HeightMM, g.MarginMM)
	fmt.Fprintf(&sb, "@media screen{.page{margin:16px auto;background:#FFFFFF;box-shadow:0 0 8px rgba(0,0,0,.25)}}\n")
	fmt.Fprintf(&sb, ".guides{position:absolute;inset:%gmm;border:1px dashed #F87171;pointer-events:none}\n", g.MarginMM)
	return sb.String()
}

// AutoExport makes a preview page submit a PDF export once after load
type AutoExport struct {
	Endpoint  string
	RecordID  string
	LoadToken string
}

// PageInput is everything one composed page needs
type PageInput struct {
	Template *domain.Template
	DTO      *document.DocumentDTO
	Branding *branding.Profile
	Mode     types.RenderMode

	// Guides draws the margin box in preview mode
	Guides bool
	// Debug appends the raw template, document and branding JSON
	Debug bool
	// AutoPrint opens the print dialog after load
	AutoPrint  bool
	AutoExport *AutoExport
	// Notice is shown above the page on screen, e.g. a failed document fetch
	Notice string
}

type pageRow struct {
	Paired bool
	Cells  []template.HTML
}

type pageView struct {
	Title      string
	Mode       types.RenderMode
	Thermal    bool
	Stylesheet template.CSS
	FontFamily template.CSS
	Guides     bool
	Rows       []pageRow
	Notice     string
	Debug      bool
	DebugJSON  string
	AutoPrint  bool
	AutoExport *AutoExport
}

// ComposePage renders a whole template as a standalone HTML document. Preview,
// print and PDF export all go through here.
func (r *Renderer) ComposePage(in PageInput) ([]byte, error) {
	if in.Template == nil {
		return nil, ierr.NewError("template is required").
			Mark(ierr.ErrValidation)
	}
	mode := lo.CoalesceOrEmpty(in.Mode, types.RenderModePreview)
	geometry := PageGeometry(in.Template)

	rc := Context{
		Branding: in.Branding,
		DTO:      in.DTO,
		Theme:    in.Template.Theme,
		Mode:     mode,
		DocType:  in.Template.DocType,
	}

	visible := lo.Filter(in.Template.Blocks, func(b *domain.Block, _ int) bool {
		return b != nil && b.VisibleIn(mode)
	})
	rows := lo.Map(editor.Rows(visible), func(row editor.Row, _ int) pageRow {
		return pageRow{
			Paired: row.Paired(),
			Cells: lo.Map(row.Blocks, func(b *domain.Block, _ int) template.HTML {
				return r.Render(b, rc)
			}),
		}
	})

	view := pageView{
		Title:      in.Template.Name,
		Mode:       mode,
		Thermal:    geometry.Thermal,
		Stylesheet: template.CSS(baseCSS + geometry.CSS()),
		FontFamily: fontFamily(in.Template.Theme, in.Branding),
		Guides:     in.Guides && mode == types.RenderModePreview && !geometry.Thermal,
		Rows:       rows,
		Notice:     in.Notice,
		AutoPrint:  in.AutoPrint && mode == types.RenderModePrint,
		AutoExport: in.AutoExport,
	}
	if mode == types.RenderModePrint {
		view.Notice = ""
		view.AutoExport = nil
	}
	if in.Debug && mode == types.RenderModePreview {
		raw, err := json.MarshalIndent(map[string]any{
			"template": in.Template,
			"document": in.DTO,
			"branding": in.Branding,
		}, "", "  ")
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to encode debug data").
				Mark(ierr.ErrSystem)
		}
		view.Debug = true
		view.DebugJSON = string(raw)
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "page", view); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to compose the page").
			Mark(ierr.ErrSystem)
	}
	return buf.Bytes(), nil
}

func fontFamily(theme domain.Theme, b *branding.Profile) template.CSS {
	candidates := []string{theme.FontFamily}
	if b != nil {
		candidates = append(candidates, b.FontFamily)
	}
	for _, f := range candidates {
		if fontPattern.MatchString(f) {
			return template.CSS(f)
		}
	}
	return "sans-serif"
}
