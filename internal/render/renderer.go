package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/printstudio/docengine/internal/domain/branding"
	"github.com/printstudio/docengine/internal/domain/document"
	domain "github.com/printstudio/docengine/internal/domain/template"
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/logger"
	"github.com/printstudio/docengine/internal/types"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// ErrorReporter receives block render failures, typically the sentry service
type ErrorReporter interface {
	CaptureException(err error)
}

// Context is everything a block needs besides its own props
type Context struct {
	Branding *branding.Profile
	DTO      *document.DocumentDTO
	Theme    domain.Theme
	Mode     types.RenderMode
	// DocType is the template's document type, used when no DTO is loaded yet
	DocType types.DocType
}

// docType prefers the loaded document over the template's declared type
func (c Context) docType() types.DocType {
	if c.DTO != nil && c.DTO.DocType != "" {
		return c.DTO.DocType
	}
	return c.DocType
}

func (c Context) bilingual() bool {
	return c.docType().IsBilingual()
}

// Renderer turns blocks into HTML fragments. It is safe for concurrent use.
type Renderer struct {
	tmpl     *template.Template
	logger   *logger.Logger
	reporter ErrorReporter
}

// New parses the embedded block and page templates
func New(logger *logger.Logger, reporter ErrorReporter) (*Renderer, error) {
	funcs := sprig.HtmlFuncMap()
	funcs["money"] = Money
	funcs["dash"] = OrDash

	tmpl, err := template.New("render").Funcs(funcs).ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Render templates failed to parse").
			Mark(ierr.ErrSystem)
	}
	return &Renderer{tmpl: tmpl, logger: logger, reporter: reporter}, nil
}

// Render renders one block inside its style frame. Unknown block types and
// blocks hidden in the current mode render nothing. A failing block renders
// an HTML comment instead of aborting the page.
func (r *Renderer) Render(b *domain.Block, rc Context) (out template.HTML) {
	if b == nil || !b.VisibleIn(rc.Mode) {
		return ""
	}

	defer func() {
		if rec := recover(); rec != nil {
			out = r.failed(b, fmt.Errorf("panic: %v", rec))
		}
	}()

	data, err := r.viewModel(b, rc)
	if err != nil {
		return r.failed(b, err)
	}
	if data == nil {
		return ""
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, string(b.Type), data); err != nil {
		return r.failed(b, err)
	}

	return r.frame(b, rc, template.HTML(buf.String()))
}

// viewModel dispatches on the block type. It returns nil data for types this
// renderer does not know.
func (r *Renderer) viewModel(b *domain.Block, rc Context) (any, error) {
	switch b.Type {
	case types.BlockTypeHeader:
		return withProps(b, rc, header)
	case types.BlockTypeTitle:
		return withProps(b, rc, title)
	case types.BlockTypeCustomerInfo:
		return withProps(b, rc, customerInfo)
	case types.BlockTypeDocMeta:
		return withProps(b, rc, docMeta)
	case types.BlockTypeItemsTable:
		return withProps(b, rc, itemsTable)
	case types.BlockTypeSummaryTotals:
		return withProps(b, rc, summaryTotals)
	case types.BlockTypeAmountInWords:
		return withProps(b, rc, amountInWords)
	case types.BlockTypeNotes:
		return withProps(b, rc, notes)
	case types.BlockTypeSignature:
		return withProps(b, rc, signature)
	case types.BlockTypeStamp:
		return withProps(b, rc, stamp)
	case types.BlockTypePaymentMethod:
		return withProps(b, rc, paymentMethod)
	case types.BlockTypeJournalItems:
		return withProps(b, rc, journalItems)
	default:
		return nil, nil
	}
}

func withProps[P domain.BlockProps](b *domain.Block, rc Context, build func(P, Context) any) (any, error) {
	props, ok := b.Props.(P)
	if !ok {
		return nil, ierr.NewErrorf("block %s has props %T for type %s", b.ID, b.Props, b.Type).
			Mark(ierr.ErrValidation)
	}
	return build(props, rc), nil
}

func (r *Renderer) failed(b *domain.Block, err error) template.HTML {
	r.logger.Errorw("block render failed",
		"block_id", b.ID,
		"block_type", b.Type,
		"error", err)
	if r.reporter != nil {
		r.reporter.CaptureException(ierr.WithError(err).
			WithMessagef("render %s block %s", b.Type, b.ID).
			Mark(ierr.ErrSystem))
	}
	return template.HTML(fmt.Sprintf("<!-- block %s (%s) failed to render -->",
		template.HTMLEscapeString(b.ID), template.HTMLEscapeString(string(b.Type))))
}

type frameView struct {
	ID        string
	Type      types.BlockType
	Classes   string
	Style     template.CSS
	Inner     template.HTML
	Bilingual bool
}

func (r *Renderer) frame(b *domain.Block, rc Context, inner template.HTML) template.HTML {
	classes := []string{"blk", "blk-" + string(b.Type)}
	if b.Visibility != nil && !b.Visibility.Print {
		classes = append(classes, "screen-only")
	}
	if b.Locked {
		classes = append(classes, "locked")
	}

	var buf bytes.Buffer
	err := r.tmpl.ExecuteTemplate(&buf, "frame", frameView{
		ID:        b.ID,
		Type:      b.Type,
		Classes:   strings.Join(classes, " "),
		Style:     FrameStyle(b.Style),
		Inner:     inner,
		Bilingual: rc.bilingual(),
	})
	if err != nil {
		return r.failed(b, err)
	}
	return template.HTML(buf.String())
}

var (
	colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	fontPattern  = regexp.MustCompile(`^[\p{L}\p{N} ,'\-]+$`)
)

// FrameStyle converts the style overrides of a block into an inline CSS
// declaration list. Values that are not safe CSS are skipped.
func FrameStyle(s *domain.StyleOverride) template.CSS {
	if s == nil {
		return ""
	}

	var decls []string
	px := func(prop string, v *int) {
		if v != nil {
			decls = append(decls, fmt.Sprintf("%s:%dpx", prop, *v))
		}
	}
	color := func(prop, v string) {
		if colorPattern.MatchString(v) {
			decls = append(decls, prop+":"+v)
		}
	}

	px("padding", s.PaddingPx)
	px("margin", s.MarginPx)
	if s.BorderPx != nil {
		border := "#000000"
		if colorPattern.MatchString(s.BorderColor) {
			border = s.BorderColor
		}
		decls = append(decls, fmt.Sprintf("border:%dpx solid %s", *s.BorderPx, border))
	}
	color("background-color", s.BackgroundColor)
	color("color", s.TextColor)
	if s.Align != "" && s.Align.Validate() == nil {
		decls = append(decls, "text-align:"+string(s.Align))
	}
	if fontPattern.MatchString(s.FontFamily) {
		decls = append(decls, "font-family:"+s.FontFamily)
	}
	px("font-size", s.FontSizePx)

	return template.CSS(strings.Join(decls, ";"))
}
