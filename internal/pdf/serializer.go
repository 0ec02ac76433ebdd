package pdf

import (
	"github.com/printstudio/docengine/internal/domain/branding"
	"github.com/printstudio/docengine/internal/domain/document"
	"github.com/printstudio/docengine/internal/domain/template"
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/render"
	"github.com/printstudio/docengine/internal/types"
)

// Serializer turns a template bound to a document into a standalone HTML
// document with its stylesheet inlined.
type Serializer interface {
	Serialize(t *template.Template, dto *document.DocumentDTO, b *branding.Profile) ([]byte, error)
}

// HTMLSerializer renders the print view without any screen chrome
type HTMLSerializer struct {
	renderer *render.Renderer
}

func NewHTMLSerializer(renderer *render.Renderer) Serializer {
	return &HTMLSerializer{renderer: renderer}
}

func (s *HTMLSerializer) Serialize(t *template.Template, dto *document.DocumentDTO, b *branding.Profile) ([]byte, error) {
	return s.renderer.ComposePage(render.PageInput{
		Template: t,
		DTO:      dto,
		Branding: b,
		Mode:     types.RenderModePrint,
	})
}

// BuildRequest assembles the export body for the PDF service
func BuildRequest(s Serializer, t *template.Template, dto *document.DocumentDTO, b *branding.Profile) (*Request, error) {
	html, err := s.Serialize(t, dto, b)
	if err != nil {
		return nil, err
	}

	encode := func(v any) (string, error) {
		raw, err := json.Marshal(v)
		if err != nil {
			return "", ierr.WithError(err).
				WithHint("Failed to encode the export request").
				Mark(ierr.ErrSystem)
		}
		return string(raw), nil
	}

	templateJSON, err := encode(t)
	if err != nil {
		return nil, err
	}
	dtoJSON, err := encode(dto)
	if err != nil {
		return nil, err
	}
	brandingJSON, err := encode(b)
	if err != nil {
		return nil, err
	}

	return &Request{
		TemplateID:   t.ID,
		TemplateJSON: templateJSON,
		DTOJSON:      dtoJSON,
		BrandingJSON: brandingJSON,
		HTML:         string(html),
	}, nil
}
