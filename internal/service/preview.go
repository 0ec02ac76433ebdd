package service

import (
	"context"
	"fmt"

	"github.com/printstudio/docengine/internal/api/dto"
	"github.com/printstudio/docengine/internal/domain/document"
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/render"
	"github.com/printstudio/docengine/internal/types"
)

// PageService composes the preview and print views of a template
type PageService interface {
	// Preview renders the interactive preview. A record that cannot be
	// fetched is reported on the page instead of failing it.
	Preview(ctx context.Context, templateID string, query *dto.PageQuery) ([]byte, error)
	// Print renders the isolated print view. Printing needs the real record,
	// so a failed fetch is an error.
	Print(ctx context.Context, templateID string, query *dto.PageQuery) ([]byte, error)
}

type pageService struct {
	ServiceParams
	templates TemplateService
	brand     BrandingService
	documents DocumentService
	guard     *ExportGuard
}

// NewPageService creates a new page service
func NewPageService(
	params ServiceParams,
	templates TemplateService,
	brand BrandingService,
	documents DocumentService,
	guard *ExportGuard,
) PageService {
	return &pageService{
		ServiceParams: params,
		templates:     templates,
		brand:         brand,
		documents:     documents,
		guard:         guard,
	}
}

func (s *pageService) Preview(ctx context.Context, templateID string, query *dto.PageQuery) ([]byte, error) {
	in, err := s.input(ctx, templateID, query.RecordID, types.RenderModePreview)
	if err != nil {
		return nil, err
	}

	in.Guides = query.GuidesOn()
	in.Debug = query.DebugOn()
	if query.AutoExportPDF() && in.Notice == "" {
		in.AutoExport = &render.AutoExport{
			Endpoint:  fmt.Sprintf("/v1/templates/%s/export", templateID),
			RecordID:  query.RecordID,
			LoadToken: s.guard.Issue(templateID),
		}
	}
	return s.Renderer.ComposePage(in.PageInput)
}

func (s *pageService) Print(ctx context.Context, templateID string, query *dto.PageQuery) ([]byte, error) {
	in, err := s.input(ctx, templateID, query.RecordID, types.RenderModePrint)
	if err != nil {
		return nil, err
	}
	if in.Notice != "" {
		return nil, in.fetchErr
	}

	in.AutoPrint = query.AutoPrintOn()
	return s.Renderer.ComposePage(in.PageInput)
}

type pageInput struct {
	render.PageInput
	fetchErr error
}

func (s *pageService) input(ctx context.Context, templateID, recordID string, mode types.RenderMode) (*pageInput, error) {
	t, err := s.templates.Get(ctx, templateID)
	if err != nil {
		return nil, err
	}
	profile, err := s.brand.Get(ctx)
	if err != nil {
		return nil, err
	}

	in := &pageInput{PageInput: render.PageInput{
		Template: t,
		Branding: profile,
		Mode:     mode,
	}}

	var doc *document.DocumentDTO
	doc, err = s.documents.Resolve(ctx, t.DocType, recordID)
	switch {
	case err == nil:
		in.DTO = doc
	case ierr.IsHTTPClient(err) || ierr.IsConfiguration(err):
		in.fetchErr = err
		in.Notice = fmt.Sprintf("Document %s could not be loaded; showing empty fields.", recordID)
	default:
		return nil, err
	}
	return in, nil
}
