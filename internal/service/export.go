package service

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/printstudio/docengine/internal/api/dto"
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/pdf"
	"github.com/printstudio/docengine/internal/types"
)

// PageLoadTTL bounds how long an issued page-load token can trigger an export
const PageLoadTTL = 30 * time.Minute

type pageLoad struct {
	templateID string
	claimed    bool
}

// ExportGuard makes the auto export of a preview page run at most once per
// page load, however often the page re-fetches its document.
type ExportGuard struct {
	mu    sync.Mutex
	loads *cache.Cache
}

func NewExportGuard() *ExportGuard {
	return &ExportGuard{loads: cache.New(PageLoadTTL, 2*PageLoadTTL)}
}

// Issue returns a fresh page-load token for templateID
func (g *ExportGuard) Issue(templateID string) string {
	token := types.NewID(types.IDPrefixPageLoad)
	g.loads.SetDefault(token, &pageLoad{templateID: templateID})
	return token
}

// Claim consumes the token. Only the first claim for a known token succeeds.
func (g *ExportGuard) Claim(token, templateID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !types.IDPrefixPageLoad.HasPrefix(token) {
		return ierr.NewError("malformed page load token").
			WithHint("Reload the preview to export again").
			Mark(ierr.ErrInvalidOperation)
	}

	v, ok := g.loads.Get(token)
	if !ok {
		return ierr.NewError("unknown or expired page load token").
			WithHint("Reload the preview to export again").
			Mark(ierr.ErrInvalidOperation)
	}
	load := v.(*pageLoad)
	if load.templateID != templateID {
		return ierr.NewError("page load token belongs to another template").
			WithHint("Reload the preview to export again").
			Mark(ierr.ErrInvalidOperation)
	}
	if load.claimed {
		return ierr.NewError("export already ran for this page load").
			WithHint("The PDF was already exported for this page").
			Mark(ierr.ErrAlreadyExists)
	}
	load.claimed = true
	return nil
}

// ExportService produces PDFs through the remote rendering service
type ExportService interface {
	// Export never fails on a network problem: the response then carries a
	// dialog that points at the print view instead.
	Export(ctx context.Context, templateID string, req *dto.ExportRequest) (*dto.ExportResponse, error)
}

type exportService struct {
	ServiceParams
	templates TemplateService
	brand     BrandingService
	documents DocumentService
	guard     *ExportGuard
}

// NewExportService creates a new export service
func NewExportService(
	params ServiceParams,
	templates TemplateService,
	brand BrandingService,
	documents DocumentService,
	guard *ExportGuard,
) ExportService {
	return &exportService{
		ServiceParams: params,
		templates:     templates,
		brand:         brand,
		documents:     documents,
		guard:         guard,
	}
}

func (s *exportService) Export(ctx context.Context, templateID string, req *dto.ExportRequest) (*dto.ExportResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.LoadToken != "" {
		if err := s.guard.Claim(req.LoadToken, templateID); err != nil {
			return nil, err
		}
	}

	t, err := s.templates.Get(ctx, templateID)
	if err != nil {
		return nil, err
	}
	profile, err := s.brand.Get(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.ExportResponse{ExportID: types.NewExportRef()}
	log := s.Logger.With("export_id", resp.ExportID, "template_id", templateID, "record_id", req.RecordID)

	doc, err := s.documents.Resolve(ctx, t.DocType, req.RecordID)
	if err != nil {
		if !ierr.IsHTTPClient(err) && !ierr.IsConfiguration(err) {
			return nil, err
		}
		log.Warnw("export fell back to print, document unavailable", "error", err)
		resp.Dialog = FallbackDialog(templateID, req.RecordID, "The document data could not be loaded.")
		return resp, nil
	}

	pdfReq, err := pdf.BuildRequest(s.Serializer, t, doc, profile)
	if err != nil {
		return nil, err
	}

	ctx, finish := s.Sentry.StartSpan(ctx, "pdf.generate", map[string]interface{}{
		"template_id": templateID,
	})
	defer finish()

	out, err := s.PDFGenerator.Generate(ctx, pdfReq)
	if err != nil {
		log.Warnw("export fell back to print, pdf service failed", "error", err)
		if !ierr.IsConfiguration(err) {
			s.Sentry.CaptureRequestException(ctx, err)
		}
		resp.Dialog = FallbackDialog(templateID, req.RecordID, "The PDF service is unavailable.")
		return resp, nil
	}

	log.Infow("exported pdf", "pdf_url", out.PDFURL)
	resp.PDFURL = out.PDFURL
	return resp, nil
}

// FallbackDialog offers the print view when a PDF cannot be produced
func FallbackDialog(templateID, recordID, reason string) *dto.Dialog {
	return &dto.Dialog{
		Title:   "PDF export failed",
		Message: reason + " You can print the document directly instead.",
		PrimaryAction: dto.DialogAction{
			Label:  "Quick print",
			Href:   PrintPath(templateID, recordID),
			Target: "_blank",
		},
	}
}

// PrintPath is the isolated print view of a template bound to a record
func PrintPath(templateID, recordID string) string {
	path := "/print/" + url.PathEscape(templateID)
	if recordID == "" {
		return path
	}
	return path + "?" + url.Values{"recordId": {recordID}}.Encode()
}
