package pdf

import (
	"context"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/printstudio/docengine/internal/config"
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/httpclient"
	"github.com/printstudio/docengine/internal/logger"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Request is the body posted to the PDF rendering service. The JSON fields
// carry the encoded documents as strings.
type Request struct {
	TemplateID   string `json:"templateId"`
	TemplateJSON string `json:"templateJson"`
	DTOJSON      string `json:"dtoJson"`
	BrandingJSON string `json:"brandingJson"`
	HTML         string `json:"html"`
}

// Response is the answer of the PDF rendering service
type Response struct {
	PDFURL string `json:"pdfUrl"`
}

// Generator defines the interface for PDF generation operations
type Generator interface {
	Generate(ctx context.Context, req *Request) (*Response, error)
}

type service struct {
	url     string
	timeout time.Duration
	client  httpclient.Client
	limiter *rate.Limiter
	logger  *logger.Logger
}

// NewGenerator creates a client for the remote PDF service. Requests are rate
// limited so a burst of auto exports cannot flood the renderer.
func NewGenerator(cfg *config.Configuration, client httpclient.Client, logger *logger.Logger) Generator {
	limit := rate.Inf
	if cfg.Export.RatePerSecond > 0 {
		limit = rate.Limit(cfg.Export.RatePerSecond)
	}
	return &service{
		url:     strings.TrimSpace(cfg.Export.PDFServiceURL),
		timeout: cfg.Export.Timeout(),
		client:  client,
		limiter: rate.NewLimiter(limit, max(cfg.Export.Burst, 1)),
		logger:  logger,
	}
}

func (s *service) Generate(ctx context.Context, req *Request) (*Response, error) {
	if s.url == "" {
		return nil, ierr.NewError("pdf service url is not configured").
			WithHint("Set export.pdf_service_url to enable PDF export").
			Mark(ierr.ErrConfiguration)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Too many PDF exports, please try again").
			Mark(ierr.ErrHTTPClient)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to encode the export request").
			Mark(ierr.ErrSystem)
	}

	resp, err := s.client.Send(ctx, &httpclient.Request{
		Method:  http.MethodPost,
		URL:     s.url,
		Headers: map[string]string{"Accept": "application/json"},
		Body:    body,
	})
	if err != nil {
		s.logger.Warnw("pdf export request failed",
			"template_id", req.TemplateID,
			"error", err)
		return nil, ierr.WithError(err).
			WithHint("The PDF service rejected the export").
			Mark(ierr.ErrHTTPClient)
	}

	var out Response
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, ierr.WithError(err).
			WithHint("The PDF service returned an unreadable answer").
			Mark(ierr.ErrHTTPClient)
	}
	if out.PDFURL == "" {
		return nil, ierr.NewError("pdf service returned no pdfUrl").
			WithHint("The PDF service returned no document").
			Mark(ierr.ErrHTTPClient)
	}
	return &out, nil
}
