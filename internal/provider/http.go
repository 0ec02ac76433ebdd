package provider

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/printstudio/docengine/internal/config"
	"github.com/printstudio/docengine/internal/domain/document"
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/httpclient"
	"github.com/printstudio/docengine/internal/logger"
	"github.com/printstudio/docengine/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// HTTPProvider fetches documents from the ERP report endpoints
type HTTPProvider struct {
	baseURL string
	token   string
	timeout time.Duration
	client  httpclient.Client
	logger  *logger.Logger
}

// NewHTTPProvider creates a provider for cfg. A missing base URL is reported
// on the first fetch so the service can still start and serve the editor.
func NewHTTPProvider(cfg config.ProviderConfig, client httpclient.Client, logger *logger.Logger) *HTTPProvider {
	return &HTTPProvider{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:   cfg.Token,
		timeout: cfg.ProviderTimeout(),
		client:  client,
		logger:  logger,
	}
}

func (p *HTTPProvider) GetDocumentDTO(ctx context.Context, docType types.DocType, recordID string) (*document.DocumentDTO, error) {
	if p.baseURL == "" {
		return nil, ierr.NewError("document provider base url is not configured").
			WithHint("Set provider.base_url to the ERP report server").
			Mark(ierr.ErrConfiguration)
	}

	path, err := document.EndpointPath(docType)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(recordID) == "" {
		return nil, ierr.NewError("record id is required").
			WithHint("Please provide a record id").
			Mark(ierr.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req := &httpclient.Request{
		Method:  http.MethodGet,
		URL:     p.baseURL + path + "/" + url.PathEscape(recordID),
		Headers: map[string]string{"Accept": "application/json"},
	}
	if p.token != "" {
		req.Headers["Authorization"] = "Bearer " + p.token
	}

	resp, err := p.client.Send(ctx, req)
	if err != nil {
		fields := []interface{}{"doc_type", docType, "record_id", recordID, "error", err}
		if httpErr, ok := httpclient.IsHTTPError(err); ok {
			fields = append(fields, "response", httpErr.Snippet())
		}
		p.logger.Warnw("document fetch failed", fields...)

		if httpErr, ok := httpclient.IsHTTPError(err); ok {
			return nil, ierr.WithError(err).
				WithHintf("Document server answered %d", httpErr.StatusCode).
				WithReportableDetails(map[string]any{
					"status":    httpErr.StatusCode,
					"temporary": httpErr.Temporary(),
					"docType":   docType,
					"recordId":  recordID,
				}).
				Mark(ierr.ErrHTTPClient)
		}
		return nil, ierr.WithError(err).
			WithHint("Document server is unreachable").
			Mark(ierr.ErrHTTPClient)
	}

	var dto document.DocumentDTO
	if err := json.Unmarshal(resp.Body, &dto); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Document server returned an unreadable payload").
			Mark(ierr.ErrHTTPClient)
	}
	dto.DocType = docType
	return &dto, nil
}
