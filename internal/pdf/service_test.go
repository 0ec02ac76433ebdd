package pdf

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/printstudio/docengine/internal/config"
	"github.com/printstudio/docengine/internal/domain/branding"
	"github.com/printstudio/docengine/internal/domain/document"
	"github.com/printstudio/docengine/internal/domain/template"
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/httpclient"
	"github.com/printstudio/docengine/internal/logger"
	"github.com/printstudio/docengine/internal/render"
	"github.com/printstudio/docengine/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSerializer mocks the HTML serializer
type MockSerializer struct {
	mock.Mock
}

func (m *MockSerializer) Serialize(t *template.Template, dto *document.DocumentDTO, b *branding.Profile) ([]byte, error) {
	args := m.Called(t, dto, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func newGenerator(t *testing.T, url string) Generator {
	t.Helper()
	cfg := config.GetDefaultConfig()
	cfg.Export.PDFServiceURL = url
	cfg.Export.TimeoutMs = 2000
	client := httpclient.NewClient(httpclient.ClientConfig{Timeout: 2 * time.Second}, nil)
	return NewGenerator(cfg, client, logger.NewNopLogger())
}

func TestGenerate(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &got))
		_, _ = w.Write([]byte(`{"pdfUrl":"https://files.example.com/q.pdf"}`))
	}))
	defer srv.Close()

	req := &Request{TemplateID: "tmpl_1", TemplateJSON: `{"id":"tmpl_1"}`, DTOJSON: `{}`, BrandingJSON: `{}`, HTML: "<html></html>"}
	resp, err := newGenerator(t, srv.URL).Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/q.pdf", resp.PDFURL)
	assert.Equal(t, *req, got)
}

func TestGenerate_Failures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/reject":
			w.WriteHeader(http.StatusUnprocessableEntity)
		case "/empty":
			_, _ = w.Write([]byte(`{}`))
		default:
			_, _ = w.Write([]byte(`not json`))
		}
	}))
	defer srv.Close()

	for _, path := range []string{"/reject", "/empty", "/garbage"} {
		t.Run(path, func(t *testing.T) {
			_, err := newGenerator(t, srv.URL+path).Generate(context.Background(), &Request{TemplateID: "t"})
			require.Error(t, err)
			assert.True(t, ierr.IsHTTPClient(err))
		})
	}
}

func TestGenerate_NotConfigured(t *testing.T) {
	_, err := newGenerator(t, "").Generate(context.Background(), &Request{})
	assert.True(t, ierr.IsConfiguration(err))
}

func TestGenerate_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"pdfUrl":"u"}`))
	}))
	defer srv.Close()

	cfg := config.GetDefaultConfig()
	cfg.Export.PDFServiceURL = srv.URL
	cfg.Export.RatePerSecond = 0.001
	cfg.Export.Burst = 1
	g := NewGenerator(cfg, httpclient.NewDefaultClient(), logger.NewNopLogger())

	_, err := g.Generate(context.Background(), &Request{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = g.Generate(ctx, &Request{})
	assert.True(t, ierr.IsHTTPClient(err))
}

func TestBuildRequest(t *testing.T) {
	tmpl, _ := template.ShippedDefault(types.DocTypeQuotation)
	dto := &document.DocumentDTO{DocType: types.DocTypeQuotation}
	b := branding.Default()

	s := new(MockSerializer)
	s.On("Serialize", tmpl, dto, b).Return([]byte("<html>ok</html>"), nil)

	req, err := BuildRequest(s, tmpl, dto, b)
	require.NoError(t, err)
	s.AssertExpectations(t)

	assert.Equal(t, tmpl.ID, req.TemplateID)
	assert.Equal(t, "<html>ok</html>", req.HTML)
	assert.JSONEq(t, `{"docType":"quotation"}`, req.DTOJSON)
	assert.Contains(t, req.TemplateJSON, `"headerBarColor":"#26D6F0"`)
	assert.Contains(t, req.BrandingJSON, b.CompanyName)

	failing := new(MockSerializer)
	failing.On("Serialize", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, ierr.NewError("boom").Mark(ierr.ErrSystem))
	_, err = BuildRequest(failing, tmpl, dto, b)
	assert.Error(t, err)
}

func TestHTMLSerializer(t *testing.T) {
	r, err := render.New(logger.NewNopLogger(), nil)
	require.NoError(t, err)
	tmpl, _ := template.ShippedDefault(types.DocTypeReceiptFull)

	html, err := NewHTMLSerializer(r).Serialize(tmpl, nil, branding.Default())
	require.NoError(t, err)
	assert.Contains(t, string(html), "<style>")
	assert.Contains(t, string(html), "mode-print")
	assert.NotContains(t, string(html), "window.print()")
}
