package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/printstudio/docengine/internal/api/dto"
	v1 "github.com/printstudio/docengine/internal/api/v1"
	"github.com/printstudio/docengine/internal/domain/template"
	"github.com/printstudio/docengine/internal/pdf"
	"github.com/printstudio/docengine/internal/rest/middleware"
	"github.com/printstudio/docengine/internal/service"
	"github.com/printstudio/docengine/internal/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type RouterSuite struct {
	testutil.BaseServiceTestSuite
	router *gin.Engine
}

func TestRouter(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	gin.SetMode(gin.TestMode)

	params := service.ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		TemplateRepo: s.GetStores().TemplateRepo,
		BrandingRepo: s.GetStores().BrandingRepo,
		Provider:     s.GetProvider(),
		Renderer:     s.GetRenderer(),
		PDFGenerator: s.GetPDFGenerator(),
		Serializer:   pdf.NewHTMLSerializer(s.GetRenderer()),
		Publisher:    s.GetPubSub(),
		Now:          s.Clock(),
	}
	guard := service.NewExportGuard()
	templates := service.NewTemplateService(params)
	brand := service.NewBrandingService(params)
	documents := service.NewDocumentService(params)

	s.router = NewRouter(Handlers{
		Health:   v1.NewHealthHandler(templates, s.GetLogger()),
		Template: v1.NewTemplateHandler(templates, s.GetLogger()),
		Branding: v1.NewBrandingHandler(brand, s.GetLogger()),
		Document: v1.NewDocumentHandler(documents, s.GetLogger()),
		Export:   v1.NewExportHandler(service.NewExportService(params, templates, brand, documents, guard), s.GetLogger()),
		Page:     v1.NewPageHandler(service.NewPageService(params, templates, brand, documents, guard), s.GetLogger()),
		Events:   v1.NewEventsHandler(s.GetPubSub(), s.GetLogger()),
	}, s.GetConfig(), s.GetLogger())
}

func (s *RouterSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		var err error
		payload, err = jsoniter.Marshal(body)
		s.Require().NoError(err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RouterSuite) decode(w *httptest.ResponseRecorder, out any) {
	s.Require().NoError(jsoniter.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func (s *RouterSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, w.Code)

	var body dto.HealthResponse
	s.decode(w, &body)
	s.Equal("ok", body.Status)
	s.Equal(len(template.ShippedDefaults()), body.Templates)
}

func (s *RouterSuite) TestTemplateLifecycle() {
	w := s.do(http.MethodPost, "/v1/templates/"+template.DefaultQuotationID+"/from-default", nil)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var created template.Template
	s.decode(w, &created)
	s.False(created.IsDefault)
	s.NotEqual(template.DefaultQuotationID, created.ID)

	w = s.do(http.MethodPost, "/v1/templates/"+created.ID+"/rename", dto.RenameTemplateRequest{Name: "ใบเสนอราคา สาขา 2"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var renamed template.Template
	s.decode(w, &renamed)
	s.Equal("ใบเสนอราคา สาขา 2", renamed.Name)

	w = s.do(http.MethodPost, "/v1/templates/"+created.ID+"/blocks/insert", dto.InsertBlockRequest{Type: "signature", Index: 0})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var inserted dto.BlockMutationResponse
	s.decode(w, &inserted)
	s.Require().NotNil(inserted.Block)
	s.Equal(inserted.Block.ID, inserted.Template.Blocks[0].ID)

	w = s.do(http.MethodGet, "/v1/templates?isDefault=false", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var list dto.ListTemplatesResponse
	s.decode(w, &list)
	s.Equal(1, list.Total)

	w = s.do(http.MethodDelete, "/v1/templates/"+created.ID, nil)
	s.Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/v1/templates/"+created.ID, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RouterSuite) TestDefaultsAreReadOnly() {
	w := s.do(http.MethodDelete, "/v1/templates/"+template.DefaultQuotationID, nil)
	s.Equal(http.StatusForbidden, w.Code)

	var body middleware.ErrorResponse
	s.decode(w, &body)
	s.False(body.Success)
	s.NotEmpty(body.Error.Display)
	s.NotEmpty(body.Error.RequestID)
}

func (s *RouterSuite) TestCreateTemplate_UnknownBlockType() {
	raw := `{"name":"x","docType":"quotation","blocks":[{"id":"b1","type":"hologram","props":{}}]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/templates", bytes.NewBufferString(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RouterSuite) TestPreviewAndPrint() {
	w := s.do(http.MethodGet, "/preview/"+template.DefaultQuotationID, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Header().Get("Content-Type"), "text/html")
	s.Contains(w.Body.String(), "<!DOCTYPE html>")

	w = s.do(http.MethodGet, "/print/"+template.DefaultQuotationID+"?autoprint=0", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.NotContains(w.Body.String(), "window.print()")
}

func (s *RouterSuite) TestExport() {
	s.GetPDFGenerator().On("Generate", mock.Anything, mock.Anything).
		Return(&pdf.Response{PDFURL: "https://pdf.example.com/out/1.pdf"}, nil)

	w := s.do(http.MethodPost, "/v1/templates/"+template.DefaultQuotationID+"/export", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var body dto.ExportResponse
	s.decode(w, &body)
	s.Equal("https://pdf.example.com/out/1.pdf", body.PDFURL)
}

func (s *RouterSuite) TestBranding() {
	w := s.do(http.MethodPatch, "/v1/branding", map[string]any{"companyName": "บริษัท ทดสอบ จำกัด"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/v1/branding", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "บริษัท ทดสอบ จำกัด")

	w = s.do(http.MethodPatch, "/v1/branding", map[string]any{"primaryColor": "navy"})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RouterSuite) TestPalette() {
	w := s.do(http.MethodGet, "/v1/palette", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var body dto.PaletteResponse
	s.decode(w, &body)
	s.NotEmpty(body.Items)
}
