package render

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/printstudio/docengine/internal/domain/branding"
	"github.com/printstudio/docengine/internal/domain/document"
	domain "github.com/printstudio/docengine/internal/domain/template"
	"github.com/printstudio/docengine/internal/logger"
	"github.com/printstudio/docengine/internal/provider"
	"github.com/printstudio/docengine/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type captureReporter struct {
	errs []error
}

func (c *captureReporter) CaptureException(err error) {
	c.errs = append(c.errs, err)
}

type RendererSuite struct {
	suite.Suite
	renderer *Renderer
	reporter *captureReporter
	branding *branding.Profile
}

func TestRenderer(t *testing.T) {
	suite.Run(t, new(RendererSuite))
}

func (s *RendererSuite) SetupTest() {
	s.reporter = &captureReporter{}
	r, err := New(logger.NewNopLogger(), s.reporter)
	s.Require().NoError(err)
	s.renderer = r
	s.branding = branding.Default()
}

func (s *RendererSuite) dto(docType types.DocType) *document.DocumentDTO {
	p := provider.NewSampleProvider(
		provider.WithItemCount(1),
		provider.WithClock(func() time.Time { return time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC) }),
	)
	dto, err := p.GetDocumentDTO(context.Background(), docType, "1")
	s.Require().NoError(err)
	return dto
}

func (s *RendererSuite) render(b *domain.Block, dto *document.DocumentDTO) string {
	docType := types.DocTypeQuotation
	if dto != nil {
		docType = dto.DocType
	}
	return string(s.renderer.Render(b, Context{
		Branding: s.branding,
		DTO:      dto,
		Theme:    domain.DefaultTheme(),
		Mode:     types.RenderModePreview,
		DocType:  docType,
	}))
}

func (s *RendererSuite) block(blockType types.BlockType) *domain.Block {
	b, err := domain.NewBlock(blockType)
	s.Require().NoError(err)
	return b
}

func (s *RendererSuite) TestEveryBlockRendersForEveryDocType() {
	for _, docType := range types.DocTypes {
		dto := s.dto(docType)
		for _, blockType := range types.BlockTypes {
			out := s.render(s.block(blockType), dto)
			s.Contains(out, `data-block-type="`+string(blockType)+`"`, "%s/%s", docType, blockType)
			s.NotContains(out, "failed to render", "%s/%s", docType, blockType)
			s.NotContains(out, "ZgotmplZ", "%s/%s", docType, blockType)
		}
	}
	s.Empty(s.reporter.errs)
}

func (s *RendererSuite) TestEveryBlockDegradesWithoutDocument() {
	for _, blockType := range types.BlockTypes {
		out := s.render(s.block(blockType), nil)
		s.NotContains(out, "failed to render", string(blockType))
	}
	s.Contains(s.render(s.block(types.BlockTypeSummaryTotals), nil), ">-<")
	s.Contains(s.render(s.block(types.BlockTypeAmountInWords), nil), "(-)")
}

func (s *RendererSuite) TestBilingualAndSimpleVariants() {
	title := s.block(types.BlockTypeTitle)

	quotation := s.render(title, s.dto(types.DocTypeQuotation))
	s.Contains(quotation, "title boxed")
	s.Contains(quotation, "ใบเสนอราคา")
	s.Contains(quotation, "Quotation")

	short := s.render(title, s.dto(types.DocTypeReceiptShort))
	s.Contains(short, "title simple")
	s.NotContains(short, "Abbreviated Tax Invoice")
}

func (s *RendererSuite) TestBilingualCaptionsOnJournalStampNotes() {
	journal := s.block(types.BlockTypeJournalItems)
	quotation := s.render(journal, s.dto(types.DocTypeQuotation))
	for _, caption := range []string{"Account Code", "Account Name", "Debit", "Credit", "Total"} {
		s.Contains(quotation, caption)
	}
	s.Contains(quotation, "เดบิต")

	short := s.render(journal, s.dto(types.DocTypeReceiptShort))
	s.Contains(short, "เดบิต")
	s.NotContains(short, "Debit")
	s.NotContains(short, "Account Code")

	stamp := s.block(types.BlockTypeStamp)
	stamp.Props.(*domain.StampProps).Label = ""
	s.Contains(s.render(stamp, s.dto(types.DocTypeQuotation)), "Company Seal")
	s.Contains(s.render(stamp, s.dto(types.DocTypeQuotation)), "ตราประทับ")
	s.NotContains(s.render(stamp, s.dto(types.DocTypeReceiptShort)), "Company Seal")

	notes := s.block(types.BlockTypeNotes)
	bilingual := s.render(notes, s.dto(types.DocTypeQuotation))
	s.Contains(bilingual, "หมายเหตุ")
	s.Contains(bilingual, `<span class="en">Notes</span>`)
	s.NotContains(s.render(notes, s.dto(types.DocTypeReceiptShort)), "หมายเหตุ")
}

func (s *RendererSuite) TestTotals() {
	totals := s.block(types.BlockTypeSummaryTotals)

	out := s.render(totals, s.dto(types.DocTypeQuotation))
	s.Contains(out, "1,500.00")
	s.Contains(out, "105.00")
	s.Contains(out, "1,605.00")
	s.Contains(out, "VAT 7%")

	short := s.render(totals, s.dto(types.DocTypeReceiptShort))
	s.NotContains(short, "ภาษีมูลค่าเพิ่ม")
	s.Contains(short, "1,500.00")
}

func (s *RendererSuite) TestAmountInWords() {
	out := s.render(s.block(types.BlockTypeAmountInWords), s.dto(types.DocTypeQuotation))
	s.Contains(out, "หนึ่งพันหกร้อยห้าบาทถ้วน")
	s.Contains(out, "One Thousand Six Hundred Five Baht Only")
}

func (s *RendererSuite) TestItemsTable() {
	table := s.block(types.BlockTypeItemsTable)
	table.Props.(*domain.ItemsTableProps).MinRows = 4

	out := s.render(table, s.dto(types.DocTypeQuotation))
	s.Contains(out, "สินค้าตัวอย่าง 1")
	s.Equal(3, strings.Count(out, `class="filler"`))

	trf := s.render(s.block(types.BlockTypeItemsTable), s.dto(types.DocTypeTrfReceipt))
	s.Contains(trf, "ค่าขนส่ง")
	s.Contains(trf, "1,200.00")
}

func (s *RendererSuite) TestMissingFieldsRenderPlaceholder() {
	dto := s.dto(types.DocTypeQuotation)
	dto.Partner = nil
	dto.Document.Reference = ""

	customer := s.render(s.block(types.BlockTypeCustomerInfo), dto)
	s.Contains(customer, "<td>-</td>")

	meta := s.render(s.block(types.BlockTypeDocMeta), dto)
	s.Contains(meta, "<td>-</td>")
	s.Contains(meta, "15 กรกฎาคม 2567")
}

func (s *RendererSuite) TestUnknownTypeRendersNothing() {
	b := &domain.Block{ID: "x", Type: types.BlockType("chart"), Props: &domain.NotesProps{}}
	s.Empty(s.render(b, s.dto(types.DocTypeQuotation)))
	s.Empty(s.reporter.errs)
}

func (s *RendererSuite) TestFailingBlockIsContained() {
	b := &domain.Block{ID: "broken", Type: types.BlockTypeTitle, Props: &domain.NotesProps{}}
	out := s.render(b, s.dto(types.DocTypeQuotation))
	s.Equal("<!-- block broken (title) failed to render -->", out)
	s.Len(s.reporter.errs, 1)

	var nilProps *domain.HeaderProps
	panicking := &domain.Block{ID: "nil", Type: types.BlockTypeHeader, Props: nilProps}
	s.Contains(s.render(panicking, s.dto(types.DocTypeQuotation)), "failed to render")
	s.Len(s.reporter.errs, 2)
}

func (s *RendererSuite) TestVisibility() {
	b := s.block(types.BlockTypeNotes)
	b.Visibility = &domain.Visibility{Screen: true, Print: false}

	rc := Context{Branding: s.branding, Theme: domain.DefaultTheme(), DocType: types.DocTypeQuotation}
	rc.Mode = types.RenderModePreview
	s.Contains(string(s.renderer.Render(b, rc)), "screen-only")
	rc.Mode = types.RenderModePrint
	s.Empty(s.renderer.Render(b, rc))
}

func (s *RendererSuite) TestStyleFrame() {
	b := s.block(types.BlockTypeNotes)
	b.Style = &domain.StyleOverride{
		PaddingPx:       lo.ToPtr(4),
		BorderPx:        lo.ToPtr(1),
		BorderColor:     "#ccc",
		BackgroundColor: "#FFEEDD",
		TextColor:       "red;position:fixed",
		Align:           types.TextAlignRight,
		FontFamily:      "Sarabun",
	}

	out := s.render(b, s.dto(types.DocTypeQuotation))
	s.Contains(out, "padding:4px")
	s.Contains(out, "border:1px solid #ccc")
	s.Contains(out, "background-color:#FFEEDD")
	s.Contains(out, "text-align:right")
	s.Contains(out, "font-family:Sarabun")
	s.NotContains(out, "position:fixed")
}

func TestImageSrc(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/logo.png", string(imageSrc("https://cdn.example.com/logo.png")))
	assert.Equal(t, "data:image/png;base64,AAAA", string(imageSrc("data:image/png;base64,AAAA")))
	assert.Empty(t, imageSrc("javascript:alert(1)"))
	assert.Empty(t, imageSrc("data:text/html;base64,AAAA"))
}

func TestNew(t *testing.T) {
	r, err := New(logger.NewNopLogger(), nil)
	require.NoError(t, err)
	require.NotNil(t, r.tmpl.Lookup("page"))
	for _, bt := range types.BlockTypes {
		assert.NotNil(t, r.tmpl.Lookup(string(bt)), bt)
	}
}
