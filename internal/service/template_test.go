package service

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/printstudio/docengine/internal/api/dto"
	"github.com/printstudio/docengine/internal/domain/template"
	"github.com/printstudio/docengine/internal/editor"
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/pubsub"
	"github.com/printstudio/docengine/internal/schema"
	"github.com/printstudio/docengine/internal/storage"
	"github.com/printstudio/docengine/internal/testutil"
	"github.com/printstudio/docengine/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type TemplateServiceSuite struct {
	testutil.BaseServiceTestSuite
	service TemplateService
}

func TestTemplateService(t *testing.T) {
	suite.Run(t, new(TemplateServiceSuite))
}

func (s *TemplateServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = s.newService()
}

func (s *TemplateServiceSuite) newService() TemplateService {
	return NewTemplateService(ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		TemplateRepo: s.GetStores().TemplateRepo,
		BrandingRepo: s.GetStores().BrandingRepo,
		Publisher:    s.GetPubSub(),
		Now:          s.Clock(),
	})
}

// custom creates an editable quotation template
func (s *TemplateServiceSuite) custom() *template.Template {
	t, err := s.service.CreateFromDefault(s.GetContext(), template.DefaultQuotationID)
	s.Require().NoError(err)
	return t
}

func (s *TemplateServiceSuite) ids(templates []*template.Template) []string {
	return lo.Map(templates, func(t *template.Template, _ int) string { return t.ID })
}

func (s *TemplateServiceSuite) TestLoad_SeedsDefaults() {
	s.Require().NoError(s.service.Load(s.GetContext()))

	list, err := s.service.List(s.GetContext(), nil)
	s.Require().NoError(err)
	s.Equal([]string{
		template.DefaultQuotationID,
		template.DefaultReceiptFullID,
		template.DefaultReceiptShortID,
		template.DefaultTrfReceiptID,
	}, s.ids(list))
	s.True(lo.EveryBy(list, func(t *template.Template) bool { return t.IsDefault }))
	s.Equal(template.QuotationHeaderBarColor, list[0].Theme.HeaderBarColor)

	raw, err := s.GetStores().KV.Get(s.GetContext(), storage.KeyTemplates)
	s.Require().NoError(err)
	stored, dropped, err := schema.ParseTemplates(raw)
	s.Require().NoError(err)
	s.Empty(dropped)
	s.Len(stored, 4)

	s.Equal([]pubsub.ChangeKind{pubsub.ChangeTemplatesRefreshed}, s.GetPubSub().ChangeKinds())
}

func (s *TemplateServiceSuite) TestLoad_KeepsCustomAndPrunesRetiredDefaults() {
	ctx := s.GetContext()
	own := template.ShippedDefaults()[0].Derive("Mine", s.GetNow())
	retired := template.ShippedDefaults()[1]
	retired.ID = "default-retired"
	s.Require().NoError(s.GetStores().TemplateRepo.Save(ctx, []*template.Template{retired, own}))

	s.Require().NoError(s.service.Load(ctx))

	list, err := s.service.List(ctx, nil)
	s.Require().NoError(err)
	s.NotContains(s.ids(list), "default-retired")
	s.Equal(own.ID, list[0].ID)
	s.Equal(own, list[0])
	s.Len(list, 5)
}

func (s *TemplateServiceSuite) TestLoad_Idempotent() {
	ctx := s.GetContext()
	s.custom()
	s.Require().NoError(s.service.Load(ctx))
	first, err := s.service.List(ctx, nil)
	s.Require().NoError(err)

	s.Require().NoError(s.service.Load(ctx))
	second, err := s.service.List(ctx, nil)
	s.Require().NoError(err)
	s.Equal(first, second)

	// a fresh service over the same store sees the same collection
	third, err := s.newService().List(ctx, nil)
	s.Require().NoError(err)
	s.Equal(first, third)
}

func (s *TemplateServiceSuite) TestRefreshDefaults_ReportsCollisions() {
	ctx := s.GetContext()
	own := template.ShippedDefaults()[2].Derive("Custom receipt", s.GetNow())
	own.ID = template.DefaultReceiptShortID
	s.Require().NoError(s.GetStores().TemplateRepo.Save(ctx, []*template.Template{own}))

	res, err := s.service.RefreshDefaults(ctx)
	s.Require().NoError(err)
	s.Equal([]string{template.DefaultReceiptShortID}, res.Collisions)

	got, err := s.service.Get(ctx, template.DefaultReceiptShortID)
	s.Require().NoError(err)
	s.False(got.IsDefault)
	s.Equal("Custom receipt", got.Name)
}

func (s *TemplateServiceSuite) TestList_Filter() {
	ctx := s.GetContext()
	s.custom()

	quotations, err := s.service.List(ctx, &types.TemplateFilter{DocType: types.DocTypeQuotation})
	s.Require().NoError(err)
	s.Len(quotations, 2)

	customOnly, err := s.service.List(ctx, &types.TemplateFilter{IsDefault: lo.ToPtr(false)})
	s.Require().NoError(err)
	s.Len(customOnly, 1)

	_, err = s.service.List(ctx, &types.TemplateFilter{DocType: "invoice"})
	s.True(ierr.IsUnsupportedDocType(err))
}

func (s *TemplateServiceSuite) TestGet_ReturnsCopies() {
	ctx := s.GetContext()
	own := s.custom()

	got, err := s.service.Get(ctx, own.ID)
	s.Require().NoError(err)
	got.Name = "changed outside"
	got.Blocks[0].Locked = true

	again, err := s.service.Get(ctx, own.ID)
	s.Require().NoError(err)
	s.Equal(own, again)

	_, err = s.service.Get(ctx, "missing")
	s.True(ierr.IsNotFound(err))
}

func (s *TemplateServiceSuite) TestUpsert() {
	ctx := s.GetContext()
	raw := []byte(`{"name":"Blank","docType":"receipt_short","isDefault":true,"blocks":[{"type":"title"}]}`)
	t, err := schema.DecodeTemplate(raw)
	s.Require().NoError(err)
	t.Blocks[0].ID = "b1"

	saved, err := s.service.Upsert(ctx, t)
	s.Require().NoError(err)
	s.NotEmpty(saved.ID)
	s.False(saved.IsDefault)
	s.Equal(template.Stamp(s.GetNow()), saved.UpdatedAt)

	saved.Name = "Renamed blank"
	replaced, err := s.service.Upsert(ctx, saved)
	s.Require().NoError(err)
	s.Equal(saved.ID, replaced.ID)

	list, err := s.service.List(ctx, nil)
	s.Require().NoError(err)
	s.Len(list, 5)
	s.Equal(pubsub.ChangeTemplateUpserted, s.GetPubSub().Changes()[len(s.GetPubSub().Changes())-1].Kind)
}

func (s *TemplateServiceSuite) TestUpsert_InvalidLeavesStateUnchanged() {
	ctx := s.GetContext()
	own := s.custom()
	puts := s.GetStores().KV.Puts()

	bad := own.Clone()
	bad.Theme.PrimaryColor = "blue"
	_, err := s.service.Upsert(ctx, bad)
	s.True(ierr.IsValidation(err))

	got, err := s.service.Get(ctx, own.ID)
	s.Require().NoError(err)
	s.Equal(own, got)
	s.Equal(puts, s.GetStores().KV.Puts())
}

func (s *TemplateServiceSuite) TestUpsert_RefusesDefault() {
	ctx := s.GetContext()
	def, err := s.service.Get(ctx, template.DefaultQuotationID)
	s.Require().NoError(err)

	def.Name = "Hijacked"
	_, err = s.service.Upsert(ctx, def)
	s.True(ierr.IsPermissionDenied(err))
}

func (s *TemplateServiceSuite) TestDelete() {
	ctx := s.GetContext()
	own := s.custom()

	s.Require().NoError(s.service.Delete(ctx, own.ID))
	_, err := s.service.Get(ctx, own.ID)
	s.True(ierr.IsNotFound(err))
	s.Contains(s.GetPubSub().ChangeKinds(), pubsub.ChangeTemplateDeleted)

	s.True(ierr.IsNotFound(s.service.Delete(ctx, own.ID)))
	s.True(ierr.IsPermissionDenied(s.service.Delete(ctx, template.DefaultQuotationID)))
}

func (s *TemplateServiceSuite) TestDuplicate() {
	ctx := s.GetContext()
	src := s.custom()
	src, err := s.service.TogglePublish(ctx, src.ID)
	s.Require().NoError(err)
	s.True(src.Published)

	s.Advance(time.Minute)
	dup, err := s.service.Duplicate(ctx, src.ID)
	s.Require().NoError(err)

	s.NotEqual(src.ID, dup.ID)
	s.False(dup.IsDefault)
	s.False(dup.Published)
	s.Equal(src.Name+CopySuffix, dup.Name)
	s.Equal(template.Stamp(s.GetNow()), dup.UpdatedAt)

	s.Require().Len(dup.Blocks, len(src.Blocks))
	s.Empty(lo.Intersect(src.BlockIDs(), dup.BlockIDs()))
	for i := range src.Blocks {
		s.Equal(src.Blocks[i].Type, dup.Blocks[i].Type)
		s.Equal(src.Blocks[i].Props, dup.Blocks[i].Props)
	}
}

func (s *TemplateServiceSuite) TestDuplicate_LongNameStillFits() {
	ctx := s.GetContext()
	src, err := s.service.Rename(ctx, s.custom().ID, strings.Repeat("ก", 118))
	s.Require().NoError(err)

	dup, err := s.service.Duplicate(ctx, src.ID)
	s.Require().NoError(err)
	s.Equal(template.MaxNameLen, utf8.RuneCountInString(dup.Name))
	s.True(strings.HasSuffix(dup.Name, CopySuffix))
	s.True(strings.HasPrefix(src.Name, strings.TrimSuffix(dup.Name, CopySuffix)))

	again, err := s.service.Duplicate(ctx, dup.ID)
	s.Require().NoError(err)
	s.Equal(template.MaxNameLen, utf8.RuneCountInString(again.Name))
}

func TestCopyName(t *testing.T) {
	assert.Equal(t, "Quote"+CopySuffix, CopyName("Quote"))

	long := strings.Repeat("a", template.MaxNameLen-len(CopySuffix)-1) + " bb"
	got := CopyName(long)
	assert.LessOrEqual(t, utf8.RuneCountInString(got), template.MaxNameLen)
	assert.Equal(t, strings.Repeat("a", template.MaxNameLen-len(CopySuffix)-1)+CopySuffix, got)
}

func (s *TemplateServiceSuite) TestCreateFromDefault() {
	ctx := s.GetContext()
	def, err := s.service.Get(ctx, template.DefaultReceiptFullID)
	s.Require().NoError(err)

	own, err := s.service.CreateFromDefault(ctx, def.ID)
	s.Require().NoError(err)
	s.False(own.IsDefault)
	s.Equal(def.DocType, own.DocType)
	s.Equal(def.Theme, own.Theme)

	_, err = s.service.CreateFromDefault(ctx, own.ID)
	s.True(ierr.IsInvalidOperation(err))

	_, err = s.service.CreateFromDefault(ctx, "missing")
	s.True(ierr.IsNotFound(err))
}

func (s *TemplateServiceSuite) TestDefaultsAreReadOnly() {
	ctx := s.GetContext()
	id := template.DefaultQuotationID
	blockID := id + "-" + string(types.BlockTypeTitle)

	tests := []struct {
		name string
		run  func() error
	}{
		{"rename", func() error { _, err := s.service.Rename(ctx, id, "x"); return err }},
		{"toggle publish", func() error { _, err := s.service.TogglePublish(ctx, id); return err }},
		{"theme", func() error {
			_, err := s.service.UpdateTheme(ctx, id, &dto.UpdateThemeRequest{PrimaryColor: lo.ToPtr("#000")})
			return err
		}},
		{"page", func() error {
			_, err := s.service.UpdatePage(ctx, id, &dto.UpdatePageRequest{MarginMM: lo.ToPtr(5.0)})
			return err
		}},
		{"add block", func() error {
			b, _ := template.NewBlock(types.BlockTypeNotes)
			_, err := s.service.AddBlock(ctx, id, b)
			return err
		}},
		{"remove block", func() error { _, err := s.service.RemoveBlock(ctx, id, blockID); return err }},
		{"reorder", func() error { _, err := s.service.ReorderBlocks(ctx, id, []string{blockID}); return err }},
		{"insert", func() error { _, _, err := s.service.InsertBlock(ctx, id, types.BlockTypeStamp, 0); return err }},
		{"move", func() error { _, err := s.service.MoveBlock(ctx, id, 0, 1); return err }},
		{"drop", func() error {
			_, _, err := s.service.Drop(ctx, id, editor.PaletteSource{Type: types.BlockTypeNotes}, "")
			return err
		}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			err := tt.run()
			s.True(ierr.IsPermissionDenied(err), "got %v", err)
		})
	}

	def, err := s.service.Get(ctx, id)
	s.Require().NoError(err)
	shipped, _ := template.ShippedDefault(types.DocTypeQuotation)
	s.Equal(shipped, def)
}

func (s *TemplateServiceSuite) TestRenameAndTogglePublish() {
	ctx := s.GetContext()
	own := s.custom()

	renamed, err := s.service.Rename(ctx, own.ID, "  ใบเสนอราคา ลูกค้า A  ")
	s.Require().NoError(err)
	s.Equal("ใบเสนอราคา ลูกค้า A", renamed.Name)

	_, err = s.service.Rename(ctx, own.ID, "   ")
	s.True(ierr.IsValidation(err))

	published, err := s.service.TogglePublish(ctx, own.ID)
	s.Require().NoError(err)
	s.True(published.Published)
	unpublished, err := s.service.TogglePublish(ctx, own.ID)
	s.Require().NoError(err)
	s.False(unpublished.Published)
}

func (s *TemplateServiceSuite) TestUpdateThemeAndPage() {
	ctx := s.GetContext()
	own := s.custom()

	got, err := s.service.UpdateTheme(ctx, own.ID, &dto.UpdateThemeRequest{PrimaryColor: lo.ToPtr("#112233")})
	s.Require().NoError(err)
	s.Equal("#112233", got.Theme.PrimaryColor)
	s.Equal(own.Theme.HeaderBarColor, got.Theme.HeaderBarColor)

	_, err = s.service.UpdateTheme(ctx, own.ID, &dto.UpdateThemeRequest{AccentColor: lo.ToPtr("teal")})
	s.True(ierr.IsValidation(err))

	got, err = s.service.UpdatePage(ctx, own.ID, &dto.UpdatePageRequest{
		Mode:      lo.ToPtr(types.PageModeThermal),
		ThermalMM: &template.ThermalMM{WidthMM: 58, MarginMM: 2},
	})
	s.Require().NoError(err)
	s.True(got.IsThermal())
	s.Equal(58.0, got.Page.Thermal().WidthMM)

	_, err = s.service.UpdatePage(ctx, own.ID, &dto.UpdatePageRequest{MarginMM: lo.ToPtr(80.0)})
	s.True(ierr.IsValidation(err))
	after, err := s.service.Get(ctx, own.ID)
	s.Require().NoError(err)
	s.Equal(10.0, after.Page.MarginMM)
}

func (s *TemplateServiceSuite) TestBlockOperations() {
	ctx := s.GetContext()
	own := s.custom()
	count := len(own.Blocks)

	stamp, err := template.NewBlock(types.BlockTypeStamp)
	s.Require().NoError(err)
	got, err := s.service.AddBlock(ctx, own.ID, stamp)
	s.Require().NoError(err)
	s.Len(got.Blocks, count+1)
	s.Equal(stamp.ID, got.Blocks[count].ID)

	idx := lo.IndexOf(lo.Map(got.Blocks, func(b *template.Block, _ int) types.BlockType { return b.Type }), types.BlockTypeNotes)
	s.Require().GreaterOrEqual(idx, 0)
	edited := got.Blocks[idx].Clone()
	edited.Props.(*template.NotesProps).Text = "ราคานี้รวมภาษีมูลค่าเพิ่มแล้ว"
	got, err = s.service.UpdateBlock(ctx, own.ID, edited)
	s.Require().NoError(err)
	s.Equal("ราคานี้รวมภาษีมูลค่าเพิ่มแล้ว", got.Blocks[idx].Props.(*template.NotesProps).Text)

	wrongType := edited.Clone()
	wrongType.Type = types.BlockTypeTitle
	wrongType.Props = &template.TitleProps{Align: types.TextAlignLeft}
	_, err = s.service.UpdateBlock(ctx, own.ID, wrongType)
	s.True(ierr.IsInvalidOperation(err))

	_, err = s.service.UpdateBlock(ctx, own.ID, &template.Block{ID: "ghost", Type: types.BlockTypeNotes, Props: &template.NotesProps{}})
	s.True(ierr.IsNotFound(err))

	got, err = s.service.RemoveBlock(ctx, own.ID, stamp.ID)
	s.Require().NoError(err)
	s.Len(got.Blocks, count)
	s.Equal(-1, got.FindBlock(stamp.ID))

	reversed := lo.Reverse(got.BlockIDs())
	got, err = s.service.ReorderBlocks(ctx, own.ID, append([]string{"unknown", reversed[0]}, reversed[:2]...))
	s.Require().NoError(err)
	s.Len(got.Blocks, count)
	s.Equal(reversed[:2], got.BlockIDs()[:2])
}

func (s *TemplateServiceSuite) TestEditorOperations() {
	ctx := s.GetContext()
	own := s.custom()
	count := len(own.Blocks)

	got, inserted, err := s.service.InsertBlock(ctx, own.ID, types.BlockTypePaymentMethod, 1)
	s.Require().NoError(err)
	s.Equal(inserted.ID, got.Blocks[1].ID)
	s.Len(got.Blocks, count+1)

	got, err = s.service.MoveBlock(ctx, own.ID, 1, 100)
	s.Require().NoError(err)
	s.Equal(inserted.ID, got.Blocks[len(got.Blocks)-1].ID)

	_, err = s.service.MoveBlock(ctx, own.ID, 100, 0)
	s.True(ierr.IsInvalidOperation(err))

	first := got.Blocks[0].ID
	got, landed, err := s.service.Drop(ctx, own.ID, editor.PaletteSource{Type: types.BlockTypeJournalItems}, first)
	s.Require().NoError(err)
	s.Equal(landed.ID, got.Blocks[0].ID)
	s.Equal(first, got.Blocks[1].ID)

	got, landed, err = s.service.Drop(ctx, own.ID, editor.BlockSource{BlockID: first}, "")
	s.Require().NoError(err)
	s.Equal(first, landed.ID)
	s.Equal(first, got.Blocks[len(got.Blocks)-1].ID)

	_, _, err = s.service.InsertBlock(ctx, own.ID, "barcode", 0)
	s.True(ierr.IsUnknownBlockType(err) || ierr.IsValidation(err))
}

func (s *TemplateServiceSuite) TestLockedBlocks() {
	ctx := s.GetContext()
	own := s.custom()

	locked := own.Blocks[0].Clone()
	locked.Locked = true
	_, err := s.service.UpdateBlock(ctx, own.ID, locked)
	s.Require().NoError(err)

	_, err = s.service.RemoveBlock(ctx, own.ID, locked.ID)
	s.True(ierr.IsInvalidOperation(err))
	_, err = s.service.MoveBlock(ctx, own.ID, 0, 3)
	s.True(ierr.IsInvalidOperation(err))
	_, _, err = s.service.Drop(ctx, own.ID, editor.BlockSource{BlockID: locked.ID}, "")
	s.True(ierr.IsInvalidOperation(err))
}

func (s *TemplateServiceSuite) TestFailedWriteLeavesStateUnchanged() {
	ctx := s.GetContext()
	own := s.custom()

	s.GetStores().KV.FailWrites(true)
	_, err := s.service.Rename(ctx, own.ID, "Never saved")
	s.Error(err)
	_, err = s.service.Duplicate(ctx, own.ID)
	s.Error(err)
	s.Error(s.service.Delete(ctx, own.ID))

	s.GetStores().KV.FailWrites(false)
	got, err := s.service.Get(ctx, own.ID)
	s.Require().NoError(err)
	s.Equal(own.Name, got.Name)

	list, err := s.service.List(ctx, nil)
	s.Require().NoError(err)
	s.Len(list, 5)
}
