package service

import (
	"testing"
	"time"

	"github.com/printstudio/docengine/internal/domain/branding"
	"github.com/printstudio/docengine/internal/domain/template"
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/pubsub"
	"github.com/printstudio/docengine/internal/testutil"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

// file signatures, enough for content sniffing
var (
	pngHeader  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 0x49, 0x48, 0x44, 0x52}
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0x10, 0x4A, 0x46, 0x49, 0x46, 0}
)

type BrandingServiceSuite struct {
	testutil.BaseServiceTestSuite
	service BrandingService
}

func TestBrandingService(t *testing.T) {
	suite.Run(t, new(BrandingServiceSuite))
}

func (s *BrandingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewBrandingService(ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		BrandingRepo: s.GetStores().BrandingRepo,
		Publisher:    s.GetPubSub(),
		Now:          s.Clock(),
	})
}

func (s *BrandingServiceSuite) TestGet_DefaultsWhenNothingStored() {
	got, err := s.service.Get(s.GetContext())
	s.Require().NoError(err)
	s.Equal(branding.Default(), got)
}

func (s *BrandingServiceSuite) TestUpdate() {
	ctx := s.GetContext()

	got, err := s.service.Update(ctx, &branding.Patch{
		CompanyName:  lo.ToPtr("ห้างหุ้นส่วน ทดสอบ"),
		AddressLines: lo.ToPtr([]string{"1 ถนนสุขุมวิท"}),
	})
	s.Require().NoError(err)
	s.Equal("ห้างหุ้นส่วน ทดสอบ", got.CompanyName)
	s.Equal([]string{"1 ถนนสุขุมวิท"}, got.AddressLines)
	s.Equal(branding.Default().PrimaryColor, got.PrimaryColor)
	s.Equal(s.GetNow(), got.UpdatedAt)

	stored, err := s.GetStores().BrandingRepo.Load(ctx)
	s.Require().NoError(err)
	s.Equal(got, stored)
	s.Equal([]pubsub.ChangeKind{pubsub.ChangeBrandingUpdated}, s.GetPubSub().ChangeKinds())
}

func (s *BrandingServiceSuite) TestUpdate_InvalidLeavesProfileUnchanged() {
	ctx := s.GetContext()

	_, err := s.service.Update(ctx, &branding.Patch{PrimaryColor: lo.ToPtr("navy")})
	s.True(ierr.IsValidation(err))

	got, err := s.service.Get(ctx)
	s.Require().NoError(err)
	s.Equal(branding.Default(), got)
	s.Empty(s.GetPubSub().Changes())
}

func (s *BrandingServiceSuite) TestUpdate_EmptyPatchIsNoop() {
	got, err := s.service.Update(s.GetContext(), &branding.Patch{})
	s.Require().NoError(err)
	s.Equal(branding.Default(), got)
	s.Zero(s.GetStores().KV.Puts())
}

func (s *BrandingServiceSuite) TestStageDraft_CoalescesEdits() {
	ctx := s.GetContext()

	preview, err := s.service.StageDraft(ctx, &branding.Patch{Phone: lo.ToPtr("02-111-1111")})
	s.Require().NoError(err)
	s.Equal("02-111-1111", preview.Phone)

	preview, err = s.service.StageDraft(ctx, &branding.Patch{Website: lo.ToPtr("example.co.th")})
	s.Require().NoError(err)
	s.Equal("02-111-1111", preview.Phone)
	s.Equal("example.co.th", preview.Website)

	// nothing is written until the quiet period ends
	s.Zero(s.GetStores().KV.Puts())

	s.Eventually(func() bool {
		return s.GetStores().KV.Puts() == 1
	}, time.Second, 5*time.Millisecond)

	got, err := s.service.Get(ctx)
	s.Require().NoError(err)
	s.Equal("02-111-1111", got.Phone)
	s.Equal("example.co.th", got.Website)
	s.Equal(1, s.GetStores().KV.Puts())
}

func (s *BrandingServiceSuite) TestStageDraft_SupersededTimerKeepsQuietPeriod() {
	ctx := s.GetContext()
	svc := s.service.(*brandingService)

	// a wider quiet period keeps the live timer from firing mid-assertion
	debounce := s.GetConfig().Editor.DebounceMs
	s.GetConfig().Editor.DebounceMs = 200
	defer func() { s.GetConfig().Editor.DebounceMs = debounce }()

	_, err := s.service.StageDraft(ctx, &branding.Patch{Phone: lo.ToPtr("02-111-1111")})
	s.Require().NoError(err)
	svc.draftMu.Lock()
	first := svc.draftGen
	svc.draftMu.Unlock()

	_, err = s.service.StageDraft(ctx, &branding.Patch{Website: lo.ToPtr("example.co.th")})
	s.Require().NoError(err)

	// the first timer fires late, after the second edit replaced it
	svc.commitDraft(ctx, first)
	s.Zero(s.GetStores().KV.Puts())

	s.Eventually(func() bool {
		return s.GetStores().KV.Puts() == 1
	}, time.Second, 5*time.Millisecond)

	got, err := s.service.Get(ctx)
	s.Require().NoError(err)
	s.Equal("02-111-1111", got.Phone)
	s.Equal("example.co.th", got.Website)
}

func (s *BrandingServiceSuite) TestStageDraft_RejectsInvalidDraft() {
	ctx := s.GetContext()

	_, err := s.service.StageDraft(ctx, &branding.Patch{Email: lo.ToPtr("not-an-email")})
	s.True(ierr.IsValidation(err))

	got, err := s.service.FlushDraft(ctx)
	s.Require().NoError(err)
	s.Equal(branding.Default(), got)
}

func (s *BrandingServiceSuite) TestFlushDraft_CommitsImmediately() {
	ctx := s.GetContext()

	_, err := s.service.StageDraft(ctx, &branding.Patch{Branch: lo.ToPtr("สาขา 00001")})
	s.Require().NoError(err)

	got, err := s.service.FlushDraft(ctx)
	s.Require().NoError(err)
	s.Equal("สาขา 00001", got.Branch)
	s.Equal(1, s.GetStores().KV.Puts())

	// the cancelled timer must not write again
	time.Sleep(3 * s.GetConfig().Editor.Debounce())
	s.Equal(1, s.GetStores().KV.Puts())
}

func (s *BrandingServiceSuite) TestUploadImage() {
	ctx := s.GetContext()

	got, err := s.service.UploadImage(ctx, ImageSlotLogo, pngHeader)
	s.Require().NoError(err)
	s.Contains(got.LogoURL, "data:image/png;base64,")

	got, err = s.service.UploadImage(ctx, ImageSlotStamp, jpegHeader)
	s.Require().NoError(err)
	s.Contains(got.StampURL, "data:image/jpeg;base64,")
	s.Contains(got.LogoURL, "data:image/png;base64,")
}

func (s *BrandingServiceSuite) TestUploadImage_Rejects() {
	ctx := s.GetContext()

	tests := []struct {
		name string
		slot ImageSlot
		data []byte
	}{
		{name: "empty", slot: ImageSlotLogo, data: nil},
		{name: "not an image", slot: ImageSlotLogo, data: []byte("%PDF-1.7 not a logo")},
		{name: "too large", slot: ImageSlotLogo, data: append(pngHeader, make([]byte, MaxImageBytes)...)},
		{name: "unknown slot", slot: "watermark", data: pngHeader},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.UploadImage(ctx, tt.slot, tt.data)
			s.True(ierr.IsValidation(err), "got %v", err)
		})
	}

	got, err := s.service.Get(ctx)
	s.Require().NoError(err)
	s.Empty(got.LogoURL)
}

func (s *BrandingServiceSuite) TestStampsAreMillisecondPrecision() {
	s.Advance(123456 * time.Nanosecond)
	got, err := s.service.Update(s.GetContext(), &branding.Patch{Phone: lo.ToPtr("1")})
	s.Require().NoError(err)
	s.Equal(template.Stamp(s.GetNow()), got.UpdatedAt)
}
