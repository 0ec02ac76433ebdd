package service

import (
	"context"
	"encoding/base64"
	"sync"
	"time"

	"github.com/h2non/filetype"
	"github.com/printstudio/docengine/internal/domain/branding"
	"github.com/printstudio/docengine/internal/domain/template"
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/pubsub"
	"github.com/printstudio/docengine/internal/schema"
	"github.com/printstudio/docengine/internal/types"
	"github.com/samber/lo"
)

// MaxImageBytes caps uploaded logo and stamp images before encoding
const MaxImageBytes = 1 << 20

// ImageSlot names the branding field an uploaded image replaces
type ImageSlot string

const (
	ImageSlotLogo  ImageSlot = "logo"
	ImageSlotStamp ImageSlot = "stamp"
)

var allowedImageMIMEs = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// BrandingService manages the singleton branding profile
type BrandingService interface {
	Get(ctx context.Context) (*branding.Profile, error)
	// Update applies a patch immediately
	Update(ctx context.Context, patch *branding.Patch) (*branding.Profile, error)
	// StageDraft folds a patch into the pending draft and restarts the quiet
	// period. It returns the profile as it will look once committed.
	StageDraft(ctx context.Context, patch *branding.Patch) (*branding.Profile, error)
	// FlushDraft commits the pending draft now
	FlushDraft(ctx context.Context) (*branding.Profile, error)
	// UploadImage stores an uploaded logo or stamp as a data URI
	UploadImage(ctx context.Context, slot ImageSlot, data []byte) (*branding.Profile, error)
}

type brandingService struct {
	ServiceParams

	mu      sync.Mutex
	profile *branding.Profile

	draftMu sync.Mutex
	draft   *branding.Patch
	timer   *time.Timer
	// draftGen identifies the live timer. A timer that already fired when it
	// was replaced finds a newer generation and leaves the draft alone.
	draftGen uint64
}

// NewBrandingService creates a new branding service
func NewBrandingService(params ServiceParams) BrandingService {
	return &brandingService{ServiceParams: params}
}

func (s *brandingService) Get(ctx context.Context) (*branding.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.currentLocked(ctx)
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

func (s *brandingService) currentLocked(ctx context.Context) (*branding.Profile, error) {
	if s.profile != nil {
		return s.profile, nil
	}
	p, err := s.BrandingRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.profile = p
	return p, nil
}

func (s *brandingService) Update(ctx context.Context, patch *branding.Patch) (*branding.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.applyLocked(ctx, patch)
}

func (s *brandingService) applyLocked(ctx context.Context, patch *branding.Patch) (*branding.Profile, error) {
	current, err := s.currentLocked(ctx)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return current.Clone(), nil
	}

	next := patch.Apply(current)
	next.UpdatedAt = template.Stamp(s.now())
	valid, err := schema.ValidateBranding(next)
	if err != nil {
		return nil, err
	}

	if err := s.BrandingRepo.Save(ctx, valid); err != nil {
		return nil, err
	}
	s.profile = valid

	event := pubsub.ChangeEvent{Kind: pubsub.ChangeBrandingUpdated, At: valid.UpdatedAt}
	if err := pubsub.PublishChange(ctx, s.Publisher, event); err != nil {
		s.Logger.Warnw("failed to publish branding change", "error", err)
	}
	return valid.Clone(), nil
}

func (s *brandingService) StageDraft(ctx context.Context, patch *branding.Patch) (*branding.Profile, error) {
	s.draftMu.Lock()
	defer s.draftMu.Unlock()

	merged := &branding.Patch{}
	if s.draft != nil {
		*merged = *s.draft
	}
	merged.Merge(patch)

	s.mu.Lock()
	current, err := s.currentLocked(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	// reject an invalid draft now rather than when the timer fires
	preview, err := schema.ValidateBranding(merged.Apply(current))
	if err != nil {
		return nil, err
	}

	s.draft = merged
	if s.timer != nil {
		s.timer.Stop()
	}
	s.draftGen++
	gen := s.draftGen
	detached := types.Detach(ctx)
	s.timer = time.AfterFunc(s.Config.Editor.Debounce(), func() {
		s.commitDraft(detached, gen)
	})
	return preview, nil
}

func (s *brandingService) FlushDraft(ctx context.Context) (*branding.Profile, error) {
	s.draftMu.Lock()
	patch := s.takeDraftLocked()
	s.draftMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(ctx, patch)
}

func (s *brandingService) takeDraftLocked() *branding.Patch {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.draftGen++
	patch := s.draft
	s.draft = nil
	return patch
}

func (s *brandingService) commitDraft(parent context.Context, gen uint64) {
	s.draftMu.Lock()
	if gen != s.draftGen {
		// superseded by a later edit or an explicit flush
		s.draftMu.Unlock()
		return
	}
	patch := s.takeDraftLocked()
	s.draftMu.Unlock()

	ctx, cancel := context.WithTimeout(parent, 10*time.Second)
	defer cancel()

	s.mu.Lock()
	_, err := s.applyLocked(ctx, patch)
	s.mu.Unlock()
	if err != nil {
		s.Logger.Errorw("failed to commit branding draft",
			"error", err,
			"request_id", types.GetRequestID(ctx))
		s.Sentry.CaptureRequestException(ctx, err)
	}
}

func (s *brandingService) UploadImage(ctx context.Context, slot ImageSlot, data []byte) (*branding.Profile, error) {
	uri, err := imageDataURI(data)
	if err != nil {
		return nil, err
	}

	patch := &branding.Patch{}
	switch slot {
	case ImageSlotLogo:
		patch.LogoURL = lo.ToPtr(uri)
	case ImageSlotStamp:
		patch.StampURL = lo.ToPtr(uri)
	default:
		return nil, ierr.NewErrorf("unknown image slot %q", slot).
			WithHint("Images can be uploaded as logo or stamp").
			Mark(ierr.ErrValidation)
	}

	s.Logger.Infow("uploaded branding image", "slot", slot, "bytes", len(data))
	return s.Update(ctx, patch)
}

// imageDataURI sniffs the image type from its content and encodes it as a
// data URI the renderer accepts.
func imageDataURI(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ierr.NewError("image is empty").
			WithHint("Please upload an image file").
			Mark(ierr.ErrValidation)
	}
	if len(data) > MaxImageBytes {
		return "", ierr.NewErrorf("image is %d bytes", len(data)).
			WithHintf("Images must be at most %d KB", MaxImageBytes/1024).
			Mark(ierr.ErrValidation)
	}

	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown || !lo.Contains(allowedImageMIMEs, kind.MIME.Value) {
		return "", ierr.NewError("unsupported image type").
			WithHint("Please upload a PNG, JPEG, GIF or WebP image").
			WithReportableDetails(map[string]any{"allowed": allowedImageMIMEs}).
			Mark(ierr.ErrValidation)
	}

	return "data:" + kind.MIME.Value + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
