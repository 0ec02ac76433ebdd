package service

import (
	"context"
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/printstudio/docengine/internal/api/dto"
	"github.com/printstudio/docengine/internal/domain/template"
	"github.com/printstudio/docengine/internal/editor"
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/pubsub"
	"github.com/printstudio/docengine/internal/schema"
	"github.com/printstudio/docengine/internal/types"
	"github.com/samber/lo"
)

// CopySuffix is appended to the name of duplicated templates
const CopySuffix = " (copy)"

// CopyName returns name with CopySuffix, shortening name so the result still
// fits template.MaxNameLen
func CopyName(name string) string {
	limit := template.MaxNameLen - utf8.RuneCountInString(CopySuffix)
	if runes := []rune(name); len(runes) > limit {
		name = strings.TrimRightFunc(string(runes[:limit]), unicode.IsSpace)
	}
	return name + CopySuffix
}

// TemplateService owns the template collection. Every mutation replaces the
// affected template in one step, stamps updatedAt, writes through to the
// repository and publishes a change event.
type TemplateService interface {
	// Load reads the stored collection and reconciles it with the shipped defaults
	Load(ctx context.Context) error
	// RefreshDefaults re-runs reconciliation against the shipped defaults
	RefreshDefaults(ctx context.Context) (*template.ReconcileResult, error)
	// EnsureDefaults reconciles the collection against an explicit shipped list
	EnsureDefaults(ctx context.Context, shipped []*template.Template) (*template.ReconcileResult, error)

	List(ctx context.Context, filter *types.TemplateFilter) ([]*template.Template, error)
	Get(ctx context.Context, id string) (*template.Template, error)
	Upsert(ctx context.Context, t *template.Template) (*template.Template, error)
	Delete(ctx context.Context, id string) error
	Rename(ctx context.Context, id, name string) (*template.Template, error)
	Duplicate(ctx context.Context, id string) (*template.Template, error)
	CreateFromDefault(ctx context.Context, defaultID string) (*template.Template, error)
	TogglePublish(ctx context.Context, id string) (*template.Template, error)
	UpdateTheme(ctx context.Context, id string, req *dto.UpdateThemeRequest) (*template.Template, error)
	UpdatePage(ctx context.Context, id string, req *dto.UpdatePageRequest) (*template.Template, error)

	// Block operations
	AddBlock(ctx context.Context, id string, block *template.Block) (*template.Template, error)
	UpdateBlock(ctx context.Context, id string, block *template.Block) (*template.Template, error)
	RemoveBlock(ctx context.Context, id, blockID string) (*template.Template, error)
	ReorderBlocks(ctx context.Context, id string, orderedIDs []string) (*template.Template, error)
	InsertBlock(ctx context.Context, id string, blockType types.BlockType, at int) (*template.Template, *template.Block, error)
	MoveBlock(ctx context.Context, id string, from, to int) (*template.Template, error)
	Drop(ctx context.Context, id string, source editor.Source, overID string) (*template.Template, *template.Block, error)
}

type templateService struct {
	ServiceParams

	// mu serializes mutations; the HTTP server is concurrent but edits must
	// apply one at a time, last write wins.
	mu        sync.Mutex
	loaded    bool
	templates []*template.Template
}

// NewTemplateService creates a new template service
func NewTemplateService(params ServiceParams) TemplateService {
	return &templateService{ServiceParams: params}
}

func (s *templateService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loaded = false
	_, err := s.reconcileLocked(ctx, template.ShippedDefaults())
	return err
}

func (s *templateService) RefreshDefaults(ctx context.Context) (*template.ReconcileResult, error) {
	return s.EnsureDefaults(ctx, template.ShippedDefaults())
}

func (s *templateService) EnsureDefaults(ctx context.Context, shipped []*template.Template) (*template.ReconcileResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}
	return s.reconcileLocked(ctx, shipped)
}

// ensureLoadedLocked lazily runs the startup reconciliation
func (s *templateService) ensureLoadedLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	_, err := s.reconcileLocked(ctx, template.ShippedDefaults())
	return err
}

func (s *templateService) reconcileLocked(ctx context.Context, shipped []*template.Template) (*template.ReconcileResult, error) {
	existing := s.templates
	if !s.loaded {
		stored, err := s.TemplateRepo.Load(ctx)
		if err != nil {
			return nil, err
		}
		existing = stored
	}

	valid := make([]*template.Template, 0, len(shipped))
	for _, t := range shipped {
		v, err := schema.ValidateTemplate(t)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHintf("Shipped default %s is invalid", t.ID).
				Mark(ierr.ErrConfiguration)
		}
		valid = append(valid, v)
	}

	res := template.Reconcile(existing, valid)
	if len(res.Collisions) > 0 {
		s.Logger.Warnw("shipped default ids are taken by custom templates, keeping the custom templates",
			"template_ids", res.Collisions)
	}

	if err := s.commitLocked(ctx, res.Templates); err != nil {
		return nil, err
	}
	s.loaded = true

	s.Logger.Infow("reconciled template defaults",
		"templates", len(res.Templates),
		"added", len(res.Added),
		"refreshed", len(res.Refreshed),
		"pruned", len(res.Pruned))
	s.publish(ctx, pubsub.ChangeTemplatesRefreshed, "")
	return &res, nil
}

// commitLocked writes the collection through to the repository and only then
// swaps it in, so a failed write leaves the visible state unchanged.
func (s *templateService) commitLocked(ctx context.Context, templates []*template.Template) error {
	if err := s.TemplateRepo.Save(ctx, templates); err != nil {
		return err
	}
	s.templates = templates
	return nil
}

func (s *templateService) publish(ctx context.Context, kind pubsub.ChangeKind, templateID string) {
	event := pubsub.ChangeEvent{Kind: kind, TemplateID: templateID, At: template.Stamp(s.now())}
	if err := pubsub.PublishChange(ctx, s.Publisher, event); err != nil {
		s.Logger.Warnw("failed to publish change event",
			"kind", kind,
			"template_id", templateID,
			"error", err)
	}
}

func (s *templateService) indexLocked(id string) int {
	_, idx, ok := lo.FindIndexOf(s.templates, func(t *template.Template) bool {
		return t.ID == id
	})
	if !ok {
		return -1
	}
	return idx
}

func (s *templateService) findLocked(ctx context.Context, id string) (int, error) {
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return -1, err
	}
	if id == "" {
		return -1, ierr.NewError("template id is required").
			WithHint("Please provide a template id").
			Mark(ierr.ErrValidation)
	}
	idx := s.indexLocked(id)
	if idx < 0 {
		return -1, templateNotFound(id)
	}
	return idx, nil
}

func (s *templateService) List(ctx context.Context, filter *types.TemplateFilter) ([]*template.Template, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}
	out := lo.Filter(s.templates, func(t *template.Template, _ int) bool {
		return filter.Matches(t.DocType, t.Published, t.IsDefault)
	})
	return lo.Map(out, func(t *template.Template, _ int) *template.Template {
		return t.Clone()
	}), nil
}

func (s *templateService) Get(ctx context.Context, id string) (*template.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.findLocked(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.templates[idx].Clone(), nil
}

// Upsert inserts a custom template or replaces an existing one. Only
// reconciliation mints defaults, so the incoming isDefault flag is cleared and
// replacing a default is refused.
func (s *templateService) Upsert(ctx context.Context, t *template.Template) (*template.Template, error) {
	if t == nil {
		return nil, ierr.NewError("template is required").
			WithHint("Please provide a template").
			Mark(ierr.ErrValidation)
	}

	next := t.Clone()
	if next.ID == "" {
		next.ID = types.NewID(types.IDPrefixTemplate)
	}
	next.IsDefault = false
	next.UpdatedAt = template.Stamp(s.now())

	valid, err := schema.ValidateTemplate(next)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}

	updated := slices.Clone(s.templates)
	if idx := s.indexLocked(valid.ID); idx >= 0 {
		if s.templates[idx].IsDefault {
			return nil, readOnly(valid.ID)
		}
		updated[idx] = valid
	} else {
		updated = append(updated, valid)
	}

	if err := s.commitLocked(ctx, updated); err != nil {
		return nil, err
	}
	s.publish(ctx, pubsub.ChangeTemplateUpserted, valid.ID)
	return valid.Clone(), nil
}

func (s *templateService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.findLocked(ctx, id)
	if err != nil {
		return err
	}
	if s.templates[idx].IsDefault {
		return readOnly(id)
	}

	updated := slices.Delete(slices.Clone(s.templates), idx, idx+1)
	if err := s.commitLocked(ctx, updated); err != nil {
		return err
	}

	s.Logger.Infow("deleted template", "template_id", id)
	s.publish(ctx, pubsub.ChangeTemplateDeleted, id)
	return nil
}

func (s *templateService) Rename(ctx context.Context, id, name string) (*template.Template, error) {
	name = strings.TrimSpace(name)
	return s.mutate(ctx, id, func(t *template.Template) error {
		t.Name = name
		return nil
	})
}

func (s *templateService) TogglePublish(ctx context.Context, id string) (*template.Template, error) {
	return s.mutate(ctx, id, func(t *template.Template) error {
		t.Published = !t.Published
		return nil
	})
}

func (s *templateService) UpdateTheme(ctx context.Context, id string, req *dto.UpdateThemeRequest) (*template.Template, error) {
	if req == nil {
		return nil, missingPatch("theme")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(t *template.Template) error {
		t.Theme = req.Apply(t.Theme)
		return nil
	})
}

func (s *templateService) UpdatePage(ctx context.Context, id string, req *dto.UpdatePageRequest) (*template.Template, error) {
	if req == nil {
		return nil, missingPatch("page")
	}
	return s.mutate(ctx, id, func(t *template.Template) error {
		t.Page = req.Apply(t.Page)
		return nil
	})
}

func (s *templateService) Duplicate(ctx context.Context, id string) (*template.Template, error) {
	return s.derive(ctx, id, false)
}

func (s *templateService) CreateFromDefault(ctx context.Context, defaultID string) (*template.Template, error) {
	return s.derive(ctx, defaultID, true)
}

// derive appends an editable deep copy of the source template
func (s *templateService) derive(ctx context.Context, id string, requireDefault bool) (*template.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.findLocked(ctx, id)
	if err != nil {
		return nil, err
	}
	src := s.templates[idx]
	if requireDefault && !src.IsDefault {
		return nil, ierr.NewErrorf("template %s is not a default", id).
			WithHint("Templates can only be created from a default template").
			WithReportableDetails(map[string]any{"template_id": id}).
			Mark(ierr.ErrInvalidOperation)
	}

	copied, err := schema.ValidateTemplate(src.Derive(CopyName(src.Name), s.now()))
	if err != nil {
		return nil, err
	}

	if err := s.commitLocked(ctx, append(slices.Clone(s.templates), copied)); err != nil {
		return nil, err
	}

	s.Logger.Infow("derived template",
		"source_id", id,
		"template_id", copied.ID,
		"from_default", src.IsDefault)
	s.publish(ctx, pubsub.ChangeTemplateUpserted, copied.ID)
	return copied.Clone(), nil
}

func (s *templateService) AddBlock(ctx context.Context, id string, block *template.Block) (*template.Template, error) {
	if block == nil {
		return nil, ierr.NewError("block is required").
			WithHint("Please provide a block").
			Mark(ierr.ErrValidation)
	}

	b := block.Clone()
	if b.ID == "" {
		b.ID = template.NewBlockID()
	}
	if b.Props == nil {
		props, err := template.DefaultProps(b.Type)
		if err != nil {
			return nil, err
		}
		b.Props = props
	}

	return s.mutate(ctx, id, func(t *template.Template) error {
		t.Blocks = append(t.Blocks, b)
		return nil
	})
}

func (s *templateService) UpdateBlock(ctx context.Context, id string, block *template.Block) (*template.Template, error) {
	if block == nil || block.ID == "" {
		return nil, ierr.NewError("block id is required").
			WithHint("Please provide the block to update").
			Mark(ierr.ErrValidation)
	}

	b := block.Clone()
	return s.mutate(ctx, id, func(t *template.Template) error {
		idx := t.FindBlock(b.ID)
		if idx < 0 {
			return blockNotFound(id, b.ID)
		}
		if t.Blocks[idx].Type != b.Type {
			return ierr.NewErrorf("block %s cannot change type from %s to %s", b.ID, t.Blocks[idx].Type, b.Type).
				WithHint("A block's type cannot be changed; remove it and add a new block instead").
				Mark(ierr.ErrInvalidOperation)
		}
		t.Blocks[idx] = b
		return nil
	})
}

func (s *templateService) RemoveBlock(ctx context.Context, id, blockID string) (*template.Template, error) {
	return s.mutate(ctx, id, func(t *template.Template) error {
		idx := t.FindBlock(blockID)
		if idx < 0 {
			return blockNotFound(id, blockID)
		}
		if err := checkUnlocked(t.Blocks[idx]); err != nil {
			return err
		}
		t.Blocks = slices.Delete(t.Blocks, idx, idx+1)
		return nil
	})
}

func (s *templateService) ReorderBlocks(ctx context.Context, id string, orderedIDs []string) (*template.Template, error) {
	return s.mutate(ctx, id, func(t *template.Template) error {
		t.Blocks = editor.Reorder(t.Blocks, orderedIDs)
		return nil
	})
}

func (s *templateService) InsertBlock(ctx context.Context, id string, blockType types.BlockType, at int) (*template.Template, *template.Block, error) {
	var inserted *template.Block
	t, err := s.mutate(ctx, id, func(t *template.Template) error {
		blocks, b, err := editor.InsertBlock(t.Blocks, blockType, at)
		if err != nil {
			return err
		}
		t.Blocks, inserted = blocks, b
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return t, inserted.Clone(), nil
}

func (s *templateService) MoveBlock(ctx context.Context, id string, from, to int) (*template.Template, error) {
	return s.mutate(ctx, id, func(t *template.Template) error {
		if from >= 0 && from < len(t.Blocks) {
			if err := checkUnlocked(t.Blocks[from]); err != nil {
				return err
			}
		}
		blocks, err := editor.MoveBlock(t.Blocks, from, to)
		if err != nil {
			return err
		}
		t.Blocks = blocks
		return nil
	})
}

func (s *templateService) Drop(ctx context.Context, id string, source editor.Source, overID string) (*template.Template, *template.Block, error) {
	if source == nil {
		return nil, nil, ierr.NewError("drag source is required").
			WithHint("Please provide a palette entry or a block to drop").
			Mark(ierr.ErrValidation)
	}

	var landed *template.Block
	t, err := s.mutate(ctx, id, func(t *template.Template) error {
		if src, ok := source.(editor.BlockSource); ok {
			if idx := t.FindBlock(src.BlockID); idx >= 0 {
				if err := checkUnlocked(t.Blocks[idx]); err != nil {
					return err
				}
			}
		}
		res, err := editor.Drop(t.Blocks, source, overID)
		if err != nil {
			return err
		}
		t.Blocks, landed = res.Blocks, res.Block
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return t, landed.Clone(), nil
}

// mutate applies fn to a copy of a custom template, validates the result and
// commits it. Defaults are refused before fn runs; any error leaves the
// collection untouched.
func (s *templateService) mutate(ctx context.Context, id string, fn func(t *template.Template) error) (*template.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.findLocked(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.templates[idx].IsDefault {
		return nil, readOnly(id)
	}

	next := s.templates[idx].Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = template.Stamp(s.now())

	valid, err := schema.ValidateTemplate(next)
	if err != nil {
		return nil, err
	}

	updated := slices.Clone(s.templates)
	updated[idx] = valid
	if err := s.commitLocked(ctx, updated); err != nil {
		return nil, err
	}

	s.publish(ctx, pubsub.ChangeTemplateUpserted, id)
	return valid.Clone(), nil
}

func checkUnlocked(b *template.Block) error {
	if !b.Locked {
		return nil
	}
	return ierr.NewErrorf("block %s is locked", b.ID).
		WithHint("Unlock the block before moving or removing it").
		WithReportableDetails(map[string]any{"block_id": b.ID}).
		Mark(ierr.ErrInvalidOperation)
}

func missingPatch(subject string) error {
	return ierr.NewErrorf("%s patch is required", subject).
		WithHintf("Please provide the %s fields to change", subject).
		Mark(ierr.ErrValidation)
}

func readOnly(id string) error {
	return ierr.NewErrorf("template %s is a default", id).
		WithHint("default templates are read-only").
		WithReportableDetails(map[string]any{"template_id": id}).
		Mark(ierr.ErrPermissionDenied)
}

func templateNotFound(id string) error {
	return ierr.NewErrorf("template %s not found", id).
		WithHintf("Template %s was not found", id).
		WithReportableDetails(map[string]any{"template_id": id}).
		Mark(ierr.ErrNotFound)
}

func blockNotFound(templateID, blockID string) error {
	return ierr.NewErrorf("block %s not found in template %s", blockID, templateID).
		WithHintf("Block %s was not found", blockID).
		WithReportableDetails(map[string]any{
			"template_id": templateID,
			"block_id":    blockID,
		}).
		Mark(ierr.ErrNotFound)
}
