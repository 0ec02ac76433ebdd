package schema

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/printstudio/docengine/internal/domain/template"
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/types"
	"github.com/printstudio/docengine/internal/validator"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const subjectTemplate = "template"

// ParseTemplate decodes raw JSON into a template, injecting defaults for
// omitted optional fields, and validates the result.
func ParseTemplate(raw []byte) (*template.Template, error) {
	t, err := DecodeTemplate(raw)
	if err != nil {
		return nil, err
	}
	return ValidateTemplate(t)
}

// DecodeTemplate decodes raw JSON with defaults injected but leaves the rule
// checks to ValidateTemplate. Missing or unknown block types are still
// reported with their path.
func DecodeTemplate(raw []byte) (*template.Template, error) {
	if err := scanBlockTypes(raw); err != nil {
		return nil, err
	}

	var t template.Template
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, validationFailed(subjectTemplate, []Issue{{Reason: "malformed document: " + err.Error()}})
	}
	return &t, nil
}

// DecodeBlock decodes a single block, injecting default props for omitted fields
func DecodeBlock(raw []byte) (*template.Block, error) {
	blockType := types.BlockType(json.Get(raw, "type").ToString())
	if blockType == "" {
		return nil, validationFailed(subjectTemplate, []Issue{{Path: "type", Reason: "is required"}})
	}
	if blockType.Validate() != nil {
		return nil, unknownBlockType("type", blockType)
	}

	var b template.Block
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, validationFailed(subjectTemplate, []Issue{{Reason: "malformed block: " + err.Error()}})
	}
	return &b, nil
}

// ValidateTemplate checks an already decoded template and returns a
// normalized copy. Validating a valid template yields an equal template.
func ValidateTemplate(t *template.Template) (*template.Template, error) {
	if t == nil {
		return nil, validationFailed(subjectTemplate, []Issue{{Reason: "is required"}})
	}

	for i, b := range t.Blocks {
		if b == nil {
			continue
		}
		if err := b.Type.Validate(); err != nil {
			return nil, unknownBlockType(fmt.Sprintf("blocks[%d].type", i), b.Type)
		}
	}

	issues := validator.Issues(t)
	issues = append(issues, blockIssues(t.Blocks)...)
	if len(issues) > 0 {
		return nil, validationFailed(subjectTemplate, issues)
	}

	c := t.Clone()
	if c.Blocks == nil {
		c.Blocks = []*template.Block{}
	}
	return c, nil
}

func blockIssues(blocks []*template.Block) []Issue {
	var issues []Issue
	seen := make(map[string]int, len(blocks))

	for i, b := range blocks {
		if b == nil {
			continue
		}
		prefix := fmt.Sprintf("blocks[%d]", i)

		if b.ID != "" {
			if first, dup := seen[b.ID]; dup {
				issues = append(issues, Issue{
					Path:   prefix + ".id",
					Reason: fmt.Sprintf("duplicates the id of blocks[%d]", first),
				})
			} else {
				seen[b.ID] = i
			}
		}

		switch {
		case b.Props == nil:
			issues = append(issues, Issue{Path: prefix + ".props", Reason: "is required"})
		case b.Props.BlockType() != b.Type:
			issues = append(issues, Issue{
				Path:   prefix + ".props",
				Reason: fmt.Sprintf("has the shape of %s but type is %s", b.Props.BlockType(), b.Type),
			})
		default:
			for _, pi := range validator.Issues(b.Props) {
				pi.Path = prefix + ".props." + pi.Path
				issues = append(issues, pi)
			}
		}
	}
	return issues
}

// scanBlockTypes reports a missing or unknown block type with its path before
// the full decode, which would otherwise only surface a generic decode error.
func scanBlockTypes(raw []byte) error {
	var shape struct {
		Blocks []struct {
			Type *string `json:"type"`
		} `json:"blocks"`
	}
	if err := json.Unmarshal(raw, &shape); err != nil {
		return validationFailed(subjectTemplate, []Issue{{Reason: "malformed document: " + err.Error()}})
	}

	for i, b := range shape.Blocks {
		path := fmt.Sprintf("blocks[%d].type", i)
		if b.Type == nil || *b.Type == "" {
			return validationFailed(subjectTemplate, []Issue{{Path: path, Reason: "is required"}})
		}
		blockType := types.BlockType(*b.Type)
		if blockType.Validate() != nil {
			return unknownBlockType(path, blockType)
		}
	}
	return nil
}

// Dropped is a persisted entry that no longer validates
type Dropped struct {
	Index int
	ID    string
	Err   error
}

// ParseTemplates decodes the persisted collection envelope. Entries that fail
// validation are skipped and reported in dropped; only a malformed envelope
// is an error.
func ParseTemplates(raw []byte) (templates []*template.Template, dropped []Dropped, err error) {
	var envelope struct {
		Templates []jsoniter.RawMessage `json:"templates"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, nil, ierr.WithError(err).
			WithHint("Stored template collection is unreadable").
			Mark(ierr.ErrPersistedDataDrift)
	}

	templates = make([]*template.Template, 0, len(envelope.Templates))
	seen := make(map[string]bool, len(envelope.Templates))
	for i, entry := range envelope.Templates {
		t, err := ParseTemplate(entry)
		if err != nil {
			dropped = append(dropped, Dropped{Index: i, ID: json.Get(entry, "id").ToString(), Err: err})
			continue
		}
		if seen[t.ID] {
			dropped = append(dropped, Dropped{
				Index: i,
				ID:    t.ID,
				Err:   ierr.NewErrorf("duplicate template id %s", t.ID).Mark(ierr.ErrPersistedDataDrift),
			})
			continue
		}
		seen[t.ID] = true
		templates = append(templates, t)
	}
	return templates, dropped, nil
}

// MarshalTemplates encodes the persisted collection envelope
func MarshalTemplates(templates []*template.Template) ([]byte, error) {
	if templates == nil {
		templates = []*template.Template{}
	}
	return json.Marshal(struct {
		Templates []*template.Template `json:"templates"`
	}{Templates: templates})
}
