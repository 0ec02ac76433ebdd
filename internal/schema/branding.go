package schema

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/printstudio/docengine/internal/domain/branding"
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/validator"
)

const subjectBranding = "branding"

// ParseBranding decodes raw JSON into a branding profile, filling omitted
// fields from the built-in default, and validates the result.
func ParseBranding(raw []byte) (*branding.Profile, error) {
	var p branding.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, validationFailed(subjectBranding, []Issue{{Reason: "malformed document: " + err.Error()}})
	}
	return ValidateBranding(&p)
}

// ValidateBranding checks a decoded profile and returns a normalized copy
func ValidateBranding(p *branding.Profile) (*branding.Profile, error) {
	if p == nil {
		return nil, validationFailed(subjectBranding, []Issue{{Reason: "is required"}})
	}
	if issues := validator.Issues(p); len(issues) > 0 {
		return nil, validationFailed(subjectBranding, issues)
	}
	c := p.Clone()
	if c.AddressLines == nil {
		c.AddressLines = []string{}
	}
	return c, nil
}

// ParseBrandingEnvelope decodes the persisted singleton envelope
func ParseBrandingEnvelope(raw []byte) (*branding.Profile, error) {
	var envelope struct {
		Branding jsoniter.RawMessage `json:"branding"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Stored branding is unreadable").
			Mark(ierr.ErrPersistedDataDrift)
	}
	if len(envelope.Branding) == 0 {
		return nil, ierr.NewError("stored branding envelope is empty").
			Mark(ierr.ErrPersistedDataDrift)
	}
	return ParseBranding(envelope.Branding)
}

// MarshalBranding encodes the persisted singleton envelope
func MarshalBranding(p *branding.Profile) ([]byte, error) {
	return json.Marshal(struct {
		Branding *branding.Profile `json:"branding"`
	}{Branding: p})
}
