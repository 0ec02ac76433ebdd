package types

import "github.com/samber/lo"

// TemplateFilter narrows a template listing. Zero values match everything.
type TemplateFilter struct {
	DocType   DocType `form:"docType" json:"docType,omitempty"`
	Published *bool   `form:"published" json:"published,omitempty"`
	IsDefault *bool   `form:"isDefault" json:"isDefault,omitempty"`
}

// NewTemplateFilter returns a filter that matches every template
func NewTemplateFilter() *TemplateFilter {
	return &TemplateFilter{}
}

func (f *TemplateFilter) Validate() error {
	if f == nil || f.DocType == "" {
		return nil
	}
	return f.DocType.Validate()
}

// Matches reports whether a template with the given attributes passes the filter
func (f *TemplateFilter) Matches(docType DocType, published, isDefault bool) bool {
	if f == nil {
		return true
	}
	if f.DocType != "" && f.DocType != docType {
		return false
	}
	if f.Published != nil && lo.FromPtr(f.Published) != published {
		return false
	}
	if f.IsDefault != nil && lo.FromPtr(f.IsDefault) != isDefault {
		return false
	}
	return true
}
