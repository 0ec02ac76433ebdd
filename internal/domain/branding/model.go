package branding

import (
	"context"
	"slices"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Profile holds the company-wide presentation defaults. There is exactly one
// per install.
type Profile struct {
	CompanyName   string    `json:"companyName" validate:"required,max=200"`
	CompanyNameEn string    `json:"companyNameEn" validate:"max=200"`
	LogoURL       string    `json:"logoUrl" validate:"omitempty,max=2000000"`
	AddressLines  []string  `json:"addressLines" validate:"max=6,dive,max=200"`
	Phone         string    `json:"phone" validate:"max=60"`
	Email         string    `json:"email" validate:"omitempty,email"`
	Website       string    `json:"website" validate:"max=200"`
	TaxID         string    `json:"taxId" validate:"omitempty,max=20"`
	Branch        string    `json:"branch" validate:"max=80"`
	FontFamily    string    `json:"fontFamily" validate:"required,max=120"`
	PrimaryColor  string    `json:"primaryColor" validate:"required,doccolor"`
	AccentColor   string    `json:"accentColor" validate:"required,doccolor"`
	StampURL      string    `json:"stampUrl" validate:"omitempty,max=2000000"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Default returns the built-in profile used on first start and whenever the
// stored profile cannot be read.
func Default() *Profile {
	return &Profile{
		CompanyName:   "บริษัท ตัวอย่าง จำกัด",
		CompanyNameEn: "Example Co., Ltd.",
		AddressLines:  []string{"99 Example Road", "Bangkok 10110"},
		Phone:         "02-000-0000",
		Email:         "hello@example.co.th",
		TaxID:         "0105500000000",
		Branch:        "สำนักงานใหญ่",
		FontFamily:    "Sarabun, sans-serif",
		PrimaryColor:  "#1F2937",
		AccentColor:   "#2563EB",
		UpdatedAt:     time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (p *Profile) UnmarshalJSON(data []byte) error {
	type alias Profile
	a := alias(*Default())
	a.AddressLines = nil
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.AddressLines == nil {
		a.AddressLines = []string{}
	}
	*p = Profile(a)
	return nil
}

// Clone returns a deep copy of the profile
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	c.AddressLines = slices.Clone(p.AddressLines)
	return &c
}

// Patch is a partial profile update. Nil fields are left unchanged.
type Patch struct {
	CompanyName   *string   `json:"companyName,omitempty"`
	CompanyNameEn *string   `json:"companyNameEn,omitempty"`
	LogoURL       *string   `json:"logoUrl,omitempty"`
	AddressLines  *[]string `json:"addressLines,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	Email         *string   `json:"email,omitempty"`
	Website       *string   `json:"website,omitempty"`
	TaxID         *string   `json:"taxId,omitempty"`
	Branch        *string   `json:"branch,omitempty"`
	FontFamily    *string   `json:"fontFamily,omitempty"`
	PrimaryColor  *string   `json:"primaryColor,omitempty"`
	AccentColor   *string   `json:"accentColor,omitempty"`
	StampURL      *string   `json:"stampUrl,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p *Patch) IsEmpty() bool {
	return p == nil || *p == Patch{}
}

// Merge folds a later patch into p. Fields set in next win.
func (p *Patch) Merge(next *Patch) {
	if next == nil {
		return
	}
	set(&p.CompanyName, next.CompanyName)
	set(&p.CompanyNameEn, next.CompanyNameEn)
	set(&p.LogoURL, next.LogoURL)
	set(&p.AddressLines, next.AddressLines)
	set(&p.Phone, next.Phone)
	set(&p.Email, next.Email)
	set(&p.Website, next.Website)
	set(&p.TaxID, next.TaxID)
	set(&p.Branch, next.Branch)
	set(&p.FontFamily, next.FontFamily)
	set(&p.PrimaryColor, next.PrimaryColor)
	set(&p.AccentColor, next.AccentColor)
	set(&p.StampURL, next.StampURL)
}

// Apply returns a copy of profile with the patch applied
func (p *Patch) Apply(profile *Profile) *Profile {
	c := profile.Clone()
	if p == nil {
		return c
	}
	apply(&c.CompanyName, p.CompanyName)
	apply(&c.CompanyNameEn, p.CompanyNameEn)
	apply(&c.LogoURL, p.LogoURL)
	if p.AddressLines != nil {
		c.AddressLines = slices.Clone(*p.AddressLines)
	}
	apply(&c.Phone, p.Phone)
	apply(&c.Email, p.Email)
	apply(&c.Website, p.Website)
	apply(&c.TaxID, p.TaxID)
	apply(&c.Branch, p.Branch)
	apply(&c.FontFamily, p.FontFamily)
	apply(&c.PrimaryColor, p.PrimaryColor)
	apply(&c.AccentColor, p.AccentColor)
	apply(&c.StampURL, p.StampURL)
	return c
}

func set[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}

func apply[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Repository persists the singleton profile
type Repository interface {
	// Load returns the stored profile, or the default when nothing valid is stored
	Load(ctx context.Context) (*Profile, error)

	// Save replaces the stored profile
	Save(ctx context.Context, profile *Profile) error
}
