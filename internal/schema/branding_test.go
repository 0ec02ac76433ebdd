package schema

import (
	"testing"

	"github.com/printstudio/docengine/internal/domain/branding"
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBranding_RoundTrip(t *testing.T) {
	first, err := ValidateBranding(branding.Default())
	require.NoError(t, err)
	assert.Equal(t, branding.Default(), first)

	raw, err := MarshalBranding(first)
	require.NoError(t, err)
	second, err := ParseBrandingEnvelope(raw)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseBranding_FillsDefaults(t *testing.T) {
	got, err := ParseBranding([]byte(`{"companyName":"ร้านค้า","accentColor":"#0af"}`))
	require.NoError(t, err)

	assert.Equal(t, "ร้านค้า", got.CompanyName)
	assert.Equal(t, "#0af", got.AccentColor)
	assert.Equal(t, branding.Default().PrimaryColor, got.PrimaryColor)
	assert.Empty(t, got.AddressLines)
	assert.NotNil(t, got.AddressLines)
}

func TestParseBranding_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		paths []string
	}{
		{name: "color", raw: `{"primaryColor":"#12"}`, paths: []string{"primaryColor"}},
		{name: "email", raw: `{"email":"not-an-email"}`, paths: []string{"email"}},
		{name: "empty name", raw: `{"companyName":""}`, paths: []string{"companyName"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBranding([]byte(tt.raw))
			require.Error(t, err)
			assert.True(t, ierr.IsValidation(err))
			assert.ElementsMatch(t, tt.paths, issuePaths(t, err))
		})
	}
}

func TestParseBrandingEnvelope_Drift(t *testing.T) {
	_, err := ParseBrandingEnvelope([]byte(`{}`))
	assert.True(t, ierr.IsPersistedDataDrift(err))

	_, err = ParseBrandingEnvelope([]byte(`{"branding":{"accentColor":"teal"}}`))
	assert.True(t, ierr.IsValidation(err))
}
