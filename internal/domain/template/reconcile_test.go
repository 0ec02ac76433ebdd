package template

import (
	"testing"
	"time"

	"github.com/printstudio/docengine/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func customFrom(t *testing.T, src *Template, name string) *Template {
	t.Helper()
	c := src.Derive(name, time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC))
	require.False(t, c.IsDefault)
	return c
}

func ids(templates []*Template) []string {
	return lo.Map(templates, func(t *Template, _ int) string { return t.ID })
}

func TestReconcile_Idempotent(t *testing.T) {
	shipped := ShippedDefaults()
	existing := []*Template{
		customFrom(t, shipped[0], "My quotation"),
		shipped[1].Clone(),
	}

	first := EnsureDefaults(existing, shipped)
	second := EnsureDefaults(first, shipped)

	assert.Equal(t, first, second)

	b1, err := json.Marshal(first)
	require.NoError(t, err)
	b2, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(b1), string(b2))
}

func TestReconcile_PreservesCustomTemplates(t *testing.T) {
	shipped := ShippedDefaults()
	a := customFrom(t, shipped[0], "Quotation A")
	b := customFrom(t, shipped[2], "Receipt B")
	b.Published = true

	before := lo.Map([]*Template{a, b}, func(tmpl *Template, _ int) string {
		return string(lo.Must(json.Marshal(tmpl)))
	})

	tests := []struct {
		name    string
		shipped []*Template
	}{
		{name: "full shipped list", shipped: shipped},
		{name: "empty shipped list", shipped: nil},
		{name: "single shipped entry", shipped: shipped[3:]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnsureDefaults([]*Template{a, shipped[0].Clone(), b}, tt.shipped)

			customs := lo.Filter(got, func(tmpl *Template, _ int) bool { return !tmpl.IsDefault })
			require.Len(t, customs, 2)
			for i, c := range customs {
				assert.Equal(t, before[i], string(lo.Must(json.Marshal(c))))
			}
		})
	}
}

func TestReconcile_PrunesRetiredDefaults(t *testing.T) {
	shipped := ShippedDefaults()
	retired := shipped[1].Clone()
	retired.ID = "default-legacy-invoice"

	custom := customFrom(t, shipped[0], "Kept")
	existing := []*Template{shipped[0].Clone(), retired, custom, shipped[2].Clone()}

	res := Reconcile(existing, shipped)

	assert.Equal(t, []string{"default-legacy-invoice"}, res.Pruned)
	assert.NotContains(t, ids(res.Templates), "default-legacy-invoice")
	assert.Contains(t, ids(res.Templates), custom.ID)
	assert.ElementsMatch(t, []string{DefaultQuotationID, DefaultReceiptShortID}, res.Refreshed)
}

func TestReconcile_Ordering(t *testing.T) {
	shipped := ShippedDefaults()
	custom := customFrom(t, shipped[0], "Custom")
	existing := []*Template{shipped[2].Clone(), custom, shipped[0].Clone()}

	res := Reconcile(existing, shipped)

	assert.Equal(t, []string{
		DefaultReceiptShortID,
		custom.ID,
		DefaultQuotationID,
		DefaultReceiptFullID,
		DefaultTrfReceiptID,
	}, ids(res.Templates))
	assert.Equal(t, []string{DefaultReceiptFullID, DefaultTrfReceiptID}, res.Added)
}

func TestReconcile_RefreshesDefaultContent(t *testing.T) {
	shipped := ShippedDefaults()
	stale := shipped[0].Clone()
	stale.Name = "Old quotation"
	stale.Theme.HeaderBarColor = "#000"
	stale.Blocks = stale.Blocks[:2]

	got := EnsureDefaults([]*Template{stale}, shipped)

	require.Equal(t, DefaultQuotationID, got[0].ID)
	assert.Equal(t, shipped[0], got[0])
	assert.NotSame(t, shipped[0], got[0])
}

func TestReconcile_DoesNotModifyInputs(t *testing.T) {
	shipped := ShippedDefaults()
	stale := shipped[0].Clone()
	stale.Name = "Old quotation"
	existing := []*Template{stale}

	got := EnsureDefaults(existing, shipped)
	got[0].Name = "changed"
	got[0].Blocks[0].ID = "changed"

	assert.Equal(t, "Old quotation", existing[0].Name)
	assert.Equal(t, ShippedDefaults()[0], shipped[0])
}

func TestReconcile_CustomCollisionWins(t *testing.T) {
	shipped := ShippedDefaults()
	custom := customFrom(t, shipped[0], "Hijacked id")
	custom.ID = DefaultReceiptFullID

	res := Reconcile([]*Template{custom}, shipped)

	assert.Equal(t, []string{DefaultReceiptFullID}, res.Collisions)
	matches := lo.Filter(res.Templates, func(tmpl *Template, _ int) bool { return tmpl.ID == DefaultReceiptFullID })
	require.Len(t, matches, 1)
	assert.Same(t, custom, matches[0])
	assert.Len(t, res.Templates, len(shipped))
}

func TestReconcile_CustomWinsOverEarlierDefault(t *testing.T) {
	shipped := ShippedDefaults()
	stale := shipped[0].Clone()
	custom := customFrom(t, shipped[0], "Same id, listed later")
	custom.ID = shipped[0].ID

	res := Reconcile([]*Template{stale, custom}, shipped)

	matches := lo.Filter(res.Templates, func(tmpl *Template, _ int) bool { return tmpl.ID == shipped[0].ID })
	require.Len(t, matches, 1)
	assert.Same(t, custom, matches[0])
	assert.Equal(t, []string{shipped[0].ID}, res.Collisions)
	assert.Contains(t, res.Pruned, shipped[0].ID)
	assert.NotContains(t, res.Refreshed, shipped[0].ID)
	assert.Len(t, res.Templates, len(shipped))
}

func TestReconcile_ForcesDefaultFlag(t *testing.T) {
	s := ShippedDefaults()[0]
	s.IsDefault = false

	got := EnsureDefaults(nil, []*Template{s})

	require.Len(t, got, 1)
	assert.True(t, got[0].IsDefault)
}

func TestShippedDefaults(t *testing.T) {
	defaults := ShippedDefaults()
	require.Len(t, defaults, len(types.DocTypes))

	for _, d := range defaults {
		assert.True(t, d.IsDefault, d.ID)
		assert.Equal(t, SchemaVersion, d.SchemaVersion, d.ID)
		assert.Equal(t, len(d.Blocks), len(lo.Uniq(d.BlockIDs())), d.ID)
		for _, b := range d.Blocks {
			assert.Equal(t, b.Type, b.Props.BlockType(), b.ID)
		}
	}

	quotation, ok := ShippedDefault(types.DocTypeQuotation)
	require.True(t, ok)
	assert.Equal(t, "#26D6F0", quotation.Theme.HeaderBarColor)

	short, ok := ShippedDefault(types.DocTypeReceiptShort)
	require.True(t, ok)
	assert.True(t, short.IsThermal())

	// stable across calls
	assert.Equal(t, defaults, ShippedDefaults())
}
