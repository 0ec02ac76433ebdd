package errors

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportedDetails(t *testing.T, err error) []map[string]any {
	var out []map[string]any
	for _, sdp := range errors.GetAllSafeDetails(err) {
		for _, payload := range sdp.SafeDetails {
			raw, ok := strings.CutPrefix(payload, SafeDetailsPrefix)
			if !ok {
				continue
			}
			var fields map[string]any
			require.NoError(t, jsoniter.UnmarshalFromString(raw, &fields))
			out = append(out, fields)
		}
	}
	return out
}

func TestBuilder_MarkAndHint(t *testing.T) {
	err := NewErrorf("template %s not found", "tmpl_1").
		WithHint("Template not found").
		Mark(ErrNotFound)

	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
	assert.Equal(t, []string{"Template not found"}, errors.GetAllHints(err))
	assert.Contains(t, err.Error(), "tmpl_1")
}

func TestBuilder_DetailsMerge(t *testing.T) {
	err := NewError("bad block").
		WithReportableDetails(map[string]any{"block_id": "blk_1", "path": "props"}).
		WithReportableDetails(map[string]any{"path": "props.title"}).
		Mark(ErrValidation)

	details := reportedDetails(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, map[string]any{"block_id": "blk_1", "path": "props.title"}, details[0])
}

func TestBuilder_WrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := WithError(cause).
		WithMessagef("fetch %s", "QT-1").
		Mark(ErrHTTPClient)

	assert.True(t, IsHTTPClient(err))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "fetch QT-1")
	assert.Empty(t, reportedDetails(t, err))
}
