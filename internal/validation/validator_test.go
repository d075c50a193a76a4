package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/folioapp/folio-server/internal/errors"
)

type testInput struct {
	Title string   `json:"title" validate:"required,min=1,max=10"`
	Links []string `json:"links" validate:"omitempty,dive,url"`
}

func TestValidator_Valid(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(testInput{Title: "ok"}))
	assert.NoError(t, v.Validate(testInput{Title: "ok", Links: []string{"https://example.com"}}))
}

func TestValidator_FailuresUseJSONNames(t *testing.T) {
	v := New()

	err := v.Validate(testInput{Title: ""})
	require.Error(t, err)

	var taxonomy *domainerrors.Error
	require.ErrorAs(t, err, &taxonomy)
	assert.Equal(t, domainerrors.CodeGeneric, taxonomy.Code)

	fields, ok := taxonomy.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", fields["title"])
}

func TestValidator_BadURL(t *testing.T) {
	v := New()

	err := v.Validate(testInput{Title: "ok", Links: []string{"not a url"}})
	require.Error(t, err)

	var taxonomy *domainerrors.Error
	require.ErrorAs(t, err, &taxonomy)

	fields, ok := taxonomy.Details.(map[string]string)
	require.True(t, ok)
	require.Len(t, fields, 1)
	for _, msg := range fields {
		assert.Equal(t, "must be a valid URL", msg)
	}
}
