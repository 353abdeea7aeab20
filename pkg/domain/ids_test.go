package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "openbadges/pkg/domain-errors"
)

func TestParseIdentity(t *testing.T) {
	t.Run("accepts opaque values and trims whitespace", func(t *testing.T) {
		identity, err := ParseIdentity("  acme-corp  ")
		require.NoError(t, err)
		assert.Equal(t, Identity("acme-corp"), identity)
	})

	t.Run("rejects empty values", func(t *testing.T) {
		_, err := ParseIdentity("   ")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestParseIssuerID(t *testing.T) {
	t.Run("round-trips a generated id", func(t *testing.T) {
		id := NewIssuerID()
		parsed, err := ParseIssuerID(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	})

	t.Run("rejects non-UUID input", func(t *testing.T) {
		_, err := ParseIssuerID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects the nil UUID", func(t *testing.T) {
		_, err := ParseIssuerID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestIssuerIDJSON(t *testing.T) {
	id := NewIssuerID()

	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.JSONEq(t, `"`+id.String()+`"`, string(data))

	var decoded IssuerID
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, id, decoded)
}

func TestParseExperienceID(t *testing.T) {
	t.Run("accepts non-negative integers", func(t *testing.T) {
		id, err := ParseExperienceID("42")
		require.NoError(t, err)
		assert.Equal(t, ExperienceID(42), id)
	})

	t.Run("rejects negatives and garbage", func(t *testing.T) {
		for _, raw := range []string{"-1", "abc", ""} {
			_, err := ParseExperienceID(raw)
			assert.Error(t, err, "input %q", raw)
		}
	})
}

func TestParseTokenID(t *testing.T) {
	id, err := ParseTokenID("0")
	require.NoError(t, err)
	assert.Equal(t, TokenID(0), id)

	_, err = ParseTokenID("-5")
	assert.Error(t, err)
}
