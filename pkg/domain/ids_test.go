package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "supstonad/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseSakID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseSakID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseBehandlingID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		got, err := ParseHendelseID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, HendelseID(valid), got)
	})
}

func TestParseID_SecurityInvariants(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE sak;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSakID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestIDs_JSONAsString(t *testing.T) {
	sakID := NewSakID()
	b, err := json.Marshal(map[string]SakID{"sakId": sakID})
	require.NoError(t, err)
	assert.JSONEq(t, `{"sakId":"`+sakID.String()+`"}`, string(b))

	var decoded map[string]SakID
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, sakID, decoded["sakId"])
}

func TestParseNavIdent(t *testing.T) {
	_, err := ParseNavIdent("Z990001")
	require.NoError(t, err)

	for _, in := range []string{"", "z990001", "Z99000", "Z9900011", "ZZ90001"} {
		_, err := ParseNavIdent(in)
		assert.Error(t, err, in)
	}
}

func TestParseFnrAndSaksnummer(t *testing.T) {
	fnr, err := ParseFnr(" 12345678901 ")
	require.NoError(t, err)
	assert.Equal(t, Fnr("12345678901"), fnr)

	_, err = ParseFnr("1234567890a")
	assert.Error(t, err)

	nr, err := ParseSaksnummer("2021")
	require.NoError(t, err)
	assert.Equal(t, FoersteSaksnummer, nr)

	_, err = ParseSaksnummer("2020")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
