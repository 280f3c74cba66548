package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "carelink/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant: IDs must be
// valid, non-empty, non-nil UUIDs.
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseUserID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseUserID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseUserID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseUserID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, UserID(validUUID), id)
	})
}

// TestParseID_HostileInput validates parsing at the trust boundary: path and
// body parameters arrive as raw strings.
func TestParseID_HostileInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE support_plans;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Empty string", "", true},
		{"Nil UUID", uuid.Nil.String(), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlanID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestAllIDTypes_ConsistentBehavior ensures every parse function shares the
// same validation; a looser type would be a hole in the trust boundary.
func TestAllIDTypes_ConsistentBehavior(t *testing.T) {
	validUUID := uuid.New().String()

	parsers := map[string]func(string) error{
		"user":            func(s string) error { _, err := ParseUserID(s); return err },
		"supporter":       func(s string) error { _, err := ParseSupporterID(s); return err },
		"plan":            func(s string) error { _, err := ParsePlanID(s); return err },
		"policy":          func(s string) error { _, err := ParsePolicyID(s); return err },
		"service type":    func(s string) error { _, err := ParseServiceTypeID(s); return err },
		"long-term goal":  func(s string) error { _, err := ParseLongTermGoalID(s); return err },
		"short-term goal": func(s string) error { _, err := ParseShortTermGoalID(s); return err },
		"goal":            func(s string) error { _, err := ParseGoalID(s); return err },
		"consent":         func(s string) error { _, err := ParseConsentID(s); return err },
	}

	t.Run("all accept valid UUID", func(t *testing.T) {
		for name, parse := range parsers {
			assert.NoError(t, parse(validUUID), name)
		}
	})

	for _, input := range []string{"", "invalid", uuid.Nil.String()} {
		t.Run("all reject: "+input, func(t *testing.T) {
			for name, parse := range parsers {
				assert.Error(t, parse(input), name)
			}
		})
	}
}

func TestIsZero(t *testing.T) {
	assert.True(t, UserID(uuid.Nil).IsZero())
	assert.True(t, SupporterID{}.IsZero())
	assert.False(t, NewUserID().IsZero())
	assert.False(t, NewSupporterID().IsZero())
}

func TestStringRoundTrip(t *testing.T) {
	planID := NewPlanID()
	parsed, err := ParsePlanID(planID.String())
	require.NoError(t, err)
	assert.Equal(t, planID, parsed)
}
