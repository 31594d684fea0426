package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "fundline/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs".
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseLenderID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseRuleID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseLoanRequestID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseLenderID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, LenderID(validUUID), id)
	})
}

// TestTypeDistinction verifies the compiler enforces type safety between
// entity identifiers. If this compiles, the invariant holds.
func TestTypeDistinction(t *testing.T) {
	lenderID := LenderID(uuid.New())
	ruleID := RuleID(uuid.New())

	// These would fail to compile if types were interchangeable:
	// var _ LenderID = ruleID   // compile error
	// var _ RuleID = lenderID   // compile error

	assert.NotEqual(t, uuid.UUID(lenderID), uuid.UUID(ruleID))
}

func TestIsNil(t *testing.T) {
	assert.True(t, LenderID{}.IsNil())
	assert.False(t, NewLenderID().IsNil())
	assert.True(t, RuleID(uuid.Nil).IsNil())
}
