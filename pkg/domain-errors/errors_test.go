package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("matches direct code", func(t *testing.T) {
		err := New(CodeNotFound, "loan request not found")
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeInternal))
	})

	t.Run("matches through fmt wrapping", func(t *testing.T) {
		inner := New(CodeConflict, "ledger bucket contended")
		outer := fmt.Errorf("reserve attempt 3: %w", inner)
		assert.True(t, HasCode(outer, CodeConflict))
	})

	t.Run("uncoded error matches nothing", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("plain"), CodeInternal))
	})
}

func TestWrap(t *testing.T) {
	t.Run("nil in, nil out", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
	})

	t.Run("preserves cause for errors.Is", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := Wrap(cause, CodeDependency, "rule store read failed")
		require.Error(t, err)
		assert.True(t, errors.Is(err, cause))
		assert.Equal(t, CodeDependency, CodeOf(err))
	})
}

func TestCodeOf_DefaultsToInternal(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("who knows")))
}
