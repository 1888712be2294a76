//go:build unit

package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"fitbook/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMark(t *testing.T) {
	t.Run("marked sentinel matches with errors.Is", func(t *testing.T) {
		cause := errs.New("row lock wait timed out")
		err := errs.Mark(cause, errs.ErrResourceLocked)

		assert.True(t, errors.Is(err, errs.ErrResourceLocked))
	})

	t.Run("cause stays reachable through the chain", func(t *testing.T) {
		cause := errs.ErrInsufficientCredits
		err := errs.Mark(errs.Wrap(cause, "reserving credits"), errs.ErrPolicyViolation)

		assert.True(t, errors.Is(err, errs.ErrPolicyViolation))
		assert.True(t, errors.Is(err, errs.ErrInsufficientCredits))
	})

	t.Run("wrapping keeps the mark visible", func(t *testing.T) {
		err := errs.Wrap(errs.Mark(errs.New("boom"), errs.ErrTerminalState), "cancelling")

		assert.True(t, errors.Is(err, errs.ErrTerminalState))
	})

	t.Run("unrelated sentinels do not match", func(t *testing.T) {
		err := errs.Mark(errs.New("boom"), errs.ErrTerminalState)

		assert.False(t, errors.Is(err, errs.ErrPolicyViolation))
	})

	t.Run("nil cause yields the sentinel itself", func(t *testing.T) {
		err := errs.Mark(nil, errs.ErrInvalidInterval)

		require.ErrorIs(t, err, errs.ErrInvalidInterval)
	})

	t.Run("message and verbose format come from the cause", func(t *testing.T) {
		err := errs.Mark(errs.New("boom"), errs.ErrTerminalState)

		assert.Equal(t, "boom", err.Error())
		assert.Contains(t, fmt.Sprintf("%+v", err), "boom")
	})
}
