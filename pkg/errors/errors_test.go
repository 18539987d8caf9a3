package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapAndIsCode(t *testing.T) {
	base := errors.New("boom")
	err := Wrap(CodeProviderError, "weather fetch failed", base)

	require.True(t, IsCode(err, CodeProviderError))
	require.False(t, IsCode(err, CodeInvalidInput))
	require.ErrorIs(t, err, base)
	require.Equal(t, "weather fetch failed: boom", err.Error())
}

func TestCodeOfWrappedChain(t *testing.T) {
	err := fmt.Errorf("outer: %w", Wrap(CodeNotFound, "missing", nil))
	require.Equal(t, CodeNotFound, CodeOf(err))
	require.Equal(t, "", CodeOf(errors.New("plain")))
}
