package utils

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProducerError(t *testing.T) {
	cause := errors.New("node went down")

	err := fmt.Errorf("next record: %w", NewProducerError(cause))

	require.ErrorIs(t, err, ErrProducerFailed)
	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, ErrStallTimeout)
	require.Equal(t, "next record: producer failed: node went down", err.Error())

	var producerErr *ProducerError
	require.True(t, errors.As(err, &producerErr))
	require.Equal(t, cause, producerErr.Cause)
}

func TestIsReadFailure(t *testing.T) {
	require.True(t, IsReadFailure(NewProducerError(io.ErrUnexpectedEOF)))
	require.True(t, IsReadFailure(fmt.Errorf("%w: 5 trials of 1s", ErrStallTimeout)))
	require.False(t, IsReadFailure(io.EOF))
	require.False(t, IsReadFailure(ErrReaderClosed))
	require.False(t, IsReadFailure(nil))
}
