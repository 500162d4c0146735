package paging

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aerospike-community/asreader/app/api"
	"github.com/aerospike-community/asreader/app/reader/utils"
)

func makeTestUnit(i int) DataUnit {
	return NewDataUnit(
		&api.Key{Namespace: "test", SetName: "demo", Digest: []byte{byte(i)}, UserKey: i},
		&api.Record{Bins: map[string]any{"value": i}, Generation: uint32(i)},
	)
}

type testCaseTransferChannel struct {
	totalUnits int
	capacity   int
}

func (tc testCaseTransferChannel) name() string {
	return fmt.Sprintf("totalUnits_%d_capacity_%d", tc.totalUnits, tc.capacity)
}

func (tc testCaseTransferChannel) execute(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ch, err := NewTransferChannel(tc.capacity)
	require.NoError(t, err)
	require.Equal(t, tc.capacity, ch.Capacity())

	putErr := make(chan error, 1)

	go func() {
		defer ch.Close()

		for i := 0; i < tc.totalUnits; i++ {
			if err := ch.Put(ctx, makeTestUnit(i)); err != nil {
				putErr <- err
				return
			}
		}

		putErr <- nil
	}()

	var received []DataUnit

	for {
		unit, err := ch.Take(ctx)
		if errors.Is(err, ErrChannelClosed) {
			break
		}

		require.NoError(t, err)

		received = append(received, unit)
	}

	require.NoError(t, <-putErr)
	require.Len(t, received, tc.totalUnits)

	for i, unit := range received {
		require.Equal(t, makeTestUnit(i), unit)
	}
}

func TestTransferChannel(t *testing.T) {
	var testCases []testCaseTransferChannel

	for _, totalUnits := range []int{0, 1, 7, 1000} {
		for _, capacity := range []int{1, 2, 16, 16 * 1024} {
			testCases = append(testCases, testCaseTransferChannel{totalUnits: totalUnits, capacity: capacity})
		}
	}

	t.Run("order is preserved", func(t *testing.T) {
		for _, tc := range testCases {
			tc := tc
			t.Run(tc.name(), func(t *testing.T) {
				tc.execute(t)
			})
		}
	})

	t.Run("invalid capacity", func(t *testing.T) {
		_, err := NewTransferChannel(0)
		require.True(t, errors.Is(err, utils.ErrInvariantViolation))
	})

	t.Run("put blocks when full", func(t *testing.T) {
		ch, err := NewTransferChannel(1)
		require.NoError(t, err)

		require.NoError(t, ch.Put(context.Background(), makeTestUnit(0)))
		require.Equal(t, 1, ch.Size())

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err = ch.Put(ctx, makeTestUnit(1))
		require.True(t, errors.Is(err, context.DeadlineExceeded))

		// the unit put before is still there and nothing was dropped or added
		unit, ok, err := ch.TryTake()
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, makeTestUnit(0), unit)
		require.Equal(t, 0, ch.Size())
	})

	t.Run("take blocks when empty", func(t *testing.T) {
		ch, err := NewTransferChannel(4)
		require.NoError(t, err)

		_, ok, err := ch.TryTake()
		require.NoError(t, err)
		require.False(t, ok)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err = ch.Take(ctx)
		require.True(t, errors.Is(err, context.DeadlineExceeded))
	})

	t.Run("close is idempotent", func(t *testing.T) {
		ch, err := NewTransferChannel(4)
		require.NoError(t, err)

		require.NoError(t, ch.Put(context.Background(), makeTestUnit(0)))
		ch.Close()
		ch.Close()

		unit, ok, err := ch.TryTake()
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, makeTestUnit(0), unit)

		_, ok, err = ch.TryTake()
		require.False(t, ok)
		require.True(t, errors.Is(err, ErrChannelClosed))
	})
}
