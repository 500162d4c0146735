package paging

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestReaderState(t *testing.T) {
	t.Run("initial", func(t *testing.T) {
		s := NewReaderState()
		require.False(t, s.Running())
		require.False(t, s.Finished())
		require.False(t, s.Errored())
		require.False(t, s.Terminal())
		require.NoError(t, s.Err())
		require.False(t, isClosed(s.Started()))
		require.False(t, isClosed(s.Done()))
	})

	t.Run("running then finished", func(t *testing.T) {
		s := NewReaderState()

		s.MarkRunning()
		s.MarkRunning()
		require.True(t, s.Running())
		require.True(t, isClosed(s.Started()))
		require.False(t, isClosed(s.Done()))

		s.MarkFinished()
		require.True(t, s.Finished())
		require.True(t, s.Terminal())
		require.False(t, s.Errored())
		require.NoError(t, s.Err())
		require.True(t, isClosed(s.Done()))
	})

	t.Run("errored before start", func(t *testing.T) {
		s := NewReaderState()
		cause := errors.New("connection refused")

		s.MarkErrored(cause)
		require.False(t, s.Running())
		require.True(t, s.Errored())
		require.True(t, s.Terminal())
		require.Equal(t, cause, s.Err())
		require.False(t, isClosed(s.Started()))
		require.True(t, isClosed(s.Done()))
	})

	t.Run("finished and errored together", func(t *testing.T) {
		s := NewReaderState()
		s.MarkRunning()
		s.MarkFinished()
		s.MarkErrored(nil)

		require.True(t, s.Finished())
		require.True(t, s.Errored())
		require.Error(t, s.Err())
	})

	t.Run("concurrent readers observe writes", func(t *testing.T) {
		s := NewReaderState()

		var wg sync.WaitGroup

		for i := 0; i < 8; i++ {
			wg.Add(1)

			go func() {
				defer wg.Done()
				<-s.Done()
				assert.True(t, s.Running())
				assert.True(t, s.Finished())
			}()
		}

		s.MarkRunning()
		s.MarkFinished()
		wg.Wait()
	})
}
