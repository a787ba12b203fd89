package geocoding

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncer_OnlyLastCallRuns(t *testing.T) {
	d := NewDebouncer[string](50 * time.Millisecond)
	var calls atomic.Int32

	firstErr := make(chan error, 1)
	go func() {
		_, err := d.Do(context.Background(), "k", func(context.Context) (string, error) {
			calls.Add(1)
			return "first", nil
		})
		firstErr <- err
	}()

	time.Sleep(5 * time.Millisecond)
	v, err := d.Do(context.Background(), "k", func(context.Context) (string, error) {
		calls.Add(1)
		return "second", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "second", v)
	assert.ErrorIs(t, <-firstErr, ErrSuperseded)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 0, d.Pending())
}

func TestDebouncer_LateResponseIsStale(t *testing.T) {
	d := NewDebouncer[string](10 * time.Millisecond)

	started := make(chan struct{})
	release := make(chan struct{})
	firstDone := make(chan error, 1)

	go func() {
		_, err := d.Do(context.Background(), "k", func(context.Context) (string, error) {
			close(started)
			<-release
			return "old", nil
		})
		firstDone <- err
	}()

	<-started
	// La primera ya está en vuelo; la segunda la deja obsoleta.
	v, err := d.Do(context.Background(), "k", func(context.Context) (string, error) {
		return "new", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "new", v)

	close(release)
	assert.ErrorIs(t, <-firstDone, ErrStale)
}

func TestDebouncer_KeysAreIndependent(t *testing.T) {
	d := NewDebouncer[int](10 * time.Millisecond)

	results := make(chan int, 2)
	for i, key := range []string{"a", "b"} {
		go func() {
			v, err := d.Do(context.Background(), key, func(context.Context) (int, error) {
				return i, nil
			})
			if err == nil {
				results <- v
			}
		}()
	}

	got := map[int]bool{}
	for range 2 {
		select {
		case v := <-results:
			got[v] = true
		case <-time.After(time.Second):
			t.Fatal("timeout waiting debounced calls")
		}
	}
	assert.Equal(t, map[int]bool{0: true, 1: true}, got)
}

func TestDebouncer_ContextCancelledWhileWaiting(t *testing.T) {
	d := NewDebouncer[string](time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Do(ctx, "k", func(context.Context) (string, error) {
		t.Fatal("fn must not run")
		return "", nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, d.Pending())
}
