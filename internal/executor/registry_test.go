package executor_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/script-worker/internal/executor"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := executor.NewRegistry()
	r.Register("double", func(args []any) (any, error) { return nil, nil })

	fn, ok := r.Get("double")
	assert.True(t, ok)
	assert.NotNil(t, fn)

	_, ok = r.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, 1, r.Len())
}

func TestRegistry_NamesAreSorted(t *testing.T) {
	r := executor.NewRegistry()
	noop := func(args []any) (any, error) { return nil, nil }
	r.Register("zeta", noop)
	r.Register("alpha", noop)
	r.Register("mid", noop)

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Names())
}

func TestRegistry_DuplicateRegistrationPanics(t *testing.T) {
	r := executor.NewRegistry()
	noop := func(args []any) (any, error) { return nil, nil }
	r.Register("once", noop)

	assert.Panics(t, func() { r.Register("once", noop) })
	assert.Panics(t, func() { r.Register("", noop) })
	assert.Panics(t, func() { r.Register("nilfn", nil) })
}

func TestRegistry_ConcurrentReads(t *testing.T) {
	// The registry is populated before serving begins and read-only after.
	// Concurrent reads across simultaneous requests must be safe.
	r := executor.NewRegistry()
	r.Register("double", func(args []any) (any, error) {
		require.Len(t, args, 1)
		return args[0], nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn, ok := r.Get("double")
			if !ok || fn == nil {
				t.Error("callable not visible to concurrent reader")
			}
			_ = r.Names()
		}()
	}
	wg.Wait()
}
