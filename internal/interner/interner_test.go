package interner

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unilang/pkg/unitypes"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		segments []string
		expected string
	}{
		{[]string{"math", "add"}, ".math.add"},
		{[]string{"", "math", "add"}, ".math.add"},
		{[]string{"help"}, ".help"},
		{[]string{""}, "."},
		{nil, "."},
		{[]string{"a", "", "b"}, ".a..b"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, Canonical(tt.segments))
		})
	}
}

func TestInterner_ResolveReturnsSamePointer(t *testing.T) {
	in, err := New(10)
	require.NoError(t, err)

	first := in.Resolve([]string{"files", "copy"})
	second := in.Resolve([]string{"", "files", "copy"})
	third := in.Intern(".files.copy")

	assert.Equal(t, ".files.copy", first.String())
	assert.Same(t, first, second)
	assert.Same(t, first, third)

	stats := in.Stats()
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, uint64(2), stats.Hits)
	assert.InDelta(t, 2.0/3.0, stats.HitRate(), 1e-9)
}

func TestInterner_CapacityIsNeverExceeded(t *testing.T) {
	in, err := New(5)
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		in.Resolve([]string{fmt.Sprintf("cmd%d", i)})
	}

	assert.Equal(t, 5, in.Len())
	assert.False(t, in.Contains(".cmd0"), "least recently used entry should be evicted")
	assert.True(t, in.Contains(".cmd5"))
	assert.Equal(t, uint64(1), in.Stats().Evictions)
}

func TestInterner_EvictsLeastRecentlyUsed(t *testing.T) {
	in, err := New(2)
	require.NoError(t, err)

	a := in.Intern(".a")
	in.Intern(".b")
	assert.Same(t, a, in.Intern(".a"))
	in.Intern(".c")

	assert.True(t, in.Contains(".a"))
	assert.False(t, in.Contains(".b"))
}

func TestInterner_Clear(t *testing.T) {
	in, err := New(3)
	require.NoError(t, err)

	before := in.Intern(".x")
	in.Clear()
	assert.Equal(t, 0, in.Len())
	assert.Equal(t, Stats{Capacity: 3}, in.Stats())

	after := in.Intern(".x")
	assert.NotSame(t, before, after)
	assert.Equal(t, before.String(), after.String())
}

func TestNew_InvalidCapacity(t *testing.T) {
	_, err := New(0)
	assert.Error(t, err)
	_, err = New(-1)
	assert.Error(t, err)
}

func TestInterner_ConcurrentResolve(t *testing.T) {
	in, err := New(8)
	require.NoError(t, err)

	const workers = 32
	results := make([]*unitypes.InternedName, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = in.Resolve([]string{"shared", "path"})
			for j := 0; j < 100; j++ {
				in.Resolve([]string{"p", fmt.Sprint(j % 20)})
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, in.Len(), 8)
	for _, r := range results[1:] {
		assert.Equal(t, ".shared.path", r.String())
	}
}

func TestGlobal(t *testing.T) {
	assert.Same(t, Global(), Global())
	assert.Equal(t, DefaultCapacity, Global().Capacity())

	name := Resolve([]string{"global", "probe"})
	assert.Same(t, name, Intern(".global.probe"))
}
