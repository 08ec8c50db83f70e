package sieve_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funny-falcon/sieve32/alloc"
	"github.com/funny-falcon/sieve32/sieve"
)

func counters(opts ...sieve.Option) []sieve.Counter {
	return []sieve.Counter{
		sieve.NewCursors(opts...),
		sieve.NewRecompute(opts...),
	}
}

func TestCounter_degenerate(t *testing.T) {
	for _, c := range counters() {
		for _, n := range []uint32{0, 1} {
			count, err := c.Count(n)
			require.NoError(t, err)
			assert.Zero(t, count, "%s %d", c.Name(), n)
		}
	}
}

func TestCounter_small(t *testing.T) {
	dumb := dumbCounts(3000)
	for _, c := range counters() {
		for n := uint32(2); n <= 3000; n++ {
			count, err := c.Count(n)
			require.NoError(t, err)
			require.Equal(t, dumb[n], count, "%s bound %d", c.Name(), n)
		}
	}
}

func TestCounter_equivalence(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	bounds := []uint32{
		65535, 65536, 65537,
		65535 * 2, 65536 * 2, 257*257 - 1, 257 * 257,
		1048575, 1048576,
	}
	for i := 0; i < 20; i++ {
		bounds = append(bounds, uint32(rng.Int31n(1<<22)))
	}
	cursors, recompute := sieve.NewCursors(), sieve.NewRecompute()
	for _, bound := range bounds {
		a, err := cursors.Count(bound)
		require.NoError(t, err)
		b, err := recompute.Count(bound)
		require.NoError(t, err)
		require.Equal(t, a, b, "bound %d", bound)

		bounded, err := sieve.Bounded(nil, bound)
		require.NoError(t, err)
		require.Equal(t, bounded, a, "bound %d", bound)
	}
}

func TestCounter_knownValues(t *testing.T) {
	known := map[uint32]uint32{
		100:     25,
		1 << 16: 6542,
		1000000: 78498,
		1 << 20: 82025,
		1 << 24: 1077871,
	}
	for _, c := range counters() {
		for bound, want := range known {
			count, err := c.Count(bound)
			require.NoError(t, err)
			assert.Equal(t, want, count, "%s bound %d", c.Name(), bound)
		}
	}
}

// The last window of bound 100 holds only 100 itself; the working set has
// room for ten more flags that nothing marks.
func TestCounter_boundaryCorrection(t *testing.T) {
	plan := sieve.NewPlan(100)
	require.Equal(t, uint32(10), plan.Phantoms())

	last := map[string]uint32{}
	for _, name := range []string{sieve.NameCursors, sieve.NameRecompute} {
		name := name
		c, err := sieve.ByName(name, sieve.WithObserver(func(w sieve.Window, survivors uint32) {
			if w.Right == 100 {
				require.Equal(t, uint32(100), w.Left)
				last[name] = survivors
			}
		}))
		require.NoError(t, err)
		count, err := c.Count(100)
		require.NoError(t, err)
		assert.Equal(t, uint32(25), count, name)
	}
	assert.Equal(t, uint32(10), last[sieve.NameCursors])
	assert.Equal(t, uint32(0), last[sieve.NameRecompute])

	dumb := dumbCounts(20000)
	for _, c := range counters() {
		for bound := uint32(19000); bound <= 20000; bound++ {
			count, err := c.Count(bound)
			require.NoError(t, err)
			prev, err := c.Count(bound - 1)
			require.NoError(t, err)
			require.Equal(t, isPrime(bound), count == prev+1, "%s bound %d", c.Name(), bound)
			require.Equal(t, dumb[bound], count)
		}
	}
}

func TestCounter_memory(t *testing.T) {
	for _, name := range []string{sieve.NameCursors, sieve.NameRecompute} {
		al := alloc.NewLimited(nil, 0)
		c, err := sieve.ByName(name, sieve.WithAllocator(al))
		require.NoError(t, err)
		count, err := c.Count(1 << 24)
		require.NoError(t, err)
		assert.Equal(t, uint32(1077871), count)

		inUse, peak := al.Stats()
		assert.Zero(t, inUse, name)
		assert.True(t, peak < 8<<10, "%s peak %d", name, peak)
	}
}

func TestCounter_windows(t *testing.T) {
	const bound = 1000000
	plan := sieve.NewPlan(bound)
	for _, name := range []string{sieve.NameCursors, sieve.NameRecompute} {
		var windows []sieve.Window
		c, err := sieve.ByName(name, sieve.WithObserver(func(w sieve.Window, _ uint32) {
			windows = append(windows, w)
		}))
		require.NoError(t, err)
		_, err = c.Count(bound)
		require.NoError(t, err)
		require.Len(t, windows, int(plan.Blocks()))
		assert.Equal(t, plan.BlockSize+1, windows[0].Left)
		assert.Equal(t, uint32(bound), windows[len(windows)-1].Right)
		for i := 1; i < len(windows); i++ {
			require.Equal(t, windows[i-1].Right+1, windows[i].Left)
		}
	}
}

func TestCounter_noMemory(t *testing.T) {
	cases := []struct {
		name  string
		limit int
	}{
		{sieve.NameCursors, 12},      // first block
		{sieve.NameCursors, 100},     // cursor table
		{sieve.NameRecompute, 12},    // first block
		{sieve.NameRecompute, 20},    // working block
		{sieve.NameBounded, 1 << 10}, // whole range
	}
	for _, cs := range cases {
		al := alloc.NewLimited(nil, cs.limit)
		c, err := sieve.ByName(cs.name, sieve.WithAllocator(al))
		require.NoError(t, err)
		count, err := c.Count(10000)
		require.Error(t, err, "%s limit %d", cs.name, cs.limit)
		assert.ErrorIs(t, err, alloc.ErrNoMemory)
		assert.Zero(t, count)
		inUse, _ := al.Stats()
		assert.Zero(t, inUse, "%s limit %d releases what it got", cs.name, cs.limit)
	}
}

func TestByName(t *testing.T) {
	assert.Equal(t, []string{"bounded", "cursors", "recompute"}, sieve.Names())
	for _, name := range sieve.Names() {
		c, err := sieve.ByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, c.Name())
		count, err := c.Count(1000)
		require.NoError(t, err)
		assert.Equal(t, uint32(168), count)
	}
	_, err := sieve.ByName("wheel")
	assert.ErrorIs(t, err, sieve.ErrUnknownAlgorithm)
}

func TestFirstCursor(t *testing.T) {
	assert.Equal(t, sieve.Cursor{Next: 12, Prime: 2}, sieve.FirstCursor(11, 2))
	assert.Equal(t, sieve.Cursor{Next: 12, Prime: 3}, sieve.FirstCursor(11, 3))
	assert.Equal(t, sieve.Cursor{Next: 22, Prime: 11}, sieve.FirstCursor(11, 11))
	assert.Equal(t, sieve.Cursor{Next: 2 * 65521, Prime: 65521}, sieve.FirstCursor(65536, 65521))
	assert.Equal(t, uint32(0), sieve.FirstCursor(math.MaxUint32, 3).Next)
}

func TestFirstOffset(t *testing.T) {
	assert.Equal(t, uint64(0), sieve.FirstOffset(12, 2))
	assert.Equal(t, uint64(1), sieve.FirstOffset(13, 2))
	assert.Equal(t, uint64(2), sieve.FirstOffset(13, 5))
	assert.Equal(t, uint64(6), sieve.FirstOffset(math.MaxUint32-2, 7))
}

func TestCounter_fullDomain(t *testing.T) {
	if testing.Short() {
		t.Skip("sweeps the whole 32-bit domain")
	}
	for _, c := range counters(sieve.WithAllocator(alloc.NewLimited(nil, 1<<20))) {
		count, err := c.Count(math.MaxUint32)
		require.NoError(t, err)
		assert.Equal(t, uint32(203280221), count, c.Name())
	}
}
