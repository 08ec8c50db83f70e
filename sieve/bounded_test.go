package sieve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funny-falcon/sieve32/alloc"
	"github.com/funny-falcon/sieve32/bitset"
	"github.com/funny-falcon/sieve32/sieve"
)

func TestBounded_degenerate(t *testing.T) {
	al := alloc.NewLimited(nil, 0)
	for _, n := range []uint32{0, 1} {
		count, err := sieve.Bounded(al, n)
		require.NoError(t, err)
		assert.Zero(t, count)
	}
	assert.Zero(t, al.Peak, "nothing is allocated for n < 2")
}

func TestBounded_small(t *testing.T) {
	dumb := dumbCounts(3000)
	for _, n := range []uint32{2, 3, 4, 5, 10, 100} {
		count, err := sieve.Bounded(nil, n)
		require.NoError(t, err)
		assert.Equal(t, dumb[n], count, "n %d", n)
	}
	assert.Equal(t, uint32(25), dumb[100])

	for n := uint32(0); n <= 3000; n++ {
		count, err := sieve.Bounded(nil, n)
		require.NoError(t, err)
		require.Equal(t, dumb[n], count, "n %d", n)
	}
}

func TestCountInto_zerosArePrimes(t *testing.T) {
	const n = 5000
	set, err := bitset.New(nil, n)
	require.NoError(t, err)
	defer set.Release()

	count := sieve.CountInto(n, set)
	assert.Equal(t, uint64(count), set.CountZeros(), "walk and popcount agree")
	for i := uint32(0); i <= n; i++ {
		require.Equal(t, isPrime(i), !set.Has(i), "index %d", i)
	}
}

func TestCountInto_largerSet(t *testing.T) {
	set, err := bitset.New(nil, 1000)
	require.NoError(t, err)
	assert.Equal(t, uint32(25), sieve.CountInto(100, set))
}

func TestBounded_releases(t *testing.T) {
	al := alloc.NewLimited(nil, 0)
	count, err := sieve.Bounded(al, 1<<16)
	require.NoError(t, err)
	assert.Equal(t, uint32(6542), count)
	inUse, peak := al.Stats()
	assert.Zero(t, inUse)
	assert.Equal(t, 8193, peak)
}

func TestBounded_noMemory(t *testing.T) {
	al := alloc.NewLimited(nil, 10)
	_, err := sieve.Bounded(al, 1000)
	require.Error(t, err)
	assert.ErrorIs(t, err, alloc.ErrNoMemory)
}
