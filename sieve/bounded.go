package sieve

import (
	"math/bits"

	"github.com/pkg/errors"

	"github.com/funny-falcon/sieve32/alloc"
	"github.com/funny-falcon/sieve32/bitset"
)

// CountInto sieves [0, n] into set and returns the number of primes in it.
// Afterwards the unset flags of set in [0, n] are exactly the primes.
// set must address at least n and be cleared.
func CountInto(n uint32, set *bitset.Set) uint32 {
	if n < 2 {
		return 0
	}
	for i := n &^ 1; i >= 4; i -= 2 {
		set.Set(i)
	}
	set.Set(0)
	set.Set(1)

	bound := uint32(ceilSqrt(uint64(n)))
	for p := uint32(3); p <= bound; {
		hi, sq := bits.Mul32(p, p)
		if hi == 0 {
			step := p << 1
			for j := sq; j <= n; {
				set.Set(j)
				next, carry := bits.Add32(j, step, 0)
				if carry != 0 {
					break
				}
				j = next
			}
		}
		for p++; p <= bound && set.Has(p); p++ {
		}
	}

	count := uint32(0)
	set.LoopZeros(2, func(i uint32) bool {
		if i > n {
			return false
		}
		count++
		return true
	})
	return count
}

// Bounded counts the primes in [0, n] with a set of its own, released before
// returning.
func Bounded(al alloc.Allocator, n uint32) (uint32, error) {
	if n < 2 {
		return 0, nil
	}
	set, err := bitset.New(al, n)
	if err != nil {
		return 0, errors.Wrap(err, "bounded sieve")
	}
	count := CountInto(n, set)
	if err := set.Release(); err != nil {
		return 0, errors.Wrap(err, "bounded sieve")
	}
	return count, nil
}
