package sieve

import "math"

// Window is one block of the sweep: [Left, Right], both inclusive and absolute.
type Window struct {
	Index uint32
	Left  uint32
	Right uint32
}

func (w Window) Width() uint32 {
	return w.Right - w.Left + 1
}

// Plan splits [0, Bound] into the first block [0, BlockSize] and contiguous
// windows of BlockSize values after it. Only the last window may be shorter.
type Plan struct {
	Bound     uint32
	BlockSize uint32
}

func NewPlan(bound uint32) Plan {
	return Plan{
		Bound:     bound,
		BlockSize: uint32(ceilSqrt(uint64(bound) + 1)),
	}
}

// Blocks is the number of windows after the first block.
func (p Plan) Blocks() uint32 {
	if p.Bound <= p.BlockSize {
		return 0
	}
	rest := uint64(p.Bound - p.BlockSize)
	bs := uint64(p.BlockSize)
	return uint32((rest + bs - 1) / bs)
}

// Phantoms is the number of working set flags that lie beyond Bound in the
// last window. Nothing ever marks them, so they read as primes.
func (p Plan) Phantoms() uint32 {
	if p.Bound <= p.BlockSize {
		return 0
	}
	tail := (p.Bound - p.BlockSize) % p.BlockSize
	if tail == 0 {
		return 0
	}
	return p.BlockSize - tail
}

func (p Plan) Windows(f func(w Window) bool) {
	bound := uint64(p.Bound)
	left := uint64(p.BlockSize) + 1
	for k := uint32(1); left <= bound; k++ {
		right := left + uint64(p.BlockSize) - 1
		if right > bound {
			right = bound
		}
		if !f(Window{Index: k, Left: uint32(left), Right: uint32(right)}) {
			return
		}
		left = right + 1
	}
}

func ceilSqrt(x uint64) uint64 {
	r := uint64(math.Sqrt(float64(x)))
	for r*r > x {
		r--
	}
	for r*r < x {
		r++
	}
	return r
}
