package sieve

import (
	"time"

	"github.com/pkg/errors"

	"github.com/funny-falcon/sieve32/bitset"
)

// Recompute keeps no cursors: for every window it walks the base primes of
// the first block again and finds each starting multiple with one division.
type Recompute struct {
	options
}

func NewRecompute(opts ...Option) *Recompute {
	return &Recompute{options: buildOptions(opts)}
}

func (r *Recompute) Name() string {
	return NameRecompute
}

// FirstOffset is the offset from left of the first multiple of p at or
// after left.
func FirstOffset(left, p uint32) uint64 {
	l, q := uint64(left), uint64(p)
	return (l+q-1)/q*q - l
}

func (r *Recompute) Count(bound uint32) (count uint32, err error) {
	defer track(r.Name(), bound, r.al, time.Now(), &count, &err)
	if bound < 2 {
		return 0, nil
	}
	plan := NewPlan(bound)

	var rh ReleaseHolder
	defer func() {
		if rerr := rh.Release(); rerr != nil && err == nil {
			count, err = 0, errors.Wrap(rerr, "release")
		}
	}()

	first, err := bitset.New(r.al, plan.BlockSize)
	if err != nil {
		return 0, errors.Wrap(err, "first block")
	}
	rh.Add(first)
	total := CountInto(plan.BlockSize, first)

	work, err := bitset.New(r.al, plan.BlockSize-1)
	if err != nil {
		return 0, errors.Wrap(err, "working block")
	}
	rh.Add(work)

	blocks := blocksTotal.WithLabelValues(r.Name())
	plan.Windows(func(w Window) bool {
		width := uint64(w.Width())
		first.LoopZeros(2, func(p uint32) bool {
			step := uint64(p)
			for off := FirstOffset(w.Left, p); off < width; off += step {
				work.Set(uint32(off))
			}
			return true
		})
		survivors := uint32(work.CountZerosTo(w.Width() - 1))
		total += survivors
		if r.observer != nil {
			r.observer(w, survivors)
		}
		blocks.Inc()
		work.Reset()
		return true
	})
	return total, nil
}
