package sieve

import (
	"time"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/funny-falcon/sieve32/alloc"
	"github.com/funny-falcon/sieve32/bitset"
)

// Cursor tracks the next multiple of a base prime still to be crossed out.
// Next == 0 means the cursor ran past the end of the 32-bit domain.
type Cursor struct {
	Next  uint32
	Prime uint32
}

const cursorSize = int(unsafe.Sizeof(Cursor{}))

// FirstCursor places p on its first multiple strictly after edge.
func FirstCursor(edge, p uint32) Cursor {
	next := (uint64(edge)/uint64(p) + 1) * uint64(p)
	if next > uint64(^uint32(0)) {
		next = 0
	}
	return Cursor{Next: uint32(next), Prime: p}
}

// Sweep crosses out the multiples of c.Prime in w, translated to offsets
// from w.Left, and leaves c on the first multiple after w.
func (c *Cursor) Sweep(w Window, set *bitset.Set) {
	for c.Next >= w.Left && c.Next <= w.Right {
		set.Set(c.Next - w.Left)
		next := c.Next + c.Prime
		if next < c.Next {
			c.Next = 0
			return
		}
		c.Next = next
	}
}

type cursorTable struct {
	al  alloc.Allocator
	raw []byte
	C   []Cursor
}

func newCursorTable(al alloc.Allocator, n uint32) (*cursorTable, error) {
	raw, err := al.Alloc(int(n) * cursorSize)
	if err != nil {
		return nil, errors.Wrapf(err, "cursor table of %d entries", n)
	}
	t := &cursorTable{al: al, raw: raw}
	alloc.Slice(raw, cursorSize, &t.C)
	return t, nil
}

func (t *cursorTable) Release() error {
	if t.raw == nil {
		return nil
	}
	raw := t.raw
	t.raw, t.C = nil, nil
	return t.al.Dealloc(raw)
}

// Cursors keeps one cursor per base prime and advances every cursor through
// each window in turn.
type Cursors struct {
	options
}

func NewCursors(opts ...Option) *Cursors {
	return &Cursors{options: buildOptions(opts)}
}

func (c *Cursors) Name() string {
	return NameCursors
}

func (c *Cursors) Count(bound uint32) (count uint32, err error) {
	defer track(c.Name(), bound, c.al, time.Now(), &count, &err)
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

	first, err := bitset.New(c.al, plan.BlockSize)
	if err != nil {
		return 0, errors.Wrap(err, "first block")
	}
	rh.Add(first)
	total := CountInto(plan.BlockSize, first)

	table, err := newCursorTable(c.al, total)
	if err != nil {
		return 0, err
	}
	rh.Add(table)
	cursors := table.C
	i := 0
	first.LoopZeros(2, func(p uint32) bool {
		if p > plan.BlockSize {
			return false
		}
		cursors[i] = FirstCursor(plan.BlockSize, p)
		i++
		return true
	})
	cursorEntries.Set(float64(len(cursors)))

	if err := first.Release(); err != nil {
		return 0, errors.Wrap(err, "first block")
	}

	work, err := bitset.New(c.al, plan.BlockSize-1)
	if err != nil {
		return 0, errors.Wrap(err, "working block")
	}
	rh.Add(work)

	blocks := blocksTotal.WithLabelValues(c.Name())
	plan.Windows(func(w Window) bool {
		for i := range cursors {
			cursors[i].Sweep(w, work)
		}
		survivors := uint32(work.CountZeros())
		total += survivors
		if c.observer != nil {
			c.observer(w, survivors)
		}
		blocks.Inc()
		work.Reset()
		return true
	})

	// The last window may be shorter than the working set; its tail flags
	// stay unset and were counted above.
	return total - plan.Phantoms(), nil
}
