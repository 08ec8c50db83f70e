package alloc

import (
	"sync"

	"github.com/pkg/errors"
)

// Heap allocates from the Go heap; Dealloc leaves the region to the collector.
type Heap struct{}

func (Heap) Alloc(ln int) ([]byte, error) {
	if ln < 0 {
		return nil, errors.Wrapf(ErrNoMemory, "negative length %d", ln)
	}
	return make([]byte, ln), nil
}

func (Heap) Dealloc(b []byte) error {
	return nil
}

// Limited accounts every region handed out by Base and refuses allocations
// that would take InUse over Limit. Limit <= 0 means no limit.
type Limited struct {
	sync.Mutex
	Base  Allocator
	Limit int

	InUse int
	Peak  int
	Count int
}

func NewLimited(base Allocator, limit int) *Limited {
	if base == nil {
		base = Default
	}
	return &Limited{Base: base, Limit: limit}
}

func (l *Limited) Alloc(ln int) ([]byte, error) {
	l.Lock()
	defer l.Unlock()
	if l.Limit > 0 && l.InUse+ln > l.Limit {
		return nil, errors.Wrapf(ErrNoMemory, "%d bytes requested, %d of %d in use",
			ln, l.InUse, l.Limit)
	}
	b, err := l.Base.Alloc(ln)
	if err != nil {
		return nil, err
	}
	l.InUse += len(b)
	l.Count++
	if l.InUse > l.Peak {
		l.Peak = l.InUse
	}
	return b, nil
}

func (l *Limited) Dealloc(b []byte) error {
	l.Lock()
	defer l.Unlock()
	l.InUse -= len(b)
	l.Count--
	return l.Base.Dealloc(b)
}

// Stats returns the bytes currently in use and the high-water mark.
func (l *Limited) Stats() (inUse, peak int) {
	l.Lock()
	defer l.Unlock()
	return l.InUse, l.Peak
}
