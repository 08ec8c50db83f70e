// Package sieve counts primes over the 32-bit domain with a segmented sieve
// of Eratosthenes whose memory grows with the square root of the bound.
package sieve

import (
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/funny-falcon/sieve32/alloc"
)

// Counter counts the primes in [0, bound].
type Counter interface {
	Name() string
	Count(bound uint32) (uint32, error)
}

// Observer sees every swept window with the number of unset flags the sweep
// counted for it. For Cursors the last window also includes Plan.Phantoms.
type Observer func(w Window, survivors uint32)

type options struct {
	al       alloc.Allocator
	observer Observer
}

type Option func(*options)

func WithAllocator(al alloc.Allocator) Option {
	return func(o *options) {
		o.al = al
	}
}

func WithObserver(f Observer) Option {
	return func(o *options) {
		o.observer = f
	}
}

func buildOptions(opts []Option) options {
	o := options{al: alloc.Default}
	for _, opt := range opts {
		opt(&o)
	}
	if o.al == nil {
		o.al = alloc.Default
	}
	return o
}

const (
	NameCursors   = "cursors"
	NameRecompute = "recompute"
	NameBounded   = "bounded"
)

var constructors = map[string]func(...Option) Counter{
	NameCursors:   func(opts ...Option) Counter { return NewCursors(opts...) },
	NameRecompute: func(opts ...Option) Counter { return NewRecompute(opts...) },
	NameBounded:   func(opts ...Option) Counter { return NewBoundedCounter(opts...) },
}

// ErrUnknownAlgorithm is returned by ByName.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

func ByName(name string, opts ...Option) (Counter, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownAlgorithm, "%q", name)
	}
	return ctor(opts...), nil
}

// Names lists the algorithms ByName knows, sorted.
func Names() []string {
	res := make([]string, 0, len(constructors))
	for name := range constructors {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

// BoundedCounter sieves the whole range at once: one flag per value.
type BoundedCounter struct {
	options
}

func NewBoundedCounter(opts ...Option) *BoundedCounter {
	return &BoundedCounter{options: buildOptions(opts)}
}

func (b *BoundedCounter) Name() string {
	return NameBounded
}

func (b *BoundedCounter) Count(bound uint32) (count uint32, err error) {
	defer track(b.Name(), bound, b.al, time.Now(), &count, &err)
	return Bounded(b.al, bound)
}

func track(name string, bound uint32, al alloc.Allocator, start time.Time, count *uint32, err *error) {
	elapsed := time.Since(start)
	runSeconds.WithLabelValues(name).Observe(elapsed.Seconds())
	fields := logrus.Fields{
		"algorithm": name,
		"bound":     bound,
		"elapsed":   elapsed,
	}
	if lim, ok := al.(*alloc.Limited); ok {
		_, peak := lim.Stats()
		fields["peak"] = humanize.IBytes(uint64(peak))
	}
	if *err != nil {
		runsTotal.WithLabelValues(name, "error").Inc()
		log.WithFields(fields).WithError(*err).Debug("Counting failed")
		return
	}
	runsTotal.WithLabelValues(name, "ok").Inc()
	fields["primes"] = *count
	log.WithFields(fields).Debug("Counted primes")
}
