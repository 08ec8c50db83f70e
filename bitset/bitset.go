// Package bitset implements a packed bit set over a closed index range [0, size].
//
// Buckets are kept left to right, and inside a bucket the flags go from the
// least significant bit to the most significant one.
package bitset

import (
	"math"
	"math/bits"
	"strings"

	"github.com/pkg/errors"

	"github.com/funny-falcon/sieve32/alloc"
)

// noCopy makes go vet complain about copies of a Set: it owns its storage.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Set is a fixed size collection of size+1 flags, all cleared on construction.
type Set struct {
	noCopy noCopy

	al       alloc.Allocator
	b        []uint8
	size     uint32
	buckets  uint32
	lastBits uint
}

// New allocates a set over [0, size] from al (alloc.Default when nil).
func New(al alloc.Allocator, size uint32) (*Set, error) {
	if al == nil {
		al = alloc.Default
	}
	// size+1 does not fit into uint32 when size == MaxUint32.
	flags := uint64(size) + 1
	buckets := (flags + BucketBits - 1) / BucketBits
	lastBits := uint(flags - (buckets-1)*BucketBits)

	if buckets > math.MaxInt32 {
		return nil, errors.Wrapf(alloc.ErrNoMemory, "%d buckets", buckets)
	}
	b, err := al.Alloc(int(buckets))
	if err != nil {
		return nil, errors.Wrapf(err, "bitset of %d flags", flags)
	}
	if uint64(len(b)) != buckets {
		_ = al.Dealloc(b)
		return nil, errors.Wrapf(alloc.ErrNoMemory, "got %d of %d buckets", len(b), buckets)
	}
	return &Set{
		al:       al,
		b:        b,
		size:     size,
		buckets:  uint32(buckets),
		lastBits: lastBits,
	}, nil
}

// Size is the largest addressable index.
func (s *Set) Size() uint32 {
	return s.size
}

// Len is the number of flags, size+1.
func (s *Set) Len() uint64 {
	return uint64(s.size) + 1
}

func (s *Set) Buckets() uint32 {
	return s.buckets
}

// LastBucketBits is the number of meaningful flags in the final bucket.
func (s *Set) LastBucketBits() uint {
	return s.lastBits
}

// Released reports whether the storage was already given back.
func (s *Set) Released() bool {
	return s.b == nil
}

func (s *Set) Has(i uint32) bool {
	return has(s.b, i)
}

func (s *Set) Set(i uint32) {
	set(s.b, i)
}

// Reset clears every flag, so one allocation serves many blocks.
func (s *Set) Reset() {
	for i := range s.b {
		s.b[i] = 0
	}
}

// CountZeros returns the number of unset flags in [0, size].
// It is cheap when set flags vastly outnumber cleared ones.
func (s *Set) CountZeros() uint64 {
	if len(s.b) == 0 {
		return 0
	}
	last := len(s.b) - 1
	return zeros(s.b[:last]) + zerosLow(s.b[last], s.lastBits)
}

// CountZerosTo returns the number of unset flags in [0, last].
func (s *Set) CountZerosTo(last uint32) uint64 {
	if last >= s.size {
		return s.CountZeros()
	}
	full := last >> bucketShift
	return zeros(s.b[:full]) + zerosLow(s.b[full], uint(last&bucketMask)+1)
}

// LoopZeros calls f for every unset flag at or after from in increasing
// order, until f returns false.
func (s *Set) LoopZeros(from uint32, f func(i uint32) bool) {
	if len(s.b) == 0 || from > s.size {
		return
	}
	for k := from >> bucketShift; k < s.buckets; k++ {
		v := ^s.b[k]
		if k == from>>bucketShift {
			v &^= uint8(1)<<(from&bucketMask) - 1
		}
		if k == s.buckets-1 && s.lastBits < BucketBits {
			v &= uint8(1)<<s.lastBits - 1
		}
		base := k << bucketShift
		for v != 0 {
			if !f(base + uint32(bits.TrailingZeros8(v))) {
				return
			}
			v &= v - 1
		}
	}
}

// Release gives the storage back before the set is dropped. The set must not
// be used afterwards; releasing twice is a no-op.
func (s *Set) Release() error {
	if s == nil || s.b == nil {
		return nil
	}
	b := s.b
	s.b = nil
	s.buckets = 0
	s.lastBits = 0
	return s.al.Dealloc(b)
}

// String renders the flags as '0'/'1', bucket-major then bit-minor.
func (s *Set) String() string {
	if len(s.b) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(int(s.Len()))
	last := len(s.b) - 1
	for _, v := range s.b[:last] {
		writeBucket(&sb, v, BucketBits)
	}
	writeBucket(&sb, s.b[last], s.lastBits)
	return sb.String()
}

func writeBucket(sb *strings.Builder, v uint8, n uint) {
	for j := uint(0); j < n; j++ {
		if v&(1<<j) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
}
