package bitset

import "math/bits"

// BucketBits is the number of flags kept in one bucket.
const BucketBits = 8

const bucketShift = 3
const bucketMask = BucketBits - 1

func set(u []uint8, i uint32) {
	u[i>>bucketShift] |= 1 << (i & bucketMask)
}

func has(u []uint8, i uint32) bool {
	return u[i>>bucketShift]&(1<<(i&bucketMask)) != 0
}

// zeros counts unset flags of full buckets. Eight buckets are folded into one
// word at a time; the remainder goes bucket by bucket.
func zeros(u []uint8) uint64 {
	res := 0
	for len(u) >= 8 {
		w := uint64(u[0]) | uint64(u[1])<<8 | uint64(u[2])<<16 | uint64(u[3])<<24 |
			uint64(u[4])<<32 | uint64(u[5])<<40 | uint64(u[6])<<48 | uint64(u[7])<<56
		res += bits.OnesCount64(^w)
		u = u[8:]
	}
	for _, b := range u {
		res += bits.OnesCount8(^b)
	}
	return uint64(res)
}

// zerosLow counts unset flags among the n lowest bits of b.
func zerosLow(b uint8, n uint) uint64 {
	mask := uint8(1)<<n - 1
	if n >= BucketBits {
		mask = 0xff
	}
	return uint64(bits.OnesCount8(^b & mask))
}
