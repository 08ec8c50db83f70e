package sieve_test

func isPrime(n uint32) bool {
	if n <= 1 {
		return false
	}
	if n <= 3 {
		return true
	}
	if n%2 == 0 {
		return false
	}
	for i := uint32(3); uint64(i)*uint64(i) <= uint64(n); i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// dumbCounts returns the trial division prime count of [0, n] for every n
// up to max.
func dumbCounts(max uint32) []uint32 {
	res := make([]uint32, max+1)
	count := uint32(0)
	for n := uint32(0); n <= max; n++ {
		if isPrime(n) {
			count++
		}
		res[n] = count
	}
	return res
}
