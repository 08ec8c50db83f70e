package sieve_test

import (
	"testing"

	"github.com/funny-falcon/sieve32/sieve"
)

var rescount uint32

func BenchmarkCursors(b *testing.B) {
	benchmarkCounter(b, sieve.NewCursors())
}

func BenchmarkRecompute(b *testing.B) {
	benchmarkCounter(b, sieve.NewRecompute())
}

func benchmarkCounter(b *testing.B, c sieve.Counter) {
	for i := 0; i < b.N; i++ {
		count, err := c.Count(1 << 24)
		if err != nil {
			b.Fatal(err)
		}
		rescount = count
	}
}
