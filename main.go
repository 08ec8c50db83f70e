package main

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/funny-falcon/sieve32/alloc"
	"github.com/funny-falcon/sieve32/bitset"
	"github.com/funny-falcon/sieve32/sieve"
)

var log = logrus.WithField("prefix", "main")

var (
	boundFlag = &cli.Uint64Flag{
		Name:  "bound",
		Usage: "count primes in [0, bound]",
		Value: math.MaxUint32,
	}
	algorithmFlag = &cli.StringFlag{
		Name:    "algorithm",
		Aliases: []string{"a"},
		Usage:   "one of " + strings.Join(sieve.Names(), ", "),
		Value:   sieve.NameRecompute,
	}
	mmapFlag = &cli.BoolFlag{
		Name:  "mmap",
		Usage: "keep bit sets in anonymous mappings instead of the Go heap",
	}
	maxMemoryFlag = &cli.IntFlag{
		Name:  "max-memory",
		Usage: "fail runs that need more than this many bytes (0 is unlimited)",
	}
	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "print the result as a JSON object",
	}
	verbosityFlag = &cli.StringFlag{
		Name:  "verbosity",
		Usage: "logging level (trace, debug, info, warn, error)",
		Value: "info",
	}
	portFlag = &cli.StringFlag{
		Name:  "port",
		Usage: "port to listen",
		Value: "8080",
	}
	sizeFlag = &cli.Uint64Flag{
		Name:     "size",
		Usage:    "largest index of the set",
		Required: true,
	}
	primesFlag = &cli.BoolFlag{
		Name:  "primes",
		Usage: "sieve the set before printing it",
	}
)

func main() {
	formatter := new(prefixed.TextFormatter)
	formatter.TimestampFormat = "2006-01-02 15:04:05"
	formatter.FullTimestamp = true
	logrus.SetFormatter(formatter)

	app := cli.App{}
	app.Name = "sieve32"
	app.Usage = "count primes up to 2^32-1 in a square root of the memory"
	app.Flags = []cli.Flag{verbosityFlag, mmapFlag, maxMemoryFlag}
	app.Before = func(c *cli.Context) error {
		level, err := logrus.ParseLevel(c.String(verbosityFlag.Name))
		if err != nil {
			return err
		}
		logrus.SetLevel(level)
		return nil
	}
	app.Commands = []*cli.Command{
		{
			Name:   "count",
			Usage:  "print the number of primes in [0, bound]",
			Flags:  []cli.Flag{boundFlag, algorithmFlag, jsonFlag},
			Action: countAction,
		},
		{
			Name:   "bits",
			Usage:  "print the flags of a bit set as 0/1",
			Flags:  []cli.Flag{sizeFlag, primesFlag},
			Action: bitsAction,
		},
		{
			Name:   "serve",
			Usage:  "answer counting queries over HTTP",
			Flags:  []cli.Flag{portFlag},
			Action: serveAction,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Error("Failed")
		os.Exit(1)
	}
}

func allocator(c *cli.Context) alloc.Allocator {
	var base alloc.Allocator = alloc.Heap{}
	if c.Bool(mmapFlag.Name) {
		base = alloc.Mmap{}
	}
	return alloc.NewLimited(base, c.Int(maxMemoryFlag.Name))
}

func parseBound(v uint64) (uint32, error) {
	if v > math.MaxUint32 {
		return 0, errors.Errorf("bound %d is outside of the 32-bit domain", v)
	}
	return uint32(v), nil
}

func countAction(c *cli.Context) error {
	bound, err := parseBound(c.Uint64(boundFlag.Name))
	if err != nil {
		return err
	}
	counter, err := sieve.ByName(c.String(algorithmFlag.Name), sieve.WithAllocator(allocator(c)))
	if err != nil {
		return err
	}
	res, err := run(counter, bound)
	if err != nil {
		return err
	}
	if c.Bool(jsonFlag.Name) {
		_, err = os.Stdout.Write(append(res.JSON(), '\n'))
		return err
	}
	fmt.Println(res.Primes)
	return nil
}

func bitsAction(c *cli.Context) error {
	size, err := parseBound(c.Uint64(sizeFlag.Name))
	if err != nil {
		return err
	}
	set, err := bitset.New(allocator(c), size)
	if err != nil {
		return err
	}
	defer set.Release()
	if c.Bool(primesFlag.Name) {
		sieve.CountInto(size, set)
	}
	fmt.Println(set.String())
	return nil
}

// Result is what count prints with --json and what the server answers.
type Result struct {
	Bound     uint32 `json:"bound"`
	Algorithm string `json:"algorithm"`
	Primes    uint32 `json:"primes"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

func run(counter sieve.Counter, bound uint32) (Result, error) {
	start := time.Now()
	primes, err := counter.Count(bound)
	if err != nil {
		return Result{}, errors.Wrapf(err, "%s up to %d", counter.Name(), bound)
	}
	res := Result{
		Bound:     bound,
		Algorithm: counter.Name(),
		Primes:    primes,
		ElapsedMs: time.Since(start).Milliseconds(),
	}
	log.WithFields(logrus.Fields{
		"algorithm": res.Algorithm,
		"bound":     res.Bound,
		"primes":    res.Primes,
		"elapsed":   time.Since(start),
	}).Info("Counted primes")
	return res, nil
}
