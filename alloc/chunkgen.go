package alloc

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Mmap maps every region anonymously, so large sets never touch the Go heap
// and are returned to the kernel on Dealloc.
type Mmap struct{}

func (Mmap) Alloc(ln int) ([]byte, error) {
	if ln <= 0 {
		return nil, nil
	}
	b, err := unix.Mmap(-1, 0, ln, unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, errors.Wrapf(ErrNoMemory, "mmap %d bytes: %v", ln, err)
	}
	return b, nil
}

func (Mmap) Dealloc(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return errors.Wrap(unix.Munmap(b), "munmap")
}
