package alloc

import (
	"unsafe"

	"github.com/modern-go/reflect2"
	"github.com/pkg/errors"
)

// ErrNoMemory is returned when backing storage could not be obtained.
var ErrNoMemory = errors.New("not enough memory")

// Allocator hands out zeroed byte regions of exactly the requested length.
type Allocator interface {
	Alloc(ln int) ([]byte, error)
	Dealloc(b []byte) error
}

// Default is used when no allocator is supplied.
var Default Allocator = Heap{}

type sliceHeader struct {
	Data unsafe.Pointer
	Len  int
	Cap  int
}

// Slice points the slice behind slicePtr at region. elemSize is the size of one
// element; trailing bytes that do not make up a whole element are ignored.
// The region must be suitably aligned for the element type.
func Slice(region []byte, elemSize int, slicePtr interface{}) {
	hdr := (*sliceHeader)(reflect2.PtrOf(slicePtr))
	if len(region) < elemSize {
		hdr.Data, hdr.Len, hdr.Cap = nil, 0, 0
		return
	}
	n := len(region) / elemSize
	hdr.Data = unsafe.Pointer(&region[0])
	hdr.Len = n
	hdr.Cap = n
}
