package sieve

// Releaser is storage that can be given back before it is dropped.
type Releaser interface {
	Release() error
}

// ReleaseHolder collects everything a sweep acquired, so every exit path
// gives it back. Releasing twice must be harmless for every Releaser.
type ReleaseHolder struct {
	R []Releaser
}

func (r *ReleaseHolder) Add(rr Releaser) {
	if r == nil {
		return
	}
	r.R = append(r.R, rr)
}

// Release gives back everything in reverse order and reports the first error.
func (r *ReleaseHolder) Release() error {
	if r == nil {
		return nil
	}
	var first error
	for i := len(r.R) - 1; i >= 0; i-- {
		if err := r.R[i].Release(); err != nil && first == nil {
			first = err
		}
	}
	r.R = r.R[:0]
	return first
}
