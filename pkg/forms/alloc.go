package forms

import (
	"fmt"
	"sync/atomic"
)

// IDAllocator hands out identifiers for fields that don't declare one.
// Identifiers from a single allocator are pairwise distinct for its lifetime;
// the console owns one allocator per process so IDs never collide across
// forms. Owning the allocator explicitly (rather than a package-global
// counter) keeps tests from leaking state into each other.
type IDAllocator struct {
	counter atomic.Uint64
}

func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// Next returns the next identifier.
func (a *IDAllocator) Next() string {
	return fmt.Sprintf("field-%d", a.counter.Add(1))
}
