package pipeline

import "fmt"

// DefaultMaxBufferSize bounds a single frame or packet buffer (256 MiB).
const DefaultMaxBufferSize = 256 << 20

// Allocator hands out owned buffers for frames.
type Allocator func(size int) ([]byte, error)

// NewAllocator returns an Allocator that refuses sizes outside (0, max].
func NewAllocator(max int) Allocator {
	if max <= 0 {
		max = DefaultMaxBufferSize
	}
	return func(size int) ([]byte, error) {
		if size <= 0 {
			return nil, fmt.Errorf("invalid buffer size %d", size)
		}
		if size > max {
			return nil, fmt.Errorf("buffer size %d exceeds limit %d", size, max)
		}
		return make([]byte, size), nil
	}
}
