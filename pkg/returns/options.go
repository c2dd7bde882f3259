package returns

import "github.com/apache/arrow-go/v18/arrow/memory"

type Option func(*Calculator)

func WithZeroPolicy(policy ZeroPolicy) Option {
	return func(c *Calculator) {
		c.policy = policy
	}
}

func WithAllocator(mem memory.Allocator) Option {
	return func(c *Calculator) {
		if mem != nil {
			c.mem = mem
		}
	}
}

// WithChunkSize sets the row count of each output chunk.
func WithChunkSize(size int) Option {
	return func(c *Calculator) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}
