package pipeline

import (
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/peter-kozarec/navsharpe/pkg/returns"
)

type Option func(*settings)

type settings struct {
	mem        memory.Allocator
	zeroPolicy returns.ZeroPolicy
	chunkSize  int
	workers    int
	ddof       int
	riskFree   float64
	factor     float64
	observer   func(from, to State)
}

func WithAllocator(mem memory.Allocator) Option {
	return func(s *settings) {
		s.mem = mem
	}
}

func WithZeroPolicy(policy returns.ZeroPolicy) Option {
	return func(s *settings) {
		s.zeroPolicy = policy
	}
}

func WithChunkSize(size int) Option {
	return func(s *settings) {
		s.chunkSize = size
	}
}

func WithWorkers(workers int) Option {
	return func(s *settings) {
		s.workers = workers
	}
}

func WithDDOF(ddof int) Option {
	return func(s *settings) {
		s.ddof = ddof
	}
}

// WithRiskFree sets the per-period risk free return.
func WithRiskFree(rate float64) Option {
	return func(s *settings) {
		s.riskFree = rate
	}
}

// WithFactor overrides the periods-per-year of the requested period. Zero keeps it.
func WithFactor(periodsPerYear float64) Option {
	return func(s *settings) {
		s.factor = periodsPerYear
	}
}

// WithObserver is called on every state transition of every run.
func WithObserver(observer func(from, to State)) Option {
	return func(s *settings) {
		s.observer = observer
	}
}
