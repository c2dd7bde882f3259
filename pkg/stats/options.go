package stats

type Option func(*Aggregator)

// WithWorkers bounds the number of partitions reduced concurrently.
func WithWorkers(workers int) Option {
	return func(a *Aggregator) {
		if workers > 0 {
			a.workers = workers
		}
	}
}
