package ratio

type Option func(*Annualizer)

// WithFactor replaces the periods-per-year of the sampling period.
func WithFactor(periodsPerYear float64) Option {
	return func(a *Annualizer) {
		a.factor = periodsPerYear
	}
}

// WithRiskFree sets the per-period risk free return subtracted from the mean.
func WithRiskFree(rate float64) Option {
	return func(a *Annualizer) {
		a.riskFree = rate
	}
}
