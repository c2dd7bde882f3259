package pipeline

import "fmt"

// State is the position of a run in the linear pipeline.
type State int

const (
	StatePending State = iota
	StateExtracted
	StateReturnsComputed
	StateStatisticsComputed
	StateAnnualized
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateExtracted:
		return "extracted"
	case StateReturnsComputed:
		return "returns_computed"
	case StateStatisticsComputed:
		return "statistics_computed"
	case StateAnnualized:
		return "annualized"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Stage names the step that produced a StageError.
type Stage string

const (
	StageExtract    Stage = "extract"
	StageReturns    Stage = "returns"
	StageStatistics Stage = "statistics"
	StageAnnualize  Stage = "annualize"
)

// StageError annotates the first failure of a run with its stage.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
