package prover

import "time"

// Stage is a step of a prove or verify flow.
//
//	prove:  Idle -> SrsEnsured -> WitnessBuilt -> Proved
//	verify: Idle -> SrsEnsured -> KeyDerived -> Verified
//	verify with a saved key: Idle -> KeyDerived -> Verified
//
// Any failure moves the flow to Failed.
type Stage int

const (
	Idle Stage = iota
	SrsEnsured
	WitnessBuilt
	Proved
	KeyDerived
	Verified
	Failed
)

func (s Stage) String() string {
	switch s {
	case Idle:
		return "Idle"
	case SrsEnsured:
		return "SrsEnsured"
	case WitnessBuilt:
		return "WitnessBuilt"
	case Proved:
		return "Proved"
	case KeyDerived:
		return "KeyDerived"
	case Verified:
		return "Verified"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Hook observes stage transitions. elapsed is measured from the start of the flow.
type Hook func(stage Stage, elapsed time.Duration)

type flow struct {
	start time.Time
	hook  Hook
	stage Stage
}

func (f *flow) enter(s Stage) {
	f.stage = s
	if f.hook != nil {
		f.hook(s, time.Since(f.start))
	}
}

// fail records the failure and returns err unchanged.
func (f *flow) fail(err error) error {
	f.enter(Failed)
	return err
}
