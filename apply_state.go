package animmod

// ApplyState tells whether a node's modification of a property is in
// effect always, only some of the time, or never.
type ApplyState uint8

const (
	Never ApplyState = iota
	Partially
	Always
)

func (s ApplyState) String() string {
	switch s {
	case Never:
		return "never"
	case Partially:
		return "partially"
	case Always:
		return "always"
	default:
		panic(s)
	}
}

// ParseApplyState is the inverse of String.
func ParseApplyState(s string) (ApplyState, bool) {
	switch s {
	case "never":
		return Never, true
	case "partially":
		return Partially, true
	case "always":
		return Always, true
	default:
		return Never, false
	}
}

// MergeSideBySide joins two alternatives of which at most one is active.
// Agreeing states are kept; any disagreement is Partially.
func (s ApplyState) MergeSideBySide(o ApplyState) ApplyState {
	if s == o {
		return s
	}
	return Partially
}

// Multiply composes two conditions that must both hold. Never absorbs.
func (s ApplyState) Multiply(o ApplyState) ApplyState {
	switch {
	case s == Never || o == Never:
		return Never
	case s == Always && o == Always:
		return Always
	default:
		return Partially
	}
}

// MergeSideBySide folds states of mutually exclusive alternatives.
// An empty list is Never.
func MergeSideBySide(states ...ApplyState) ApplyState {
	if len(states) == 0 {
		return Never
	}
	acc := states[0]
	for _, s := range states[1:] {
		acc = acc.MergeSideBySide(s)
		if acc == Partially {
			break
		}
	}
	return acc
}
