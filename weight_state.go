package animmod

// WeightState captures what is statically known about a layer weight.
type WeightState uint8

const (
	// WeightNotChanged means no weight change was observed. It is the
	// identity of Merge and never the result of EffectiveWeight.
	WeightNotChanged WeightState = iota
	WeightAlwaysZero
	WeightAlwaysOne
	WeightEitherZeroOrOne
	WeightVariable
)

func (w WeightState) String() string {
	switch w {
	case WeightNotChanged:
		return "not-changed"
	case WeightAlwaysZero:
		return "always-zero"
	case WeightAlwaysOne:
		return "always-one"
	case WeightEitherZeroOrOne:
		return "zero-or-one"
	case WeightVariable:
		return "variable"
	default:
		panic(w)
	}
}

// WeightStateFor classifies one weight-change assertion that moves a weight
// toward goal over duration seconds.
func WeightStateFor(duration, goal float32) WeightState {
	if duration != 0 {
		return WeightVariable
	}
	return weightStateOf(goal)
}

func weightStateOf(weight float32) WeightState {
	switch weight {
	case 0:
		return WeightAlwaysZero
	case 1:
		return WeightAlwaysOne
	default:
		return WeightVariable
	}
}

// Merge combines two observations of the same layer weight. It is
// commutative and associative; WeightNotChanged is the identity and
// WeightVariable absorbs.
func (w WeightState) Merge(o WeightState) WeightState {
	switch {
	case w == WeightNotChanged:
		return o
	case o == WeightNotChanged:
		return w
	case w == WeightVariable || o == WeightVariable:
		return WeightVariable
	case w == o:
		return w
	default:
		// any two distinct members of {zero, one, zero-or-one}
		return WeightEitherZeroOrOne
	}
}

// MergeWeightStates folds observations with Merge.
func MergeWeightStates(states ...WeightState) WeightState {
	acc := WeightNotChanged
	for _, s := range states {
		acc = acc.Merge(s)
	}
	return acc
}

// EffectiveWeight derives the weight state used by layer composition from
// the authored default weight and the merged dynamic observations.
//
//	authored 0: not-changed/zero -> zero, one/zero-or-one -> zero-or-one
//	authored 1: not-changed/one  -> one,  zero/zero-or-one -> zero-or-one
//	otherwise, or any variable observation -> variable
func EffectiveWeight(authored float32, dynamic WeightState) WeightState {
	if dynamic == WeightVariable {
		return WeightVariable
	}
	initial := weightStateOf(authored)
	if initial == WeightVariable {
		return WeightVariable
	}
	return initial.Merge(dynamic)
}
