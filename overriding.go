package animmod

// BlendAlgorithm is the weighting scheme of a blend tree.
type BlendAlgorithm uint8

const (
	Blend1D BlendAlgorithm = iota
	Blend2DSimpleDirectional
	Blend2DFreeformDirectional
	Blend2DFreeformCartesian
	BlendDirect
)

func (a BlendAlgorithm) String() string {
	switch a {
	case Blend1D:
		return "1d"
	case Blend2DSimpleDirectional:
		return "2d-simple-directional"
	case Blend2DFreeformDirectional:
		return "2d-freeform-directional"
	case Blend2DFreeformCartesian:
		return "2d-freeform-cartesian"
	case BlendDirect:
		return "direct"
	default:
		return "unknown"
	}
}

// BlendingMode tells how a layer combines with the layers below it.
type BlendingMode uint8

const (
	BlendOverride BlendingMode = iota
	BlendAdditive
)

func (m BlendingMode) String() string {
	if m == BlendAdditive {
		return "additive"
	}
	return "override"
}

// OverrideLayer is one layer's contribution to a single property as seen
// by the overriding walk.
type OverrideLayer struct {
	Value      ValueInfo
	ApplyState ApplyState
	Weight     WeightState
	Mode       BlendingMode
}

// skipAdditive reports whether an additive layer is a net-zero offset:
// a float delta that never changes is cancelled by its reference pose.
// Object values cannot be added, so additive mode is ignored for them.
func (l OverrideLayer) skipAdditive() bool {
	return l.Mode == BlendAdditive && l.Value.kind == KindFloat && !l.Value.variable && len(l.Value.floats) <= 1
}

func (l OverrideLayer) additive() bool {
	return l.Mode == BlendAdditive && l.Value.kind == KindFloat
}

// ConstantInfoForOverriding walks layers from highest priority to lowest
// and accumulates the values that can be observed. An override layer that
// is always applied at weight one hides everything below it. When no layer
// hides the rest, the unmodified value may show through and the result is
// marked partial.
func ConstantInfoForOverriding(kind ValueKind, layersTopToBottom []OverrideLayer) (ValueInfo, error) {
	infos := make([]ValueInfo, 0, len(layersTopToBottom))
	for _, l := range layersTopToBottom {
		infos = append(infos, l.Value)
	}
	if err := checkKind(kind, infos); err != nil {
		return ValueInfo{}, err
	}

	var floats []float32
	var objects []ObjectID
	variable := false
	for _, l := range layersTopToBottom {
		if l.Weight == WeightAlwaysZero || l.ApplyState == Never {
			continue
		}
		if l.skipAdditive() {
			continue
		}
		if l.additive() || l.Value.variable {
			// the result is unconstrained; keep walking only to learn
			// whether the unmodified value can still show through
			variable = true
		} else {
			floats = append(floats, l.Value.floats...)
			objects = append(objects, l.Value.objects...)
		}
		if l.ApplyState == Always && l.Weight == WeightAlwaysOne && !l.additive() {
			if variable {
				return FloatVariable().WithPartial(l.Value.partial), nil
			}
			return setOf(kind, floats, objects).WithPartial(l.Value.partial), nil
		}
	}
	if variable {
		return FloatVariable().WithPartial(true), nil
	}
	return setOf(kind, floats, objects).WithPartial(true), nil
}

func setOf(kind ValueKind, floats []float32, objects []ObjectID) ValueInfo {
	if kind == KindObject {
		return ObjectValues(objects...)
	}
	return FloatValues(floats...)
}

// ApplyStateForOverriding mirrors ConstantInfoForOverriding on the apply
// state lattice. A layer that is always applied at weight one makes the
// whole stack Always; weights other than one can only partially apply.
func ApplyStateForOverriding(layersTopToBottom []OverrideLayer) ApplyState {
	acc := Never
	for _, l := range layersTopToBottom {
		if l.Weight == WeightAlwaysZero || l.skipAdditive() {
			continue
		}
		st := l.ApplyState
		if l.Weight != WeightAlwaysOne {
			st = st.Multiply(Partially)
		}
		switch st {
		case Always:
			return Always
		case Partially:
			acc = Partially
		}
	}
	return acc
}
