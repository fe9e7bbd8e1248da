package animmod

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ValueKind selects which variant of ValueInfo is populated.
type ValueKind uint8

const (
	KindFloat ValueKind = iota
	KindObject
)

func (k ValueKind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// ValueInfo is the set of values a property may take under one node.
//
// It is a closed two-variant union. The float variant carries either a
// finite candidate set or the Variable sentinel (unconstrained). The object
// variant always carries a finite set of object identities. Both variants
// carry a partial application flag meaning the unmodified value of the
// property may also be observed.
//
// ValueInfo is immutable; every method returning a ValueInfo returns a copy.
type ValueInfo struct {
	kind     ValueKind
	variable bool
	partial  bool
	floats   []float32
	objects  []ObjectID
}

// FloatValues returns a float ValueInfo with the given candidate values.
// Duplicates are removed. A NaN candidate makes the result Variable.
func FloatValues(values ...float32) ValueInfo {
	for _, v := range values {
		if v != v {
			return FloatVariable()
		}
	}
	set := slices.Clone(values)
	for i, v := range set {
		if v == 0 {
			set[i] = 0 // fold -0
		}
	}
	slices.Sort(set)
	set = slices.Compact(set)
	return ValueInfo{kind: KindFloat, floats: set}
}

// FloatVariable returns the unconstrained float ValueInfo.
func FloatVariable() ValueInfo {
	return ValueInfo{kind: KindFloat, variable: true}
}

// ObjectValues returns an object ValueInfo with the given identities.
func ObjectValues(ids ...ObjectID) ValueInfo {
	set := slices.Clone(ids)
	slices.Sort(set)
	set = slices.Compact(set)
	return ValueInfo{kind: KindObject, objects: set}
}

// EmptyValue returns a ValueInfo of the given kind that asserts nothing.
func EmptyValue(kind ValueKind) ValueInfo {
	return ValueInfo{kind: kind}
}

func (v ValueInfo) Kind() ValueKind { return v.kind }

// IsVariable reports whether the value is unconstrained. Object values are
// never unconstrained.
func (v ValueInfo) IsVariable() bool { return v.variable }

// Floats returns the candidate float values. ok is false for Variable and
// for the object variant.
func (v ValueInfo) Floats() (values []float32, ok bool) {
	if v.kind != KindFloat || v.variable {
		return nil, false
	}
	return slices.Clone(v.floats), true
}

// Objects returns the candidate object identities.
func (v ValueInfo) Objects() []ObjectID {
	return slices.Clone(v.objects)
}

// Len is the size of the candidate set, or -1 when Variable.
func (v ValueInfo) Len() int {
	if v.variable {
		return -1
	}
	if v.kind == KindObject {
		return len(v.objects)
	}
	return len(v.floats)
}

// IsEmpty reports a constrained value with no candidates.
func (v ValueInfo) IsEmpty() bool { return v.Len() == 0 }

// SingleConstant reports whether exactly one candidate value exists.
func (v ValueInfo) SingleConstant() bool { return v.Len() == 1 }

// ConstantFloat returns the only candidate of a float value.
func (v ValueInfo) ConstantFloat() (float32, bool) {
	if v.kind != KindFloat || v.Len() != 1 {
		return 0, false
	}
	return v.floats[0], true
}

// PartialApplication reports whether the unmodified value may show
// through. An empty constrained set always counts as partial.
func (v ValueInfo) PartialApplication() bool {
	return v.partial || v.IsEmpty()
}

// WithPartial returns a copy with the partial application flag set to p.
func (v ValueInfo) WithPartial(p bool) ValueInfo {
	v.partial = p
	return v
}

// Widen turns a float set with more than limit candidates into Variable.
// A non-positive limit disables widening.
func (v ValueInfo) Widen(limit int) ValueInfo {
	if limit <= 0 || v.kind != KindFloat || v.variable || len(v.floats) <= limit {
		return v
	}
	return FloatVariable().WithPartial(v.partial)
}

// Equal compares two values including the partial flag.
func (v ValueInfo) Equal(o ValueInfo) bool {
	return v.kind == o.kind &&
		v.variable == o.variable &&
		v.PartialApplication() == o.PartialApplication() &&
		slices.Equal(v.floats, o.floats) &&
		slices.Equal(v.objects, o.objects)
}

// String renders "variable", "{1, 2}" or "{a, b}". A trailing "?" marks
// partial application.
func (v ValueInfo) String() string {
	var b strings.Builder
	switch {
	case v.variable:
		b.WriteString("variable")
	case v.kind == KindObject:
		b.WriteByte('{')
		for i, id := range v.objects {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(string(id))
		}
		b.WriteByte('}')
	default:
		b.WriteByte('{')
		for i, f := range v.floats {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
		}
		b.WriteByte('}')
	}
	if v.PartialApplication() {
		b.WriteByte('?')
	}
	return b.String()
}

// ErrKindMismatch is returned when values of different kinds are combined.
type ErrKindMismatch struct {
	Want, Got ValueKind
}

func (e *ErrKindMismatch) Error() string {
	return fmt.Sprintf("cannot combine %s value with %s value", e.Got, e.Want)
}

func checkKind(kind ValueKind, infos []ValueInfo) error {
	for _, info := range infos {
		if info.kind != kind {
			return &ErrKindMismatch{Want: kind, Got: info.kind}
		}
	}
	return nil
}

// ConstantInfoForSideBySide unions the candidates of alternatives. Any
// Variable input makes the result Variable.
func ConstantInfoForSideBySide(kind ValueKind, infos []ValueInfo) (ValueInfo, error) {
	if err := checkKind(kind, infos); err != nil {
		return ValueInfo{}, err
	}
	partial := false
	for _, info := range infos {
		partial = partial || info.PartialApplication()
	}
	if kind == KindObject {
		var all []ObjectID
		for _, info := range infos {
			all = append(all, info.objects...)
		}
		return ObjectValues(all...).WithPartial(partial), nil
	}
	var all []float32
	for _, info := range infos {
		if info.variable {
			return FloatVariable().WithPartial(partial), nil
		}
		all = append(all, info.floats...)
	}
	return FloatValues(all...).WithPartial(partial), nil
}

// ConstantInfoForBlend is ConstantInfoForSideBySide, except that a direct
// blend of floats is always Variable because its weights are independent.
func ConstantInfoForBlend(kind ValueKind, infos []ValueInfo, algorithm BlendAlgorithm) (ValueInfo, error) {
	info, err := ConstantInfoForSideBySide(kind, infos)
	if err != nil {
		return ValueInfo{}, err
	}
	if kind == KindFloat && algorithm == BlendDirect && len(infos) > 0 {
		return FloatVariable().WithPartial(info.partial), nil
	}
	return info, nil
}
