package animmod

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestFloatValues_Normalizes(t *testing.T) {
	v := FloatValues(3, 1, 3, 2, float32(math.Copysign(0, -1)), 0)
	got, ok := v.Floats()
	if !ok {
		t.Fatal("expected constrained value")
	}
	if diff := cmp.Diff([]float32{0, 1, 2, 3}, got); diff != "" {
		t.Errorf("Floats() mismatch (-want +got):\n%s", diff)
	}
	if v.PartialApplication() {
		t.Error("non-empty set should not be partial by default")
	}
}

func TestFloatValues_NaNIsVariable(t *testing.T) {
	v := FloatValues(1, float32(math.NaN()))
	if !v.IsVariable() {
		t.Errorf("expected variable, got %s", v)
	}
}

func TestEmptyValue_IsPartial(t *testing.T) {
	v := FloatValues()
	if !v.PartialApplication() {
		t.Error("empty float set must count as partial application")
	}
	if _, ok := v.ConstantFloat(); ok {
		t.Error("empty set has no constant")
	}
}

func TestValueInfo_String(t *testing.T) {
	tests := []struct {
		v    ValueInfo
		want string
	}{
		{FloatValues(1, 2.5), "{1, 2.5}"},
		{FloatValues(1).WithPartial(true), "{1}?"},
		{FloatVariable(), "variable"},
		{ObjectValues("b", "a"), "{a, b}"},
		{FloatValues(), "{}?"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestValueInfo_Widen(t *testing.T) {
	v := FloatValues(1, 2, 3)
	if got := v.Widen(3); !got.Equal(v) {
		t.Errorf("Widen at limit changed value: %s", got)
	}
	if got := v.Widen(2); !got.IsVariable() {
		t.Errorf("Widen over limit = %s, want variable", got)
	}
	o := ObjectValues("a", "b", "c")
	if got := o.Widen(1); got.IsVariable() {
		t.Error("object values must never widen to variable")
	}
}

// Side-by-side union is exact for finite sets and absorbs Variable.
func TestConstantInfoForSideBySide_UnionMonotonicity(t *testing.T) {
	sets := [][]float32{{}, {0}, {1}, {0, 1}, {1, 2, 3}, {-1, 5}}
	for _, a := range sets {
		for _, b := range sets {
			got, err := ConstantInfoForSideBySide(KindFloat, []ValueInfo{FloatValues(a...), FloatValues(b...)})
			if err != nil {
				t.Fatal(err)
			}
			want := FloatValues(append(append([]float32{}, a...), b...)...)
			gotFloats, _ := got.Floats()
			wantFloats, _ := want.Floats()
			if diff := cmp.Diff(wantFloats, gotFloats, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("union of %v and %v mismatch (-want +got):\n%s", a, b, diff)
			}

			got, err = ConstantInfoForSideBySide(KindFloat, []ValueInfo{FloatValues(a...), FloatVariable()})
			if err != nil {
				t.Fatal(err)
			}
			if !got.IsVariable() {
				t.Errorf("union of %v with variable = %s, want variable", a, got)
			}
		}
	}
}

func TestConstantInfoForSideBySide_Objects(t *testing.T) {
	got, err := ConstantInfoForSideBySide(KindObject, []ValueInfo{ObjectValues("mat-a"), ObjectValues("mat-b", "mat-a")})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]ObjectID{"mat-a", "mat-b"}, got.Objects()); diff != "" {
		t.Errorf("Objects() mismatch (-want +got):\n%s", diff)
	}
}

func TestConstantInfoForSideBySide_KindMismatch(t *testing.T) {
	_, err := ConstantInfoForSideBySide(KindFloat, []ValueInfo{FloatValues(1), ObjectValues("x")})
	var mismatch *ErrKindMismatch
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected ErrKindMismatch, got %v", err)
	}
	if mismatch.Got != KindObject {
		t.Errorf("Got = %v, want object", mismatch.Got)
	}
}

func TestConstantInfoForBlend_DirectIsVariable(t *testing.T) {
	infos := []ValueInfo{FloatValues(1), FloatValues(1)}
	for _, alg := range []BlendAlgorithm{Blend1D, Blend2DSimpleDirectional, Blend2DFreeformCartesian} {
		got, err := ConstantInfoForBlend(KindFloat, infos, alg)
		if err != nil {
			t.Fatal(err)
		}
		if c, ok := got.ConstantFloat(); !ok || c != 1 {
			t.Errorf("%v blend of constants = %s, want {1}", alg, got)
		}
	}
	got, err := ConstantInfoForBlend(KindFloat, infos, BlendDirect)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsVariable() {
		t.Errorf("direct blend = %s, want variable", got)
	}
}
