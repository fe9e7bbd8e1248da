package animmod

import "testing"

func TestApplyState_Multiply(t *testing.T) {
	tests := []struct {
		a, b, want ApplyState
	}{
		{Always, Always, Always},
		{Always, Partially, Partially},
		{Partially, Partially, Partially},
		{Always, Never, Never},
		{Partially, Never, Never},
		{Never, Never, Never},
	}
	for _, tt := range tests {
		if got := tt.a.Multiply(tt.b); got != tt.want {
			t.Errorf("%v.Multiply(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
		if got := tt.b.Multiply(tt.a); got != tt.want {
			t.Errorf("%v.Multiply(%v) = %v, want %v", tt.b, tt.a, got, tt.want)
		}
	}
}

func TestApplyState_MergeSideBySide(t *testing.T) {
	tests := []struct {
		name   string
		states []ApplyState
		want   ApplyState
	}{
		{"empty", nil, Never},
		{"single always", []ApplyState{Always}, Always},
		{"all always", []ApplyState{Always, Always, Always}, Always},
		{"all never", []ApplyState{Never, Never}, Never},
		{"always and never", []ApplyState{Always, Never}, Partially},
		{"mixed", []ApplyState{Always, Always, Partially}, Partially},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MergeSideBySide(tt.states...); got != tt.want {
				t.Errorf("MergeSideBySide(%v) = %v, want %v", tt.states, got, tt.want)
			}
		})
	}
}

func TestParseApplyState(t *testing.T) {
	for _, s := range []ApplyState{Never, Partially, Always} {
		got, ok := ParseApplyState(s.String())
		if !ok || got != s {
			t.Errorf("ParseApplyState(%q) = %v, %v", s.String(), got, ok)
		}
	}
	if _, ok := ParseApplyState("sometimes"); ok {
		t.Error("expected unknown state to fail")
	}
}
