package asset

import (
	"math"
	"testing"
)

func TestEvaluate(t *testing.T) {
	inf := float32(math.Inf(1))
	linear := []Keyframe{
		{Time: 0, Value: 0, OutTangent: 1},
		{Time: 1, Value: 1, InTangent: 1},
	}
	stepped := []Keyframe{
		{Time: 0, Value: 2, OutTangent: inf},
		{Time: 1, Value: 4, InTangent: inf},
	}
	tests := []struct {
		name string
		keys []Keyframe
		t    float32
		want float32
	}{
		{"before first", linear, -1, 0},
		{"after last", linear, 2, 1},
		{"midpoint linear", linear, 0.5, 0.5},
		{"stepped holds", stepped, 0.9, 2},
		{"stepped at end", stepped, 1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Evaluate(tt.keys, tt.t)
			if !ok {
				t.Fatal("Evaluate returned !ok")
			}
			if math.Abs(float64(got-tt.want)) > 1e-5 {
				t.Errorf("Evaluate(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
	if _, ok := Evaluate(nil, 0); ok {
		t.Error("empty curve should not evaluate")
	}
}

func TestParsePlayableKind(t *testing.T) {
	for k := PlayableBase; k <= PlayableFX; k++ {
		got, err := ParsePlayableKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParsePlayableKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParsePlayableKind("face"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestStateMachine_AllStates(t *testing.T) {
	inner := &State{Name: "inner"}
	sm := &StateMachine{
		States: []*State{{Name: "a", WeightChanges: []WeightChange{{Goal: 1}}}},
		Machines: []*StateMachine{{
			States:        []*State{inner},
			WeightChanges: []WeightChange{{Goal: 0}},
		}},
	}
	states := sm.AllStates()
	if len(states) != 2 || states[1] != inner {
		t.Fatalf("AllStates() = %v", states)
	}
	if got := len(sm.AllWeightChanges()); got != 2 {
		t.Errorf("AllWeightChanges() len = %d, want 2", got)
	}
}
