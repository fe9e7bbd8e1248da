package propmod

import (
	"github.com/speakeasy-api/animmod"
)

// walkItem is one object waiting to be visited with the activation state
// its parent passed down.
type walkItem struct {
	object animmod.ObjectID
	active animmod.ApplyState
}

// objectWorklist holds the objects still to visit.
type objectWorklist struct {
	items []walkItem
}

func newObjectWorklist() *objectWorklist {
	return &objectWorklist{items: make([]walkItem, 0, 32)}
}

// pushChildren queues children so the first child is visited first.
func (w *objectWorklist) pushChildren(children []animmod.ObjectID, active animmod.ApplyState) {
	for i := len(children) - 1; i >= 0; i-- {
		w.items = append(w.items, walkItem{object: children[i], active: active})
	}
}

func (w *objectWorklist) push(item walkItem) {
	w.items = append(w.items, item)
}

// pop removes the most recently pushed item (LIFO, depth-first).
func (w *objectWorklist) pop() (walkItem, bool) {
	if len(w.items) == 0 {
		return walkItem{}, false
	}
	item := w.items[len(w.items)-1]
	w.items = w.items[:len(w.items)-1]
	return item, true
}

func (w *objectWorklist) isEmpty() bool {
	return len(w.items) == 0
}

func stateOf(b bool) animmod.ApplyState {
	if b {
		return animmod.Always
	}
	return animmod.Never
}

// activeness reduces a boolean property to an apply state: Always if it is
// always true, Never if always false. authored is the statically declared
// value and s the aggregated summary so far, if any.
//
// Only contributions already in the table are seen. A flag modified by a
// behavior visited later does not affect objects visited before it.
func activeness(authored bool, s Summary) animmod.ApplyState {
	if s == nil || s.ApplyState() == animmod.Never {
		return stateOf(authored)
	}
	v := s.Value()
	if v.IsVariable() || v.Kind() != animmod.KindFloat {
		return animmod.Partially
	}
	var on, off bool
	floats, _ := v.Floats()
	for _, f := range floats {
		if f != 0 {
			on = true
		} else {
			off = true
		}
	}
	if s.ApplyState() != animmod.Always || v.PartialApplication() {
		if authored {
			on = true
		} else {
			off = true
		}
	}
	switch {
	case on && !off:
		return animmod.Always
	case off && !on:
		return animmod.Never
	default:
		return animmod.Partially
	}
}
