package asset

import "github.com/speakeasy-api/animmod"

// NotSynced is the SyncedLayerIndex of a layer with its own state machine.
const NotSynced = -1

// RuntimeController is a *Controller or an *OverrideController.
type RuntimeController interface {
	ControllerName() string
}

// Controller is a layered state machine graph.
type Controller struct {
	ID     animmod.ObjectID
	Name   string
	Layers []*Layer
}

func (c *Controller) ControllerName() string { return c.Name }

// Layer is one weighted, ordered contributor of a controller. Index 0 is
// the base layer.
type Layer struct {
	Name          string
	DefaultWeight float32
	Blending      animmod.BlendingMode
	StateMachine  *StateMachine

	// SyncedLayerIndex borrows the state machine of another layer. Its
	// states play SyncedMotions[state] when present, else the template
	// state's own motion.
	SyncedLayerIndex int
	SyncedMotions    map[*State]Motion
}

// Synced reports whether the layer borrows another layer's states.
func (l *Layer) Synced() bool { return l.SyncedLayerIndex != NotSynced }

// StateMachine holds states and nested machines.
type StateMachine struct {
	Name          string
	States        []*State
	Machines      []*StateMachine
	WeightChanges []WeightChange
}

// AllStates returns the states of m and its nested machines, depth-first.
func (m *StateMachine) AllStates() []*State {
	if m == nil {
		return nil
	}
	states := append([]*State(nil), m.States...)
	for _, sub := range m.Machines {
		states = append(states, sub.AllStates()...)
	}
	return states
}

// AllWeightChanges returns the weight changes attached to m, its nested
// machines and all their states.
func (m *StateMachine) AllWeightChanges() []WeightChange {
	if m == nil {
		return nil
	}
	changes := append([]WeightChange(nil), m.WeightChanges...)
	for _, s := range m.States {
		changes = append(changes, s.WeightChanges...)
	}
	for _, sub := range m.Machines {
		changes = append(changes, sub.AllWeightChanges()...)
	}
	return changes
}

// State plays one motion.
type State struct {
	Name          string
	Motion        Motion
	WeightChanges []WeightChange
}

// WeightChange is a state behavior that moves a layer weight toward Goal
// over Duration seconds.
type WeightChange struct {
	Target   WeightTarget
	Goal     float32
	Duration float32
}

// WeightTarget selects either a controller layer or a playable layer.
type WeightTarget struct {
	Playable     bool
	Layer        int
	PlayableKind PlayableKind
}

// OverrideController replaces clips of the controller it wraps. Runtime may
// itself be an override controller.
type OverrideController struct {
	ID        animmod.ObjectID
	Name      string
	Runtime   RuntimeController
	Overrides []ClipOverride
}

func (c *OverrideController) ControllerName() string { return c.Name }

// ClipOverride maps one clip to its replacement. A nil Override keeps
// the original.
type ClipOverride struct {
	Original *Clip
	Override *Clip
}
