// Package scene defines how the analysis sees a scene hierarchy: objects,
// the behaviors attached to them and their statically declared defaults.
package scene

import "github.com/speakeasy-api/animmod"

const (
	// PropIsActive is the activation property of an object.
	PropIsActive = "m_IsActive"
	// PropEnabled is the enablement property of a behavior.
	PropEnabled = "m_Enabled"
)

// Behavior is a component attached to an object.
type Behavior struct {
	ID      animmod.ObjectID
	Type    string
	Owner   animmod.ObjectID
	Enabled bool
}

// Provider enumerates a hierarchy.
type Provider interface {
	Root() animmod.ObjectID
	Children(object animmod.ObjectID) []animmod.ObjectID
	// ActiveSelf is the object's own authored activation flag.
	ActiveSelf(object animmod.ObjectID) bool
	Behaviors(object animmod.ObjectID) []Behavior
	// Resolve finds the entity a binding targets. path is relative to root;
	// componentType "GameObject" resolves to the object itself.
	Resolve(root animmod.ObjectID, path, componentType string) (animmod.ObjectID, bool)
}

// MutatorDeclarations lists properties a behavior changes by means other
// than animation.
type MutatorDeclarations interface {
	Mutations(b Behavior) []animmod.PropertyKey
}

// MutatorTable declares mutations per behavior type. Properties are on the
// behavior's owner object unless Self is set.
type MutatorTable map[string][]Mutation

// Mutation is one declared property.
type Mutation struct {
	Property string
	// Self targets the behavior itself instead of its owner object.
	Self bool
}

func (t MutatorTable) Mutations(b Behavior) []animmod.PropertyKey {
	decl := t[b.Type]
	keys := make([]animmod.PropertyKey, 0, len(decl))
	for _, m := range decl {
		target := b.Owner
		if m.Self {
			target = b.ID
		}
		keys = append(keys, animmod.Key(target, m.Property))
	}
	return keys
}

// DestroyNotifier is implemented by providers whose behaviors can be
// destroyed while an analysis session is alive.
type DestroyNotifier interface {
	OnBehaviorDestroyed(fn func(behavior animmod.ObjectID))
}
