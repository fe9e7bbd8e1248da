package animmod

import "fmt"

// ObjectID identifies a scene entity (object, component or asset) by
// identity. Two entities with equal contents but different identities
// have different ids.
type ObjectID string

// PropertyKey identifies one animatable property on one target entity.
type PropertyKey struct {
	Target   ObjectID
	Property string
}

// Key is a convenience constructor for PropertyKey.
func Key(target ObjectID, property string) PropertyKey {
	return PropertyKey{Target: target, Property: property}
}

func (k PropertyKey) String() string {
	return fmt.Sprintf("%s:%s", k.Target, k.Property)
}

// Less orders keys by target, then property name.
func (k PropertyKey) Less(o PropertyKey) bool {
	if k.Target != o.Target {
		return k.Target < o.Target
	}
	return k.Property < o.Property
}
