// Package scenefile loads scene documents: a YAML description of one
// hierarchy together with the clips, blend trees, controllers and graphs
// its behaviors play. A loaded Scene implements every collaborator the
// analysis needs.
package scenefile

// Document is the YAML root.
type Document struct {
	Root        Object          `yaml:"root"`
	Clips       []ClipDoc       `yaml:"clips" validate:"dive"`
	BlendTrees  []BlendTreeDoc  `yaml:"blendTrees" validate:"dive"`
	Controllers []ControllerDoc `yaml:"controllers" validate:"dive"`
	Overrides   []OverrideDoc   `yaml:"overrides" validate:"dive"`
	// DefaultPlayables maps a playable kind to the controller a default
	// slot of that kind plays.
	DefaultPlayables map[string]string        `yaml:"defaultPlayables" validate:"dive,keys,oneof=base additive gesture action fx,endkeys,required"`
	Mutators         map[string][]MutationDoc `yaml:"mutators" validate:"dive,dive"`
}

// Object is one node of the hierarchy. Its id is the "/"-joined path of
// names from the root.
type Object struct {
	Name      string        `yaml:"name" validate:"required,excludesall=/"`
	Active    *bool         `yaml:"active"`
	Behaviors []BehaviorDoc `yaml:"behaviors" validate:"dive"`
	Children  []Object      `yaml:"children" validate:"dive"`
}

type BehaviorDoc struct {
	ID      string    `yaml:"id" validate:"required"`
	Type    string    `yaml:"type" validate:"required"`
	Enabled *bool     `yaml:"enabled"`
	Graph   *GraphDoc `yaml:"graph"`
}

type GraphDoc struct {
	Kind       string        `yaml:"kind" validate:"required,oneof=animator legacy playable"`
	Controller string        `yaml:"controller" validate:"required_if=Kind animator"`
	Clip       string        `yaml:"clip" validate:"required_if=Kind legacy"`
	Playables  []PlayableDoc `yaml:"playables" validate:"required_if=Kind playable,dive"`
	Humanoid   bool          `yaml:"humanoid"`
	Bones      []string      `yaml:"bones"`
}

type PlayableDoc struct {
	Kind       string `yaml:"kind" validate:"required,oneof=base additive gesture action fx"`
	Controller string `yaml:"controller" validate:"required_without=Default,excluded_with=Default"`
	Default    bool   `yaml:"default"`
}

type ClipDoc struct {
	Name                  string           `yaml:"name" validate:"required"`
	AdditiveReference     string           `yaml:"additiveReference"`
	AdditiveReferenceTime float32          `yaml:"additiveReferenceTime" validate:"gte=0"`
	Curves                []CurveDoc       `yaml:"curves" validate:"dive"`
	ObjectCurves          []ObjectCurveDoc `yaml:"objectCurves" validate:"dive"`
}

// BindingDoc names a property relative to the animated object.
type BindingDoc struct {
	Path     string `yaml:"path"`
	Type     string `yaml:"type" validate:"required"`
	Property string `yaml:"property" validate:"required"`
}

type CurveDoc struct {
	BindingDoc `yaml:",inline"`
	Keys       []KeyDoc `yaml:"keys" validate:"dive"`
}

// KeyDoc is one key. Stepped holds the key's value until the next key.
type KeyDoc struct {
	Time    float32 `yaml:"time" validate:"gte=0"`
	Value   float32 `yaml:"value"`
	In      float32 `yaml:"in"`
	Out     float32 `yaml:"out"`
	Stepped bool    `yaml:"stepped"`
}

type ObjectCurveDoc struct {
	BindingDoc `yaml:",inline"`
	Keys       []ObjectKeyDoc `yaml:"keys" validate:"dive"`
}

type ObjectKeyDoc struct {
	Time  float32 `yaml:"time" validate:"gte=0"`
	Value string  `yaml:"value" validate:"required"`
}

type BlendTreeDoc struct {
	Name      string     `yaml:"name" validate:"required"`
	Algorithm string     `yaml:"algorithm" validate:"required,oneof=1d 2d-simple-directional 2d-freeform-directional 2d-freeform-cartesian direct"`
	Normalize bool       `yaml:"normalize"`
	Children  []ChildDoc `yaml:"children" validate:"dive"`
}

// ChildDoc is one blend tree child. An empty motion is a missing child.
type ChildDoc struct {
	Motion    string     `yaml:"motion"`
	Threshold float32    `yaml:"threshold"`
	Position  [2]float32 `yaml:"position,flow"`
	Parameter string     `yaml:"parameter"`
}

type ControllerDoc struct {
	Name   string     `yaml:"name" validate:"required"`
	Layers []LayerDoc `yaml:"layers" validate:"dive"`
}

type LayerDoc struct {
	Name string `yaml:"name" validate:"required"`
	// Weight defaults to 1.
	Weight        *float32          `yaml:"weight" validate:"omitempty,gte=0,lte=1"`
	Blending      string            `yaml:"blending" validate:"omitempty,oneof=override additive"`
	SyncedLayer   *int              `yaml:"syncedLayer" validate:"omitempty,gte=0"`
	SyncedMotions map[string]string `yaml:"syncedMotions"`

	// StateMachine is required unless the layer is synced.
	StateMachine *StateMachineDoc `yaml:"stateMachine"`
}

type StateMachineDoc struct {
	Name          string            `yaml:"name"`
	States        []StateDoc        `yaml:"states" validate:"dive"`
	Machines      []StateMachineDoc `yaml:"machines" validate:"dive"`
	WeightChanges []WeightChangeDoc `yaml:"weightChanges" validate:"dive"`
}

type StateDoc struct {
	Name          string            `yaml:"name" validate:"required"`
	Motion        string            `yaml:"motion"`
	WeightChanges []WeightChangeDoc `yaml:"weightChanges" validate:"dive"`
}

// WeightChangeDoc targets either a layer index of the controller in the
// named playable slot, or with Playable set the playable slot itself.
type WeightChangeDoc struct {
	Layer        int     `yaml:"layer" validate:"gte=0"`
	Playable     bool    `yaml:"playable"`
	PlayableKind string  `yaml:"playableKind" validate:"omitempty,oneof=base additive gesture action fx"`
	Goal         float32 `yaml:"goal"`
	Duration     float32 `yaml:"duration" validate:"gte=0"`
}

type OverrideDoc struct {
	Name    string            `yaml:"name" validate:"required"`
	Runtime string            `yaml:"runtime" validate:"required"`
	Clips   []ClipOverrideDoc `yaml:"clips" validate:"dive"`
}

type ClipOverrideDoc struct {
	Original string `yaml:"original" validate:"required"`
	Override string `yaml:"override"`
}

type MutationDoc struct {
	Property string `yaml:"property" validate:"required"`
	Self     bool   `yaml:"self"`
}
