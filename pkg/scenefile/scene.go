package scenefile

import (
	"fmt"
	"math"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/speakeasy-api/animmod"
	"github.com/speakeasy-api/animmod/asset"
	"github.com/speakeasy-api/animmod/propmod"
	"github.com/speakeasy-api/animmod/scene"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Scene is a loaded, cross-referenced document.
type Scene struct {
	root      animmod.ObjectID
	objects   map[animmod.ObjectID]*object
	behaviors map[animmod.ObjectID]*object // behavior id -> owner

	clips       map[string]*asset.Clip
	controllers map[string]asset.RuntimeController
	clipData    map[*asset.Clip]*clipData
	graphs      map[animmod.ObjectID]*asset.Graph
	defaults    map[asset.PlayableKind]asset.RuntimeController
	mutators    scene.MutatorTable

	mu        sync.Mutex
	listeners []func(animmod.ObjectID)
}

type object struct {
	id        animmod.ObjectID
	active    bool
	children  []animmod.ObjectID
	behaviors []scene.Behavior
}

type clipData struct {
	floatOrder  []asset.Binding
	floats      map[asset.Binding][]asset.Keyframe
	objectOrder []asset.Binding
	objects     map[asset.Binding][]asset.ObjectKeyframe
	meta        asset.ClipMetadata
}

// Load reads and resolves a scene document from path.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes, validates and resolves a scene document.
func Parse(data []byte) (*Scene, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse scene document: %w", err)
	}
	if err := validate.Struct(&doc); err != nil {
		return nil, &ValidationError{Err: err}
	}
	return resolve(&doc)
}

// Sources returns the collaborators of an analysis over s.
func (s *Scene) Sources() propmod.Sources {
	return propmod.Sources{Scene: s, Clips: s, Graphs: s, Mutators: s}
}

// Clip returns a clip by name.
func (s *Scene) Clip(name string) (*asset.Clip, bool) {
	c, ok := s.clips[name]
	return c, ok
}

// Controller returns a controller or override controller by name.
func (s *Scene) Controller(name string) (asset.RuntimeController, bool) {
	rc, ok := s.controllers[name]
	return rc, ok
}

// -- scene.Provider

func (s *Scene) Root() animmod.ObjectID { return s.root }

func (s *Scene) Children(id animmod.ObjectID) []animmod.ObjectID {
	if o, ok := s.objects[id]; ok {
		return o.children
	}
	return nil
}

func (s *Scene) ActiveSelf(id animmod.ObjectID) bool {
	o, ok := s.objects[id]
	return ok && o.active
}

func (s *Scene) Behaviors(id animmod.ObjectID) []scene.Behavior {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.objects[id]; ok {
		return append([]scene.Behavior(nil), o.behaviors...)
	}
	return nil
}

// Resolve finds path below root. GameObject resolves to the object,
// Transform to its transform, and any other type to the object's first
// behavior of that type.
func (s *Scene) Resolve(root animmod.ObjectID, path, componentType string) (animmod.ObjectID, bool) {
	id := root
	if path != "" {
		id = root + "/" + animmod.ObjectID(strings.Trim(path, "/"))
	}
	o, ok := s.objects[id]
	if !ok {
		return "", false
	}
	switch componentType {
	case asset.TypeGameObject:
		return id, true
	case asset.TypeTransform:
		return TransformOf(id), true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range o.behaviors {
		if b.Type == componentType {
			return b.ID, true
		}
	}
	return "", false
}

// TransformOf is the id of an object's transform.
func TransformOf(object animmod.ObjectID) animmod.ObjectID {
	return object + "#Transform"
}

// -- scene.MutatorDeclarations

func (s *Scene) Mutations(b scene.Behavior) []animmod.PropertyKey {
	return s.mutators.Mutations(b)
}

// -- scene.DestroyNotifier

func (s *Scene) OnBehaviorDestroyed(fn func(animmod.ObjectID)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Destroy removes a behavior from the hierarchy and notifies listeners.
// It reports false for unknown behaviors.
func (s *Scene) Destroy(id animmod.ObjectID) bool {
	s.mu.Lock()
	owner, ok := s.behaviors[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.behaviors, id)
	for i, b := range owner.behaviors {
		if b.ID == id {
			owner.behaviors = append(owner.behaviors[:i:i], owner.behaviors[i+1:]...)
			break
		}
	}
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(id)
	}
	return true
}

// -- asset.ClipSource

func (s *Scene) FloatBindings(c *asset.Clip) []asset.Binding {
	if d, ok := s.clipData[c]; ok {
		return d.floatOrder
	}
	return nil
}

func (s *Scene) ObjectBindings(c *asset.Clip) []asset.Binding {
	if d, ok := s.clipData[c]; ok {
		return d.objectOrder
	}
	return nil
}

func (s *Scene) FloatCurve(c *asset.Clip, b asset.Binding) []asset.Keyframe {
	if d, ok := s.clipData[c]; ok {
		return d.floats[b]
	}
	return nil
}

func (s *Scene) ObjectCurve(c *asset.Clip, b asset.Binding) []asset.ObjectKeyframe {
	if d, ok := s.clipData[c]; ok {
		return d.objects[b]
	}
	return nil
}

func (s *Scene) Metadata(c *asset.Clip) asset.ClipMetadata {
	if d, ok := s.clipData[c]; ok {
		return d.meta
	}
	return asset.ClipMetadata{}
}

// -- asset.GraphSource

func (s *Scene) Graph(b animmod.ObjectID) (*asset.Graph, bool) {
	g, ok := s.graphs[b]
	return g, ok
}

func (s *Scene) DefaultPlayable(kind asset.PlayableKind) (asset.RuntimeController, error) {
	rc, ok := s.defaults[kind]
	if !ok {
		return nil, fmt.Errorf("no default controller declared for %s", kind)
	}
	return rc, nil
}

func keyframes(docs []KeyDoc) []asset.Keyframe {
	keys := make([]asset.Keyframe, len(docs))
	for i, k := range docs {
		keys[i] = asset.Keyframe{Time: k.Time, Value: k.Value, InTangent: k.In, OutTangent: k.Out}
		if k.Stepped {
			keys[i].OutTangent = float32(math.Inf(1))
		}
	}
	return keys
}

func binding(d BindingDoc) asset.Binding {
	return asset.Binding{Path: d.Path, Type: d.Type, Property: d.Property}
}
