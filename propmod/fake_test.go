package propmod

import (
	"errors"

	"github.com/speakeasy-api/animmod"
	"github.com/speakeasy-api/animmod/asset"
	"github.com/speakeasy-api/animmod/scene"
)

// fakeScene is an in-memory hierarchy. Paths are "/"-joined object names
// below the resolving root; components resolve to "<object>.<type>".
type fakeScene struct {
	root      animmod.ObjectID
	children  map[animmod.ObjectID][]animmod.ObjectID
	inactive  map[animmod.ObjectID]bool
	behaviors map[animmod.ObjectID][]scene.Behavior
	destroyed []func(animmod.ObjectID)
}

func newFakeScene(root animmod.ObjectID) *fakeScene {
	return &fakeScene{
		root:      root,
		children:  make(map[animmod.ObjectID][]animmod.ObjectID),
		inactive:  make(map[animmod.ObjectID]bool),
		behaviors: make(map[animmod.ObjectID][]scene.Behavior),
	}
}

// child adds object name under parent; its id is parent + "/" + name.
func (s *fakeScene) child(parent animmod.ObjectID, name string) animmod.ObjectID {
	id := parent + "/" + animmod.ObjectID(name)
	s.children[parent] = append(s.children[parent], id)
	return id
}

func (s *fakeScene) attach(b scene.Behavior) scene.Behavior {
	if b.Type == "" {
		b.Type = "Animator"
	}
	s.behaviors[b.Owner] = append(s.behaviors[b.Owner], b)
	return b
}

func (s *fakeScene) Root() animmod.ObjectID { return s.root }

func (s *fakeScene) Children(o animmod.ObjectID) []animmod.ObjectID { return s.children[o] }

func (s *fakeScene) ActiveSelf(o animmod.ObjectID) bool { return !s.inactive[o] }

func (s *fakeScene) Behaviors(o animmod.ObjectID) []scene.Behavior { return s.behaviors[o] }

func (s *fakeScene) Resolve(root animmod.ObjectID, path, componentType string) (animmod.ObjectID, bool) {
	target := root
	if path != "" {
		target = root + "/" + animmod.ObjectID(path)
	}
	if target != s.root && !s.exists(target) {
		return "", false
	}
	if componentType == asset.TypeGameObject {
		return target, true
	}
	return target + "." + animmod.ObjectID(componentType), true
}

func (s *fakeScene) exists(o animmod.ObjectID) bool {
	for _, kids := range s.children {
		for _, k := range kids {
			if k == o {
				return true
			}
		}
	}
	return false
}

func (s *fakeScene) OnBehaviorDestroyed(fn func(animmod.ObjectID)) {
	s.destroyed = append(s.destroyed, fn)
}

func (s *fakeScene) destroy(b animmod.ObjectID) {
	for _, fn := range s.destroyed {
		fn(b)
	}
}

type fakeClips struct {
	floats  map[*asset.Clip]map[asset.Binding][]asset.Keyframe
	objects map[*asset.Clip]map[asset.Binding][]asset.ObjectKeyframe
	meta    map[*asset.Clip]asset.ClipMetadata
	order   map[*asset.Clip][]asset.Binding
}

func newFakeClips() *fakeClips {
	return &fakeClips{
		floats:  make(map[*asset.Clip]map[asset.Binding][]asset.Keyframe),
		objects: make(map[*asset.Clip]map[asset.Binding][]asset.ObjectKeyframe),
		meta:    make(map[*asset.Clip]asset.ClipMetadata),
		order:   make(map[*asset.Clip][]asset.Binding),
	}
}

// clip creates a clip binding one float property to keys.
func (c *fakeClips) clip(name string, b asset.Binding, keys ...asset.Keyframe) *asset.Clip {
	clip := &asset.Clip{ID: animmod.ObjectID("clip:" + name), Name: name}
	c.bind(clip, b, keys...)
	return clip
}

func (c *fakeClips) bind(clip *asset.Clip, b asset.Binding, keys ...asset.Keyframe) {
	if c.floats[clip] == nil {
		c.floats[clip] = make(map[asset.Binding][]asset.Keyframe)
	}
	c.floats[clip][b] = keys
	c.order[clip] = append(c.order[clip], b)
}

func (c *fakeClips) bindObject(clip *asset.Clip, b asset.Binding, keys ...asset.ObjectKeyframe) {
	if c.objects[clip] == nil {
		c.objects[clip] = make(map[asset.Binding][]asset.ObjectKeyframe)
	}
	c.objects[clip][b] = keys
}

func (c *fakeClips) FloatBindings(clip *asset.Clip) []asset.Binding { return c.order[clip] }

func (c *fakeClips) ObjectBindings(clip *asset.Clip) []asset.Binding {
	var out []asset.Binding
	for b := range c.objects[clip] {
		out = append(out, b)
	}
	return out
}

func (c *fakeClips) FloatCurve(clip *asset.Clip, b asset.Binding) []asset.Keyframe {
	return c.floats[clip][b]
}

func (c *fakeClips) ObjectCurve(clip *asset.Clip, b asset.Binding) []asset.ObjectKeyframe {
	return c.objects[clip][b]
}

func (c *fakeClips) Metadata(clip *asset.Clip) asset.ClipMetadata { return c.meta[clip] }

type fakeGraphs struct {
	graphs   map[animmod.ObjectID]*asset.Graph
	defaults map[asset.PlayableKind]asset.RuntimeController
}

func newFakeGraphs() *fakeGraphs {
	return &fakeGraphs{
		graphs:   make(map[animmod.ObjectID]*asset.Graph),
		defaults: make(map[asset.PlayableKind]asset.RuntimeController),
	}
}

func (g *fakeGraphs) Graph(b animmod.ObjectID) (*asset.Graph, bool) {
	graph, ok := g.graphs[b]
	return graph, ok
}

func (g *fakeGraphs) DefaultPlayable(kind asset.PlayableKind) (asset.RuntimeController, error) {
	rc, ok := g.defaults[kind]
	if !ok {
		return nil, errors.New("no template for " + kind.String())
	}
	return rc, nil
}

// fixture bundles the fakes of one test scene.
type fixture struct {
	scene  *fakeScene
	clips  *fakeClips
	graphs *fakeGraphs
	muts   scene.MutatorTable
}

func newFixture() *fixture {
	return &fixture{
		scene:  newFakeScene("root"),
		clips:  newFakeClips(),
		graphs: newFakeGraphs(),
		muts:   scene.MutatorTable{},
	}
}

func (f *fixture) sources() Sources {
	return Sources{Scene: f.scene, Clips: f.clips, Graphs: f.graphs, Mutators: f.muts}
}

// animator attaches an animator behavior playing rc to owner.
func (f *fixture) animator(owner animmod.ObjectID, id string, rc asset.RuntimeController) scene.Behavior {
	b := f.scene.attach(scene.Behavior{ID: animmod.ObjectID(id), Owner: owner, Enabled: true})
	f.graphs.graphs[b.ID] = &asset.Graph{Kind: asset.GraphAnimator, Controller: rc}
	return b
}

func constant(v float32) []asset.Keyframe {
	return []asset.Keyframe{{Time: 0, Value: v}}
}

func linear(from, to float32) []asset.Keyframe {
	slope := to - from
	return []asset.Keyframe{
		{Time: 0, Value: from, OutTangent: slope},
		{Time: 1, Value: to, InTangent: slope},
	}
}

func transformProp(path, prop string) asset.Binding {
	return asset.Binding{Path: path, Type: asset.TypeTransform, Property: prop}
}

func oneLayer(name string, motions ...asset.Motion) *asset.Layer {
	sm := &asset.StateMachine{Name: name}
	for i, m := range motions {
		sm.States = append(sm.States, &asset.State{Name: name + "-" + string(rune('a'+i)), Motion: m})
	}
	return &asset.Layer{Name: name, DefaultWeight: 1, StateMachine: sm, SyncedLayerIndex: asset.NotSynced}
}

func controller(name string, layers ...*asset.Layer) *asset.Controller {
	return &asset.Controller{ID: animmod.ObjectID("ctrl:" + name), Name: name, Layers: layers}
}

func quietOptions() Options {
	opts := DefaultOptions()
	opts.Logger = NopLogger()
	return opts
}
