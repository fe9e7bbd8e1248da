package scenefile

import (
	"errors"
	"fmt"

	"github.com/speakeasy-api/animmod"
	"github.com/speakeasy-api/animmod/asset"
	"github.com/speakeasy-api/animmod/scene"
)

var algorithms = map[string]animmod.BlendAlgorithm{
	"1d":                      animmod.Blend1D,
	"2d-simple-directional":   animmod.Blend2DSimpleDirectional,
	"2d-freeform-directional": animmod.Blend2DFreeformDirectional,
	"2d-freeform-cartesian":   animmod.Blend2DFreeformCartesian,
	"direct":                  animmod.BlendDirect,
}

var graphKinds = map[string]asset.GraphKind{
	"animator": asset.GraphAnimator,
	"legacy":   asset.GraphLegacy,
	"playable": asset.GraphPlayable,
}

// resolver turns names into asset pointers. Problems are collected so one
// load reports every broken reference.
type resolver struct {
	s        *Scene
	trees    map[string]*asset.BlendTree
	ctrls    map[string]*asset.Controller
	over     map[string]*asset.OverrideController
	problems []error
}

func (r *resolver) fail(format string, args ...any) {
	r.problems = append(r.problems, fmt.Errorf(format, args...))
}

func resolve(doc *Document) (*Scene, error) {
	s := &Scene{
		objects:     make(map[animmod.ObjectID]*object),
		behaviors:   make(map[animmod.ObjectID]*object),
		clips:       make(map[string]*asset.Clip),
		controllers: make(map[string]asset.RuntimeController),
		clipData:    make(map[*asset.Clip]*clipData),
		graphs:      make(map[animmod.ObjectID]*asset.Graph),
		defaults:    make(map[asset.PlayableKind]asset.RuntimeController),
		mutators:    scene.MutatorTable{},
	}
	r := &resolver{
		s:     s,
		trees: make(map[string]*asset.BlendTree),
		ctrls: make(map[string]*asset.Controller),
		over:  make(map[string]*asset.OverrideController),
	}

	// declare every named asset before wiring references between them
	for _, c := range doc.Clips {
		if r.declared(c.Name) {
			r.fail("motion %q declared twice", c.Name)
			continue
		}
		s.clips[c.Name] = &asset.Clip{ID: animmod.ObjectID("clip:" + c.Name), Name: c.Name}
	}
	for _, t := range doc.BlendTrees {
		if r.declared(t.Name) {
			r.fail("motion %q declared twice", t.Name)
			continue
		}
		r.trees[t.Name] = &asset.BlendTree{Name: t.Name, Algorithm: algorithms[t.Algorithm], NormalizeBlendValues: t.Normalize}
	}
	for _, c := range doc.Controllers {
		if r.controllerDeclared(c.Name) {
			r.fail("controller %q declared twice", c.Name)
			continue
		}
		r.ctrls[c.Name] = &asset.Controller{ID: animmod.ObjectID("controller:" + c.Name), Name: c.Name}
		s.controllers[c.Name] = r.ctrls[c.Name]
	}
	for _, o := range doc.Overrides {
		if r.controllerDeclared(o.Name) {
			r.fail("controller %q declared twice", o.Name)
			continue
		}
		r.over[o.Name] = &asset.OverrideController{ID: animmod.ObjectID("override:" + o.Name), Name: o.Name}
		s.controllers[o.Name] = r.over[o.Name]
	}

	for _, c := range doc.Clips {
		r.clip(c)
	}
	for _, t := range doc.BlendTrees {
		r.blendTree(t)
	}
	for _, c := range doc.Controllers {
		r.controller(c)
	}
	for _, o := range doc.Overrides {
		r.override(o)
	}
	for name, ctrl := range doc.DefaultPlayables {
		kind, err := asset.ParsePlayableKind(name)
		if err != nil {
			r.fail("defaultPlayables: %v", err)
			continue
		}
		if rc := r.runtime(ctrl, "defaultPlayables."+name); rc != nil {
			s.defaults[kind] = rc
		}
	}
	for typ, muts := range doc.Mutators {
		for _, m := range muts {
			s.mutators[typ] = append(s.mutators[typ], scene.Mutation{Property: m.Property, Self: m.Self})
		}
	}

	s.root = animmod.ObjectID(doc.Root.Name)
	r.object(doc.Root, s.root)

	if len(r.problems) > 0 {
		return nil, &ResolveError{Problems: r.problems}
	}
	return s, nil
}

func (r *resolver) declared(name string) bool {
	_, clip := r.s.clips[name]
	_, tree := r.trees[name]
	return clip || tree
}

func (r *resolver) controllerDeclared(name string) bool {
	_, ctrl := r.ctrls[name]
	_, over := r.over[name]
	return ctrl || over
}

// motion looks up a clip or blend tree. An empty name is a missing motion.
func (r *resolver) motion(name, where string) asset.Motion {
	if name == "" {
		return nil
	}
	if c, ok := r.s.clips[name]; ok {
		return c
	}
	if t, ok := r.trees[name]; ok {
		return t
	}
	r.fail("%s: unknown motion %q", where, name)
	return nil
}

func (r *resolver) runtime(name, where string) asset.RuntimeController {
	if c, ok := r.ctrls[name]; ok {
		return c
	}
	if o, ok := r.over[name]; ok {
		return o
	}
	r.fail("%s: unknown controller %q", where, name)
	return nil
}

func (r *resolver) clip(doc ClipDoc) {
	clip := r.s.clips[doc.Name]
	d := &clipData{
		floats:  make(map[asset.Binding][]asset.Keyframe),
		objects: make(map[asset.Binding][]asset.ObjectKeyframe),
	}
	for _, c := range doc.Curves {
		b := binding(c.BindingDoc)
		if _, dup := d.floats[b]; dup {
			r.fail("clip %q: curve %s/%s.%s bound twice", doc.Name, b.Path, b.Type, b.Property)
			continue
		}
		d.floatOrder = append(d.floatOrder, b)
		d.floats[b] = keyframes(c.Keys)
	}
	for _, c := range doc.ObjectCurves {
		b := binding(c.BindingDoc)
		keys := make([]asset.ObjectKeyframe, len(c.Keys))
		for i, k := range c.Keys {
			keys[i] = asset.ObjectKeyframe{Time: k.Time, Value: animmod.ObjectID(k.Value)}
		}
		d.objectOrder = append(d.objectOrder, b)
		d.objects[b] = keys
	}
	if doc.AdditiveReference != "" {
		ref, ok := r.s.clips[doc.AdditiveReference]
		if !ok {
			r.fail("clip %q: unknown additive reference %q", doc.Name, doc.AdditiveReference)
		}
		d.meta = asset.ClipMetadata{AdditiveReference: ref, AdditiveReferenceTime: doc.AdditiveReferenceTime}
	}
	r.s.clipData[clip] = d
}

func (r *resolver) blendTree(doc BlendTreeDoc) {
	tree := r.trees[doc.Name]
	for i, c := range doc.Children {
		tree.Children = append(tree.Children, asset.ChildMotion{
			Motion:          r.motion(c.Motion, fmt.Sprintf("blend tree %q child %d", doc.Name, i)),
			Threshold:       c.Threshold,
			Position:        c.Position,
			DirectParameter: c.Parameter,
		})
	}
}

func (r *resolver) controller(doc ControllerDoc) {
	ctrl := r.ctrls[doc.Name]
	for i, l := range doc.Layers {
		where := fmt.Sprintf("controller %q layer %d", doc.Name, i)
		layer := &asset.Layer{
			Name:             l.Name,
			DefaultWeight:    1,
			SyncedLayerIndex: asset.NotSynced,
		}
		if l.Weight != nil {
			layer.DefaultWeight = *l.Weight
		}
		if l.Blending == "additive" {
			layer.Blending = animmod.BlendAdditive
		}
		switch {
		case l.SyncedLayer != nil && l.StateMachine != nil:
			r.fail("%s: a synced layer cannot declare a state machine", where)
		case l.SyncedLayer != nil:
			layer.SyncedLayerIndex = *l.SyncedLayer
		case l.StateMachine != nil:
			layer.StateMachine = r.stateMachine(*l.StateMachine, where)
		default:
			r.fail("%s: stateMachine or syncedLayer is required", where)
		}
		if len(l.SyncedMotions) > 0 && l.SyncedLayer == nil {
			r.fail("%s: syncedMotions without syncedLayer", where)
		}
		ctrl.Layers = append(ctrl.Layers, layer)
	}

	// synced motions name states of the template layer
	for i, l := range doc.Layers {
		if l.SyncedLayer == nil || len(l.SyncedMotions) == 0 {
			continue
		}
		where := fmt.Sprintf("controller %q layer %d", doc.Name, i)
		idx := *l.SyncedLayer
		if idx >= len(ctrl.Layers) {
			// left to the analysis, which reports it per behavior
			continue
		}
		states := make(map[string]*asset.State)
		for _, st := range ctrl.Layers[idx].StateMachine.AllStates() {
			states[st.Name] = st
		}
		layer := ctrl.Layers[i]
		layer.SyncedMotions = make(map[*asset.State]asset.Motion)
		for stateName, motion := range l.SyncedMotions {
			st, ok := states[stateName]
			if !ok {
				r.fail("%s: synced state %q not found in layer %d", where, stateName, idx)
				continue
			}
			layer.SyncedMotions[st] = r.motion(motion, where)
		}
	}
}

func (r *resolver) stateMachine(doc StateMachineDoc, where string) *asset.StateMachine {
	sm := &asset.StateMachine{Name: doc.Name, WeightChanges: r.weightChanges(doc.WeightChanges, where)}
	for _, st := range doc.States {
		sm.States = append(sm.States, &asset.State{
			Name:          st.Name,
			Motion:        r.motion(st.Motion, where+" state "+st.Name),
			WeightChanges: r.weightChanges(st.WeightChanges, where),
		})
	}
	for _, sub := range doc.Machines {
		sm.Machines = append(sm.Machines, r.stateMachine(sub, where))
	}
	return sm
}

func (r *resolver) weightChanges(docs []WeightChangeDoc, where string) []asset.WeightChange {
	var out []asset.WeightChange
	for _, d := range docs {
		wc := asset.WeightChange{
			Target:   asset.WeightTarget{Playable: d.Playable, Layer: d.Layer},
			Goal:     d.Goal,
			Duration: d.Duration,
		}
		if d.PlayableKind != "" {
			kind, err := asset.ParsePlayableKind(d.PlayableKind)
			if err != nil {
				r.fail("%s: %v", where, err)
				continue
			}
			wc.Target.PlayableKind = kind
		} else if d.Playable {
			r.fail("%s: playable weight change requires playableKind", where)
			continue
		}
		out = append(out, wc)
	}
	return out
}

func (r *resolver) override(doc OverrideDoc) {
	o := r.over[doc.Name]
	o.Runtime = r.runtime(doc.Runtime, fmt.Sprintf("override %q", doc.Name))
	for _, c := range doc.Clips {
		orig, ok := r.s.clips[c.Original]
		if !ok {
			r.fail("override %q: unknown clip %q", doc.Name, c.Original)
			continue
		}
		var repl *asset.Clip
		if c.Override != "" {
			if repl, ok = r.s.clips[c.Override]; !ok {
				r.fail("override %q: unknown clip %q", doc.Name, c.Override)
				continue
			}
		}
		o.Overrides = append(o.Overrides, asset.ClipOverride{Original: orig, Override: repl})
	}
}

func (r *resolver) object(doc Object, id animmod.ObjectID) {
	if _, dup := r.s.objects[id]; dup {
		r.fail("object %q declared twice", id)
		return
	}
	o := &object{id: id, active: doc.Active == nil || *doc.Active}
	r.s.objects[id] = o
	for _, b := range doc.Behaviors {
		bid := animmod.ObjectID(b.ID)
		if _, dup := r.s.behaviors[bid]; dup {
			r.fail("behavior %q declared twice", b.ID)
			continue
		}
		o.behaviors = append(o.behaviors, scene.Behavior{
			ID:      bid,
			Type:    b.Type,
			Owner:   id,
			Enabled: b.Enabled == nil || *b.Enabled,
		})
		r.s.behaviors[bid] = o
		if b.Graph != nil {
			r.s.graphs[bid] = r.graph(*b.Graph, "behavior "+b.ID)
		}
	}
	for _, c := range doc.Children {
		child := id + "/" + animmod.ObjectID(c.Name)
		o.children = append(o.children, child)
		r.object(c, child)
	}
}

func (r *resolver) graph(doc GraphDoc, where string) *asset.Graph {
	g := &asset.Graph{
		Kind:       graphKinds[doc.Kind],
		Humanoid:   doc.Humanoid,
		HumanBones: doc.Bones,
	}
	switch g.Kind {
	case asset.GraphAnimator:
		g.Controller = r.runtime(doc.Controller, where)
	case asset.GraphLegacy:
		if c, ok := r.s.clips[doc.Clip]; ok {
			g.LegacyClip = c
		} else {
			r.fail("%s: unknown clip %q", where, doc.Clip)
		}
	case asset.GraphPlayable:
		for _, p := range doc.Playables {
			kind, err := asset.ParsePlayableKind(p.Kind)
			if err != nil {
				r.fail("%s: %v", where, err)
				continue
			}
			pl := asset.PlayableLayer{Kind: kind, Default: p.Default}
			if !p.Default {
				pl.Controller = r.runtime(p.Controller, fmt.Sprintf("%s playable %s", where, p.Kind))
			}
			g.Playables = append(g.Playables, pl)
		}
	}
	return g
}

// ResolveError lists every broken reference of a document.
type ResolveError struct {
	Problems []error
}

func (e *ResolveError) Error() string {
	if len(e.Problems) == 1 {
		return e.Problems[0].Error()
	}
	return fmt.Sprintf("%d problems in scene document: %v", len(e.Problems), errors.Join(e.Problems...))
}

func (e *ResolveError) Unwrap() []error { return e.Problems }
