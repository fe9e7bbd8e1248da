package propmod

import (
	"fmt"

	"github.com/speakeasy-api/animmod"
	"github.com/speakeasy-api/animmod/asset"
	"github.com/speakeasy-api/animmod/scene"
)

// leafKey identifies one parsed curve. Curves read with an additive
// reference pose are cached apart from plain reads.
type leafKey struct {
	clip    *asset.Clip
	binding asset.Binding
	object  bool
	ref     *asset.Clip
	refTime float32
}

// clipKey identifies the container of one clip played under one root.
type clipKey struct {
	root     animmod.ObjectID
	clip     *asset.Clip
	additive bool
}

type clipEntry struct {
	nodes *NodeContainer
	// muscles is set when the clip binds humanoid muscles.
	muscles bool
}

// graphBuilder builds the container of one behavior.
type graphBuilder struct {
	s        *Session
	behavior scene.Behavior
	log      Logger

	subst    map[*asset.Clip]*asset.Clip
	muscles  bool
	visiting map[*asset.BlendTree]bool

	// configuration problems that dropped a feature path
	config []*BehaviorError
}

func (s *Session) newGraphBuilder(b scene.Behavior) *graphBuilder {
	return &graphBuilder{
		s:        s,
		behavior: b,
		log:      s.log.Behavior(b.ID),
		visiting: make(map[*asset.BlendTree]bool),
	}
}

// build returns every property the behavior's graph and declared
// mutations may modify. A nil graph is a behavior that only mutates.
func (g *graphBuilder) build(graph *asset.Graph) (*NodeContainer, error) {
	nodes := NewNodeContainer()
	if graph != nil {
		var err error
		switch graph.Kind {
		case asset.GraphAnimator:
			nodes, err = g.animatorContainer(graph.Controller)
		case asset.GraphLegacy:
			nodes, err = g.legacyContainer(graph.LegacyClip)
		case asset.GraphPlayable:
			nodes, err = g.playableContainer(graph.Playables)
		default:
			err = assetError(ClassStructural, "", fmt.Errorf("%w: %d", ErrUnknownGraph, graph.Kind))
		}
		if err != nil {
			return nil, err
		}
		if graph.Humanoid && g.muscles {
			nodes = g.addHumanoidBones(nodes, graph.HumanBones)
		}
	}
	if g.s.src.Mutators != nil {
		if keys := g.s.src.Mutators.Mutations(g.behavior); len(keys) > 0 {
			nodes = nodes.Clone()
			for _, key := range keys {
				nodes.Set(key, newVariableNode(animmod.Always))
			}
		}
	}
	return nodes, nil
}

func (g *graphBuilder) legacyContainer(clip *asset.Clip) (*NodeContainer, error) {
	if clip == nil {
		return NewNodeContainer(), nil
	}
	return g.clipContainer(clip, false), nil
}

// addHumanoidBones marks the rotation of every mapped bone as driven by
// the rig. Bones that do not resolve to a transform are ignored.
func (g *graphBuilder) addHumanoidBones(nodes *NodeContainer, bones []string) *NodeContainer {
	nodes = nodes.Clone()
	root := g.behavior.Owner
	for _, path := range bones {
		target, ok := g.s.src.Scene.Resolve(root, path, asset.TypeTransform)
		if !ok {
			g.log.Debugf("humanoid bone %q does not resolve", path)
			continue
		}
		for _, prop := range g.s.opts.HumanoidRotationProperties {
			nodes.Set(animmod.Key(target, prop), newVariableNode(animmod.Always))
		}
	}
	return nodes
}

// resolveController follows an override chain down to its controller and
// returns the clip substitutions it implies. A nil controller anywhere in
// the chain plays nothing.
func resolveController(rc asset.RuntimeController) (*asset.Controller, map[*asset.Clip]*asset.Clip, error) {
	var chain []*asset.OverrideController
	seen := make(map[*asset.OverrideController]bool)
	for {
		switch c := rc.(type) {
		case nil:
			return nil, nil, nil
		case *asset.Controller:
			if c == nil {
				return nil, nil, nil
			}
			subst := make(map[*asset.Clip]*asset.Clip)
			// inner tables first so outer overrides win and chain through
			for i := len(chain) - 1; i >= 0; i-- {
				applyOverrides(subst, chain[i].Overrides)
			}
			return c, subst, nil
		case *asset.OverrideController:
			if c == nil {
				return nil, nil, nil
			}
			if seen[c] {
				return nil, nil, assetError(ClassStructural, c.Name, ErrControllerCycle)
			}
			seen[c] = true
			chain = append(chain, c)
			rc = c.Runtime
		default:
			return nil, nil, assetError(ClassStructural, rc.ControllerName(), fmt.Errorf("%w: %T", ErrUnknownController, rc))
		}
	}
}

// applyOverrides layers one override table on top of subst. Entries of a
// table replace their originals independently: a clip that an inner table
// already mapped to o.Original is redirected to o.Override, but mappings from
// the same table never chain.
func applyOverrides(subst map[*asset.Clip]*asset.Clip, overrides []asset.ClipOverride) {
	table := make(map[*asset.Clip]*asset.Clip, len(overrides))
	for _, o := range overrides {
		if o.Original == nil || o.Override == nil {
			continue
		}
		table[o.Original] = o.Override
	}
	for k, v := range subst {
		if o, ok := table[v]; ok {
			subst[k] = o
		}
	}
	for original, o := range table {
		subst[original] = o
	}
}

// weightChanges collects the weight-change behaviors of every layer that
// owns a state machine.
func weightChanges(ctrl *asset.Controller) []asset.WeightChange {
	var changes []asset.WeightChange
	for _, layer := range ctrl.Layers {
		if layer == nil || layer.Synced() {
			continue
		}
		changes = append(changes, layer.StateMachine.AllWeightChanges()...)
	}
	return changes
}

// layerWeights merges the dynamic observations of layer targets.
func layerWeights(changes []asset.WeightChange, match func(asset.WeightTarget) bool) map[int]animmod.WeightState {
	weights := make(map[int]animmod.WeightState)
	for _, wc := range changes {
		if wc.Target.Playable || !match(wc.Target) {
			continue
		}
		weights[wc.Target.Layer] = weights[wc.Target.Layer].Merge(animmod.WeightStateFor(wc.Duration, wc.Goal))
	}
	return weights
}

func (g *graphBuilder) animatorContainer(rc asset.RuntimeController) (*NodeContainer, error) {
	ctrl, subst, err := resolveController(rc)
	if err != nil || ctrl == nil {
		return NewNodeContainer(), err
	}
	g.subst = subst
	dynamic := layerWeights(weightChanges(ctrl), func(asset.WeightTarget) bool { return true })
	return g.controllerContainer(ctrl, dynamic)
}

// controllerContainer stacks the layers of ctrl. dynamic holds the merged
// weight observations per layer index.
func (g *graphBuilder) controllerContainer(ctrl *asset.Controller, dynamic map[int]animmod.WeightState) (*NodeContainer, error) {
	var sources []weightedSource
	for i, layer := range ctrl.Layers {
		if layer == nil {
			continue
		}
		weight := animmod.WeightAlwaysOne
		if i > 0 {
			weight = animmod.EffectiveWeight(layer.DefaultWeight, dynamic[i])
		}
		if weight == animmod.WeightAlwaysZero {
			g.log.Debugf("layer %d (%s) of %s never contributes", i, layer.Name, ctrl.Name)
			continue
		}
		nodes, err := g.layerContainer(ctrl, i)
		if err != nil {
			return nil, err
		}
		sources = append(sources, weightedSource{nodes: nodes, weight: weight, mode: layer.Blending, index: i})
	}
	nodes, err := stackContainers(NodeController, sources)
	if err != nil {
		return nil, assetError(ClassStructural, ctrl.Name, err)
	}
	return nodes, nil
}

// layerMotions returns the motion played by each state of layer i. Synced
// layers substitute their own motions into the template's states.
func layerMotions(ctrl *asset.Controller, i int) ([]asset.Motion, error) {
	layer := ctrl.Layers[i]
	if !layer.Synced() {
		var motions []asset.Motion
		for _, st := range layer.StateMachine.AllStates() {
			motions = append(motions, st.Motion)
		}
		return motions, nil
	}
	idx := layer.SyncedLayerIndex
	if idx < 0 || idx >= len(ctrl.Layers) || idx == i || ctrl.Layers[idx] == nil || ctrl.Layers[idx].Synced() {
		return nil, fmt.Errorf("%w: layer %d syncs to %d", ErrInvalidSyncedLayer, i, idx)
	}
	var motions []asset.Motion
	for _, st := range ctrl.Layers[idx].StateMachine.AllStates() {
		m, ok := layer.SyncedMotions[st]
		if !ok {
			m = st.Motion
		}
		motions = append(motions, m)
	}
	return motions, nil
}

func (g *graphBuilder) layerContainer(ctrl *asset.Controller, i int) (*NodeContainer, error) {
	motions, err := layerMotions(ctrl, i)
	if err != nil {
		return nil, assetError(ClassStructural, ctrl.Name, err)
	}
	additive := ctrl.Layers[i].Blending == animmod.BlendAdditive
	var states []*NodeContainer
	skipped := 0
	for _, m := range motions {
		if isNilMotion(m) {
			skipped++
			continue
		}
		nodes, err := g.motionContainer(m, additive)
		if err != nil {
			return nil, err
		}
		states = append(states, nodes)
	}
	nodes, err := stateContainers(states, skipped)
	if err != nil {
		return nil, assetError(ClassStructural, ctrl.Name, err)
	}
	return nodes, nil
}

func isNilMotion(m asset.Motion) bool {
	switch m := m.(type) {
	case nil:
		return true
	case *asset.Clip:
		return m == nil
	case *asset.BlendTree:
		return m == nil
	default:
		return false
	}
}

func (g *graphBuilder) motionContainer(m asset.Motion, additive bool) (*NodeContainer, error) {
	switch m := m.(type) {
	case *asset.Clip:
		if o, ok := g.subst[m]; ok {
			m = o
		}
		return g.clipContainer(m, additive), nil
	case *asset.BlendTree:
		if g.visiting[m] {
			return nil, assetError(ClassStructural, m.Name, ErrMotionCycle)
		}
		g.visiting[m] = true
		defer delete(g.visiting, m)

		var children []*NodeContainer
		dropped := 0
		for _, child := range m.Children {
			if isNilMotion(child.Motion) {
				dropped++
				continue
			}
			nodes, err := g.motionContainer(child.Motion, additive)
			if err != nil {
				return nil, err
			}
			children = append(children, nodes)
		}
		nodes, err := blendContainers(m, children, dropped)
		if err != nil {
			return nil, assetError(ClassStructural, m.Name, err)
		}
		return nodes, nil
	default:
		return nil, assetError(ClassStructural, fmt.Sprintf("%T", m), fmt.Errorf("%w: %T", ErrUnknownMotion, m))
	}
}

// clipContainer reads every binding of clip under the behavior's object.
// Bindings that do not resolve in the hierarchy are ignored.
func (g *graphBuilder) clipContainer(clip *asset.Clip, additive bool) *NodeContainer {
	s := g.s
	root := g.behavior.Owner
	key := clipKey{root: root, clip: clip, additive: additive}
	if s.opts.EnableMemo {
		if e, ok := s.clipCache[key]; ok {
			g.muscles = g.muscles || e.muscles
			return e.nodes
		}
	}

	var e clipEntry
	e.nodes = NewNodeContainer()
	meta := s.src.Clips.Metadata(clip)
	var ref *asset.Clip
	if additive {
		ref = meta.AdditiveReference
	}
	for _, b := range s.src.Clips.FloatBindings(clip) {
		if b.IsHumanoidMuscle() {
			e.muscles = true
			continue
		}
		target, ok := s.src.Scene.Resolve(root, b.Path, b.Type)
		if !ok {
			continue
		}
		e.nodes.Set(animmod.Key(target, b.Property), s.floatLeaf(clip, b, ref, meta.AdditiveReferenceTime))
	}
	for _, b := range s.src.Clips.ObjectBindings(clip) {
		target, ok := s.src.Scene.Resolve(root, b.Path, b.Type)
		if !ok {
			continue
		}
		e.nodes.Set(animmod.Key(target, b.Property), s.objectLeaf(clip, b))
	}

	if s.opts.EnableMemo {
		s.clipCache[key] = e
	}
	g.muscles = g.muscles || e.muscles
	return e.nodes
}

func (s *Session) cachedLeaf(key leafKey, build func() Node) Node {
	if !s.opts.EnableMemo {
		return build()
	}
	if n, ok := s.leaves[key]; ok {
		leafCacheLookups.WithLabelValues("hit").Inc()
		return n
	}
	leafCacheLookups.WithLabelValues("miss").Inc()
	n := build()
	s.leaves[key] = n
	return n
}

// floatLeaf parses one float curve. ref, when set, is the additive
// reference pose clip sampled at refTime.
func (s *Session) floatLeaf(clip *asset.Clip, b asset.Binding, ref *asset.Clip, refTime float32) Node {
	if ref == nil {
		refTime = 0
	}
	key := leafKey{clip: clip, binding: b, ref: ref, refTime: refTime}
	return s.cachedLeaf(key, func() Node {
		var reference *float32
		if ref != nil {
			if v, ok := asset.Evaluate(s.src.Clips.FloatCurve(ref, b), refTime); ok {
				reference = &v
			}
		}
		n := newCurveNode(s.src.Clips.FloatCurve(clip, b), reference)
		n.value = n.value.Widen(s.opts.MaxValueSetSize)
		return n
	})
}

func (s *Session) objectLeaf(clip *asset.Clip, b asset.Binding) Node {
	key := leafKey{clip: clip, binding: b, object: true}
	return s.cachedLeaf(key, func() Node {
		return newObjectCurveNode(s.src.Clips.ObjectCurve(clip, b))
	})
}

// playableSlot is one resolved slot of a playable stack.
type playableSlot struct {
	kind  asset.PlayableKind
	ctrl  *asset.Controller
	subst map[*asset.Clip]*asset.Clip
}

func (g *graphBuilder) resolvePlayables(layers []asset.PlayableLayer) ([]playableSlot, error) {
	var slots []playableSlot
	for _, pl := range layers {
		rc := pl.Controller
		if pl.Default {
			var err error
			rc, err = g.s.src.Graphs.DefaultPlayable(pl.Kind)
			if err != nil {
				g.config = append(g.config, assetError(ClassConfiguration, pl.Kind.String(),
					fmt.Errorf("%w: %v", ErrDefaultPlayable, err)))
				continue
			}
		}
		ctrl, subst, err := resolveController(rc)
		if err != nil {
			return nil, err
		}
		if ctrl == nil {
			continue
		}
		slots = append(slots, playableSlot{kind: pl.Kind, ctrl: ctrl, subst: subst})
	}
	return slots, nil
}

// playableContainer stacks the controllers of a playable graph. Weight
// changes anywhere in the stack may target a playable or a layer of the
// controller in a given playable.
func (g *graphBuilder) playableContainer(layers []asset.PlayableLayer) (*NodeContainer, error) {
	slots, err := g.resolvePlayables(layers)
	if err != nil {
		return nil, err
	}
	var changes []asset.WeightChange
	for _, slot := range slots {
		changes = append(changes, weightChanges(slot.ctrl)...)
	}
	playable := make(map[asset.PlayableKind]animmod.WeightState)
	for _, wc := range changes {
		if wc.Target.Playable {
			k := wc.Target.PlayableKind
			playable[k] = playable[k].Merge(animmod.WeightStateFor(wc.Duration, wc.Goal))
		}
	}

	var sources []weightedSource
	for _, slot := range slots {
		weight := animmod.EffectiveWeight(1, playable[slot.kind])
		if weight == animmod.WeightAlwaysZero {
			g.log.Debugf("playable %s never contributes", slot.kind)
			continue
		}
		kind := slot.kind
		dynamic := layerWeights(changes, func(t asset.WeightTarget) bool { return t.PlayableKind == kind })
		g.subst = slot.subst
		nodes, err := g.controllerContainer(slot.ctrl, dynamic)
		if err != nil {
			return nil, err
		}
		sources = append(sources, weightedSource{nodes: nodes, weight: weight, mode: slot.kind.Blending(), index: int(slot.kind)})
	}
	g.subst = nil
	nodes, err := stackContainers(NodePlayable, sources)
	if err != nil {
		return nil, assetError(ClassStructural, "playable stack", err)
	}
	return nodes, nil
}
