package propmod

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/speakeasy-api/animmod"
	"github.com/speakeasy-api/animmod/asset"
	"github.com/speakeasy-api/animmod/scene"
)

// Sources are the collaborators an analysis reads from. Mutators is
// optional.
type Sources struct {
	Scene    scene.Provider
	Clips    asset.ClipSource
	Graphs   asset.GraphSource
	Mutators scene.MutatorDeclarations
}

// Stats counts what one run visited.
type Stats struct {
	Objects        int
	SkippedObjects int
	Behaviors      int
	Skipped        int
	Duration       time.Duration
}

// Result is the outcome of one run.
type Result struct {
	SessionID   string
	Table       *Table
	Diagnostics []Diagnostic
	Stats       Stats
}

// String returns a short description of the result for debugging.
func (r *Result) String() string {
	if r == nil {
		return "<nil>"
	}
	return fmt.Sprintf("Result{Session: %s, Properties: %d, Diagnostics: %d}",
		r.SessionID, r.Table.Len(), len(r.Diagnostics))
}

// Session analyzes one scene. The table it builds stays live after Run:
// destroyed behaviors are removed from it until the next Run.
//
// A Session is not safe for concurrent use.
type Session struct {
	id   string
	src  Sources
	opts Options
	log  Logger

	table     *Table
	leaves    map[leafKey]Node
	clipCache map[clipKey]clipEntry
	diags     []Diagnostic
}

// NewSession validates the collaborators and subscribes to destroy
// notifications when the scene provides them.
func NewSession(src Sources, opts Options) (*Session, error) {
	switch {
	case src.Scene == nil:
		return nil, errors.New("scene provider cannot be nil")
	case src.Clips == nil:
		return nil, errors.New("clip source cannot be nil")
	case src.Graphs == nil:
		return nil, errors.New("graph source cannot be nil")
	}
	id := uuid.NewString()
	s := &Session{
		id:    id,
		src:   src,
		opts:  opts,
		log:   opts.logger().Session(id),
		table: NewTable(),
	}
	if n, ok := src.Scene.(scene.DestroyNotifier); ok {
		n.OnBehaviorDestroyed(func(b animmod.ObjectID) { s.Remove(b) })
	}
	return s, nil
}

// ID returns the session id attached to every log line.
func (s *Session) ID() string { return s.id }

// Table returns the live table of the last run.
func (s *Session) Table() *Table { return s.table }

// Remove drops a destroyed behavior's contributions and returns the number
// of properties it touched.
func (s *Session) Remove(behavior animmod.ObjectID) int {
	n := s.table.remove(behavior)
	if n > 0 {
		s.log.Infof("removed behavior %s from %d properties", behavior, n)
	}
	return n
}

// Run walks the whole scene depth-first and rebuilds the table. It fails
// only on cancellation or, in strict mode, on the first structural error.
func (s *Session) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	s.table = NewTable()
	s.leaves = make(map[leafKey]Node)
	s.clipCache = make(map[clipKey]clipEntry)
	s.diags = nil

	var stats Stats
	wl := newObjectWorklist()
	wl.push(walkItem{object: s.src.Scene.Root(), active: animmod.Always})
	for !wl.isEmpty() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item, _ := wl.pop()
		stats.Objects++

		own, _ := s.table.Get(animmod.Key(item.object, scene.PropIsActive))
		active := item.active.Multiply(activeness(s.src.Scene.ActiveSelf(item.object), own))
		if active == animmod.Never {
			s.log.Debugf("object %s is never active, skipping subtree", item.object)
			stats.SkippedObjects++
			continue
		}
		for _, b := range s.src.Scene.Behaviors(item.object) {
			ran, err := s.analyzeBehavior(b, active)
			if err != nil {
				return nil, err
			}
			if ran {
				stats.Behaviors++
			} else {
				stats.Skipped++
			}
		}
		wl.pushChildren(s.src.Scene.Children(item.object), active)
	}

	stats.Duration = time.Since(start)
	walkDuration.Observe(stats.Duration.Seconds())
	s.log.Infof("analyzed %d behaviors on %d objects: %d properties, %d diagnostics",
		stats.Behaviors, stats.Objects, s.table.Len(), len(s.diags))
	return &Result{
		SessionID:   s.id,
		Table:       s.table,
		Diagnostics: s.diags,
		Stats:       stats,
	}, nil
}

// analyzeBehavior adds one behavior's contribution to the table. It
// reports false when the behavior is never enabled or modifies nothing.
func (s *Session) analyzeBehavior(b scene.Behavior, active animmod.ApplyState) (bool, error) {
	own, _ := s.table.Get(animmod.Key(b.ID, scene.PropEnabled))
	applied := active.Multiply(activeness(b.Enabled, own))
	if applied == animmod.Never {
		s.log.Debugf("behavior %s is never enabled", b.ID)
		return false, nil
	}

	graph, hasGraph := s.src.Graphs.Graph(b.ID)
	label := "none"
	if hasGraph && graph != nil {
		label = graph.Kind.String()
	} else {
		graph = nil
	}

	g := s.newGraphBuilder(b)
	nodes, err := g.build(graph)
	for _, cerr := range g.config {
		s.record(b.ID, cerr)
	}
	if err != nil {
		if ferr := s.fail(b.ID, err); ferr != nil {
			return false, ferr
		}
		return false, nil
	}
	if nodes.Len() == 0 {
		return false, nil
	}
	behaviorsAnalyzed.WithLabelValues(label).Inc()

	out := NewNodeContainer()
	always := applied == animmod.Always
	for key, node := range nodes.All() {
		bn := newBehaviorNode(b.ID, node, always, s.opts.MaxValueSetSize)
		g.log.Debugf("%s: %s %s", key, bn.ApplyState(), valueSummary(bn.Value(), s.opts.LogMaxValues))
		out.Set(key, bn)
	}
	if err := s.table.add(behaviorOutput{behavior: b.ID, nodes: out}); err != nil {
		if ferr := s.fail(b.ID, assetError(ClassStructural, "", err)); ferr != nil {
			return false, ferr
		}
		return false, nil
	}
	s.log.Debugf("behavior %s (%s) modifies %d properties", b.ID, label, out.Len())
	return true, nil
}

// fail records a structural error. In strict mode the error is returned
// for the run to abort with.
func (s *Session) fail(behavior animmod.ObjectID, err error) error {
	var be *BehaviorError
	if !errors.As(err, &be) {
		be = assetError(ClassStructural, "", err)
	}
	s.record(behavior, be)
	if s.opts.StrictMode && be.Class == ClassStructural {
		return be
	}
	return nil
}

func (s *Session) record(behavior animmod.ObjectID, err *BehaviorError) {
	err.Behavior = behavior
	d := diagnosticOf(err)
	diagnosticsTotal.WithLabelValues(d.Class.String()).Inc()
	s.log.Warnf("%s", err)
	s.diags = append(s.diags, d)
}

// Analyze runs a single session over src.
//
// Example:
//
//	res, err := propmod.Analyze(ctx, propmod.Sources{Scene: doc, Clips: doc, Graphs: doc})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for key, sum := range res.Table.All() {
//	    fmt.Println(key, sum.ApplyState(), sum.Value())
//	}
func Analyze(ctx context.Context, src Sources, opts ...Options) (*Result, error) {
	opt := DefaultOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	s, err := NewSession(src, opt)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx)
}
