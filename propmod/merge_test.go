package propmod

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/speakeasy-api/animmod"
)

func leaf(values ...float32) Node {
	return &variableNode{derived{state: animmod.Always, value: animmod.FloatValues(values...)}}
}

func containerOf(entries map[animmod.PropertyKey]Node, order ...animmod.PropertyKey) *NodeContainer {
	c := NewNodeContainer()
	for _, k := range order {
		c.Set(k, entries[k])
	}
	return c
}

var (
	keyA = animmod.Key("obj", "a")
	keyB = animmod.Key("obj", "b")
	keyC = animmod.Key("obj", "c")
)

// TestMerge_IdentityFold checks that a single source merged with an
// identity fold is reproduced unchanged, order included.
func TestMerge_IdentityFold(t *testing.T) {
	nodes := map[animmod.PropertyKey]Node{keyA: leaf(1), keyB: leaf(2), keyC: leaf(3)}
	src := containerOf(nodes, keyC, keyA, keyB)

	out, err := Merge([]*NodeContainer{src}, MergeStrategy[*NodeContainer, Node]{
		Nodes:        nodesOfContainer,
		Intermediate: nodeOnly[*NodeContainer],
		Fold: func(_ animmod.PropertyKey, items []Node, _ int) (Node, error) {
			return items[0], nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(src.Keys(), out.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	for k, n := range src.All() {
		if got, _ := out.Get(k); got != n {
			t.Errorf("%s: node replaced", k)
		}
	}
}

func TestMerge_FoldsOncePerKeyWithSourceCount(t *testing.T) {
	s0 := containerOf(map[animmod.PropertyKey]Node{keyA: leaf(1)}, keyA)
	s1 := containerOf(map[animmod.PropertyKey]Node{keyA: leaf(2), keyB: leaf(3)}, keyB, keyA)

	type call struct {
		Indexes []int
		Sources int
	}
	calls := map[animmod.PropertyKey]call{}
	out, err := Merge([]*NodeContainer{s0, nil, s1}, MergeStrategy[*NodeContainer, int]{
		Nodes:        nodesOfContainer,
		Intermediate: func(_ *NodeContainer, _ Node, i int) int { return i },
		Fold: func(key animmod.PropertyKey, items []int, sources int) (Node, error) {
			if _, dup := calls[key]; dup {
				t.Errorf("%s folded twice", key)
			}
			calls[key] = call{Indexes: items, Sources: sources}
			if key == keyB {
				return nil, nil
			}
			return leaf(), nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := map[animmod.PropertyKey]call{
		keyA: {Indexes: []int{0, 2}, Sources: 3},
		keyB: {Indexes: []int{2}, Sources: 3},
	}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Errorf("fold calls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]animmod.PropertyKey{keyA}, out.Keys()); diff != "" {
		t.Errorf("nil fold result kept (-want +got):\n%s", diff)
	}
}

func TestMerge_WrapsFoldError(t *testing.T) {
	boom := errors.New("boom")
	src := containerOf(map[animmod.PropertyKey]Node{keyA: leaf(1)}, keyA)
	_, err := Merge([]*NodeContainer{src}, MergeStrategy[*NodeContainer, Node]{
		Nodes:        nodesOfContainer,
		Intermediate: nodeOnly[*NodeContainer],
		Fold: func(animmod.PropertyKey, []Node, int) (Node, error) {
			return nil, boom
		},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
}

func TestNodeContainer_NilSafe(t *testing.T) {
	var c *NodeContainer
	if c.Len() != 0 {
		t.Error("nil container has entries")
	}
	if _, ok := c.Get(keyA); ok {
		t.Error("nil container returned an entry")
	}
	for range c.All() {
		t.Error("nil container yielded")
	}
	if c.Clone().Len() != 0 {
		t.Error("clone of nil container has entries")
	}
}
