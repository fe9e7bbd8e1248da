package asset

import (
	"fmt"
	"strings"

	"github.com/speakeasy-api/animmod"
)

// PlayableKind names a slot of a rig descriptor's playable layer stack.
// Kinds are ordered bottom to top.
type PlayableKind uint8

const (
	PlayableBase PlayableKind = iota
	PlayableAdditive
	PlayableGesture
	PlayableAction
	PlayableFX
)

var playableNames = [...]string{"base", "additive", "gesture", "action", "fx"}

func (k PlayableKind) String() string {
	if int(k) < len(playableNames) {
		return playableNames[k]
	}
	return fmt.Sprintf("playable(%d)", k)
}

// ParsePlayableKind parses the names produced by String.
func ParsePlayableKind(s string) (PlayableKind, error) {
	for i, name := range playableNames {
		if strings.EqualFold(s, name) {
			return PlayableKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown playable layer %q", s)
}

// Blending is how the playable stacks on the ones below it.
func (k PlayableKind) Blending() animmod.BlendingMode {
	if k == PlayableAdditive {
		return animmod.BlendAdditive
	}
	return animmod.BlendOverride
}

// PlayableLayer is one slot of a playable stack. A Default slot uses the
// template controller for its kind.
type PlayableLayer struct {
	Kind       PlayableKind
	Controller RuntimeController
	Default    bool
}

// GraphKind tells how a behavior plays animation.
type GraphKind uint8

const (
	// GraphAnimator plays one runtime controller.
	GraphAnimator GraphKind = iota
	// GraphLegacy plays a single clip.
	GraphLegacy
	// GraphPlayable plays a stack of controllers.
	GraphPlayable
)

func (k GraphKind) String() string {
	switch k {
	case GraphAnimator:
		return "animator"
	case GraphLegacy:
		return "legacy"
	case GraphPlayable:
		return "playable"
	default:
		return "unknown"
	}
}

// Graph is the animation graph of one behavior.
type Graph struct {
	Kind       GraphKind
	Controller RuntimeController
	Playables  []PlayableLayer
	LegacyClip *Clip

	// Humanoid marks a humanoid rig; HumanBones are the paths of the bone
	// transforms its muscles drive, relative to the behavior's object.
	Humanoid   bool
	HumanBones []string
}

// GraphSource returns the animation graph attached to behaviors.
type GraphSource interface {
	// Graph returns the graph of an animation-playing behavior, or false
	// for behaviors that play no animation.
	Graph(behavior animmod.ObjectID) (*Graph, bool)
	// DefaultPlayable resolves the template controller used by a Default
	// playable slot.
	DefaultPlayable(kind PlayableKind) (RuntimeController, error)
}
