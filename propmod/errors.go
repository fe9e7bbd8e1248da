package propmod

import (
	"errors"
	"fmt"

	"github.com/speakeasy-api/animmod"
)

var (
	// ErrUnknownMotion is a state or blend child whose motion is neither a
	// clip nor a blend tree.
	ErrUnknownMotion = errors.New("unknown motion kind")
	// ErrUnknownController is a runtime controller of an unrecognized type.
	ErrUnknownController = errors.New("unknown runtime controller kind")
	// ErrControllerCycle is an override controller chain that loops.
	ErrControllerCycle = errors.New("override controller cycle")
	// ErrMotionCycle is a blend tree that contains itself.
	ErrMotionCycle = errors.New("blend tree cycle")
	// ErrUnknownGraph is a behavior graph of an unrecognized kind.
	ErrUnknownGraph = errors.New("unknown graph kind")
	// ErrInvalidSyncedLayer is a synced layer pointing at a missing layer,
	// itself, or another synced layer.
	ErrInvalidSyncedLayer = errors.New("invalid synced layer")
	// ErrDefaultPlayable is a default playable slot whose template could
	// not be resolved.
	ErrDefaultPlayable = errors.New("default playable layer unavailable")
)

// ErrorClass separates failures by how far they propagate.
type ErrorClass uint8

const (
	// ClassStructural drops the whole behavior.
	ClassStructural ErrorClass = iota
	// ClassConfiguration drops only the feature path that needed it.
	ClassConfiguration
)

func (c ErrorClass) String() string {
	switch c {
	case ClassStructural:
		return "structural"
	case ClassConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// BehaviorError attributes a failure to the behavior and asset that
// caused it.
type BehaviorError struct {
	Behavior animmod.ObjectID
	Asset    string
	Class    ErrorClass
	Err      error
}

func (e *BehaviorError) Error() string {
	if e.Asset == "" {
		return fmt.Sprintf("behavior %s: %v", e.Behavior, e.Err)
	}
	return fmt.Sprintf("behavior %s: %s: %v", e.Behavior, e.Asset, e.Err)
}

func (e *BehaviorError) Unwrap() error { return e.Err }

// assetError tags err with the asset it came from. The behavior is filled
// in by the walker.
func assetError(class ErrorClass, asset string, err error) *BehaviorError {
	return &BehaviorError{Asset: asset, Class: class, Err: err}
}

// Diagnostic is one recoverable problem recorded during a run.
type Diagnostic struct {
	Class    ErrorClass
	Behavior animmod.ObjectID
	Asset    string
	Message  string
}

func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: behavior %s", d.Class, d.Behavior)
	if d.Asset != "" {
		s += ": " + d.Asset
	}
	return s + ": " + d.Message
}

func diagnosticOf(err *BehaviorError) Diagnostic {
	return Diagnostic{
		Class:    err.Class,
		Behavior: err.Behavior,
		Asset:    err.Asset,
		Message:  err.Err.Error(),
	}
}
