package grove

import (
	"errors"

	"github.com/oliverbestmann/grove/loam"
)

// ErrNoSuchEntity indicates that an entity handle is stale or was
// never alive.
var ErrNoSuchEntity = loam.ErrNoSuchEntity

// ErrMissingComponent indicates that an entity does not have a
// component of the requested type.
var ErrMissingComponent = loam.ErrMissingComponent

// ErrCycleDetected indicates that an Attach would have made an entity
// an ancestor of itself.
var ErrCycleDetected = errors.New("hierarchy cycle detected")

// ErrAlreadyAttached indicates that the child is already attached to a
// parent in the same hierarchy. Detach it first to move it elsewhere.
var ErrAlreadyAttached = errors.New("entity is already attached to a parent")
