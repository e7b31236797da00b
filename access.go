package grove

import (
	"iter"

	"github.com/oliverbestmann/grove/loam"
)

// Reader is the read only access to an entity store that the
// traversals need. A *loam.Frame implements Reader.
//
// Reader methods must not be called concurrently with a mutation of
// the same store.
type Reader interface {
	// Alive reports whether the entity exists and the handle is
	// current.
	Alive(entityId EntityId) bool

	// Get returns the component of the given type of the entity. The
	// second return value is false if the entity is gone or does not
	// have the component.
	Get(entityId EntityId, ty *loam.ComponentType) (ErasedComponent, bool)

	// Each iterates over all entities that have a component of the
	// given type.
	Each(ty *loam.ComponentType) iter.Seq[EntityId]
}

// Writer is the mutating access to an entity store that the hierarchy
// operations need. A *loam.Frame implements Writer.
type Writer interface {
	Reader

	// Reserve allocates a fresh empty entity.
	Reserve() EntityId

	// Insert adds the given components to the entity, replacing
	// components the entity already has.
	Insert(entityId EntityId, components ...ErasedComponent) error

	// Remove takes the component of the given type away from the
	// entity and returns the removed value.
	Remove(entityId EntityId, ty *loam.ComponentType) (ErasedComponent, error)

	// Despawn removes the entity with all of its components.
	Despawn(entityId EntityId) error
}

var _ Writer = (*loam.Frame)(nil)
