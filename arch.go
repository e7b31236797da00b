package grove

import (
	"github.com/oliverbestmann/grove/loam"
)

// EntityId uniquely identifies an entity in a loam.Frame.
type EntityId = loam.EntityId

// NoEntityId is the zero EntityId. It never refers to a live entity.
const NoEntityId = loam.NoEntityId

// IsComponent can be used in a type parameter to ensure that type T is a Component type.
//
// To implement the IsComponent interface for a type, you must embed the Component type.
type IsComponent[T any] = loam.IsComponent[T]

// Component is a zero sized type that may be embedded into a struct to turn that
// struct into a component (see IsComponent).
type Component[T IsComponent[T]] = loam.Component[T]

// ErasedComponent indicates a type erased Component value.
//
// Values given to the consumer of grove of this type are usually pointers,
// even though the interface is actually implemented directly on the component type.
type ErasedComponent = loam.ErasedComponent

// Bundle groups multiple components into a single value.
func Bundle(components ...ErasedComponent) ErasedComponent {
	return loam.Bundle(components...)
}
