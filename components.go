package grove

import (
	"fmt"

	"github.com/oliverbestmann/grove/loam"
)

// ChildOf marks an entity as the child of exactly one parent within
// the hierarchy T. It links the entity into the circular list of its
// siblings.
//
// The component is maintained by Attach, Detach and friends. You must
// not modify it yourself.
type ChildOf[T any] struct {
	loam.Component[ChildOf[T]]

	// Parent is the entity this entity is attached to.
	Parent EntityId

	// Next and Prev are the neighbors in the circular sibling list.
	// A sole child points at itself.
	Next EntityId
	Prev EntityId
}

// Parent marks an entity as having at least one child within the
// hierarchy T. It is inserted when the first child is attached and
// removed when the last child is detached.
//
// The component is maintained by Attach, Detach and friends. You must
// not modify it yourself.
type Parent[T any] struct {
	loam.Component[Parent[T]]

	// First is the first child in attachment order.
	First EntityId

	// Count is the number of children. It is never zero, an entity
	// without children has no Parent component.
	Count int
}

func childOfType[T any]() *loam.ComponentType {
	return loam.ComponentTypeOf[ChildOf[T]]()
}

func parentType[T any]() *loam.ComponentType {
	return loam.ComponentTypeOf[Parent[T]]()
}

func childLinkOf[T any](r Reader, entityId EntityId) (*ChildOf[T], bool) {
	value, ok := r.Get(entityId, childOfType[T]())
	if !ok {
		return nil, false
	}

	return any(value).(*ChildOf[T]), true
}

func parentLinkOf[T any](r Reader, entityId EntityId) (*Parent[T], bool) {
	value, ok := r.Get(entityId, parentType[T]())
	if !ok {
		return nil, false
	}

	return any(value).(*Parent[T]), true
}

func mustChildLink[T any](r Reader, entityId EntityId) *ChildOf[T] {
	link, ok := childLinkOf[T](r, entityId)
	if !ok {
		panic(fmt.Sprintf("hierarchy corrupt: %s is missing its child link", entityId))
	}

	return link
}
