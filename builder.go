package grove

import (
	"fmt"
	"slices"

	"github.com/oliverbestmann/grove/loam"
)

// TreeBuilder describes a tree of entities before it is spawned: the
// components of one entity plus any number of child builders.
//
// The tree is spawned in one go, either immediately with Spawn or
// staged into a loam.CommandBuffer with SpawnDeferred. A TreeBuilder
// is not safe for concurrent use.
type TreeBuilder[T any] struct {
	components []ErasedComponent
	children   []*TreeBuilder[T]
	reserved   EntityId
}

// NewTree creates a TreeBuilder whose entity will be spawned with the
// given components.
func NewTree[T any](components ...ErasedComponent) *TreeBuilder[T] {
	return &TreeBuilder[T]{components: components}
}

// Add adds components to this node.
func (t *TreeBuilder[T]) Add(components ...ErasedComponent) *TreeBuilder[T] {
	t.components = append(t.components, components...)
	return t
}

// AddAll adds a copy of the component to this node and to every node
// currently below it.
func (t *TreeBuilder[T]) AddAll(component ErasedComponent) *TreeBuilder[T] {
	t.Add(component)

	for _, child := range t.children {
		child.AddAll(component)
	}

	return t
}

// Attach attaches a subtree built by another TreeBuilder. The child
// builder belongs to this builder afterwards.
func (t *TreeBuilder[T]) Attach(child *TreeBuilder[T]) *TreeBuilder[T] {
	t.children = append(t.children, child)
	return t
}

// AttachNew attaches a new leaf node with the given components.
func (t *TreeBuilder[T]) AttachNew(components ...ErasedComponent) *TreeBuilder[T] {
	return t.Attach(NewTree[T](components...))
}

// Children returns the child builders attached so far.
func (t *TreeBuilder[T]) Children() []*TreeBuilder[T] {
	return t.children
}

// Clone returns a deep copy of this builder with no reserved entity
// ids. This way one builder can serve as a template that is spawned
// multiple times.
func (t *TreeBuilder[T]) Clone() *TreeBuilder[T] {
	clone := &TreeBuilder[T]{
		components: slices.Clone(t.components),
	}

	for _, child := range t.children {
		clone.children = append(clone.children, child.Clone())
	}

	return clone
}

// Reserve allocates the entity id this node will use when it is
// spawned. Repeated calls return the same id, spawning consumes the
// reservation.
func (t *TreeBuilder[T]) Reserve(w Writer) EntityId {
	if t.reserved == NoEntityId {
		t.reserved = w.Reserve()
	}

	return t.reserved
}

func (t *TreeBuilder[T]) takeId(w Writer) EntityId {
	entityId := t.reserved
	if entityId == NoEntityId {
		entityId = w.Reserve()
	}

	t.reserved = NoEntityId
	return entityId
}

// Spawn spawns the whole tree into the store and returns the root
// entity. Children are attached to their parents in builder order.
func (t *TreeBuilder[T]) Spawn(w Writer) EntityId {
	root := t.takeId(w)

	if err := w.Insert(root, t.components...); err != nil {
		panic(fmt.Sprintf("spawn tree node %s: %v", root, err))
	}

	for _, child := range t.children {
		childId := child.Spawn(w)

		if err := Attach[T](w, childId, root); err != nil {
			panic(fmt.Sprintf("attach spawned child %s to %s: %v", childId, root, err))
		}
	}

	return root
}

// SpawnDeferred reserves entity ids for the whole tree right away but
// queues all component inserts and attachments into the given command
// buffer. The returned root id is valid immediately, the tree exists
// once the buffer is applied by the single writer.
func (t *TreeBuilder[T]) SpawnDeferred(w Writer, buffer *loam.CommandBuffer) EntityId {
	root := t.takeId(w)

	// freeze the component set, the builder may change before the
	// buffer is applied
	buffer.Insert(root, slices.Clone(t.components)...)

	for _, child := range t.children {
		childId := child.SpawnDeferred(w, buffer)

		buffer.Queue(func(frame *loam.Frame) {
			if err := Attach[T](frame, childId, root); err != nil {
				panic(fmt.Sprintf("attach deferred child %s to %s: %v", childId, root, err))
			}
		})
	}

	return root
}
