package grove

import (
	"fmt"
)

// Attach makes child a child of parent within the hierarchy T.
//
// The child is appended to the end of the parents list of children,
// the order of existing children does not change. Attach fails with
// ErrAlreadyAttached if the child is currently attached to any parent
// in T, with ErrCycleDetected if child and parent are the same entity
// or the child is an ancestor of the parent, and with ErrNoSuchEntity
// if either handle is dead. On error the hierarchy is left unchanged.
func Attach[T any](w Writer, child, parent EntityId) error {
	if !w.Alive(child) {
		return fmt.Errorf("attach child %s: %w", child, ErrNoSuchEntity)
	}

	if !w.Alive(parent) {
		return fmt.Errorf("attach to parent %s: %w", parent, ErrNoSuchEntity)
	}

	if child == parent {
		return fmt.Errorf("attach %s to itself: %w", child, ErrCycleDetected)
	}

	if _, ok := childLinkOf[T](w, child); ok {
		return fmt.Errorf("attach %s to %s: %w", child, parent, ErrAlreadyAttached)
	}

	// walking up from the parent must not reach the child, otherwise
	// attaching would close a cycle
	for ancestor := range Ancestors[T](w, parent) {
		if ancestor == child {
			return fmt.Errorf("attach %s to %s: %w", child, parent, ErrCycleDetected)
		}
	}

	link := ChildOf[T]{Parent: parent, Next: child, Prev: child}

	if parentLink, ok := parentLinkOf[T](w, parent); ok {
		// splice the child in right before the first child, which
		// makes it the last element of the circular sibling list
		firstLink := mustChildLink[T](w, parentLink.First)
		lastLink := mustChildLink[T](w, firstLink.Prev)

		link.Next = parentLink.First
		link.Prev = firstLink.Prev

		lastLink.Next = child
		firstLink.Prev = child

		parentLink.Count += 1
	} else if err := w.Insert(parent, Parent[T]{First: child, Count: 1}); err != nil {
		return err
	}

	return w.Insert(child, link)
}

// AttachNew spawns a new entity with the given components and attaches
// it to the parent.
func AttachNew[T any](w Writer, parent EntityId, components ...ErasedComponent) (EntityId, error) {
	if !w.Alive(parent) {
		return NoEntityId, fmt.Errorf("attach to parent %s: %w", parent, ErrNoSuchEntity)
	}

	child := w.Reserve()
	if err := w.Insert(child, components...); err != nil {
		return NoEntityId, err
	}

	if err := Attach[T](w, child, parent); err != nil {
		return NoEntityId, err
	}

	return child, nil
}

// Detach removes the entity from its parent in the hierarchy T.
//
// The subtree below the entity stays intact, the entity simply
// becomes a root. Detaching an entity that has no parent is a no-op.
func Detach[T any](w Writer, entity EntityId) error {
	if !w.Alive(entity) {
		return fmt.Errorf("detach %s: %w", entity, ErrNoSuchEntity)
	}

	link, ok := childLinkOf[T](w, entity)
	if !ok {
		// already a root
		return nil
	}

	parentLink, ok := parentLinkOf[T](w, link.Parent)
	if !ok {
		// the parent is gone, just drop the stale link
		_, err := w.Remove(entity, childOfType[T]())
		return err
	}

	if parentLink.Count == 1 {
		// the entity was the only child
		if _, err := w.Remove(link.Parent, parentType[T]()); err != nil {
			return err
		}
	} else {
		prevLink := mustChildLink[T](w, link.Prev)
		nextLink := mustChildLink[T](w, link.Next)

		prevLink.Next = link.Next
		nextLink.Prev = link.Prev

		if parentLink.First == entity {
			parentLink.First = link.Next
		}

		parentLink.Count -= 1
	}

	_, err := w.Remove(entity, childOfType[T]())
	return err
}

// DespawnAll detaches the entity and despawns it together with all of
// its descendants in the hierarchy T.
//
// Links of other hierarchies are not repaired. If the despawned
// entities are attached in another hierarchy as well, detach them
// there first.
func DespawnAll[T any](w Writer, entity EntityId) error {
	if err := Detach[T](w, entity); err != nil {
		return err
	}

	// collect first: despawning while walking would pull the links out
	// from under the iterator
	doomed := []EntityId{entity}
	for descendant := range DescendantsDepthFirst[T](w, entity) {
		doomed = append(doomed, descendant)
	}

	for _, entityId := range doomed {
		// an entity that is already gone counts as despawned
		_ = w.Despawn(entityId)
	}

	return nil
}
