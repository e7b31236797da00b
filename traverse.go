package grove

import (
	"iter"
)

// Children returns the children of the parent in the hierarchy T in
// attachment order.
//
// Like all traversals the returned sequence is lazy and can be ranged
// over multiple times, every pass reads the live store. The hierarchy
// must not be mutated while a pass is running.
func Children[T any](r Reader, parent EntityId) iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		parentLink, ok := parentLinkOf[T](r, parent)
		if !ok {
			return
		}

		// the sibling list is circular, Count bounds the walk
		next := parentLink.First
		for n := parentLink.Count; n > 0; n-- {
			link, ok := childLinkOf[T](r, next)
			if !ok {
				return
			}

			current := next
			next = link.Next

			if !yield(current) {
				return
			}
		}
	}
}

// ParentOf returns the parent of the entity in the hierarchy T. The
// second return value is false if the entity has no parent or is
// gone.
func ParentOf[T any](r Reader, entity EntityId) (EntityId, bool) {
	link, ok := childLinkOf[T](r, entity)
	if !ok {
		return NoEntityId, false
	}

	return link.Parent, true
}

// ChildCount returns the number of children of the parent in the
// hierarchy T.
func ChildCount[T any](r Reader, parent EntityId) int {
	parentLink, ok := parentLinkOf[T](r, parent)
	if !ok {
		return 0
	}

	return parentLink.Count
}

// Ancestors returns the ancestors of the entity in the hierarchy T,
// starting with its parent and ending at the root.
func Ancestors[T any](r Reader, entity EntityId) iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		current := entity

		for {
			link, ok := childLinkOf[T](r, current)
			if !ok {
				return
			}

			current = link.Parent
			if !yield(current) {
				return
			}
		}
	}
}

// dfsFrame tracks the iteration state within one sibling list.
type dfsFrame struct {
	next      EntityId
	remaining int
}

// DescendantsDepthFirst returns all descendants of the root in the
// hierarchy T in depth first pre-order: every child is followed by
// its own subtree before its next sibling. The root itself is not
// part of the sequence.
func DescendantsDepthFirst[T any](r Reader, root EntityId) iter.Seq[EntityId] {
	return descendDepthFirst[T](r, root, nil)
}

// Visit returns the descendants of the root in depth first order,
// with the visit function gating descent: every entity the walk
// reaches is part of the sequence, but when visit returns false the
// subtree below that entity is skipped. The root itself is not part
// of the sequence and is never passed to visit.
func Visit[T any](r Reader, root EntityId, visit func(r Reader, entityId EntityId) bool) iter.Seq[EntityId] {
	return descendDepthFirst[T](r, root, visit)
}

func descendDepthFirst[T any](r Reader, root EntityId, visit func(r Reader, entityId EntityId) bool) iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		var stack []dfsFrame

		if parentLink, ok := parentLinkOf[T](r, root); ok {
			stack = append(stack, dfsFrame{next: parentLink.First, remaining: parentLink.Count})
		}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.remaining == 0 {
				stack = stack[:len(stack)-1]
				continue
			}

			current := top.next

			link, ok := childLinkOf[T](r, current)
			if !ok {
				return
			}

			top.next = link.Next
			top.remaining -= 1

			if !yield(current) {
				return
			}

			if visit != nil && !visit(r, current) {
				continue
			}

			if parentLink, ok := parentLinkOf[T](r, current); ok {
				stack = append(stack, dfsFrame{next: parentLink.First, remaining: parentLink.Count})
			}
		}
	}
}

// DescendantsBreadthFirst returns all descendants of the root in the
// hierarchy T level by level: all children first, then all
// grandchildren, and so on. The root itself is not part of the
// sequence.
func DescendantsBreadthFirst[T any](r Reader, root EntityId) iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		var queue []EntityId

		for child := range Children[T](r, root) {
			queue = append(queue, child)
		}

		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]

			if !yield(current) {
				return
			}

			for child := range Children[T](r, current) {
				queue = append(queue, child)
			}
		}
	}
}

// Roots returns all entities that have children but no parent in the
// hierarchy T, in store iteration order.
func Roots[T any](r Reader) iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		childOf := childOfType[T]()

		for entityId := range r.Each(parentType[T]()) {
			if _, ok := r.Get(entityId, childOf); ok {
				continue
			}

			if !yield(entityId) {
				return
			}
		}
	}
}
