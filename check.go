package grove

import (
	"fmt"

	"github.com/oliverbestmann/grove/internal/set"
)

// Validate checks the structural invariants of the hierarchy T over
// the whole store: parent and child links must agree, every sibling
// list must be circular and consistent in both directions, and no
// entity may be its own ancestor.
//
// The hierarchy operations maintain these invariants at all times,
// Validate exists for tests and for debugging stores that are
// mutated from elsewhere.
func Validate[T any](r Reader) error {
	for parent := range r.Each(parentType[T]()) {
		parentLink, _ := parentLinkOf[T](r, parent)

		if parentLink.Count <= 0 {
			return fmt.Errorf("parent %s has child count %d", parent, parentLink.Count)
		}

		// walking Count steps along the ring must visit valid links
		// and end up at the first child again
		current := parentLink.First
		for n := 0; n < parentLink.Count; n++ {
			link, ok := childLinkOf[T](r, current)
			if !ok {
				return fmt.Errorf("child %s of %s has no child link", current, parent)
			}

			if link.Parent != parent {
				return fmt.Errorf("child %s links to parent %s, expected %s", current, link.Parent, parent)
			}

			nextLink, ok := childLinkOf[T](r, link.Next)
			if !ok {
				return fmt.Errorf("sibling %s of %s has no child link", link.Next, current)
			}

			if nextLink.Prev != current {
				return fmt.Errorf("sibling links between %s and %s disagree", current, link.Next)
			}

			current = link.Next

			if current == parentLink.First && n != parentLink.Count-1 {
				return fmt.Errorf("sibling list of %s is shorter than its child count %d", parent, parentLink.Count)
			}
		}

		if current != parentLink.First {
			return fmt.Errorf("sibling list of %s is not circular over %d children", parent, parentLink.Count)
		}
	}

	for child := range r.Each(childOfType[T]()) {
		link, _ := childLinkOf[T](r, child)

		parentLink, ok := parentLinkOf[T](r, link.Parent)
		if !ok {
			return fmt.Errorf("entity %s is attached to %s which has no parent link", child, link.Parent)
		}

		found := false
		current := parentLink.First
		for n := 0; n < parentLink.Count; n++ {
			if current == child {
				found = true
				break
			}

			currentLink, ok := childLinkOf[T](r, current)
			if !ok {
				break
			}

			current = currentLink.Next
		}

		if !found {
			return fmt.Errorf("entity %s is not in the child list of %s", child, link.Parent)
		}

		var seen set.Set[EntityId]
		seen.Insert(child)

		for ancestor := range Ancestors[T](r, child) {
			if !seen.Insert(ancestor) {
				return fmt.Errorf("entity %s is an ancestor of itself", ancestor)
			}
		}
	}

	return nil
}
