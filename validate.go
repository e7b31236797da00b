package grove

import (
	"fmt"

	"github.com/oliverbestmann/grove/loam"
)

type hierarchyLinkMarker struct{}

func (ChildOf[T]) isHierarchyLink(hierarchyLinkMarker) {}

func (Parent[T]) isHierarchyLink(hierarchyLinkMarker) {}

type isHierarchyLink interface {
	isHierarchyLink(hierarchyLinkMarker)
}

// ValidateComponent should be called to verify that the IsComponent interface is correctly implemented.
//
//	type Position struct {
//	   Component[Position]
//	   X, Y float64
//	}
//
//	var _ = ValidateComponent[Position]()
//
// This identifies mistakes in the type passed to Component during compile time.
// It also rejects components that embed one of the hierarchy link components:
// ChildOf and Parent are maintained by Attach, Detach and friends, they must
// never be part of a component you insert yourself.
func ValidateComponent[C IsComponent[C]]() struct{} {
	componentType := loam.ComponentTypeOf[C]()

	var zero C
	if _, ok := any(zero).(isHierarchyLink); ok {
		panic(fmt.Sprintf(
			"%s embeds a hierarchy link component, links are maintained by the hierarchy operations",
			componentType,
		))
	}

	return struct{}{}
}
