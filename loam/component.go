package loam

import (
	"log/slog"
	"maps"
	"reflect"
	"sync/atomic"
)

type isComponentMarker struct{}

// ErasedComponent indicates a type erased Component value.
//
// Values handed out by a Frame are pointers to the stored component,
// even though the interface is actually implemented directly on the
// component type.
type ErasedComponent interface {
	ComponentType() *ComponentType
	isComponent(isComponentMarker)
}

// IsComponent can be used in a type parameter to ensure that type T is
// a Component type.
//
// To implement the IsComponent interface for a type, you must embed
// the Component type.
type IsComponent[T any] interface {
	ErasedComponent
	IsComponent(T)
}

// Component is a zero sized type that may be embedded into a struct to
// turn that struct into a component (see IsComponent).
type Component[C IsComponent[C]] struct{}

func (Component[C]) IsComponent(C) {}

func (Component[C]) isComponent(isComponentMarker) {}

func (Component[C]) ComponentType() *ComponentType {
	return componentTypeOf[C]()
}

// ComponentTypeId numbers component types in registration order.
type ComponentTypeId uint16

// ComponentType describes a component type registered with the
// process wide registry. Two components share their ComponentType
// exactly if they have the same Go type.
type ComponentType struct {
	Name string
	Type reflect.Type
	Id   ComponentTypeId
}

// ComponentTypeOf returns the ComponentType of the component C.
func ComponentTypeOf[C IsComponent[C]]() *ComponentType {
	var zeroValue C

	//goland:noinspection GoDfaNilDereference
	return zeroValue.ComponentType()
}

// New allocates a zero value of this component type on the heap and
// returns a pointer to it.
func (c *ComponentType) New() ErasedComponent {
	return reflect.New(c.Type).Interface().(ErasedComponent)
}

// CopyOf copies the given component value to the heap and returns a
// pointer to the copy. The value may be given as a pointer or as a
// plain value.
func (c *ComponentType) CopyOf(value ErasedComponent) ErasedComponent {
	source := reflect.ValueOf(value)
	if source.Kind() == reflect.Pointer {
		source = source.Elem()
	}

	target := reflect.New(c.Type)
	target.Elem().Set(source)
	return target.Interface().(ErasedComponent)
}

func (c *ComponentType) String() string {
	return c.Name
}

var componentTypes atomic.Pointer[map[reflect.Type]*ComponentType]

func init() {
	// initialize the lookup table
	componentTypes.Store(&map[reflect.Type]*ComponentType{})
}

func componentTypeOf[C IsComponent[C]]() *ComponentType {
	reflectType := reflect.TypeFor[C]()

	if cached, ok := (*componentTypes.Load())[reflectType]; ok {
		return cached
	}

	for {
		previousTypes := componentTypes.Load()
		if cached, ok := (*previousTypes)[reflectType]; ok {
			return cached
		}

		newType := &ComponentType{
			Name: reflectType.String(),
			Type: reflectType,
			Id:   ComponentTypeId(len(*previousTypes) + 1),
		}

		newTypes := maps.Clone(*previousTypes)
		newTypes[reflectType] = newType

		if componentTypes.CompareAndSwap(previousTypes, &newTypes) {
			slog.Debug(
				"New component type registered",
				slog.String("name", newType.Name),
				slog.Int("id", int(newType.Id)),
			)

			return newType
		}
	}
}

// Bundle groups multiple components into a single value. A Frame
// flattens bundles recursively when inserting.
func Bundle(components ...ErasedComponent) ErasedComponent {
	return &bundleComponent{Components: components}
}

type bundleComponent struct {
	Component[bundleComponent]
	Components []ErasedComponent
}

func flattenComponents(target []ErasedComponent, components ...ErasedComponent) []ErasedComponent {
	for _, component := range components {
		if bundle, ok := component.(*bundleComponent); ok {
			// recurse into the bundle and flatten its components
			target = flattenComponents(target, bundle.Components...)
		} else {
			target = append(target, component)
		}
	}

	return target
}
