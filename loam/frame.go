package loam

import (
	"errors"
	"fmt"
	"iter"
)

// ErrNoSuchEntity indicates that an entity handle is stale or was
// never alive.
var ErrNoSuchEntity = errors.New("no such entity")

// ErrMissingComponent indicates that an entity does not have a
// component of the requested type.
var ErrMissingComponent = errors.New("missing component")

type entityMeta struct {
	generation uint32
	alive      bool
}

// Frame is a small entity component store. Entities are allocated
// from a free list of generational slots, component values live in
// one sparse set column per component type.
//
// A Frame is not safe for concurrent use. All mutations must come
// from a single writer; reads may be shared only while no mutation is
// in flight. Use a CommandBuffer to stage mutations from elsewhere.
type Frame struct {
	// meta is indexed by slot. slot 0 stays unused so that
	// NoEntityId never refers to a live entity.
	meta    []entityMeta
	free    []uint32
	alive   int
	columns map[*ComponentType]*column
}

func NewFrame() *Frame {
	return &Frame{
		meta:    make([]entityMeta, 1),
		columns: map[*ComponentType]*column{},
	}
}

// Reserve allocates a fresh empty entity and returns its handle.
func (f *Frame) Reserve() EntityId {
	if n := len(f.free); n > 0 {
		index := f.free[n-1]
		f.free = f.free[:n-1]
		f.meta[index].alive = true
		f.alive += 1

		return makeEntityId(index, f.meta[index].generation)
	}

	index := uint32(len(f.meta))
	f.meta = append(f.meta, entityMeta{generation: 1, alive: true})
	f.alive += 1

	return makeEntityId(index, 1)
}

// Spawn creates a new entity with the given components.
func (f *Frame) Spawn(components ...ErasedComponent) EntityId {
	entityId := f.Reserve()

	if err := f.Insert(entityId, components...); err != nil {
		panic(fmt.Sprintf("insert into reserved entity %s: %v", entityId, err))
	}

	return entityId
}

// Insert adds the given components to the entity. A component the
// entity already has is replaced. Values are copied, the Frame never
// aliases memory of the caller.
func (f *Frame) Insert(entityId EntityId, components ...ErasedComponent) error {
	if !f.Alive(entityId) {
		return fmt.Errorf("insert into %s: %w", entityId, ErrNoSuchEntity)
	}

	for _, component := range flattenComponents(nil, components...) {
		ty := component.ComponentType()
		f.columnOf(ty).insert(entityId, ty.CopyOf(component))
	}

	return nil
}

// Remove takes the component of the given type away from the entity
// and returns the removed value.
func (f *Frame) Remove(entityId EntityId, ty *ComponentType) (ErasedComponent, error) {
	if !f.Alive(entityId) {
		return nil, fmt.Errorf("remove %s from %s: %w", ty, entityId, ErrNoSuchEntity)
	}

	col, ok := f.columns[ty]
	if !ok {
		return nil, fmt.Errorf("remove %s from %s: %w", ty, entityId, ErrMissingComponent)
	}

	value, ok := col.remove(entityId.Index())
	if !ok {
		return nil, fmt.Errorf("remove %s from %s: %w", ty, entityId, ErrMissingComponent)
	}

	return value, nil
}

// Get returns the component of the given type of the entity. The
// returned value points into the Frame and stays valid until the
// component is removed or the entity despawned.
func (f *Frame) Get(entityId EntityId, ty *ComponentType) (ErasedComponent, bool) {
	if !f.Alive(entityId) {
		return nil, false
	}

	col, ok := f.columns[ty]
	if !ok {
		return nil, false
	}

	return col.get(entityId.Index())
}

// Has checks if the entity has a component of the given type.
func (f *Frame) Has(entityId EntityId, ty *ComponentType) bool {
	if !f.Alive(entityId) {
		return false
	}

	col, ok := f.columns[ty]
	return ok && col.has(entityId.Index())
}

// Despawn removes the entity with all of its components. The slots
// generation is bumped, handles to the despawned entity become stale.
func (f *Frame) Despawn(entityId EntityId) error {
	if !f.Alive(entityId) {
		return fmt.Errorf("despawn %s: %w", entityId, ErrNoSuchEntity)
	}

	index := entityId.Index()

	for _, col := range f.columns {
		col.remove(index)
	}

	meta := &f.meta[index]
	meta.alive = false
	meta.generation += 1
	if meta.generation == 0 {
		meta.generation = 1
	}

	f.free = append(f.free, index)
	f.alive -= 1

	return nil
}

// Alive reports whether the entity exists and the handle is current.
func (f *Frame) Alive(entityId EntityId) bool {
	index := entityId.Index()
	if index == 0 || int(index) >= len(f.meta) {
		return false
	}

	meta := &f.meta[index]
	return meta.alive && meta.generation == entityId.Generation()
}

// Each iterates over all entities that have a component of the given
// type, in the insertion order of the column. The Frame must not be
// mutated while the iteration runs.
func (f *Frame) Each(ty *ComponentType) iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		col, ok := f.columns[ty]
		if !ok {
			return
		}

		for _, entityId := range col.dense {
			if !yield(entityId) {
				return
			}
		}
	}
}

// EntityCount returns the number of live entities.
func (f *Frame) EntityCount() int {
	return f.alive
}

func (f *Frame) columnOf(ty *ComponentType) *column {
	col, ok := f.columns[ty]
	if !ok {
		col = newColumn(ty)
		f.columns[ty] = col
	}

	return col
}

// Get returns the component of type C of the given entity. The
// returned pointer points into the Frame and may be used to modify
// the component in place.
func Get[C IsComponent[C]](f *Frame, entityId EntityId) (*C, bool) {
	value, ok := f.Get(entityId, ComponentTypeOf[C]())
	if !ok {
		return nil, false
	}

	return any(value).(*C), true
}
