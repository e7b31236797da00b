package loam

import (
	"fmt"
	"log/slog"
)

// EntityId identifies an entity in a Frame. It packs the index of the
// entities slot together with a generation counter. Despawning an
// entity bumps the generation of its slot, which turns every handle
// still pointing at the old entity stale.
type EntityId uint64

// NoEntityId is the zero value of EntityId. It never refers to a live
// entity.
const NoEntityId EntityId = 0

func makeEntityId(index, generation uint32) EntityId {
	return EntityId(uint64(generation)<<32 | uint64(index))
}

// Index returns the slot index of the entity.
func (e EntityId) Index() uint32 {
	return uint32(e)
}

// Generation returns the generation this handle was created with.
func (e EntityId) Generation() uint32 {
	return uint32(e >> 32)
}

func (e EntityId) String() string {
	return fmt.Sprintf("%dv%d", e.Index(), e.Generation())
}

func (e EntityId) LogValue() slog.Value {
	return slog.StringValue(e.String())
}
