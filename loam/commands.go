package loam

import "fmt"

// Command is a deferred mutation of a Frame.
type Command func(frame *Frame)

// CommandBuffer collects commands while a Frame is only available for
// reading. The single writer makes the staged mutations real by
// calling Apply.
//
// Entity ids for queued commands can be allocated up front with
// Frame.Reserve, so a command may refer to entities that carry no
// components until the buffer is applied.
type CommandBuffer struct {
	noCopy noCopy
	queue  []Command
}

// Queue appends a command to the buffer.
func (c *CommandBuffer) Queue(command Command) *CommandBuffer {
	c.queue = append(c.queue, command)
	return c
}

// Insert queues inserting the given components into the entity. The
// entity must still be alive when the buffer is applied, otherwise
// Apply panics.
func (c *CommandBuffer) Insert(entityId EntityId, components ...ErasedComponent) *CommandBuffer {
	return c.Queue(func(frame *Frame) {
		if err := frame.Insert(entityId, components...); err != nil {
			panic(fmt.Sprintf("apply queued insert: %v", err))
		}
	})
}

// Despawn queues despawning of the entity. An entity that is already
// gone when the buffer is applied counts as despawned.
func (c *CommandBuffer) Despawn(entityId EntityId) *CommandBuffer {
	return c.Queue(func(frame *Frame) {
		_ = frame.Despawn(entityId)
	})
}

// Len returns the number of queued commands.
func (c *CommandBuffer) Len() int {
	return len(c.queue)
}

// Apply runs the queued commands in order against the given Frame.
func (c *CommandBuffer) Apply(frame *Frame) {
	for _, command := range c.queue {
		command(frame)
	}

	// reset the queue after applying it
	c.queue = c.queue[:0]
}

// Discard drops all queued commands without running them.
func (c *CommandBuffer) Discard() {
	c.queue = c.queue[:0]
}
