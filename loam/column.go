package loam

// column stores the values of one component type in a sparse set:
// dense slices hold the entities and their values in insertion order,
// the sparse slice maps a slot index to its dense row.
type column struct {
	ty *ComponentType

	dense  []EntityId
	values []ErasedComponent

	// slot index to dense row, or -1 if the entity
	// has no component of this type
	sparse []int32
}

func newColumn(ty *ComponentType) *column {
	return &column{ty: ty}
}

func (c *column) row(index uint32) (int32, bool) {
	if int(index) >= len(c.sparse) {
		return 0, false
	}

	row := c.sparse[index]
	return row, row >= 0
}

func (c *column) has(index uint32) bool {
	_, ok := c.row(index)
	return ok
}

func (c *column) get(index uint32) (ErasedComponent, bool) {
	row, ok := c.row(index)
	if !ok {
		return nil, false
	}

	return c.values[row], true
}

// insert adds the value for the given entity, replacing a previous
// value if there is one. The value must be a pointer to the component.
func (c *column) insert(entityId EntityId, value ErasedComponent) {
	index := entityId.Index()

	if row, ok := c.row(index); ok {
		c.dense[row] = entityId
		c.values[row] = value
		return
	}

	for int(index) >= len(c.sparse) {
		c.sparse = append(c.sparse, -1)
	}

	c.sparse[index] = int32(len(c.dense))
	c.dense = append(c.dense, entityId)
	c.values = append(c.values, value)
}

// remove takes the value of the given entity out of the column. The
// last dense row is swapped into the vacated spot.
func (c *column) remove(index uint32) (ErasedComponent, bool) {
	row, ok := c.row(index)
	if !ok {
		return nil, false
	}

	value := c.values[row]

	lastRow := int32(len(c.dense) - 1)
	if row != lastRow {
		moved := c.dense[lastRow]
		c.dense[row] = moved
		c.values[row] = c.values[lastRow]
		c.sparse[moved.Index()] = row
	}

	c.dense = c.dense[:lastRow]
	c.values[lastRow] = nil
	c.values = c.values[:lastRow]
	c.sparse[index] = -1

	return value, true
}

func (c *column) len() int {
	return len(c.dense)
}
