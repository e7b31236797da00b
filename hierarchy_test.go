package grove

import (
	"fmt"
	"slices"
	"testing"

	"github.com/oliverbestmann/grove/loam"
	"github.com/stretchr/testify/require"
)

// Scene and Ui are hierarchy markers. They exist only at the type
// level, attachments in one are invisible to the other.
type Scene struct{}

type Ui struct{}

type Payload struct {
	Component[Payload]
	Value int
}

type Tag struct {
	Component[Tag]
}

var _ = ValidateComponent[Payload]()
var _ = ValidateComponent[Tag]()

func childrenOf[T any](r Reader, parent EntityId) []EntityId {
	return slices.Collect(Children[T](r, parent))
}

func nameOf(f *loam.Frame, entityId EntityId) string {
	name, ok := loam.Get[Name](f, entityId)
	if !ok {
		return entityId.String()
	}

	return name.Name
}

func namesOf(f *loam.Frame, entityIds []EntityId) []string {
	names := make([]string, 0, len(entityIds))
	for _, entityId := range entityIds {
		names = append(names, nameOf(f, entityId))
	}

	return names
}

func requireConsistent(t *testing.T, f *loam.Frame) {
	t.Helper()

	require.NoError(t, Validate[Scene](f))
	require.NoError(t, Validate[Ui](f))
}

func TestAttach(t *testing.T) {
	f := loam.NewFrame()
	root := f.Spawn(Named("root"))

	var spawned []EntityId
	for idx := range 10 {
		child, err := AttachNew[Scene](f, root, Named(fmt.Sprintf("child-%d", idx)))
		require.NoError(t, err)
		spawned = append(spawned, child)
	}

	requireConsistent(t, f)
	require.Equal(t, 10, ChildCount[Scene](f, root))

	t.Run("children come back in attachment order", func(t *testing.T) {
		require.Equal(t, spawned, childrenOf[Scene](f, root))
	})

	t.Run("every child knows its parent", func(t *testing.T) {
		for _, child := range spawned {
			parent, ok := ParentOf[Scene](f, child)
			require.True(t, ok)
			require.Equal(t, root, parent)
		}
	})

	t.Run("the root has no parent", func(t *testing.T) {
		_, ok := ParentOf[Scene](f, root)
		require.False(t, ok)
	})
}

func TestAttachErrors(t *testing.T) {
	t.Run("attach to itself", func(t *testing.T) {
		f := loam.NewFrame()
		entity := f.Spawn()

		err := Attach[Scene](f, entity, entity)
		require.ErrorIs(t, err, ErrCycleDetected)
		requireConsistent(t, f)
	})

	t.Run("attach an ancestor to its descendant", func(t *testing.T) {
		f := loam.NewFrame()

		root := f.Spawn(Named("root"))
		child, err := AttachNew[Scene](f, root, Named("child"))
		require.NoError(t, err)
		grandchild, err := AttachNew[Scene](f, child, Named("grandchild"))
		require.NoError(t, err)

		err = Attach[Scene](f, root, grandchild)
		require.ErrorIs(t, err, ErrCycleDetected)

		// nothing must have changed
		requireConsistent(t, f)
		require.Equal(t, []EntityId{child}, childrenOf[Scene](f, root))
		require.Equal(t, []EntityId{grandchild}, childrenOf[Scene](f, child))
	})

	t.Run("attach an attached entity", func(t *testing.T) {
		f := loam.NewFrame()

		first := f.Spawn(Named("first"))
		second := f.Spawn(Named("second"))
		child, err := AttachNew[Scene](f, first, Named("child"))
		require.NoError(t, err)

		err = Attach[Scene](f, child, second)
		require.ErrorIs(t, err, ErrAlreadyAttached)

		requireConsistent(t, f)
		require.Equal(t, []EntityId{child}, childrenOf[Scene](f, first))
		require.Empty(t, childrenOf[Scene](f, second))
	})

	t.Run("attach a dead child", func(t *testing.T) {
		f := loam.NewFrame()

		parent := f.Spawn()
		child := f.Spawn()
		require.NoError(t, f.Despawn(child))

		err := Attach[Scene](f, child, parent)
		require.ErrorIs(t, err, ErrNoSuchEntity)
	})

	t.Run("attach to a dead parent", func(t *testing.T) {
		f := loam.NewFrame()

		parent := f.Spawn()
		child := f.Spawn()
		require.NoError(t, f.Despawn(parent))

		err := Attach[Scene](f, child, parent)
		require.ErrorIs(t, err, ErrNoSuchEntity)

		_, err = AttachNew[Scene](f, parent, Named("child"))
		require.ErrorIs(t, err, ErrNoSuchEntity)
	})
}

func TestDetach(t *testing.T) {
	f := loam.NewFrame()

	root := f.Spawn(Named("root"))

	var children []EntityId
	for idx := range 4 {
		child, err := AttachNew[Scene](f, root, Named(fmt.Sprintf("child-%d", idx)))
		require.NoError(t, err)
		children = append(children, child)
	}

	t.Run("detach from the middle keeps the order", func(t *testing.T) {
		require.NoError(t, Detach[Scene](f, children[1]))
		requireConsistent(t, f)

		require.Equal(t, []string{"child-0", "child-2", "child-3"}, namesOf(f, childrenOf[Scene](f, root)))
	})

	t.Run("detach the first child advances the list head", func(t *testing.T) {
		require.NoError(t, Detach[Scene](f, children[0]))
		requireConsistent(t, f)

		require.Equal(t, []string{"child-2", "child-3"}, namesOf(f, childrenOf[Scene](f, root)))
	})

	t.Run("detached children become roots", func(t *testing.T) {
		_, ok := ParentOf[Scene](f, children[0])
		require.False(t, ok)
	})

	t.Run("detach the last child removes the parent link", func(t *testing.T) {
		require.NoError(t, Detach[Scene](f, children[3]))
		require.NoError(t, Detach[Scene](f, children[2]))
		requireConsistent(t, f)

		require.Equal(t, 0, ChildCount[Scene](f, root))
		require.False(t, f.Has(root, parentType[Scene]()))
	})

	t.Run("detach a root is a no-op", func(t *testing.T) {
		require.NoError(t, Detach[Scene](f, root))
		requireConsistent(t, f)
	})

	t.Run("detach a dead entity", func(t *testing.T) {
		entity := f.Spawn()
		require.NoError(t, f.Despawn(entity))

		require.ErrorIs(t, Detach[Scene](f, entity), ErrNoSuchEntity)
	})
}

func TestDetachKeepsSubtree(t *testing.T) {
	f := loam.NewFrame()

	root := f.Spawn(Named("root"))
	mid, err := AttachNew[Scene](f, root, Named("mid"))
	require.NoError(t, err)

	left, err := AttachNew[Scene](f, mid, Named("left"))
	require.NoError(t, err)
	right, err := AttachNew[Scene](f, mid, Named("right"))
	require.NoError(t, err)

	require.NoError(t, Detach[Scene](f, mid))
	requireConsistent(t, f)

	require.Empty(t, childrenOf[Scene](f, root))
	require.Equal(t, []EntityId{left, right}, childrenOf[Scene](f, mid))
	require.Contains(t, slices.Collect(Roots[Scene](f)), mid)
}

func TestReattach(t *testing.T) {
	f := loam.NewFrame()

	first := f.Spawn(Named("first"))
	second := f.Spawn(Named("second"))

	sibling, err := AttachNew[Scene](f, first, Named("sibling"))
	require.NoError(t, err)
	child, err := AttachNew[Scene](f, first, Named("child"))
	require.NoError(t, err)

	// move the child over to the second parent and back again
	require.NoError(t, Detach[Scene](f, child))
	require.NoError(t, Attach[Scene](f, child, second))
	requireConsistent(t, f)

	require.Equal(t, []EntityId{sibling}, childrenOf[Scene](f, first))
	require.Equal(t, []EntityId{child}, childrenOf[Scene](f, second))

	require.NoError(t, Detach[Scene](f, child))
	require.NoError(t, Attach[Scene](f, child, first))
	requireConsistent(t, f)

	// the child is appended to the end, not restored to its old spot
	require.Equal(t, []EntityId{sibling, child}, childrenOf[Scene](f, first))
	require.Empty(t, childrenOf[Scene](f, second))

	parent, ok := ParentOf[Scene](f, child)
	require.True(t, ok)
	require.Equal(t, first, parent)
}

func TestDespawnAll(t *testing.T) {
	f := loam.NewFrame()

	root := f.Spawn(Named("root"))

	branch, err := AttachNew[Scene](f, root, Named("branch"))
	require.NoError(t, err)
	leafA, err := AttachNew[Scene](f, branch, Named("leaf-a"))
	require.NoError(t, err)
	leafB, err := AttachNew[Scene](f, branch, Named("leaf-b"))
	require.NoError(t, err)

	other, err := AttachNew[Scene](f, root, Named("other"))
	require.NoError(t, err)

	require.NoError(t, DespawnAll[Scene](f, branch))
	requireConsistent(t, f)

	t.Run("the subtree is gone", func(t *testing.T) {
		require.False(t, f.Alive(branch))
		require.False(t, f.Alive(leafA))
		require.False(t, f.Alive(leafB))
	})

	t.Run("the rest of the tree is untouched", func(t *testing.T) {
		require.True(t, f.Alive(root))
		require.True(t, f.Alive(other))
		require.Equal(t, []EntityId{other}, childrenOf[Scene](f, root))
	})

	t.Run("stale handles stay dead", func(t *testing.T) {
		require.ErrorIs(t, Attach[Scene](f, leafA, root), ErrNoSuchEntity)
		require.ErrorIs(t, Detach[Scene](f, branch), ErrNoSuchEntity)

		_, ok := ParentOf[Scene](f, leafA)
		require.False(t, ok)
	})

	t.Run("despawn a whole root", func(t *testing.T) {
		require.NoError(t, DespawnAll[Scene](f, root))
		requireConsistent(t, f)

		require.False(t, f.Alive(root))
		require.False(t, f.Alive(other))
		require.Empty(t, slices.Collect(Roots[Scene](f)))
		require.Zero(t, f.EntityCount())
	})

	t.Run("despawn a dead entity", func(t *testing.T) {
		require.ErrorIs(t, DespawnAll[Scene](f, root), ErrNoSuchEntity)
	})
}

func TestDespawnAllKeepsSiblingOrder(t *testing.T) {
	f := loam.NewFrame()

	root := f.Spawn(Named("root"))

	var children []EntityId
	for _, name := range []string{"c1", "c2", "c3", "c4"} {
		child, err := AttachNew[Scene](f, root, Named(name))
		require.NoError(t, err)
		children = append(children, child)
	}

	leaf, err := AttachNew[Scene](f, children[1], Named("c2-leaf"))
	require.NoError(t, err)

	t.Run("removing a leaf keeps its parent and all siblings", func(t *testing.T) {
		require.NoError(t, DespawnAll[Scene](f, leaf))
		requireConsistent(t, f)

		descendants := slices.Collect(DescendantsDepthFirst[Scene](f, root))
		require.Equal(t, []string{"c1", "c2", "c3", "c4"}, namesOf(f, descendants))
	})

	t.Run("removing a middle child keeps its siblings in order", func(t *testing.T) {
		require.NoError(t, DespawnAll[Scene](f, children[1]))
		requireConsistent(t, f)

		require.Equal(t, []string{"c1", "c3", "c4"}, namesOf(f, childrenOf[Scene](f, root)))

		descendants := slices.Collect(DescendantsDepthFirst[Scene](f, root))
		require.Equal(t, []string{"c1", "c3", "c4"}, namesOf(f, descendants))
	})
}

func TestIndependentHierarchies(t *testing.T) {
	f := loam.NewFrame()

	sceneRoot := f.Spawn(Named("scene-root"))
	uiRoot := f.Spawn(Named("ui-root"))
	entity := f.Spawn(Named("entity"))

	require.NoError(t, Attach[Scene](f, entity, sceneRoot))
	require.NoError(t, Attach[Ui](f, entity, uiRoot))
	requireConsistent(t, f)

	t.Run("each hierarchy sees its own parent", func(t *testing.T) {
		parent, ok := ParentOf[Scene](f, entity)
		require.True(t, ok)
		require.Equal(t, sceneRoot, parent)

		parent, ok = ParentOf[Ui](f, entity)
		require.True(t, ok)
		require.Equal(t, uiRoot, parent)
	})

	t.Run("detach in one hierarchy leaves the other alone", func(t *testing.T) {
		require.NoError(t, Detach[Ui](f, entity))
		requireConsistent(t, f)

		require.Empty(t, childrenOf[Ui](f, uiRoot))
		require.Equal(t, []EntityId{entity}, childrenOf[Scene](f, sceneRoot))
	})

	t.Run("attach again and despawn via the other hierarchy", func(t *testing.T) {
		require.NoError(t, Attach[Ui](f, entity, uiRoot))

		// the entity is attached in both hierarchies, so it has to be
		// detached from Ui before Scene may despawn it
		require.NoError(t, Detach[Ui](f, entity))
		require.NoError(t, DespawnAll[Scene](f, entity))
		requireConsistent(t, f)

		require.Empty(t, childrenOf[Scene](f, sceneRoot))
		require.Empty(t, childrenOf[Ui](f, uiRoot))
	})
}

func TestAttachIsAllOrNothing(t *testing.T) {
	f := loam.NewFrame()

	root := f.Spawn(Named("root"))
	child, err := AttachNew[Scene](f, root, Named("child"))
	require.NoError(t, err)

	before := childrenOf[Scene](f, root)

	// the failed attach must not leave partial links behind
	require.ErrorIs(t, Attach[Scene](f, root, child), ErrCycleDetected)
	requireConsistent(t, f)

	require.Equal(t, before, childrenOf[Scene](f, root))
	require.False(t, f.Has(child, parentType[Scene]()))
	require.False(t, f.Has(root, childOfType[Scene]()))
}

func BenchmarkAttachDetach(b *testing.B) {
	f := loam.NewFrame()

	parent := f.Spawn()
	child := f.Spawn()

	b.ReportAllocs()
	b.ResetTimer()

	for b.Loop() {
		_ = Attach[Scene](f, child, parent)
		_ = Detach[Scene](f, child)
	}
}
