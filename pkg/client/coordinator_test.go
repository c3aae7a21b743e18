package client

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/go-link-bio/pkg/core/domain"
)

func threeLinks() []domain.Link {
	return []domain.Link{
		{ID: "a", Title: "A", URL: "https://a.example.com"},
		{ID: "b", Title: "B", URL: "https://b.example.com"},
		{ID: "c", Title: "C", URL: "https://c.example.com"},
	}
}

func visibleIDs(c *Coordinator) []string {
	links := c.Links()
	ids := make([]string, len(links))
	for i, l := range links {
		ids[i] = l.ID
	}
	return ids
}

func TestDragMovesOnlyLocally(t *testing.T) {
	c := NewCoordinator(threeLinks())

	require.NoError(t, c.BeginDrag(0))
	assert.Equal(t, PhaseDragging, c.Phase())
	assert.Equal(t, 0, c.Dragged())

	require.NoError(t, c.DragTo(2))
	assert.Equal(t, []string{"b", "c", "a"}, visibleIDs(c))
	assert.Equal(t, 2, c.Dragged())

	// nothing is in flight until the drop
	assert.False(t, c.Busy())
}

func TestCancelDragRestoresOrder(t *testing.T) {
	c := NewCoordinator(threeLinks())

	require.NoError(t, c.BeginDrag(2))
	require.NoError(t, c.DragTo(0))
	assert.Equal(t, []string{"c", "a", "b"}, visibleIDs(c))

	c.CancelDrag()
	assert.Equal(t, PhaseIdle, c.Phase())
	assert.Equal(t, []string{"a", "b", "c"}, visibleIDs(c))
}

func TestNoopDropSkipsCommit(t *testing.T) {
	c := NewCoordinator(threeLinks())

	require.NoError(t, c.BeginDrag(1))
	require.NoError(t, c.DragTo(2))
	require.NoError(t, c.DragTo(1))

	order, dirty := c.Drop()
	assert.False(t, dirty)
	assert.Nil(t, order)
	assert.Equal(t, PhaseIdle, c.Phase())
	assert.False(t, c.Busy())
}

func TestDropKeepsOptimisticOrderWhileCommitting(t *testing.T) {
	c := NewCoordinator(threeLinks())

	require.NoError(t, c.BeginDrag(0))
	require.NoError(t, c.DragTo(1))

	order, dirty := c.Drop()
	require.True(t, dirty)
	assert.Equal(t, []string{"b", "a", "c"}, order)

	// the dropped order stays on screen as if final
	assert.Equal(t, PhaseCommitting, c.Phase())
	assert.Equal(t, []string{"b", "a", "c"}, visibleIDs(c))
	assert.True(t, c.Busy())
}

func TestFinishReorderAdoptsConfirmedOrder(t *testing.T) {
	c := NewCoordinator(threeLinks())
	require.NoError(t, c.BeginDrag(0))
	require.NoError(t, c.DragTo(2))
	_, dirty := c.Drop()
	require.True(t, dirty)

	confirmed := []domain.Link{
		{ID: "b", Title: "B", URL: "https://b.example.com"},
		{ID: "c", Title: "C", URL: "https://c.example.com"},
		{ID: "a", Title: "A", URL: "https://a.example.com"},
	}
	c.FinishReorder(confirmed, nil)

	assert.Equal(t, PhaseIdle, c.Phase())
	assert.False(t, c.Busy())
	assert.Equal(t, []string{"b", "c", "a"}, visibleIDs(c))
}

func TestFinishReorderRollsBackOnError(t *testing.T) {
	c := NewCoordinator(threeLinks())
	require.NoError(t, c.BeginDrag(0))
	require.NoError(t, c.DragTo(2))
	_, dirty := c.Drop()
	require.True(t, dirty)

	c.FinishReorder(nil, errors.New("order rejected"))

	// the optimistic order is discarded for the last confirmed one
	assert.Equal(t, []string{"a", "b", "c"}, visibleIDs(c))
	assert.Equal(t, PhaseIdle, c.Phase())
	assert.False(t, c.Busy())
}

func TestRollbackTargetFollowsConfirmedState(t *testing.T) {
	c := NewCoordinator(threeLinks())

	// first commit succeeds and becomes the new confirmed baseline
	require.NoError(t, c.BeginDrag(0))
	require.NoError(t, c.DragTo(2))
	_, _ = c.Drop()
	swapped := []domain.Link{
		{ID: "b"}, {ID: "c"}, {ID: "a"},
	}
	c.FinishReorder(swapped, nil)

	// second commit fails and must roll back to the first result,
	// not the original load
	require.NoError(t, c.BeginDrag(2))
	require.NoError(t, c.DragTo(0))
	_, _ = c.Drop()
	c.FinishReorder(nil, errors.New("rejected"))

	assert.Equal(t, []string{"b", "c", "a"}, visibleIDs(c))
}

func TestMutationsAreMutuallyExclusive(t *testing.T) {
	t.Run("delete refused while reorder commits", func(t *testing.T) {
		c := NewCoordinator(threeLinks())
		require.NoError(t, c.BeginDrag(0))
		require.NoError(t, c.DragTo(1))
		_, dirty := c.Drop()
		require.True(t, dirty)

		require.ErrorIs(t, c.BeginDelete("c"), ErrBusy)
	})

	t.Run("drag refused while delete is in flight", func(t *testing.T) {
		c := NewCoordinator(threeLinks())
		require.NoError(t, c.BeginDelete("b"))

		require.ErrorIs(t, c.BeginDrag(0), ErrBusy)
	})

	t.Run("second delete refused while one is in flight", func(t *testing.T) {
		c := NewCoordinator(threeLinks())
		require.NoError(t, c.BeginDelete("b"))

		require.ErrorIs(t, c.BeginDelete("c"), ErrBusy)
	})

	t.Run("guards lift after completion", func(t *testing.T) {
		c := NewCoordinator(threeLinks())
		require.NoError(t, c.BeginDelete("b"))
		c.FinishDelete(nil)

		require.NoError(t, c.BeginDrag(0))
	})
}

func TestFinishDeleteRemovesRow(t *testing.T) {
	c := NewCoordinator(threeLinks())
	require.NoError(t, c.BeginDelete("b"))
	c.FinishDelete(nil)

	assert.Equal(t, []string{"a", "c"}, visibleIDs(c))
	assert.False(t, c.Busy())
}

func TestFinishDeleteKeepsRowOnError(t *testing.T) {
	c := NewCoordinator(threeLinks())
	require.NoError(t, c.BeginDelete("b"))
	c.FinishDelete(errors.New("server error"))

	assert.Equal(t, []string{"a", "b", "c"}, visibleIDs(c))
	assert.False(t, c.Busy())
}

func TestBeginDeleteUnknownID(t *testing.T) {
	c := NewCoordinator(threeLinks())
	require.ErrorIs(t, c.BeginDelete("missing"), domain.ErrLinkNotFound)
	assert.False(t, c.Busy())
}

func TestDragIndexBounds(t *testing.T) {
	c := NewCoordinator(threeLinks())

	require.ErrorIs(t, c.BeginDrag(-1), ErrBadIndex)
	require.ErrorIs(t, c.BeginDrag(3), ErrBadIndex)

	require.NoError(t, c.BeginDrag(0))
	require.ErrorIs(t, c.DragTo(3), ErrBadIndex)
}
