package client

import (
	"errors"

	"github.com/wadjakorntonsri/go-link-bio/pkg/core/domain"
)

// Phase is the coordinator's lifecycle for one list view
type Phase int

const (
	// PhaseIdle means no drag or commit is in progress
	PhaseIdle Phase = iota
	// PhaseDragging means a grabbed link is being moved locally; nothing
	// has touched the network yet
	PhaseDragging
	// PhaseCommitting means the dropped order is shown as final while a
	// background request submits it
	PhaseCommitting
)

var (
	// ErrBusy is returned when a mutating gesture is refused because
	// another mutation on the same collection is still in flight
	ErrBusy = errors.New("another change is still in progress")
	// ErrBadIndex is returned for out-of-range drag positions
	ErrBadIndex = errors.New("index out of range")
)

// Coordinator reconciles an optimistic local link order with the
// server-confirmed order. A drag mutates only the local mirror; the
// drop submits the full id order, and a rejected commit rolls the
// visible list back to the last confirmed state.
//
// Reorder and delete are mutually exclusive across the whole
// collection, not per row: a delete racing a reorder could otherwise
// submit a permutation naming an id that no longer exists. The guards
// are collection-wide booleans, cleared on every completion path.
//
// The coordinator is not goroutine-safe; it models a single UI event
// loop and expects to be driven from one goroutine (bubbletea's Update,
// for instance), with network results fed back in as events.
type Coordinator struct {
	phase     Phase
	links     []domain.Link // visible order
	confirmed []domain.Link // last server-confirmed order
	dragged   int           // index of the grabbed link while dragging
	dragStart int           // where the grab began, to detect no-op drops

	reorderInFlight bool
	deleteInFlight  bool
	pendingDelete   string
}

func NewCoordinator(initial []domain.Link) *Coordinator {
	c := &Coordinator{}
	c.Reset(initial)
	return c
}

// Reset adopts a freshly loaded server list as both visible and
// confirmed state. Only valid while no mutation is in flight.
func (c *Coordinator) Reset(links []domain.Link) {
	c.phase = PhaseIdle
	c.links = cloneLinks(links)
	c.confirmed = cloneLinks(links)
	c.reorderInFlight = false
	c.deleteInFlight = false
	c.pendingDelete = ""
}

// Links returns the currently visible order.
func (c *Coordinator) Links() []domain.Link {
	return cloneLinks(c.links)
}

func (c *Coordinator) Phase() Phase {
	return c.phase
}

// Busy reports whether any mutation is in flight; while true, every
// new drag or delete gesture is refused.
func (c *Coordinator) Busy() bool {
	return c.reorderInFlight || c.deleteInFlight
}

// Dragged returns the grabbed link's current index, or -1.
func (c *Coordinator) Dragged() int {
	if c.phase != PhaseDragging {
		return -1
	}
	return c.dragged
}

// BeginDrag grabs the link at index. Purely local; refused while any
// mutation is in flight.
func (c *Coordinator) BeginDrag(index int) error {
	if c.phase != PhaseIdle || c.Busy() {
		return ErrBusy
	}
	if index < 0 || index >= len(c.links) {
		return ErrBadIndex
	}
	c.phase = PhaseDragging
	c.dragged = index
	c.dragStart = index
	return nil
}

// DragTo moves the grabbed link to index, shifting the others. Local
// visual reorder only.
func (c *Coordinator) DragTo(index int) error {
	if c.phase != PhaseDragging {
		return ErrBusy
	}
	if index < 0 || index >= len(c.links) {
		return ErrBadIndex
	}
	if index == c.dragged {
		return nil
	}

	link := c.links[c.dragged]
	rest := append([]domain.Link{}, c.links[:c.dragged]...)
	rest = append(rest, c.links[c.dragged+1:]...)

	next := append([]domain.Link{}, rest[:index]...)
	next = append(next, link)
	next = append(next, rest[index:]...)

	c.links = next
	c.dragged = index
	return nil
}

// CancelDrag restores the pre-drag order and returns to idle.
func (c *Coordinator) CancelDrag() {
	if c.phase != PhaseDragging {
		return
	}
	c.links = cloneLinks(c.confirmed)
	c.phase = PhaseIdle
}

// Drop releases the grabbed link. If its position changed, the local
// order is kept on screen as final and the full id order is returned
// for submission; the caller must complete the cycle with
// FinishReorder. A no-op drop returns immediately to idle.
func (c *Coordinator) Drop() (order []string, dirty bool) {
	if c.phase != PhaseDragging {
		return nil, false
	}
	if c.dragged == c.dragStart {
		c.phase = PhaseIdle
		return nil, false
	}

	c.phase = PhaseCommitting
	c.reorderInFlight = true

	order = make([]string, len(c.links))
	for i, l := range c.links {
		order[i] = l.ID
	}
	return order, true
}

// FinishReorder completes a commit started by Drop. On success the
// server-confirmed list is adopted; on failure the visible order rolls
// back to the last confirmed state. The in-flight guard is cleared on
// both paths.
func (c *Coordinator) FinishReorder(confirmed []domain.Link, err error) {
	c.reorderInFlight = false
	c.phase = PhaseIdle

	if err != nil {
		c.links = cloneLinks(c.confirmed)
		return
	}
	c.links = cloneLinks(confirmed)
	c.confirmed = cloneLinks(confirmed)
}

// BeginDelete marks a delete as in flight for the given id. Refused
// while a reorder (or another delete) is outstanding anywhere in the
// collection.
func (c *Coordinator) BeginDelete(id string) error {
	if c.phase != PhaseIdle || c.Busy() {
		return ErrBusy
	}
	for _, l := range c.links {
		if l.ID == id {
			c.deleteInFlight = true
			c.pendingDelete = id
			return nil
		}
	}
	return domain.ErrLinkNotFound
}

// FinishDelete completes a delete. On success the row disappears from
// both visible and confirmed state; on failure nothing changes. The
// guard is cleared on both paths.
func (c *Coordinator) FinishDelete(err error) {
	id := c.pendingDelete
	c.deleteInFlight = false
	c.pendingDelete = ""

	if err != nil {
		return
	}
	c.links = removeByID(c.links, id)
	c.confirmed = removeByID(c.confirmed, id)
}

func cloneLinks(links []domain.Link) []domain.Link {
	return append([]domain.Link{}, links...)
}

func removeByID(links []domain.Link, id string) []domain.Link {
	out := make([]domain.Link, 0, len(links))
	for _, l := range links {
		if l.ID != id {
			out = append(out, l)
		}
	}
	return out
}
