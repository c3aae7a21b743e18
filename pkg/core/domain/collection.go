package domain

import "errors"

// MaxLinks is the hard cap per profile
const MaxLinks = 5

var (
	// ErrCollectionFull is returned when a create would exceed MaxLinks
	ErrCollectionFull = errors.New("you have reached the maximum of 5 links")
	// ErrLinkNotFound is returned when a delete targets an id that is not in the collection
	ErrLinkNotFound = errors.New("link not found")
	// ErrOrderMismatch is returned when a reorder request is not an exact
	// permutation of the current link ids
	ErrOrderMismatch = errors.New("requested order does not match the current links")
	// ErrDuplicateID guards collection integrity on append
	ErrDuplicateID = errors.New("duplicate link id")
)

// LinkCollection is the ordered list of one owner's links. The whole
// collection is the unit of persistence: order is part of the record,
// not derived from any column. Version carries the storage CAS token
// read at load time.
type LinkCollection struct {
	OwnerID string
	Links   []Link
	Version int64
}

// Mutations below are pure: they never modify the receiver's slice and
// return a fresh collection, so a failed persist can simply drop the
// result and retry from a fresh load.

// Append adds a link at the end, preserving existing order.
func (c LinkCollection) Append(link Link) (LinkCollection, error) {
	if len(c.Links) >= MaxLinks {
		return c, ErrCollectionFull
	}
	for _, l := range c.Links {
		if l.ID == link.ID {
			return c, ErrDuplicateID
		}
	}
	next := make([]Link, 0, len(c.Links)+1)
	next = append(next, c.Links...)
	next = append(next, link)
	return LinkCollection{OwnerID: c.OwnerID, Links: next, Version: c.Version}, nil
}

// Remove deletes the link with the given id, closing the gap. The removed
// link is returned for caller confirmation.
func (c LinkCollection) Remove(id string) (LinkCollection, Link, error) {
	at := -1
	for i, l := range c.Links {
		if l.ID == id {
			at = i
			break
		}
	}
	if at < 0 {
		return c, Link{}, ErrLinkNotFound
	}
	next := make([]Link, 0, len(c.Links)-1)
	next = append(next, c.Links[:at]...)
	next = append(next, c.Links[at+1:]...)
	return LinkCollection{OwnerID: c.OwnerID, Links: next, Version: c.Version}, c.Links[at], nil
}

// Reorder re-sequences the collection to match the requested id order.
// The request must be an exact permutation of the current id set: no
// additions, no omissions, no duplicates. This rejects stale orders
// computed before a concurrent delete instead of silently dropping or
// resurrecting ids.
func (c LinkCollection) Reorder(order []string) (LinkCollection, error) {
	if len(order) != len(c.Links) {
		return c, ErrOrderMismatch
	}

	byID := make(map[string]Link, len(c.Links))
	for _, l := range c.Links {
		byID[l.ID] = l
	}

	next := make([]Link, 0, len(order))
	seen := make(map[string]bool, len(order))
	for _, id := range order {
		link, ok := byID[id]
		if !ok || seen[id] {
			return c, ErrOrderMismatch
		}
		seen[id] = true
		next = append(next, link)
	}
	// Same length, no duplicates, every requested id present: the request
	// covers the current id set exactly in both directions.

	return LinkCollection{OwnerID: c.OwnerID, Links: next, Version: c.Version}, nil
}

// IDs returns the current id sequence in display order.
func (c LinkCollection) IDs() []string {
	ids := make([]string, len(c.Links))
	for i, l := range c.Links {
		ids[i] = l.ID
	}
	return ids
}

// PublicLinks projects the collection for the public profile endpoint.
func (c LinkCollection) PublicLinks() []PublicLink {
	out := make([]PublicLink, len(c.Links))
	for i, l := range c.Links {
		out[i] = l.Public()
	}
	return out
}
