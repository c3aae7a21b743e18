package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/wadjakorntonsri/go-link-bio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-link-bio/pkg/ports"
)

// replaceRetries bounds how often a mutation is retried after losing a
// version race to a writer outside this process (another instance
// sharing the database). In-process writers never conflict because of
// the per-owner lock.
const replaceRetries = 3

type LinkService struct {
	repo ports.Repository

	// one lock per owner, held across load+compute+replace so two
	// requests for the same owner can never interleave their
	// read-modify-write cycles
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLinkService(repo ports.Repository) *LinkService {
	return &LinkService{
		repo:  repo,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *LinkService) ownerLock(ownerID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[ownerID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[ownerID] = lock
	}
	return lock
}

// mutate runs one read-modify-write cycle under the owner's lock.
// The transform must be pure; on a version conflict it is re-run
// against a fresh load.
func (s *LinkService) mutate(ctx context.Context, ownerID string, transform func(domain.LinkCollection) (domain.LinkCollection, error)) (domain.LinkCollection, error) {
	lock := s.ownerLock(ownerID)
	lock.Lock()
	defer lock.Unlock()

	var lastErr error
	for attempt := 0; attempt < replaceRetries; attempt++ {
		current, err := s.repo.LoadCollection(ctx, ownerID)
		if err != nil {
			return domain.LinkCollection{}, err
		}

		next, err := transform(current)
		if err != nil {
			return domain.LinkCollection{}, err
		}

		if err := s.repo.ReplaceCollection(ctx, next); err != nil {
			if errors.Is(err, ports.ErrVersionConflict) {
				lastErr = err
				continue
			}
			return domain.LinkCollection{}, err
		}
		return next, nil
	}
	return domain.LinkCollection{}, lastErr
}

func (s *LinkService) List(ctx context.Context, ownerID string) ([]domain.Link, error) {
	collection, err := s.repo.LoadCollection(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return collection.Links, nil
}

func (s *LinkService) ListPublic(ctx context.Context, username string) ([]domain.PublicLink, error) {
	user, err := s.repo.GetUserByName(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	collection, err := s.repo.LoadCollection(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return collection.PublicLinks(), nil
}

func (s *LinkService) Create(ctx context.Context, ownerID, title, url string) (*domain.Link, error) {
	if fe := domain.ValidateLink(title, url); fe != nil {
		return nil, fe
	}

	link := domain.Link{
		ID:    uuid.NewString(),
		Title: title,
		URL:   url,
	}

	_, err := s.mutate(ctx, ownerID, func(c domain.LinkCollection) (domain.LinkCollection, error) {
		return c.Append(link)
	})
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (s *LinkService) Delete(ctx context.Context, ownerID, linkID string) (*domain.Link, error) {
	var removed domain.Link
	_, err := s.mutate(ctx, ownerID, func(c domain.LinkCollection) (domain.LinkCollection, error) {
		next, link, err := c.Remove(linkID)
		if err != nil {
			return c, err
		}
		removed = link
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	return &removed, nil
}

func (s *LinkService) Reorder(ctx context.Context, ownerID string, order []string) ([]domain.Link, error) {
	next, err := s.mutate(ctx, ownerID, func(c domain.LinkCollection) (domain.LinkCollection, error) {
		return c.Reorder(order)
	})
	if err != nil {
		return nil, err
	}
	return next.Links, nil
}

// Ensure interface compliance
var _ ports.LinkService = (*LinkService)(nil)
