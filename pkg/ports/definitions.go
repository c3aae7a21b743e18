package ports

import (
	"context"
	"errors"

	"github.com/wadjakorntonsri/go-link-bio/pkg/core/domain"
)

// ErrVersionConflict is returned by ReplaceCollection when the stored
// version no longer matches the one read at load time (a concurrent
// mutation won the race). Callers reload and retry.
var ErrVersionConflict = errors.New("collection version conflict")

// Repository defines storage operations for users and link collections.
// A collection is stored and replaced as one document per owner; there is
// no per-link write path.
type Repository interface {
	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByName(ctx context.Context, name string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error

	// Link collections
	// LoadCollection returns an empty collection (version 0) when nothing
	// is persisted yet; "no links" and "empty list" are the same state.
	LoadCollection(ctx context.Context, ownerID string) (domain.LinkCollection, error)
	// ReplaceCollection overwrites the whole document, conditional on
	// collection.Version matching the stored version.
	ReplaceCollection(ctx context.Context, collection domain.LinkCollection) error

	// Dump returns every persisted collection, for migration tooling.
	Dump(ctx context.Context) ([]domain.LinkCollection, error)

	Close() error
}

// LinkService defines the business logic over one owner's ordered links
type LinkService interface {
	List(ctx context.Context, ownerID string) ([]domain.Link, error)
	ListPublic(ctx context.Context, username string) ([]domain.PublicLink, error)
	Create(ctx context.Context, ownerID, title, url string) (*domain.Link, error)
	Delete(ctx context.Context, ownerID, linkID string) (*domain.Link, error)
	Reorder(ctx context.Context, ownerID string, order []string) ([]domain.Link, error)
}

// ProfileService defines account-level operations
type ProfileService interface {
	// SignIn finds or provisions the user for a verified email.
	SignIn(ctx context.Context, email, displayName, image string) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	// Update applies the optional username/image change.
	Update(ctx context.Context, userID string, name, image *string) (*domain.User, error)
}
