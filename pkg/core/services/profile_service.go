package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wadjakorntonsri/go-link-bio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-link-bio/pkg/ports"
)

type ProfileService struct {
	repo ports.Repository
}

func NewProfileService(repo ports.Repository) *ProfileService {
	return &ProfileService{repo: repo}
}

// SignIn finds or provisions the user for a verified email. A new user
// starts with no username and an empty link collection (no stored row:
// an absent collection and an empty one are the same state).
func (s *ProfileService) SignIn(ctx context.Context, email, displayName, image string) (*domain.User, error) {
	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	// displayName from the identity provider is not a username; usernames
	// are claimed explicitly through Update so reservation rules apply.
	user := &domain.User{
		ID:        uuid.NewString(),
		Email:     email,
		Image:     image,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// Update applies the optional username/image change. nil means "leave
// unchanged"; a present value is validated as given, so an empty string
// fails the shape check rather than clearing the field. Username claims
// are checked against reserved names and existing users before the
// write.
func (s *ProfileService) Update(ctx context.Context, userID string, name, image *string) (*domain.User, error) {
	fe := domain.FieldErrors{}
	if name != nil && !domain.ValidUsername(*name) {
		fe["name"] = "username must be 3-20 lowercase letters or numbers"
	}
	if image != nil && !domain.ValidImageURL(*image) {
		fe["image"] = "image must be a valid absolute URL"
	}
	if len(fe) > 0 {
		return nil, fe
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	if name != nil && *name != user.Name {
		if domain.UsernameReserved(*name) {
			return nil, domain.ErrUsernameTaken
		}
		taken, err := s.repo.GetUserByName(ctx, *name)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, domain.ErrUsernameTaken
		}
		user.Name = *name
	}
	if image != nil {
		user.Image = *image
	}
	user.UpdatedAt = time.Now()

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Ensure interface compliance
var _ ports.ProfileService = (*ProfileService)(nil)
