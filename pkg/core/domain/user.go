package domain

import (
	"errors"
	"regexp"
	"time"
)

// User is an authenticated owner identity
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"` // username, empty until profile setup
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	// ErrUserNotFound is returned when no user matches the lookup
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken covers both real collisions and reserved names
	ErrUsernameTaken = errors.New("that username is already taken")
)

var usernameRe = regexp.MustCompile(`^[a-z0-9]{3,20}$`)

// Route prefixes a public profile page can never shadow.
var reservedUsernames = map[string]bool{
	"dashboard": true,
	"auth":      true,
	"api":       true,
}

// ValidUsername reports whether name is an acceptable username. The
// empty string is not: a claimed username cannot be cleared.
func ValidUsername(name string) bool {
	return usernameRe.MatchString(name)
}

// ValidImageURL reports whether image is an acceptable profile image
// reference.
func ValidImageURL(image string) bool {
	return isAbsoluteURL(image)
}

// UsernameReserved reports whether the name is blocked regardless of
// whether any user holds it.
func UsernameReserved(name string) bool {
	return reservedUsernames[name]
}
