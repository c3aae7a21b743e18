package domain

import (
	"net/url"
	"regexp"
)

// Link is one entry on a profile page
type Link struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// PublicLink is the shape served on public profile pages (no id)
type PublicLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Public strips the id for the public endpoint
func (l Link) Public() PublicLink {
	return PublicLink{Title: l.Title, URL: l.URL}
}

// FieldErrors maps a field name to its validation message.
// Both fields are checked independently so the caller can show
// errors side by side instead of only the first one.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	return "Incorrect body shape"
}

var titleRe = regexp.MustCompile(`^[A-Za-z0-9 ]{1,50}$`)

// ValidateLink checks the title and URL of a candidate link.
// Returns nil when both fields are valid.
func ValidateLink(title, rawURL string) FieldErrors {
	fe := FieldErrors{}

	if title == "" {
		fe["title"] = "title is required"
	} else if !titleRe.MatchString(title) {
		fe["title"] = "title must be 1-50 letters, numbers or spaces"
	}

	if rawURL == "" {
		fe["url"] = "url is required"
	} else if !isAbsoluteURL(rawURL) {
		fe["url"] = "url must be a valid absolute URL"
	}

	if len(fe) == 0 {
		return nil
	}
	return fe
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
