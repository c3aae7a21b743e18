package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLinkAcceptsValidFields(t *testing.T) {
	assert.Nil(t, ValidateLink("My Site 42", "https://example.com"))
	assert.Nil(t, ValidateLink("a", "http://x.dev/path?q=1"))
	assert.Nil(t, ValidateLink(strings.Repeat("a", 50), "https://example.com"))
}

func TestValidateLinkChecksBothFieldsIndependently(t *testing.T) {
	fe := ValidateLink("", "not a url")
	require.NotNil(t, fe)
	// both errors are reported, not just the first
	assert.Contains(t, fe, "title")
	assert.Contains(t, fe, "url")
}

func TestValidateLinkTitle(t *testing.T) {
	cases := []struct {
		name  string
		title string
		ok    bool
	}{
		{"empty", "", false},
		{"too long", strings.Repeat("a", 51), false},
		{"punctuation", "hello!", false},
		{"unicode", "héllo", false},
		{"letters digits spaces", "My Blog 2024", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fe := ValidateLink(tc.title, "https://example.com")
			if tc.ok {
				assert.Nil(t, fe)
			} else {
				require.NotNil(t, fe)
				assert.Contains(t, fe, "title")
				assert.NotContains(t, fe, "url")
			}
		})
	}
}

func TestValidateLinkURL(t *testing.T) {
	cases := []struct {
		name string
		url  string
		ok   bool
	}{
		{"empty", "", false},
		{"relative", "/about", false},
		{"no host", "https://", false},
		{"scheme only", "mailto:", false},
		{"plain word", "example", false},
		{"http", "http://example.com", true},
		{"https with path", "https://example.com/a/b", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fe := ValidateLink("Valid Title", tc.url)
			if tc.ok {
				assert.Nil(t, fe)
			} else {
				require.NotNil(t, fe)
				assert.Contains(t, fe, "url")
			}
		})
	}
}

func TestValidUsername(t *testing.T) {
	assert.True(t, ValidUsername("alice42"))

	// length and charset boundaries
	assert.False(t, ValidUsername(""))
	assert.False(t, ValidUsername("ab"))
	assert.False(t, ValidUsername(strings.Repeat("a", 21)))
	assert.False(t, ValidUsername("UPPER"))
	assert.False(t, ValidUsername("Not Valid"))
	assert.True(t, ValidUsername("abc"))
	assert.True(t, ValidUsername(strings.Repeat("a", 20)))
}

func TestValidImageURL(t *testing.T) {
	assert.True(t, ValidImageURL("https://example.com/pic.png"))
	assert.False(t, ValidImageURL(""))
	assert.False(t, ValidImageURL("nope"))
	assert.False(t, ValidImageURL("/pic.png"))
}

func TestUsernameReserved(t *testing.T) {
	for _, name := range []string{"dashboard", "auth", "api"} {
		assert.True(t, UsernameReserved(name), name)
	}
	assert.False(t, UsernameReserved("alice"))
}
