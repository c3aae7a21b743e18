package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/wadjakorntonsri/go-link-bio/pkg/core/domain"
)

// UnreachableMessage is what a UI shows when the server cannot be
// reached at all (as opposed to the server rejecting the request).
const UnreachableMessage = "There was an error reaching the server"

// ErrUnreachable wraps any transport-level failure: DNS, refused
// connection, timeout. The caller may retry manually; the client never
// retries on its own.
var ErrUnreachable = errors.New("server unreachable")

// APIError is a rejection the server itself produced
type APIError struct {
	Status  int
	Message string
	Fields  domain.FieldErrors
}

func (e *APIError) Error() string {
	return e.Message
}

// Client talks to the link-bio API using the auth_token session cookie
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return err
		}
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: c.token})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error  string             `json:"error"`
			Fields domain.FieldErrors `json:"fields"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			apiErr.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error, Fields: apiErr.Fields}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Links returns the signed-in owner's links in display order
func (c *Client) Links(ctx context.Context) ([]domain.Link, error) {
	var links []domain.Link
	if err := c.do(ctx, http.MethodGet, "/links", nil, &links); err != nil {
		return nil, err
	}
	return links, nil
}

// PublicLinks returns a public profile's links (no auth, no ids)
func (c *Client) PublicLinks(ctx context.Context, username string) ([]domain.PublicLink, error) {
	var links []domain.PublicLink
	if err := c.do(ctx, http.MethodGet, "/links/"+username, nil, &links); err != nil {
		return nil, err
	}
	return links, nil
}

func (c *Client) CreateLink(ctx context.Context, title, url string) (*domain.Link, error) {
	body := map[string]string{"title": title, "url": url}
	var link domain.Link
	if err := c.do(ctx, http.MethodPost, "/links", body, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

func (c *Client) DeleteLink(ctx context.Context, id string) (*domain.Link, error) {
	body := map[string]string{"id": id}
	var link domain.Link
	if err := c.do(ctx, http.MethodDelete, "/links", body, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// Reorder submits the full desired id order and returns the confirmed list
func (c *Client) Reorder(ctx context.Context, order []string) ([]domain.Link, error) {
	body := map[string][]string{"order": order}
	var links []domain.Link
	if err := c.do(ctx, http.MethodPatch, "/links", body, &links); err != nil {
		return nil, err
	}
	return links, nil
}

func (c *Client) Profile(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, "/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, name, image *string) (*domain.User, error) {
	body := map[string]*string{}
	if name != nil {
		body["name"] = name
	}
	if image != nil {
		body["image"] = image
	}
	var user domain.User
	if err := c.do(ctx, http.MethodPatch, "/profile", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
