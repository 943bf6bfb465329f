// Package twitter is a thin client for the undocumented web API endpoints
// spacedl needs. Response shapes are pinned to the upstream versions in
// graphql.go and only the fields spacedl reads are modelled.
package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/spacedl/spacedl/constant"
	"github.com/spacedl/spacedl/util"
)

// Default upstream locations.
const (
	DefaultAPI = "https://twitter.com"
	DefaultWeb = "https://twitter.com/"
)

// ErrMalformed is returned when a response body can't be decoded or lacks a required field.
var ErrMalformed = errors.New("malformed response")

// StatusError reports a non-success HTTP status.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status code %d", e.URL, e.Code)
}

// Headers are the request headers of an authenticated call.
type Headers map[string]string

// NewHeaders builds the headers every authenticated call carries.
func NewHeaders(bearer, guestToken string) Headers {
	return Headers{
		"authorization": "Bearer " + bearer,
		"x-guest-token": guestToken,
		"content-type":  "application/json",
	}
}

// API is the upstream surface the resolvers depend on.
type API interface {
	// GuestToken makes exactly one attempt at acquiring a guest token.
	GuestToken(ctx context.Context) (string, error)
	// AudioSpace fetches the metadata of a space.
	AudioSpace(ctx context.Context, headers Headers, spaceID string) (*Metadata, error)
	// StreamSource returns the source location of the stream identified by mediaKey.
	StreamSource(ctx context.Context, headers Headers, mediaKey string) (string, error)
	// Fetch returns the body of a playlist.
	Fetch(ctx context.Context, rawURL string) (string, error)
	// UserID resolves a handle to the numeric user id.
	UserID(ctx context.Context, headers Headers, screenName string) (string, error)
	// UserTweets returns the raw recent tweets document of a user.
	UserTweets(ctx context.Context, headers Headers, userID string) (string, error)
}

// Client implements API over HTTP.
type Client struct {
	HTTP *http.Client

	// API is the origin of GraphQL and REST endpoints, Web the page scraped for guest tokens.
	API string
	Web string
}

// New returns a client against the default upstream.
func New(httpClient *http.Client) *Client {
	return &Client{
		HTTP: httpClient,
		API:  DefaultAPI,
		Web:  DefaultWeb,
	}
}

func (c *Client) get(ctx context.Context, rawURL string, headers Headers) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", constant.UserAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: req.URL.Redacted(), Code: resp.StatusCode}
	}

	return io.ReadAll(resp.Body)
}

func (c *Client) getJSON(ctx context.Context, rawURL string, headers Headers, target any) error {
	body, err := c.get(ctx, rawURL, headers)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformed, err)
	}

	return nil
}

// Fetch returns the body of rawURL without authentication headers.
func (c *Client) Fetch(ctx context.Context, rawURL string) (string, error) {
	body, err := c.get(ctx, rawURL, nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
