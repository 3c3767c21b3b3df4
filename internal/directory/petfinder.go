// Package directory searches the Petfinder API for adoption and rescue
// organizations.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	DefaultBaseURL  = "https://api.petfinder.com"
	DefaultDistance = 50
	DefaultLimit    = 20
	maxLimit        = 100
	requestTimeout  = 15 * time.Second
)

var ErrMissingLocation = errors.New("location is required")

type Address struct {
	Address1 string `json:"address1"`
	City     string `json:"city"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
}

type Organization struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	URL      string   `json:"url,omitempty"`
	Website  string   `json:"website,omitempty"`
	Distance *float64 `json:"distance,omitempty"`
	Address  Address  `json:"address"`
}

type SearchParams struct {
	Location string
	Distance int // miles
	Limit    int
}

// Client calls Petfinder with a token obtained through the OAuth2 client
// credentials flow. Tokens are cached and refreshed by the oauth2 transport.
type Client struct {
	http    *http.Client
	baseURL string
}

type Option func(*Client)

// WithBaseURL points the client, and its token endpoint, at another host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func New(ctx context.Context, clientID, clientSecret string, opts ...Option) *Client {
	c := &Client{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(c)
	}

	cfg := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     c.baseURL + "/v2/oauth2/token",
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	c.http = cfg.Client(ctx)
	c.http.Timeout = requestTimeout
	return c
}

// SearchOrganizations lists organizations near a location. Zero distance and
// limit fall back to the defaults.
func (c *Client) SearchOrganizations(ctx context.Context, p SearchParams) ([]Organization, error) {
	location := strings.TrimSpace(p.Location)
	if location == "" {
		return nil, ErrMissingLocation
	}
	if p.Distance <= 0 {
		p.Distance = DefaultDistance
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}

	q := url.Values{}
	q.Set("location", location)
	q.Set("distance", strconv.Itoa(p.Distance))
	q.Set("limit", strconv.Itoa(p.Limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/organizations?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("petfinder request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("petfinder returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Organizations []Organization `json:"organizations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if payload.Organizations == nil {
		payload.Organizations = []Organization{}
	}
	return payload.Organizations, nil
}
