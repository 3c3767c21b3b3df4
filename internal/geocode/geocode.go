// Package geocode resolves free-form addresses with the Google Maps
// Geocoding API.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"
)

var ErrNotFound = errors.New("address not found")

// Location is a resolved address.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

type Client struct {
	maps *maps.Client
}

// New builds a client for apiKey. Extra options are passed to the maps
// client, which lets tests point it at a local server.
func New(apiKey string, opts ...maps.ClientOption) (*Client, error) {
	opts = append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)
	c, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	return &Client{maps: c}, nil
}

// Geocode returns the best match for address.
func (c *Client) Geocode(ctx context.Context, address string) (Location, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Location{}, ErrNotFound
	}

	results, err := c.maps.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return Location{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	if len(results) == 0 {
		return Location{}, ErrNotFound
	}

	best := results[0]
	return Location{
		Latitude:  best.Geometry.Location.Lat,
		Longitude: best.Geometry.Location.Lng,
		Address:   best.FormattedAddress,
	}, nil
}
