// Package tripadvisor wraps the Tripadvisor Content API location endpoints.
package tripadvisor

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"travel-assistant/internal/integrations/paramstore"
	"travel-assistant/internal/integrations/vendorhttp"
)

const (
	DefaultBaseURL = "https://api.content.tripadvisor.com/api/v1"
	Language       = "zh_TW"
	Currency       = "TWD"
	CategoryHotels = "hotels"
)

type Location struct {
	LocationID string `json:"location_id"`
	Name       string `json:"name"`
}

type Details struct {
	LocationID string `json:"location_id"`
	Name       string `json:"name"`
	Rating     string `json:"rating"`
	PriceLevel string `json:"price_level"`
	WebURL     string `json:"web_url"`
}

type Client struct {
	http    *vendorhttp.Client
	baseURL string
	key     paramstore.KeySource
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func WithHTTP(h *vendorhttp.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// New creates a Content API Client.
func New(key paramstore.KeySource, opts ...Option) (*Client, error) {
	if key == nil {
		return nil, errors.New("tripadvisor: key source must not be nil")
	}
	c := &Client{http: vendorhttp.New(), baseURL: DefaultBaseURL, key: key}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SearchHotels looks up hotel locations matching query.
func (c *Client) SearchHotels(ctx context.Context, query string) ([]Location, error) {
	key, err := c.apiKey(ctx)
	if err != nil {
		return nil, err
	}
	q := url.Values{
		"key":         {key},
		"searchQuery": {query},
		"category":    {CategoryHotels},
		"address":     {query},
		"language":    {Language},
	}
	var out struct {
		Data []Location `json:"data"`
	}
	if err := c.http.GetJSON(ctx, c.baseURL+"/location/search", q, &out); err != nil {
		return nil, fmt.Errorf("tripadvisor: location search: %w", err)
	}
	return out.Data, nil
}

// Details fetches one location by id.
func (c *Client) Details(ctx context.Context, locationID string) (Details, error) {
	key, err := c.apiKey(ctx)
	if err != nil {
		return Details{}, err
	}
	q := url.Values{
		"key":      {key},
		"language": {Language},
		"currency": {Currency},
	}
	var out Details
	endpoint := c.baseURL + "/location/" + url.PathEscape(locationID) + "/details"
	if err := c.http.GetJSON(ctx, endpoint, q, &out); err != nil {
		return Details{}, fmt.Errorf("tripadvisor: location details: %w", err)
	}
	return out, nil
}

func (c *Client) apiKey(ctx context.Context) (string, error) {
	if c == nil || c.http == nil {
		return "", errors.New("tripadvisor: client not initialized")
	}
	key, err := c.key.Key(ctx)
	if err != nil {
		return "", fmt.Errorf("tripadvisor: resolve api key: %w", err)
	}
	return key, nil
}
