// Package openweather fetches current conditions from the OpenWeather API.
package openweather

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"travel-assistant/internal/integrations/paramstore"
	"travel-assistant/internal/integrations/vendorhttp"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"
	Units          = "metric"
	Language       = "zh_tw"
)

type Condition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type Main struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  int     `json:"humidity"`
}

type Current struct {
	Name    string      `json:"name"`
	Weather []Condition `json:"weather"`
	Main    Main        `json:"main"`
}

// Description returns the first condition's text, or "" when none was sent.
func (c Current) Description() string {
	if len(c.Weather) == 0 {
		return ""
	}
	return c.Weather[0].Description
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

// New creates a weather Client. The key is resolved on each call.
func New(key paramstore.KeySource, opts ...Option) (*Client, error) {
	if key == nil {
		return nil, errors.New("openweather: key source must not be nil")
	}
	c := &Client{http: vendorhttp.New(), baseURL: DefaultBaseURL, key: key}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Current returns the current weather at the given coordinates.
func (c *Client) Current(ctx context.Context, lat, lon float64) (Current, error) {
	if c == nil || c.http == nil {
		return Current{}, errors.New("openweather: client not initialized")
	}
	key, err := c.key.Key(ctx)
	if err != nil {
		return Current{}, fmt.Errorf("openweather: resolve api key: %w", err)
	}
	q := url.Values{
		"lat":   {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":   {strconv.FormatFloat(lon, 'f', -1, 64)},
		"appid": {key},
		"units": {Units},
		"lang":  {Language},
	}
	var out Current
	if err := c.http.GetJSON(ctx, c.baseURL+"/weather", q, &out); err != nil {
		return Current{}, fmt.Errorf("openweather: current weather: %w", err)
	}
	return out, nil
}
