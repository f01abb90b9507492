// Package googlemaps talks to the Google Maps web services used by the travel
// tools: Directions, Places (text search and details) and Geocoding.
package googlemaps

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
	DefaultBaseURL = "https://maps.googleapis.com/maps/api"
	Language       = "zh-TW"

	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
	StatusNotFound    = "NOT_FOUND"

	detailFields = "name,formatted_phone_number,formatted_address,opening_hours,rating,url"
)

// StatusError is returned when the vendor answers 200 with a non-OK status.
type StatusError struct {
	Endpoint string
	Status   string
	Message  string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("googlemaps: %s returned status %s", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("googlemaps: %s returned status %s: %s", e.Endpoint, e.Status, e.Message)
}

// IsStatus reports whether err is a StatusError carrying one of statuses.
func IsStatus(err error, statuses ...string) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	for _, s := range statuses {
		if se.Status == s {
			return true
		}
	}
	return false
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

// New creates a Maps Platform Client.
func New(key paramstore.KeySource, opts ...Option) (*Client, error) {
	if key == nil {
		return nil, errors.New("googlemaps: key source must not be nil")
	}
	c := &Client{
		http:    vendorhttp.New(),
		baseURL: DefaultBaseURL,
		key:     key,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type TextValue struct {
	Text  string  `json:"text"`
	Value float64 `json:"value"`
}

type Leg struct {
	Distance TextValue `json:"distance"`
	Duration TextValue `json:"duration"`
}

type Route struct {
	Summary string `json:"summary"`
	Legs    []Leg  `json:"legs"`
}

type Place struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Rating           *float64 `json:"rating"`
}

type OpeningHours struct {
	OpenNow bool `json:"open_now"`
}

type PlaceDetails struct {
	Name                 string        `json:"name"`
	FormattedPhoneNumber string        `json:"formatted_phone_number"`
	FormattedAddress     string        `json:"formatted_address"`
	Rating               *float64      `json:"rating"`
	URL                  string        `json:"url"`
	OpeningHours         *OpeningHours `json:"opening_hours"`
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Geometry struct {
	Location LatLng `json:"location"`
}

type GeocodeResult struct {
	FormattedAddress string   `json:"formatted_address"`
	Geometry         Geometry `json:"geometry"`
}

type envelope struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

func (e envelope) check(endpoint string, allowZero bool) error {
	switch {
	case e.Status == StatusOK:
		return nil
	case allowZero && e.Status == StatusZeroResults:
		return nil
	default:
		return &StatusError{Endpoint: endpoint, Status: e.Status, Message: e.ErrorMessage}
	}
}

// Directions returns the routes between origin and destination. ZERO_RESULTS
// yields an empty slice.
func (c *Client) Directions(ctx context.Context, origin, destination, mode string) ([]Route, error) {
	var out struct {
		envelope
		Routes []Route `json:"routes"`
	}
	q := url.Values{
		"origin":      {origin},
		"destination": {destination},
		"mode":        {mode},
	}
	if err := c.get(ctx, "directions", q, &out); err != nil {
		return nil, err
	}
	if err := out.check("directions", true); err != nil {
		return nil, err
	}
	return out.Routes, nil
}

// TextSearch runs a Places text search. ZERO_RESULTS yields an empty slice.
func (c *Client) TextSearch(ctx context.Context, query string) ([]Place, error) {
	var out struct {
		envelope
		Results []Place `json:"results"`
	}
	if err := c.get(ctx, "place/textsearch", url.Values{"query": {query}}, &out); err != nil {
		return nil, err
	}
	if err := out.check("place/textsearch", true); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// PlaceDetails fetches the fields used in answers for placeID.
func (c *Client) PlaceDetails(ctx context.Context, placeID string) (PlaceDetails, error) {
	var out struct {
		envelope
		Result PlaceDetails `json:"result"`
	}
	q := url.Values{"place_id": {placeID}, "fields": {detailFields}}
	if err := c.get(ctx, "place/details", q, &out); err != nil {
		return PlaceDetails{}, err
	}
	if err := out.check("place/details", false); err != nil {
		return PlaceDetails{}, err
	}
	return out.Result, nil
}

// Geocode resolves a free-text address. Anything but OK, including
// ZERO_RESULTS, is returned as a StatusError.
func (c *Client) Geocode(ctx context.Context, address string) ([]GeocodeResult, error) {
	var out struct {
		envelope
		Results []GeocodeResult `json:"results"`
	}
	if err := c.get(ctx, "geocode", url.Values{"address": {address}}, &out); err != nil {
		return nil, err
	}
	if err := out.check("geocode", false); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	if c == nil || c.http == nil {
		return errors.New("googlemaps: client not initialized")
	}
	key, err := c.key.Key(ctx)
	if err != nil {
		return fmt.Errorf("googlemaps: resolve api key: %w", err)
	}
	q.Set("key", key)
	q.Set("language", Language)
	if err := c.http.GetJSON(ctx, c.baseURL+"/"+path+"/json", q, out); err != nil {
		return fmt.Errorf("googlemaps: %s: %w", path, err)
	}
	return nil
}

// DirectionsLink builds the public Google Maps directions URL.
func DirectionsLink(origin, destination, mode string) string {
	return "https://www.google.com/maps/dir/?api=1&origin=" + url.QueryEscape(origin) +
		"&destination=" + url.QueryEscape(destination) + "&travelmode=" + url.QueryEscape(mode)
}

// SearchLink builds a Google Maps search URL, pinned to placeID when given.
func SearchLink(name, placeID string) string {
	link := "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(name)
	if placeID != "" {
		link += "&query_place_id=" + url.QueryEscape(placeID)
	}
	return link
}
