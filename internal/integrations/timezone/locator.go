// Package timezone maps coordinates to IANA time zones.
package timezone

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/ringsaturn/tzf"
)

// Finder is satisfied by tzf.F.
type Finder interface {
	GetTimezoneName(lng float64, lat float64) string
}

// Locator maps coordinates to IANA time zones.
type Locator struct {
	finder Finder
}

// New loads the bundled polygon data. It is slow enough that callers should
// build one Locator per process.
func New() (*Locator, error) {
	f, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("timezone: load finder: %w", err)
	}
	return &Locator{finder: f}, nil
}

// NewWithFinder creates a Locator over an existing finder.
func NewWithFinder(f Finder) (*Locator, error) {
	if f == nil {
		return nil, errors.New("timezone: finder must not be nil")
	}
	return &Locator{finder: f}, nil
}

// Zone returns the location containing lat/lng.
func (l *Locator) Zone(lat, lng float64) (*time.Location, error) {
	if l == nil || l.finder == nil {
		return nil, errors.New("timezone: locator not initialized")
	}
	name := l.finder.GetTimezoneName(lng, lat)
	if name == "" {
		return nil, fmt.Errorf("timezone: no zone for %.4f,%.4f", lat, lng)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("timezone: load %s: %w", name, err)
	}
	return loc, nil
}

// LocalTime converts now into the zone at lat/lng.
func (l *Locator) LocalTime(lat, lng float64, now time.Time) (time.Time, error) {
	loc, err := l.Zone(lat, lng)
	if err != nil {
		return time.Time{}, err
	}
	return now.In(loc), nil
}
