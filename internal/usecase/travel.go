package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"travel-assistant/internal/integrations/googlemaps"
	"travel-assistant/internal/integrations/openweather"
	"travel-assistant/internal/integrations/tripadvisor"
	"travel-assistant/internal/params"
)

const (
	defaultTravelMode = "driving"
	maxOtherPlaces    = 2
	hotelStride       = 3
	maxHotels         = 3
)

type MapsClient interface {
	Directions(ctx context.Context, origin, destination, mode string) ([]googlemaps.Route, error)
	TextSearch(ctx context.Context, query string) ([]googlemaps.Place, error)
	PlaceDetails(ctx context.Context, placeID string) (googlemaps.PlaceDetails, error)
	Geocode(ctx context.Context, address string) ([]googlemaps.GeocodeResult, error)
}

type WeatherClient interface {
	Current(ctx context.Context, lat, lon float64) (openweather.Current, error)
}

type HotelClient interface {
	SearchHotels(ctx context.Context, query string) ([]tripadvisor.Location, error)
	Details(ctx context.Context, locationID string) (tripadvisor.Details, error)
}

type TimeLocator interface {
	LocalTime(lat, lng float64, now time.Time) (time.Time, error)
}

// TravelService answers the travel tools with compact text for the agent.
type TravelService struct {
	maps    MapsClient
	weather WeatherClient
	hotels  HotelClient
	clock   TimeLocator
	now     func() time.Time
}

type TravelOption func(*TravelService)

// WithTimeLocator adds the destination's local time to weather answers.
func WithTimeLocator(l TimeLocator) TravelOption {
	return func(s *TravelService) {
		s.clock = l
	}
}

func WithNow(now func() time.Time) TravelOption {
	return func(s *TravelService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewTravelService creates a TravelService. All three vendor clients are required.
func NewTravelService(maps MapsClient, weather WeatherClient, hotels HotelClient, opts ...TravelOption) (*TravelService, error) {
	if maps == nil {
		return nil, errors.New("usecase: maps client must not be nil")
	}
	if weather == nil {
		return nil, errors.New("usecase: weather client must not be nil")
	}
	if hotels == nil {
		return nil, errors.New("usecase: hotel client must not be nil")
	}
	s := &TravelService{maps: maps, weather: weather, hotels: hotels, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Directions handles get_directions.
func (s *TravelService) Directions(ctx context.Context, p params.Map) (string, error) {
	if missing := p.Missing("origin", "destination"); len(missing) > 0 {
		return "", missingParameter(missing...)
	}
	origin := strings.TrimSpace(p.Get("origin"))
	destination := strings.TrimSpace(p.Get("destination"))
	mode := p.GetOr("mode", defaultTravelMode)

	routes, err := s.maps.Directions(ctx, origin, destination, mode)
	if googlemaps.IsStatus(err, googlemaps.StatusNotFound, googlemaps.StatusZeroResults) {
		return MsgRouteNotFound, nil
	}
	if err != nil {
		return "", vendorUnavailable("directions_error", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return MsgRouteNotFound, nil
	}

	leg := routes[0].Legs[0]
	return fmt.Sprintf(FmtDirections,
		mode,
		leg.Distance.Text,
		leg.Duration.Text,
		routes[0].Summary,
		googlemaps.DirectionsLink(origin, destination, mode),
	), nil
}

// PlaceDetails handles get_place_details.
func (s *TravelService) PlaceDetails(ctx context.Context, p params.Map) (string, error) {
	if missing := p.Missing("place_id"); len(missing) > 0 {
		return "", missingParameter(missing...)
	}
	placeID := strings.TrimSpace(p.Get("place_id"))

	text, err := s.placeDetails(ctx, placeID)
	if googlemaps.IsStatus(err, googlemaps.StatusNotFound, googlemaps.StatusZeroResults, "INVALID_REQUEST") {
		return fmt.Sprintf(MsgPlaceNotFound, placeID), nil
	}
	if err != nil {
		return "", vendorUnavailable("place_details_error", err)
	}
	return text, nil
}

func (s *TravelService) placeDetails(ctx context.Context, placeID string) (string, error) {
	d, err := s.maps.PlaceDetails(ctx, placeID)
	if err != nil {
		return "", err
	}
	name := orDefault(d.Name, MsgUnknownPlace)
	link := d.URL
	if link == "" {
		link = googlemaps.SearchLink(name, placeID)
	}
	opening := MsgNoOpeningInfo
	if d.OpeningHours != nil {
		opening = MsgClosedNow
		if d.OpeningHours.OpenNow {
			opening = MsgOpenNow
		}
	}
	return fmt.Sprintf(FmtPlace,
		name,
		formatRating(d.Rating),
		placeID,
		orDefault(d.FormattedPhoneNumber, MsgNoPhone),
		orDefault(d.FormattedAddress, MsgNoAddress),
		opening,
		link,
	), nil
}

// SearchPlaces handles search_places: the best match is expanded with its
// details and the next two are summarised.
func (s *TravelService) SearchPlaces(ctx context.Context, p params.Map) (string, error) {
	if missing := p.Missing("keyword"); len(missing) > 0 {
		return "", missingParameter(missing...)
	}
	query := strings.TrimSpace(strings.TrimSpace(p.Get("location")) + " " + strings.TrimSpace(p.Get("keyword")))

	results, err := s.maps.TextSearch(ctx, query)
	if err != nil {
		return "", vendorUnavailable("place_search_error", err)
	}
	if len(results) == 0 {
		return fmt.Sprintf(MsgPlaceNotFound, query), nil
	}

	top := results[0]
	best := top.Name + "\n" + MsgNoDetails
	if top.PlaceID != "" {
		if text, err := s.placeDetails(ctx, top.PlaceID); err == nil {
			best = text
		}
	}
	out := []string{HeadingBestResult + "\n" + best}

	if others := lo.Slice(results, 1, 1+maxOtherPlaces); len(others) > 0 {
		out = append(out, "\n"+HeadingOtherResults)
		for _, r := range others {
			out = append(out, fmt.Sprintf(FmtOtherPlace,
				r.Name,
				formatRating(r.Rating),
				orDefault(r.PlaceID, MsgNoPlaceID),
				orDefault(r.FormattedAddress, MsgNoAddress),
				googlemaps.SearchLink(r.Name, ""),
			))
		}
	}
	return strings.Join(out, "\n"), nil
}

// Weather handles get_weather: geocode the location, then read current
// conditions at its coordinates.
func (s *TravelService) Weather(ctx context.Context, p params.Map) (string, error) {
	if missing := p.Missing("location"); len(missing) > 0 {
		return "", missingParameter(missing...)
	}
	location := strings.TrimSpace(p.Get("location"))

	geo, err := s.maps.Geocode(ctx, location)
	if googlemaps.IsStatus(err, googlemaps.StatusZeroResults, googlemaps.StatusNotFound, "INVALID_REQUEST") {
		return fmt.Sprintf(MsgLocationNotFound, location), nil
	}
	if err != nil {
		return "", vendorUnavailable("geocode_error", err)
	}
	if len(geo) == 0 {
		return fmt.Sprintf(MsgLocationNotFound, location), nil
	}
	pos := geo[0].Geometry.Location
	place := orDefault(geo[0].FormattedAddress, location)

	cur, err := s.weather.Current(ctx, pos.Lat, pos.Lng)
	if err != nil {
		return "", vendorUnavailable("weather_error", err)
	}

	lines := []string{fmt.Sprintf(FmtWeather,
		place,
		orDefault(cur.Description(), MsgUnknownWeather),
		formatFloat(cur.Main.Temp),
		formatFloat(cur.Main.FeelsLike),
		cur.Main.Humidity,
	)}
	if s.clock != nil {
		if local, err := s.clock.LocalTime(pos.Lat, pos.Lng, s.now()); err == nil {
			lines = append(lines, fmt.Sprintf(FmtLocalTime, local.Format("2006-01-02 15:04"), local.Location().String()))
		}
	}
	lines = append(lines, fmt.Sprintf(FmtReminder, MsgWeatherAttribution))
	return strings.Join(lines, "\n"), nil
}

// Hotels handles search_hotels_by_name. Every third search hit is looked up,
// at most three in total.
func (s *TravelService) Hotels(ctx context.Context, p params.Map) (string, error) {
	if missing := p.Missing("locationName"); len(missing) > 0 {
		return "", missingParameter(missing...)
	}
	name := strings.TrimSpace(p.Get("locationName"))

	locations, err := s.hotels.SearchHotels(ctx, name)
	if err != nil {
		return "", vendorUnavailable("hotel_search_error", err)
	}
	if len(locations) == 0 {
		return fmt.Sprintf(MsgHotelNoLocation, name), nil
	}

	picks := lo.Filter(locations, func(l tripadvisor.Location, i int) bool {
		return i%hotelStride == 0 && l.LocationID != ""
	})
	picks = lo.Slice(picks, 0, maxHotels)
	if len(picks) == 0 {
		return fmt.Sprintf(MsgHotelNotFound, locations[0].Name), nil
	}

	var blocks []string
	var firstErr error
	for _, loc := range picks {
		d, err := s.hotels.Details(ctx, loc.LocationID)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		blocks = append(blocks, fmt.Sprintf(FmtHotelIntro, loc.Name)+"\n"+fmt.Sprintf(FmtHotel,
			orDefault(d.Name, MsgUnknownHotel),
			orDefault(d.Rating, MsgNotAvailable),
			orDefault(d.PriceLevel, MsgNotAvailable),
			orDefault(d.WebURL, MsgNotAvailable),
		))
	}
	if len(blocks) == 0 {
		return "", vendorUnavailable("hotel_details_error", firstErr)
	}
	return strings.Join(blocks, "\n\n"), nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatRating(r *float64) string {
	if r == nil {
		return MsgNoRating
	}
	return formatFloat(*r)
}
