package handler

import (
	"context"
	"errors"
	"sort"

	"github.com/rs/zerolog"

	"travel-assistant/internal/domain"
	"travel-assistant/internal/envelope"
	"travel-assistant/internal/params"
	"travel-assistant/internal/router"
	"travel-assistant/internal/usecase"
)

// Function names of the travel action group.
const (
	ActionGetDirections     = "get_directions"
	ActionSearchPlaces      = "search_places"
	ActionGetPlaceDetails   = "get_place_details"
	ActionGetWeather        = "get_weather"
	ActionSearchHotels      = "search_hotels_by_name"
	ActionGenerateItinerary = "generate_itinerary_pdf"
)

type TravelTools interface {
	Directions(ctx context.Context, p params.Map) (string, error)
	SearchPlaces(ctx context.Context, p params.Map) (string, error)
	PlaceDetails(ctx context.Context, p params.Map) (string, error)
	Weather(ctx context.Context, p params.Map) (string, error)
	Hotels(ctx context.Context, p params.Map) (string, error)
}

type ItineraryGenerator interface {
	Generate(ctx context.Context, p params.Map, sessionAttrs map[string]string) (string, error)
}

type textTool func(ctx context.Context, p params.Map) (string, error)

func paramsOnly(fn textTool) router.Func[string] {
	return func(ctx context.Context, req router.Request) (string, error) {
		return fn(ctx, req.Params)
	}
}

// NewTravelRegistry registers every travel function. itinerary may be nil
// when document generation is not configured.
func NewTravelRegistry(travel TravelTools, itinerary ItineraryGenerator) *router.Registry[string] {
	r := router.New[string]().
		Register(ActionGetDirections, paramsOnly(travel.Directions)).
		Register(ActionSearchPlaces, paramsOnly(travel.SearchPlaces)).
		Register(ActionGetPlaceDetails, paramsOnly(travel.PlaceDetails)).
		Register(ActionGetWeather, paramsOnly(travel.Weather)).
		Register(ActionSearchHotels, paramsOnly(travel.Hotels))
	if itinerary != nil {
		r.Register(ActionGenerateItinerary, router.Func[string](func(ctx context.Context, req router.Request) (string, error) {
			return itinerary.Generate(ctx, req.Params, req.SessionAttributes)
		}))
	}
	return r
}

// ActionHandler serves function-style action group invocations.
type ActionHandler struct {
	registry *router.Registry[string]
	log      zerolog.Logger
}

// NewActionHandler creates an ActionHandler.
func NewActionHandler(registry *router.Registry[string], log zerolog.Logger) (*ActionHandler, error) {
	if registry == nil {
		return nil, errors.New("handler: action registry must not be nil")
	}
	return &ActionHandler{registry: registry, log: log}, nil
}

// Handle always returns a well-formed envelope. Failures become apology text.
func (h *ActionHandler) Handle(ctx context.Context, ev domain.InboundEvent) (envelope.ActionResponse, error) {
	p := params.FromEvent(ev)
	log := h.log.With().
		Str("action_group", ev.ActionGroup).
		Str("function", ev.Function).
		Str("session_id", ev.SessionID).
		Logger()
	log.Info().Strs("params", paramNames(p)).Msg("action invoked")

	body, err := h.registry.Dispatch(log.WithContext(ctx), router.Request{
		Name:              ev.Function,
		Params:            p,
		SessionAttributes: ev.SessionAttributes,
	})
	if err != nil {
		logFailure(log, err, "action failed")
		body = usecase.Apology(err)
	}
	return envelope.Action(ev, body), nil
}

func logFailure(log zerolog.Logger, err error, msg string) {
	var ue *usecase.Error
	reason := ""
	if errors.As(err, &ue) {
		reason = ue.Reason
	}
	log.Error().Err(err).Str("code", string(usecase.CodeOf(err))).Str("reason", reason).Msg(msg)
}

// paramNames lists the received parameter names. Values may be personal data
// and stay out of logs.
func paramNames(p params.Map) []string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
