package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"travel-assistant/internal/domain"
	"travel-assistant/internal/envelope"
	"travel-assistant/internal/params"
	"travel-assistant/internal/router"
	"travel-assistant/internal/usecase"
)

const (
	PathGetMemory  = "/get_memory"
	PathSaveMemory = "/save_memory"
)

type MemoryAPI interface {
	Load(ctx context.Context, p params.Map) (any, error)
	Save(ctx context.Context, p params.Map) (any, error)
}

// NewMemoryRegistry registers the memory API paths.
func NewMemoryRegistry(memory MemoryAPI) *router.Registry[any] {
	return router.New[any]().
		Register(PathGetMemory, router.Func[any](func(ctx context.Context, req router.Request) (any, error) {
			return memory.Load(ctx, req.Params)
		})).
		Register(PathSaveMemory, router.Func[any](func(ctx context.Context, req router.Request) (any, error) {
			return memory.Save(ctx, req.Params)
		}))
}

// MemoryHandler serves API-path-style invocations keyed by apiPath.
type MemoryHandler struct {
	registry *router.Registry[any]
	log      zerolog.Logger
}

// NewMemoryHandler creates a MemoryHandler.
func NewMemoryHandler(registry *router.Registry[any], log zerolog.Logger) (*MemoryHandler, error) {
	if registry == nil {
		return nil, errors.New("handler: memory registry must not be nil")
	}
	return &MemoryHandler{registry: registry, log: log}, nil
}

// Handle routes on the API path and maps failures to 400 or 500.
func (h *MemoryHandler) Handle(ctx context.Context, ev domain.InboundEvent) (envelope.APIResponse, error) {
	log := h.log.With().
		Str("action_group", ev.ActionGroup).
		Str("api_path", ev.APIPath).
		Str("http_method", ev.HTTPMethod).
		Logger()

	out, err := h.registry.Dispatch(log.WithContext(ctx), router.Request{
		Name:              ev.APIPath,
		Params:            params.FromEvent(ev),
		SessionAttributes: ev.SessionAttributes,
	})
	if err != nil {
		status := memoryStatus(err)
		logFailure(log.With().Int("status", status).Logger(), err, "memory request failed")
		return envelope.API(ev, status, errorResponse{Error: usecase.Apology(err)}), nil
	}
	log.Info().Msg("memory request served")
	return envelope.API(ev, http.StatusOK, out), nil
}

func memoryStatus(err error) int {
	switch usecase.CodeOf(err) {
	case usecase.ErrorMissingParameter, usecase.ErrorUnsupportedOperation, usecase.ErrorInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
