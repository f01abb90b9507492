package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"

	"travel-assistant/internal/integrations/line"
	"travel-assistant/internal/signature"
	"travel-assistant/internal/usecase"
)

const (
	BodyOK               = "OK"
	BodyInvalidSignature = "Invalid signature"
)

// ConversationHandler answers the events of one webhook delivery.
type ConversationHandler interface {
	HandleEvents(ctx context.Context, events []line.Event) int
}

// WebhookHandler verifies and accepts messaging webhook deliveries.
type WebhookHandler struct {
	verifier *signature.Verifier
	chat     ConversationHandler
	log      zerolog.Logger
}

// NewWebhookHandler creates a WebhookHandler.
func NewWebhookHandler(verifier *signature.Verifier, chat ConversationHandler, log zerolog.Logger) (*WebhookHandler, error) {
	if verifier == nil {
		return nil, errors.New("handler: signature verifier must not be nil")
	}
	if chat == nil {
		return nil, errors.New("handler: conversation handler must not be nil")
	}
	return &WebhookHandler{verifier: verifier, chat: chat, log: log}, nil
}

// Handle rejects unsigned deliveries with 401. Every verified delivery gets
// 200 regardless of what happened while answering it.
func (h *WebhookHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	corrID := correlationID(req.Headers)
	log := h.log.With().Str("correlation_id", corrID).Logger()

	body, err := requestBody(req)
	if err != nil {
		log.Warn().Err(err).Str("code", string(usecase.ErrorAuthFailure)).Msg("webhook body unreadable")
		return textResponse(http.StatusUnauthorized, BodyInvalidSignature, corrID), nil
	}
	if !h.verifier.Verify(body, headerValue(req.Headers, signature.HeaderName)) {
		log.Warn().Str("code", string(usecase.ErrorAuthFailure)).Msg("webhook signature rejected")
		return textResponse(http.StatusUnauthorized, BodyInvalidSignature, corrID), nil
	}

	payload, err := line.ParsePayload(body)
	if err != nil {
		log.Error().Err(err).Str("code", string(usecase.ErrorInvalidInput)).Msg("webhook payload malformed")
		return textResponse(http.StatusOK, BodyOK, corrID), nil
	}

	replied := h.chat.HandleEvents(log.WithContext(ctx), payload.Events)
	log.Info().Int("events", len(payload.Events)).Int("replied", replied).Msg("webhook processed")
	return textResponse(http.StatusOK, BodyOK, corrID), nil
}
