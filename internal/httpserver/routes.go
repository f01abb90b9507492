package httpserver

import (
	"context"
	"io"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"

	"travel-assistant/internal/domain"
)

// webhook replays the raw request as an API Gateway proxy event so the
// signature is checked against the exact bytes received.
func (s *Server) webhook(h WebhookHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}
		headers := make(map[string]string, len(c.Request.Header))
		for k := range c.Request.Header {
			headers[k] = c.Request.Header.Get(k)
		}

		resp, err := h.Handle(c.Request.Context(), events.APIGatewayProxyRequest{
			HTTPMethod: c.Request.Method,
			Path:       c.Request.URL.Path,
			Headers:    headers,
			Body:       string(body),
		})
		if err != nil {
			s.log.Error().Err(err).Msg("webhook handler failed")
			c.Status(http.StatusInternalServerError)
			return
		}
		for k, v := range resp.Headers {
			c.Header(k, v)
		}
		c.String(resp.StatusCode, resp.Body)
	}
}

// invoke decodes an agent event and returns whatever envelope the handler builds.
func invoke[T any](handle func(context.Context, domain.InboundEvent) (T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ev domain.InboundEvent
		if err := c.ShouldBindJSON(&ev); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event: " + err.Error()})
			return
		}
		out, err := handle(c.Request.Context(), ev)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
