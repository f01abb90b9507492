// Package handler adapts Lambda events to the use-case layer: the messaging
// webhook, the travel action group and the memory API action group.
package handler

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
)

const (
	HeaderCorrelationID = "X-Correlation-Id"
	headerContentType   = "Content-Type"
	contentTypeText     = "text/plain; charset=utf-8"
)

type errorResponse struct {
	Error string `json:"error"`
}

// headerValue looks up name case-insensitively. API Gateway preserves the
// client's casing while function URLs lowercase everything.
func headerValue(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func correlationID(headers map[string]string) string {
	if id := strings.TrimSpace(headerValue(headers, HeaderCorrelationID)); id != "" {
		return id
	}
	return uuid.NewString()
}

func requestBody(req events.APIGatewayProxyRequest) ([]byte, error) {
	if !req.IsBase64Encoded {
		return []byte(req.Body), nil
	}
	body, err := base64.StdEncoding.DecodeString(req.Body)
	if err != nil {
		return nil, fmt.Errorf("handler: decode base64 body: %w", err)
	}
	return body, nil
}

func textResponse(status int, body, corrID string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			headerContentType:   contentTypeText,
			HeaderCorrelationID: corrID,
		},
		Body: body,
	}
}
