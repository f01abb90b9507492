// Package envelope builds the response shapes the agent platform expects from
// action group Lambdas. Builders never fail.
package envelope

import (
	"bytes"
	"encoding/json"

	"travel-assistant/internal/domain"
)

const (
	MessageVersion  = "1.0"
	ContentTypeJSON = "application/json"
)

// ActionResponse is the function-style envelope.
type ActionResponse struct {
	MessageVersion string             `json:"messageVersion"`
	Response       ActionResponseBody `json:"response"`
}

type ActionResponseBody struct {
	ActionGroup      string           `json:"actionGroup"`
	Function         string           `json:"function"`
	FunctionResponse FunctionResponse `json:"functionResponse"`
}

type FunctionResponse struct {
	ResponseBody TextResponseBody `json:"responseBody"`
}

type TextResponseBody struct {
	Text TextBody `json:"TEXT"`
}

type TextBody struct {
	Body string `json:"body"`
}

// APIResponse is the API-path-style envelope.
type APIResponse struct {
	MessageVersion string          `json:"messageVersion"`
	Response       APIResponseBody `json:"response"`
}

type APIResponseBody struct {
	ActionGroup    string              `json:"actionGroup"`
	APIPath        string              `json:"apiPath"`
	HTTPMethod     string              `json:"httpMethod"`
	HTTPStatusCode int                 `json:"httpStatusCode"`
	ResponseBody   map[string]JSONBody `json:"responseBody"`
}

type JSONBody struct {
	Body string `json:"body"`
}

// Action wraps body text for a function-style invocation.
func Action(ev domain.InboundEvent, body string) ActionResponse {
	return ActionResponse{
		MessageVersion: MessageVersion,
		Response: ActionResponseBody{
			ActionGroup: ev.ActionGroup,
			Function:    ev.Function,
			FunctionResponse: FunctionResponse{
				ResponseBody: TextResponseBody{Text: TextBody{Body: body}},
			},
		},
	}
}

// API wraps payload as a JSON string for an API-path invocation.
func API(ev domain.InboundEvent, status int, payload any) APIResponse {
	return APIResponse{
		MessageVersion: MessageVersion,
		Response: APIResponseBody{
			ActionGroup:    ev.ActionGroup,
			APIPath:        ev.APIPath,
			HTTPMethod:     ev.HTTPMethod,
			HTTPStatusCode: status,
			ResponseBody: map[string]JSONBody{
				ContentTypeJSON: {Body: Stringify(payload)},
			},
		},
	}
}

// Stringify renders payload as compact JSON without HTML escaping so that
// non-ASCII text stays readable. Strings pass through unchanged.
func Stringify(payload any) string {
	if s, ok := payload.(string); ok {
		return s
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		fallback, _ := json.Marshal(map[string]string{"error": "response could not be encoded"})
		return string(fallback)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
