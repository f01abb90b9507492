package domain

import "encoding/json"

// Parameter is a single name/value pair sent by the agent platform.
type Parameter struct {
	Name  string `json:"name"`
	Type  string `json:"type,omitempty"`
	Value string `json:"value"`
}

// InboundEvent is the payload the agent platform sends to an action group Lambda.
// Function-style invocations fill Function and Parameters; API-path invocations
// fill APIPath, HTTPMethod and RequestBody.
type InboundEvent struct {
	MessageVersion    string            `json:"messageVersion,omitempty"`
	ActionGroup       string            `json:"actionGroup"`
	Function          string            `json:"function,omitempty"`
	APIPath           string            `json:"apiPath,omitempty"`
	HTTPMethod        string            `json:"httpMethod,omitempty"`
	InputText         string            `json:"inputText,omitempty"`
	SessionID         string            `json:"sessionId,omitempty"`
	Parameters        []Parameter       `json:"parameters,omitempty"`
	RequestBody       json.RawMessage   `json:"requestBody,omitempty"`
	SessionAttributes map[string]string `json:"sessionAttributes,omitempty"`
}
