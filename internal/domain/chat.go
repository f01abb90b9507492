package domain

// AgentTurn is one free-text turn forwarded to the hosted conversational agent.
type AgentTurn struct {
	InputText         string
	SessionID         string
	SessionAttributes map[string]string
}

// SessionAttrLineUserID carries the messaging user id through the agent so that
// action handlers can push content back to the same user.
const SessionAttrLineUserID = "line_user_id"

// DefaultUserID is used when the webhook source has no user id.
const DefaultUserID = "default-user"
