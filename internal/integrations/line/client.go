// Package line is a minimal LINE Messaging API client: webhook payload
// decoding plus the reply and push endpoints.
package line

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"travel-assistant/internal/integrations/paramstore"
	"travel-assistant/internal/integrations/vendorhttp"
)

const (
	DefaultBaseURL = "https://api.line.me"
	replyPath      = "/v2/bot/message/reply"
	pushPath       = "/v2/bot/message/push"

	// MaxTextRunes is the Messaging API limit for a text message.
	MaxTextRunes = 5000
)

type URIAction struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	URI   string `json:"uri"`
}

type ButtonsTemplate struct {
	Type                 string      `json:"type"`
	ThumbnailImageURL    string      `json:"thumbnailImageUrl,omitempty"`
	ImageAspectRatio     string      `json:"imageAspectRatio,omitempty"`
	ImageSize            string      `json:"imageSize,omitempty"`
	ImageBackgroundColor string      `json:"imageBackgroundColor,omitempty"`
	Title                string      `json:"title,omitempty"`
	Text                 string      `json:"text"`
	Actions              []URIAction `json:"actions"`
}

type Message struct {
	Type     string           `json:"type"`
	Text     string           `json:"text,omitempty"`
	AltText  string           `json:"altText,omitempty"`
	Template *ButtonsTemplate `json:"template,omitempty"`
}

// NewText builds a text message, cut to MaxTextRunes.
func NewText(text string) Message {
	if r := []rune(text); len(r) > MaxTextRunes {
		text = string(r[:MaxTextRunes])
	}
	return Message{Type: "text", Text: text}
}

// NewLinkCard builds a square buttons template with one URI action.
func NewLinkCard(altText, title, text, imageURL, label, uri string) Message {
	return Message{
		Type:    "template",
		AltText: altText,
		Template: &ButtonsTemplate{
			Type:                 "buttons",
			ThumbnailImageURL:    imageURL,
			ImageAspectRatio:     "square",
			ImageSize:            "cover",
			ImageBackgroundColor: "#FFFFFF",
			Title:                title,
			Text:                 text,
			Actions:              []URIAction{{Type: "uri", Label: label, URI: uri}},
		},
	}
}

type replyRequest struct {
	ReplyToken string    `json:"replyToken"`
	Messages   []Message `json:"messages"`
}

type pushRequest struct {
	To       string    `json:"to"`
	Messages []Message `json:"messages"`
}

// Client calls the Messaging API with a channel access token.
type Client struct {
	http    *vendorhttp.Client
	baseURL string
	token   paramstore.KeySource
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func WithHTTP(h *vendorhttp.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// New builds a client authenticated with the channel access token.
func New(token paramstore.KeySource, opts ...Option) (*Client, error) {
	if token == nil {
		return nil, errors.New("line: access token source must not be nil")
	}
	c := &Client{http: vendorhttp.New(), baseURL: DefaultBaseURL, token: token}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Reply answers an event using its reply token.
func (c *Client) Reply(ctx context.Context, replyToken string, msgs ...Message) error {
	if strings.TrimSpace(replyToken) == "" {
		return errors.New("line: reply token is required")
	}
	return c.post(ctx, replyPath, replyRequest{ReplyToken: replyToken, Messages: msgs})
}

// Push sends messages to a user id.
func (c *Client) Push(ctx context.Context, to string, msgs ...Message) error {
	if strings.TrimSpace(to) == "" {
		return errors.New("line: push recipient is required")
	}
	return c.post(ctx, pushPath, pushRequest{To: to, Messages: msgs})
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	if c == nil || c.http == nil {
		return errors.New("line: client not initialized")
	}
	token, err := c.token.Key(ctx)
	if err != nil {
		return fmt.Errorf("line: resolve access token: %w", err)
	}
	headers := map[string]string{"Authorization": "Bearer " + token}
	if err := c.http.PostJSON(ctx, c.baseURL+path, headers, body, nil); err != nil {
		return fmt.Errorf("line: %s: %w", path, err)
	}
	return nil
}
