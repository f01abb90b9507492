package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"travel-assistant/internal/domain"
	"travel-assistant/internal/integrations/line"
)

// keywordReplies are answered locally without a round trip to the agent.
var keywordReplies = map[string]string{
	KeywordTripRules:   MsgTripRules,
	KeywordPDFRules:    MsgPDFRules,
	KeywordDetailRules: MsgDetailRules,
}

// AgentClient runs one conversational turn against the hosted agent.
type AgentClient interface {
	Invoke(ctx context.Context, turn domain.AgentTurn) (string, error)
}

// Replier answers a webhook event through its reply token.
type Replier interface {
	Reply(ctx context.Context, replyToken string, msgs ...line.Message) error
}

// ChatService answers LINE text messages through the hosted agent.
type ChatService struct {
	agent   AgentClient
	replier Replier
	log     zerolog.Logger
}

// NewChatService creates a ChatService.
func NewChatService(agent AgentClient, replier Replier, log zerolog.Logger) (*ChatService, error) {
	if agent == nil {
		return nil, errors.New("usecase: agent client must not be nil")
	}
	if replier == nil {
		return nil, errors.New("usecase: replier must not be nil")
	}
	return &ChatService{agent: agent, replier: replier, log: log}, nil
}

// KeywordReply returns the canned answer for an exact keyword match.
func KeywordReply(text string) (string, bool) {
	reply, ok := keywordReplies[strings.TrimSpace(text)]
	return reply, ok
}

// Answer produces the reply text for one user message. It never fails: agent
// errors and empty answers become fixed apologies.
func (s *ChatService) Answer(ctx context.Context, userID, text string) string {
	if reply, ok := KeywordReply(text); ok {
		return reply
	}
	if userID == "" {
		userID = domain.DefaultUserID
	}
	answer, err := s.agent.Invoke(ctx, domain.AgentTurn{
		InputText:         text,
		SessionID:         userID,
		SessionAttributes: map[string]string{domain.SessionAttrLineUserID: userID},
	})
	if err != nil {
		s.log.Error().Err(err).Str("code", string(ErrorVendorUnavailable)).Str("reason", "agent_invoke_error").Msg("agent turn failed")
		return MsgAgentBusy
	}
	if strings.TrimSpace(answer) == "" {
		return MsgAgentEmptyAnswer
	}
	return answer
}

// HandleEvents answers every text message event that carries a reply token
// and returns how many replies were attempted. Reply failures are logged only.
func (s *ChatService) HandleEvents(ctx context.Context, events []line.Event) int {
	handled := 0
	for _, ev := range events {
		if !ev.IsText() || strings.TrimSpace(ev.ReplyToken) == "" {
			continue
		}
		handled++
		reply := s.Answer(ctx, ev.Source.UserID, ev.Message.Text)
		if err := s.replier.Reply(ctx, ev.ReplyToken, line.NewText(reply)); err != nil {
			s.log.Error().Err(err).Str("user_id", ev.Source.UserID).Msg("line reply failed")
		}
	}
	return handled
}
