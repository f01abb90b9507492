// Package bedrockagent invokes a Bedrock agent alias and collects its
// streamed answer.
package bedrockagent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"

	"travel-assistant/internal/domain"
)

type invokeAPI interface {
	InvokeAgent(ctx context.Context, params *bedrockagentruntime.InvokeAgentInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.InvokeAgentOutput, error)
}

// eventStream is the subset of *bedrockagentruntime.InvokeAgentEventStream we read.
type eventStream interface {
	Events() <-chan types.ResponseStream
	Close() error
	Err() error
}

// Client invokes one agent alias.
type Client struct {
	api      invokeAPI
	agentID  string
	aliasID  string
	streamOf func(*bedrockagentruntime.InvokeAgentOutput) eventStream
}

// New creates a Client for agentID and aliasID.
func New(api invokeAPI, agentID, aliasID string) (*Client, error) {
	if api == nil {
		return nil, errors.New("bedrockagent: api must not be nil")
	}
	if strings.TrimSpace(agentID) == "" || strings.TrimSpace(aliasID) == "" {
		return nil, errors.New("bedrockagent: agent id and alias id must not be empty")
	}
	return &Client{api: api, agentID: agentID, aliasID: aliasID, streamOf: outputStream}, nil
}

func outputStream(out *bedrockagentruntime.InvokeAgentOutput) eventStream {
	s := out.GetStream()
	if s == nil {
		return nil
	}
	return s
}

// Invoke sends one turn and returns the concatenated completion chunks.
// Trace and other non-chunk events are skipped.
func (c *Client) Invoke(ctx context.Context, turn domain.AgentTurn) (string, error) {
	if c == nil || c.api == nil {
		return "", errors.New("bedrockagent: client not initialized")
	}
	in := &bedrockagentruntime.InvokeAgentInput{
		AgentId:      aws.String(c.agentID),
		AgentAliasId: aws.String(c.aliasID),
		SessionId:    aws.String(turn.SessionID),
		InputText:    aws.String(turn.InputText),
	}
	if len(turn.SessionAttributes) > 0 {
		in.SessionState = &types.SessionState{SessionAttributes: turn.SessionAttributes}
	}

	out, err := c.api.InvokeAgent(ctx, in)
	if err != nil {
		return "", fmt.Errorf("bedrockagent: invoke agent: %w", err)
	}
	stream := c.streamOf(out)
	if stream == nil {
		return "", nil
	}
	defer func() { _ = stream.Close() }()

	var b strings.Builder
	for {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("bedrockagent: read stream: %w", ctx.Err())
		case ev, ok := <-stream.Events():
			if !ok {
				if err := stream.Err(); err != nil {
					return "", fmt.Errorf("bedrockagent: read stream: %w", err)
				}
				return b.String(), nil
			}
			if chunk, isChunk := ev.(*types.ResponseStreamMemberChunk); isChunk {
				b.Write(chunk.Value.Bytes)
			}
		}
	}
}
