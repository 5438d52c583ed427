package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pestaway/voiceagent/logger"
	"github.com/pestaway/voiceagent/types"
)

// OpenAIProvider implements the Provider interface against the OpenAI
// chat completions API (or any compatible endpoint).
type OpenAIProvider struct {
	id      string
	model   string
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewOpenAIProvider creates a new OpenAI provider. The timeout bounds one
// full streaming turn, not individual chunks.
func NewOpenAIProvider(model, baseURL, apiKey string, timeout time.Duration) *OpenAIProvider {
	return &OpenAIProvider{
		id:      "openai/" + model,
		model:   model,
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// ID returns the provider ID.
func (p *OpenAIProvider) ID() string {
	return p.id
}

// Close closes the HTTP client and cleans up idle connections.
func (p *OpenAIProvider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

// OpenAI API request structures
type openAIRequest struct {
	Model         string                 `json:"model"`
	Messages      []openAIMessage        `json:"messages"`
	Tools         []openAITool           `json:"tools,omitempty"`
	Temperature   float32                `json:"temperature"`
	MaxTokens     int                    `json:"max_tokens"`
	Stream        bool                   `json:"stream"`
	StreamOptions map[string]interface{} `json:"stream_options,omitempty"`
}

type openAIMessage struct {
	Role       string           `json:"role"`
	Content    string           `json:"content"`
	ToolCalls  []openAIToolCall `json:"tool_calls,omitempty"`
	ToolCallID string           `json:"tool_call_id,omitempty"`
}

type openAIToolCall struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Function openAIFunction `json:"function"`
}

type openAIFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type openAITool struct {
	Type     string           `json:"type"`
	Function openAIToolSchema `json:"function"`
}

type openAIToolSchema struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// buildMessages converts canonical messages to the OpenAI wire format.
// Assistant messages carrying tool calls and tool-role result messages use
// the function-calling sub-protocol shapes.
func buildMessages(req ChatRequest) []openAIMessage {
	messages := make([]openAIMessage, 0, len(req.Messages))

	for _, msg := range req.Messages {
		m := openAIMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
		for _, tc := range msg.ToolCalls {
			m.ToolCalls = append(m.ToolCalls, openAIToolCall{
				ID:   tc.ID,
				Type: "function",
				Function: openAIFunction{
					Name:      tc.Name,
					Arguments: string(tc.Args),
				},
			})
		}
		if msg.Role == types.RoleTool && msg.ToolResult != nil {
			m.ToolCallID = msg.ToolResult.ID
			if m.Content == "" {
				m.Content = msg.ToolResult.Content
			}
		}
		messages = append(messages, m)
	}

	return messages
}

// buildTools converts tool definitions to the OpenAI function schema format.
func buildTools(defs []types.ToolDef) []openAITool {
	if len(defs) == 0 {
		return nil
	}
	tools := make([]openAITool, 0, len(defs))
	for _, def := range defs {
		tools = append(tools, openAITool{
			Type: "function",
			Function: openAIToolSchema{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.InputSchema,
			},
		})
	}
	return tools
}

// StreamChat opens a streaming chat completions call and yields stream units.
func (p *OpenAIProvider) StreamChat(ctx context.Context, req ChatRequest) (<-chan StreamUnit, error) {
	openAIReq := openAIRequest{
		Model:       p.model,
		Messages:    buildMessages(req),
		Tools:       buildTools(req.Tools),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stream:      true,
	}

	reqBody, err := json.Marshal(openAIReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, logger.RedactSensitiveData(string(body)))
	}

	outChan := make(chan StreamUnit)
	go p.streamResponse(ctx, resp.Body, outChan)

	return outChan, nil
}

// streamResponse reads the SSE stream and forwards each delta as a unit.
// Function-call fragments are forwarded as-is; accumulation is the consumer's
// responsibility.
func (p *OpenAIProvider) streamResponse(ctx context.Context, body io.ReadCloser, outChan chan<- StreamUnit) {
	defer close(outChan)
	defer body.Close()

	scanner := NewSSEScanner(body)

	for scanner.Scan() {
		data := scanner.Data()
		if data == "[DONE]" {
			send(ctx, outChan, StreamUnit{Kind: UnitDone, FinishReason: "stop"})
			return
		}

		var chunk struct {
			Choices []struct {
				Delta struct {
					Content   string `json:"content"`
					ToolCalls []struct {
						Index    int    `json:"index"`
						ID       string `json:"id,omitempty"`
						Function struct {
							Name      string `json:"name,omitempty"`
							Arguments string `json:"arguments,omitempty"`
						} `json:"function,omitempty"`
					} `json:"tool_calls,omitempty"`
				} `json:"delta"`
				FinishReason *string `json:"finish_reason"`
			} `json:"choices"`
		}

		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			continue // Skip malformed chunks
		}

		if len(chunk.Choices) == 0 {
			continue
		}

		choice := chunk.Choices[0]

		if choice.Delta.Content != "" {
			if !send(ctx, outChan, StreamUnit{Kind: UnitText, Delta: choice.Delta.Content}) {
				return
			}
		}

		for _, tc := range choice.Delta.ToolCalls {
			unit := StreamUnit{
				Kind:          UnitToolCallDelta,
				ToolCallIndex: tc.Index,
				ToolCallID:    tc.ID,
				ToolName:      tc.Function.Name,
				ArgsDelta:     tc.Function.Arguments,
			}
			if !send(ctx, outChan, unit) {
				return
			}
		}

		if choice.FinishReason != nil {
			send(ctx, outChan, StreamUnit{Kind: UnitDone, FinishReason: *choice.FinishReason})
			return
		}
	}

	if err := scanner.Err(); err != nil {
		send(ctx, outChan, StreamUnit{Kind: UnitError, Err: err})
		return
	}

	// Stream ended without a terminal chunk; treat as a normal stop.
	send(ctx, outChan, StreamUnit{Kind: UnitDone, FinishReason: "stop"})
}

// send delivers a unit unless the context is canceled first.
func send(ctx context.Context, ch chan<- StreamUnit, unit StreamUnit) bool {
	select {
	case ch <- unit:
		return true
	case <-ctx.Done():
		return false
	}
}
