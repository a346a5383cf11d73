package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/silkmart/support-assistant/internal/domain/assistant"
	"github.com/silkmart/support-assistant/internal/infra/llm/chatgpt"
	apperrors "github.com/silkmart/support-assistant/pkg/errors"
	"github.com/silkmart/support-assistant/pkg/metrics"
)

// Config drives the answer generator prompts.
type Config struct {
	Model         string
	Temperature   float32
	SystemPrompt  string
	ContextPrompt string
	OpenPrompt    string
	StoreName     string
}

const (
	defaultSystemPrompt  = "You are a helpful customer-support assistant for an e-commerce store. Always be polite and professional."
	defaultContextPrompt = "Based on the following similar questions and answers:\n%s\n\nPlease provide a comprehensive answer to: %s"
	defaultOpenPrompt    = "Please answer this question about %s: %s"
)

type chatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// ChatGPTGenerator builds one of two fixed prompt templates and performs a
// single chat completion; when the model requests tools it runs exactly one
// tool round before asking for the final completion. No retries.
type ChatGPTGenerator struct {
	cfg    Config
	client chatClient
	tools  *assistant.ToolRegistry
	logger *slog.Logger
}

// NewChatGPTGenerator constructs the generator. tools may be nil when no
// capabilities are registered.
func NewChatGPTGenerator(cfg Config, client chatClient, tools *assistant.ToolRegistry, logger *slog.Logger) *ChatGPTGenerator {
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = defaultSystemPrompt
	}
	if cfg.ContextPrompt == "" {
		cfg.ContextPrompt = defaultContextPrompt
	}
	if cfg.OpenPrompt == "" {
		cfg.OpenPrompt = defaultOpenPrompt
	}
	return &ChatGPTGenerator{
		cfg:    cfg,
		client: client,
		tools:  tools,
		logger: logger.With("component", "llm.generator"),
	}
}

// Generate implements assistant.Generator.
func (g *ChatGPTGenerator) Generate(ctx context.Context, question, contextBlock string) (assistant.Generation, error) {
	var user string
	if strings.TrimSpace(contextBlock) == "" {
		user = fmt.Sprintf(g.cfg.OpenPrompt, g.cfg.StoreName, question)
	} else {
		user = fmt.Sprintf(g.cfg.ContextPrompt, contextBlock, question)
	}
	messages := []chatgpt.Message{
		{Role: "system", Content: g.cfg.SystemPrompt},
		{Role: "user", Content: user},
	}

	resp, err := g.complete(ctx, messages)
	if err != nil {
		return assistant.Generation{}, err
	}
	usage := toUsage(resp.Usage)
	if len(resp.Choices) == 0 {
		return assistant.Generation{}, apperrors.Wrap(apperrors.KindLLM, "backend returned no choices", nil)
	}

	choice := resp.Choices[0].Message
	if len(choice.ToolCalls) > 0 && g.tools != nil {
		messages = append(messages, choice)
		messages = append(messages, g.runToolRound(ctx, choice.ToolCalls)...)
		final, err := g.complete(ctx, messages)
		if err != nil {
			return assistant.Generation{}, err
		}
		usage = usage.Add(toUsage(final.Usage))
		if len(final.Choices) == 0 {
			return assistant.Generation{}, apperrors.Wrap(apperrors.KindLLM, "backend returned no choices after tool round", nil)
		}
		choice = final.Choices[0].Message
	}

	answer := strings.TrimSpace(choice.Content)
	if answer == "" {
		return assistant.Generation{}, apperrors.Wrap(apperrors.KindLLM, "backend returned an empty answer", nil)
	}
	return assistant.Generation{Answer: answer, Usage: usage}, nil
}

func (g *ChatGPTGenerator) complete(ctx context.Context, messages []chatgpt.Message) (chatgpt.ChatCompletionResponse, error) {
	req := chatgpt.ChatCompletionRequest{
		Model:       g.cfg.Model,
		Messages:    messages,
		Temperature: g.cfg.Temperature,
		Tools:       g.toolDefinitions(),
	}
	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return chatgpt.ChatCompletionResponse{}, apperrors.Wrap(apperrors.KindLLM, "chat completion failed", err)
	}
	return resp, nil
}

func (g *ChatGPTGenerator) runToolRound(ctx context.Context, calls []chatgpt.ToolCall) []chatgpt.Message {
	out := make([]chatgpt.Message, 0, len(calls))
	for _, call := range calls {
		args := map[string]any{}
		if call.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
				g.logger.Warn("tool arguments malformed", "tool", call.Function.Name, "error", err)
			}
		}
		result, err := g.tools.Invoke(ctx, call.Function.Name, args)
		if err != nil {
			g.logger.Warn("tool invocation failed", "tool", call.Function.Name, "error", err)
			result = "Error: " + err.Error()
		}
		out = append(out, chatgpt.Message{
			Role:       "tool",
			Content:    result,
			ToolCallID: call.ID,
		})
	}
	return out
}

func (g *ChatGPTGenerator) toolDefinitions() []chatgpt.Tool {
	if g.tools == nil {
		return nil
	}
	registered := g.tools.List()
	if len(registered) == 0 {
		return nil
	}
	defs := make([]chatgpt.Tool, 0, len(registered))
	for _, t := range registered {
		defs = append(defs, chatgpt.Tool{
			Type: "function",
			Function: chatgpt.ToolFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return defs
}

func toUsage(u chatgpt.Usage) metrics.TokenUsage {
	return metrics.TokenUsage{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}
}

var _ assistant.Generator = (*ChatGPTGenerator)(nil)

// StaticGenerator answers without external calls. It surfaces the first
// answer from the context block when one exists, otherwise a fixed message;
// used when no API key is configured and in tests.
type StaticGenerator struct{}

// Generate implements assistant.Generator.
func (StaticGenerator) Generate(_ context.Context, question, contextBlock string) (assistant.Generation, error) {
	for _, line := range strings.Split(contextBlock, "\n") {
		if strings.HasPrefix(line, "A: ") {
			return assistant.Generation{Answer: strings.TrimPrefix(line, "A: ")}, nil
		}
		if strings.HasPrefix(line, "Content: ") {
			return assistant.Generation{Answer: strings.TrimPrefix(line, "Content: ")}, nil
		}
	}
	return assistant.Generation{Answer: "I could not find that in our help pages, but our support team can assist with: " + question}, nil
}

var _ assistant.Generator = StaticGenerator{}
