package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"shopsight/internal/logging"
	"shopsight/internal/model"
	"shopsight/internal/observability"
	"shopsight/internal/tools"
)

// ErrIterationLimit is returned when the model keeps calling tools past MaxIterations.
var ErrIterationLimit = errors.New("agent stopped due to iteration limit")

// Completer is the part of *openai.Client the agent needs.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ToolRunner executes a tool call and returns its text result.
type ToolRunner interface {
	Call(ctx context.Context, name, args string) string
}

// Agent answers one user message by letting the model call catalog tools.
type Agent struct {
	LLM           Completer
	Tools         ToolRunner
	Model         string
	Temperature   float32
	MaxIterations int
}

// Run sends the conversation to the model and executes the tool calls it asks
// for until it produces a plain answer. Only tools enabled by active (plus the
// required ones) are offered and executed.
func (a *Agent) Run(ctx context.Context, query string, history []model.ChatMessage, active []string) (string, error) {
	logger := logging.Component("agent")

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: SystemPrompt(),
	})
	for _, m := range history {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: query,
	})

	defs := tools.Select(active)
	maxIter := a.MaxIterations
	if maxIter <= 0 {
		maxIter = 5
	}

	for i := 1; i <= maxIter; i++ {
		chars := 0
		for _, m := range messages {
			chars += len(m.Content)
		}
		// rough estimate: 1 token ~= 4 characters
		logger.Debug().Int("iteration", i).Int("messages", len(messages)).Int("chars", chars).Int("tokens_est", chars/4).Msg("sending to LLM")

		resp, err := a.LLM.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       a.Model,
			Messages:    messages,
			Tools:       defs,
			Temperature: a.Temperature,
		})
		if err != nil {
			return "", fmt.Errorf("chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("chat completion returned no choices")
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			observability.AgentIterations.Observe(float64(i))
			return msg.Content, nil
		}

		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			name := call.Function.Name
			var out string
			if tools.Enabled(active, name) {
				out = a.Tools.Call(ctx, name, call.Function.Arguments)
			} else {
				out = fmt.Sprintf("Tool %q is not enabled.", name)
			}
			logger.Info().Str("tool", name).Int("result_chars", len(out)).Msg("tool executed")
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    out,
				ToolCallID: call.ID,
			})
		}
	}

	observability.AgentIterations.Observe(float64(maxIter))
	return "", ErrIterationLimit
}

// Reply is Run for user-facing callers: errors become an apology text.
func (a *Agent) Reply(ctx context.Context, query string, history []model.ChatMessage, active []string) string {
	answer, err := a.Run(ctx, query, history, active)
	if err == nil {
		return answer
	}
	logger := logging.Component("agent")
	logger.Error().Err(err).Msg("agent error")
	return errorReply(err)
}

func errorReply(err error) string {
	var apiErr *openai.APIError
	if (errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests) ||
		strings.Contains(strings.ToLower(err.Error()), "quota") {
		return "Apologies, I seem to be quite popular right now and reached my processing limit. Please try again in a moment. ⏳"
	}
	if errors.Is(err, ErrIterationLimit) {
		return "Sorry, I couldn't finish looking that up. Could you narrow down your request? 🙏"
	}
	return "I encountered an error while processing your request: " + err.Error()
}
