// Package diagnosis wraps the generative AI collaborator that produces a
// free-text repair suggestion from a printer model and fault description.
package diagnosis

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/print-expert/repair-service/internal/config"
)

// FallbackSuggestion is returned on any collaborator failure. Callers must
// treat the collaborator as always succeeding; only the text varies.
const FallbackSuggestion = "AI diagnostic suggestion is currently unavailable."

// NoSuggestion is returned when the model produces an empty answer.
const NoSuggestion = "No diagnostic suggestion available."

const systemPrompt = "You are a printer repair service expert. Reply with a short preliminary diagnosis (at most 3 sentences) and a suggested fix for the technician."

// Client calls the chat-completion API.
type Client struct {
	api    *openai.Client
	model  string
	logger *zap.Logger
}

// NewClient builds the collaborator client. With no API key configured the
// client still works and every call yields the fallback text.
func NewClient(cfg config.DiagnosisConfig, logger *zap.Logger) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	return &Client{
		api:    openai.NewClientWithConfig(apiCfg),
		model:  cfg.Model,
		logger: logger,
	}
}

// Suggest returns a diagnostic suggestion for the reported fault. Failures
// (network, auth, quota, cancelled context) are absorbed into the fallback
// string and logged for operators. The context is the caller's cancellation
// handle: abandoning the request cancels the in-flight call.
func (c *Client) Suggest(ctx context.Context, printerModel, description string) string {
	if c == nil || c.api == nil {
		return FallbackSuggestion
	}

	prompt := fmt.Sprintf("Printer model: %s\nProblem description: %s", printerModel, description)
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   200,
		Temperature: 0.7,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		c.logger.Warn("diagnostic suggestion failed", zap.Error(err))
		return FallbackSuggestion
	}
	if len(resp.Choices) == 0 {
		return NoSuggestion
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return NoSuggestion
	}
	return text
}
