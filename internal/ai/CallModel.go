package ai

import (
	"context"
	"fmt"
	"log"

	"whiteboard2web/internal/ai/prompts"

	openai "github.com/sashabaranov/go-openai"
)

// CallModel sends one chat completion request for the given prompt and
// returns the text of the first choice. It never retries.
func (g *Generator) CallModel(ctx context.Context, prompt string) (string, error) {
	if g.cfg.APIKey == "" {
		return "", ErrMissingAPIKey
	}

	resp, err := g.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: g.cfg.Model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: prompts.SystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			MaxTokens:   maxTokens,
			Temperature: temperature,
			TopP:        topP,
		},
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		log.Printf("Completion usage for empty response: %+v", resp.Usage)
		return "", fmt.Errorf("%w: %w", ErrTransport, errEmptyCompletion)
	}
	return resp.Choices[0].Message.Content, nil
}
