package ai

import (
	"context"
	"errors"
	"fmt"
	"log"

	"proposal_ai_server/internal/ai/prompts"

	openai "github.com/sashabaranov/go-openai"
)

// GenerateText sends one proposal prompt to the chat model and returns the
// raw reply. The model is asked for a JSON object; decoding is left to the
// caller.
func (g *Generator) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: g.textModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: prompts.ProposalSystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Temperature: g.temperature,
		},
	)
	if err != nil {
		return "", fmt.Errorf("openai chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		log.Printf("OpenAI usage for failed proposal request: %+v", resp.Usage)
		return "", errors.New("openai returned empty response")
	}

	log.Printf("Proposal reply received: %d chars, %d total tokens", len(resp.Choices[0].Message.Content), resp.Usage.TotalTokens)
	return resp.Choices[0].Message.Content, nil
}
