package ai

import (
	"context"
	"errors"
	"fmt"

	"proposal_ai_server/internal/ai/utils"

	openai "github.com/sashabaranov/go-openai"
)

// GenerateImage creates one mockup image for prompt and returns a reference
// to it: the hosted URL, or a data URL when the endpoint answers in base64.
func (g *Generator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", errors.New("image prompt is empty")
	}

	req := openai.ImageRequest{
		Prompt:         prompt,
		Model:          g.imageModel,
		N:              1,
		Size:           g.imageSize,
		ResponseFormat: g.imageResponseFormat,
	}

	resp, err := g.client.CreateImage(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai image generation failed: %w", err)
	}

	if len(resp.Data) == 0 {
		return "", errors.New("openai returned no image")
	}

	img := resp.Data[0]
	switch {
	case img.URL != "":
		return img.URL, nil
	case img.B64JSON != "":
		return utils.DataURL("image/png", img.B64JSON), nil
	default:
		return "", errors.New("openai returned an empty image reference")
	}
}
