package ai

import (
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// Settings configures the OpenAI-compatible endpoints used for text and
// image generation.
type Settings struct {
	APIKey              string
	BaseURL             string // empty means the OpenAI default
	TextModel           string
	ImageModel          string
	ImageSize           string
	ImageResponseFormat string // "url" or "b64_json"
	Temperature         float32
	HTTPClient          *http.Client
}

type Generator struct {
	client              *openai.Client
	textModel           string
	imageModel          string
	imageSize           string
	imageResponseFormat string
	temperature         float32
}

func NewGenerator(s Settings) (*Generator, error) {
	if s.APIKey == "" {
		return nil, errors.New("openai api key missing; set OPENAI_API_KEY")
	}
	if s.TextModel == "" {
		s.TextModel = openai.GPT4o
	}
	if s.ImageModel == "" {
		s.ImageModel = openai.CreateImageModelDallE3
	}
	if s.ImageSize == "" {
		s.ImageSize = openai.CreateImageSize1792x1024
	}
	if s.ImageResponseFormat == "" {
		s.ImageResponseFormat = openai.CreateImageResponseFormatURL
	}

	// No retry transport: a failed generation surfaces to the caller as is.
	config := openai.DefaultConfig(s.APIKey)
	if s.BaseURL != "" {
		config.BaseURL = s.BaseURL
	}
	if s.HTTPClient != nil {
		config.HTTPClient = s.HTTPClient
	}

	return &Generator{
		client:              openai.NewClientWithConfig(config),
		textModel:           s.TextModel,
		imageModel:          s.ImageModel,
		imageSize:           s.ImageSize,
		imageResponseFormat: s.ImageResponseFormat,
		temperature:         s.Temperature,
	}, nil
}
