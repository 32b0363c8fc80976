package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"

	"github.com/Rarebox/kalorify-ai/internal/analysis"
	"github.com/Rarebox/kalorify-ai/internal/config"
)

var SystemPrompt = `You are a nutrition analyst looking at a photo of a meal.
Identify every food item on the plate and estimate its portion and nutrition.
Respond with JSON only, no prose and no markdown, in exactly this shape:
[
  {
    "output": {
      "items": [
        {
          "name": "English food name, Title Case",
          "portion_g": number,
          "calories_kcal": number,
          "protein_g": number,
          "carbs_g": number,
          "fat_g": number,
          "method": "vision",
          "dietFit": ["lowercase tags such as vegetarian, vegan, high-protein, low-carb, keto, gluten-free, dairy-free, low-calorie"],
          "note": "one short sentence about the item's nutrition",
          "tip": "one short actionable sentence"
        }
      ],
      "totals": {"portion_g": number, "calories_kcal": number, "protein_g": number, "carbs_g": number, "fat_g": number},
      "summary": {"quality": "one sentence assessment of the whole meal", "overallTip": "one sentence tip for the whole meal"}
    }
  }
]
If the photo contains no food, respond with [].`

// OpenAI analyzes meal photos with a vision-capable chat model.
type OpenAI struct {
	client *openai.Client
	cfg    *config.OpenAIConfig
}

func NewOpenAI(cfg *config.OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key cannot be empty")
	}

	var client *openai.Client

	switch cfg.Provider {
	case "azure":
		client = openai.NewClient(
			azure.WithEndpoint(cfg.APIEndpoint, cfg.APIVersion),
			azure.WithAPIKey(cfg.APIKey),
			option.WithMaxRetries(0),
		)
	default: // "openai"
		client = openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(cfg.APIEndpoint),
			option.WithMaxRetries(0),
		)
	}

	return &OpenAI{
		client: client,
		cfg:    cfg,
	}, nil
}

func (o *OpenAI) Name() string { return "openai" }

// Complete sends the image with the analysis prompt and returns the model's
// reply unparsed.
func (o *OpenAI) Complete(ctx context.Context, img analysis.Image, opts ...Option) (*Response, error) {
	options := &Options{
		Model:       o.cfg.Model,
		Temperature: 0,
		MaxTokens:   o.cfg.MaxTokens,
	}
	for _, opt := range opts {
		opt(options)
	}

	resp, err := o.client.Chat.Completions.New(
		ctx,
		openai.ChatCompletionNewParams{
			Model: openai.F(options.Model),
			Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(SystemPrompt),
				openai.UserMessageParts(
					openai.TextPart("Analyze this meal."),
					openai.ImagePart(dataURL(img)),
				),
			}),
			Temperature: openai.F(options.Temperature),
			MaxTokens:   openai.F(options.MaxTokens),
		},
	)
	if err != nil {
		return nil, err
	}

	response := &Response{
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	if len(resp.Choices) > 0 {
		response.Content = resp.Choices[0].Message.Content
	}

	return response, nil
}

// Analyze runs the image through the model and parses the reply the same way
// a webhook response is parsed.
func (o *OpenAI) Analyze(ctx context.Context, img analysis.Image) (*analysis.Result, error) {
	resp, err := o.Complete(ctx, img)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, &analysis.TransportError{StatusCode: apiErr.StatusCode, Err: err}
		}
		return nil, &analysis.TransportError{Err: err}
	}

	slog.Debug("Vision analysis completed", "model", o.cfg.Model, "tokens", resp.Usage.TotalTokens)

	payload, err := ExtractEnvelopes(resp.Content)
	if err != nil {
		return nil, &analysis.MalformedResponseError{Reason: "model reply has no JSON", Err: err}
	}

	return analysis.Parse(payload)
}

func dataURL(img analysis.Image) string {
	contentType := img.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(img.Data)
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}
