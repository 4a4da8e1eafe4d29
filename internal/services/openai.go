package services

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const (
	openAIDefaultModel       = "gpt-4o-mini"
	openAIEmbeddingModel     = "text-embedding-3-small"
	openAIEmbeddingDimension = 1536
)

type OpenAIService interface {
	LLMService
	EmbeddingService
}

// openAIService speaks the OpenAI chat completions API, which Groq also
// serves under its own base URL.
type openAIService struct {
	client     openai.Client
	model      string
	embedModel string
	retryDelay time.Duration
}

func NewOpenAIService(apiKey, baseURL, model string, retryDelay time.Duration) (OpenAIService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key for the OpenAI-compatible provider is not set")
	}
	if model == "" {
		model = openAIDefaultModel
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &openAIService{
		client:     openai.NewClient(opts...),
		model:      model,
		embedModel: openAIEmbeddingModel,
		retryDelay: retryDelay,
	}, nil
}

// GenerateText implements LLMService.
func (o *openAIService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	completion, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(float64(temperature)),
		MaxTokens:   openai.Int(4096),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	return completion.Choices[0].Message.Content, nil
}

// GenerateTextWithRetry implements LLMService.
func (o *openAIService) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	return generateWithRetry(ctx, maxRetries, o.retryDelay, func() (string, error) {
		return o.GenerateText(ctx, prompt, temperature)
	})
}

// GenerateEmbedding implements EmbeddingService.
func (o *openAIService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	text = truncateUTF8(text, maxEmbeddingChars)

	resp, err := o.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(o.embedModel),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
		Dimensions: openai.Int(openAIEmbeddingDimension),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	vector := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vector[i] = float32(v)
	}

	return vector, nil
}

func (o *openAIService) Dimension() uint64 {
	return openAIEmbeddingDimension
}
