package services

import (
	"context"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"alfredoptarigan/cold-mail-generator/internal/config"
)

type LLMService interface {
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
	GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error)
}

type EmbeddingService interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	Dimension() uint64
}

const (
	groqBaseURL      = "https://api.groq.com/openai/v1"
	groqDefaultModel = "llama-3.1-8b-instant"
	maxRetryBackoff  = 30 * time.Second
)

// NewLLMService builds the text generation provider named by cfg.Provider.
func NewLLMService(cfg config.LLMConfig, retryDelay time.Duration) (LLMService, error) {
	switch cfg.Provider {
	case "", "gemini":
		return NewGeminiService(cfg.GeminiAPIKey, cfg.Model, retryDelay)
	case "groq":
		model := cfg.Model
		if model == "" {
			model = groqDefaultModel
		}
		baseURL := cfg.OpenAIBaseURL
		if baseURL == "" {
			baseURL = groqBaseURL
		}
		return NewOpenAIService(cfg.GroqAPIKey, baseURL, model, retryDelay)
	case "openai":
		return NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Model, retryDelay)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
}

// NewEmbeddingService builds the embedding provider named by cfg.EmbeddingProvider.
func NewEmbeddingService(cfg config.LLMConfig) (EmbeddingService, error) {
	switch cfg.EmbeddingProvider {
	case "", "gemini":
		return NewGeminiService(cfg.GeminiAPIKey, "", 0)
	case "openai":
		return NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, "", 0)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.EmbeddingProvider)
	}
}

// generateWithRetry calls generate up to maxRetries times, doubling the wait
// between attempts starting from initialDelay.
func generateWithRetry(ctx context.Context, maxRetries int, initialDelay time.Duration, generate func() (string, error)) (string, error) {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	delay := initialDelay

	for attempt := 1; attempt <= maxRetries; attempt++ {
		result, err := generate()
		if err == nil {
			return result, nil
		}

		lastErr = err

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		if attempt < maxRetries {
			log.Printf("⚠️ Attempt %d failed: %v. Retrying...\n", attempt, err)

			if delay > 0 {
				select {
				case <-ctx.Done():
					return "", fmt.Errorf("context cancelled: %w", ctx.Err())
				case <-time.After(delay):
				}
				delay = nextBackoff(delay)
			}
		}
	}

	return "", fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}

func nextBackoff(delay time.Duration) time.Duration {
	delay *= 2
	if delay > maxRetryBackoff {
		return maxRetryBackoff
	}
	return delay
}

// truncateUTF8 cuts text to at most maxBytes without splitting a rune.
func truncateUTF8(text string, maxBytes int) string {
	if len(text) <= maxBytes {
		return text
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
