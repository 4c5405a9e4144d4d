package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	genai "github.com/google/generative-ai-go/genai"

	"learn-ease-backend/internal/logger"
)

// TextGenerator is the capability the generation orchestrator depends on.
type TextGenerator interface {
	// Ready reports whether the provider was constructed with a usable
	// endpoint and credential.
	Ready() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiProvider calls the Gemini API for flashcard and study-note prompts.
// It is constructed explicitly and carries its own readiness state; nothing
// in this package holds provider handles as globals.
type GeminiProvider struct {
	client  *genai.Client
	model   string
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	timeout time.Duration
}

// NewGeminiProvider builds the provider. A missing API key is not an error:
// the provider is returned not-ready and every Generate call reports
// ErrNotConfigured, so the service can boot and surface 503s per endpoint.
func NewGeminiProvider(apiKey, model string, timeout time.Duration) (*GeminiProvider, error) {
	p := &GeminiProvider{
		model:   model,
		timeout: timeout,
	}
	if strings.TrimSpace(apiKey) == "" {
		return p, nil
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	p.client = client

	p.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "GeminiAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	// Generation calls are interactive and expensive; keep the client-side
	// request rate well under the free-tier quota.
	p.limiter = rate.NewLimiter(rate.Limit(10.0*0.9/60.0), 1)

	return p, nil
}

func (p *GeminiProvider) Ready() bool {
	return p.client != nil
}

// Generate sends a single prompt and returns the concatenated text parts of
// the first candidate. No retries: transient upstream faults surface to the
// caller as ErrUpstream.
func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	tracer := otel.Tracer("gemini-provider")
	ctx, span := tracer.Start(ctx, "gemini.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("gemini.model", p.model),
		attribute.Int("gemini.prompt_chars", len(prompt)),
	)

	if !p.Ready() {
		span.SetAttributes(attribute.Bool("gemini.not_configured", true))
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	result, err := p.breaker.Execute(func() (interface{}, error) {
		model := p.client.GenerativeModel(p.model)
		model.SetTemperature(0.7)
		model.SetMaxOutputTokens(2048)

		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return nil, err
		}
		return resp, nil
	})
	if err != nil {
		span.SetAttributes(attribute.Bool("gemini.error", true))
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return "", fmt.Errorf("%w: circuit breaker open", ErrUpstream)
		}
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	text := extractResponseText(result.(*genai.GenerateContentResponse))
	span.SetAttributes(attribute.Int("gemini.response_chars", len(text)))
	return text, nil
}

// Close releases the underlying API client.
func (p *GeminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

func extractResponseText(resp *genai.GenerateContentResponse) string {
	var result strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				result.WriteString(string(text))
			}
		}
	}
	return result.String()
}
