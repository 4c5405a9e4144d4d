package services

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"learn-ease-backend/internal/ai"
	"learn-ease-backend/internal/config"
	"learn-ease-backend/models"
)

// Benign sentinel results. These are successes: the caller gets a normal
// response body and no provider is contacted.
const (
	SummaryTooShortMessage = "Input text is too short to summarize effectively."
	NotesTooShortMessage   = "Input text is too short to generate meaningful study notes."
	NotesEmptyMessage      = "Could not generate study notes for the provided text."
)

// AIService coordinates prompt construction, provider invocation and output
// parsing for the three generation tasks. Nothing it produces is persisted.
type AIService struct {
	generator  ai.TextGenerator
	summarizer *ai.Summarizer
	cfg        *config.Config
}

func NewAIService(generator ai.TextGenerator, summarizer *ai.Summarizer, cfg *config.Config) *AIService {
	return &AIService{generator: generator, summarizer: summarizer, cfg: cfg}
}

// Summarize sends the text to the hosted summarization model. Input below the
// minimum returns the sentinel without any network call.
func (s *AIService) Summarize(ctx context.Context, text string) (string, error) {
	ctx, span := otel.Tracer("generation").Start(ctx, "ai.summarize")
	defer span.End()
	span.SetAttributes(attribute.Int("input.chars", len(text)))

	if len(strings.TrimSpace(text)) < s.cfg.SummaryMinChars {
		return SummaryTooShortMessage, nil
	}
	if s.summarizer == nil || !s.summarizer.Ready() {
		return "", ai.ErrNotConfigured
	}
	return s.summarizer.Summarize(ctx, text)
}

// GenerateFlashcards asks the provider for a strict JSON array of front/back
// pairs and parses it. Short input yields an empty list, not an error.
func (s *AIService) GenerateFlashcards(ctx context.Context, text string) ([]models.Flashcard, error) {
	ctx, span := otel.Tracer("generation").Start(ctx, "ai.flashcards")
	defer span.End()
	span.SetAttributes(attribute.Int("input.chars", len(text)))

	if len(strings.TrimSpace(text)) < s.cfg.FlashcardMinChars {
		return []models.Flashcard{}, nil
	}
	if s.generator == nil || !s.generator.Ready() {
		return nil, ai.ErrNotConfigured
	}

	prompt := flashcardsPrompt(text)
	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	cards, err := ai.ParseFlashcards(raw)
	if err != nil {
		return nil, fmt.Errorf("flashcard generation: %w", err)
	}
	span.SetAttributes(attribute.Int("cards.count", len(cards)))
	return cards, nil
}

// GenerateStudyNotes asks the provider for structured markdown notes. Any
// non-empty response is returned verbatim after trimming.
func (s *AIService) GenerateStudyNotes(ctx context.Context, text string) (string, error) {
	ctx, span := otel.Tracer("generation").Start(ctx, "ai.study_notes")
	defer span.End()
	span.SetAttributes(attribute.Int("input.chars", len(text)))

	if len(strings.TrimSpace(text)) < s.cfg.NotesMinChars {
		return NotesTooShortMessage, nil
	}
	if s.generator == nil || !s.generator.Ready() {
		return "", ai.ErrNotConfigured
	}

	raw, err := s.generator.Generate(ctx, studyNotesPrompt(text))
	if err != nil {
		return "", err
	}

	notes := strings.TrimSpace(ai.CleanModelOutput(raw))
	if notes == "" {
		return NotesEmptyMessage, nil
	}
	return notes, nil
}

func flashcardsPrompt(text string) string {
	var b strings.Builder
	b.WriteString("You are a study assistant. Create flashcards from the text below.\n")
	b.WriteString("Respond with ONLY a JSON array, no prose and no code fences.\n")
	b.WriteString("Each element must be an object with exactly two string fields: \"front\" (a question or term) and \"back\" (the answer or definition).\n")
	b.WriteString("If the text contains nothing worth a flashcard, respond with [].\n\n")
	b.WriteString("Text:\n")
	b.WriteString(text)
	return b.String()
}

func studyNotesPrompt(text string) string {
	var b strings.Builder
	b.WriteString("You are a study assistant. Produce concise study notes for the text below.\n")
	b.WriteString("Use markdown with short headings and bullet points. Cover the key concepts, definitions and relationships.\n")
	b.WriteString("Respond with the notes only.\n\n")
	b.WriteString("Text:\n")
	b.WriteString(text)
	return b.String()
}
