package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"learn-ease-backend/internal/ai"
	"learn-ease-backend/internal/config"
)

type fakeGenerator struct {
	ready  bool
	output string
	err    error
	calls  int
}

func (g *fakeGenerator) Ready() bool { return g.ready }

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	return g.output, g.err
}

func testAIConfig() *config.Config {
	return &config.Config{
		SummaryMinChars:   20,
		FlashcardMinChars: 10,
		NotesMinChars:     20,
	}
}

func TestSummarizeShortInputSkipsNetwork(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`[{"summary_text":"should never be used"}]`))
	}))
	defer srv.Close()

	summarizer := ai.NewSummarizer(srv.URL, "token", 5*time.Second)
	svc := NewAIService(&fakeGenerator{ready: true}, summarizer, testAIConfig())

	got, err := svc.Summarize(context.Background(), "too short")
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if got != SummaryTooShortMessage {
		t.Errorf("expected short-input sentinel, got %q", got)
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Error("short input must not reach the summarizer endpoint")
	}
}

func TestSummarizeSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token" {
			t.Errorf("unexpected authorization header %q", got)
		}
		w.Write([]byte(`[{"summary_text":"  A concise summary.  "}]`))
	}))
	defer srv.Close()

	summarizer := ai.NewSummarizer(srv.URL, "token", 5*time.Second)
	svc := NewAIService(&fakeGenerator{ready: true}, summarizer, testAIConfig())

	got, err := svc.Summarize(context.Background(), strings.Repeat("long enough input. ", 5))
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if got != "A concise summary." {
		t.Errorf("unexpected summary %q", got)
	}
}

func TestSummarizeNotConfigured(t *testing.T) {
	summarizer := ai.NewSummarizer("", "", 5*time.Second)
	svc := NewAIService(&fakeGenerator{ready: true}, summarizer, testAIConfig())

	_, err := svc.Summarize(context.Background(), strings.Repeat("long enough input. ", 5))
	if !errors.Is(err, ai.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSummarizeUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	summarizer := ai.NewSummarizer(srv.URL, "token", 5*time.Second)
	svc := NewAIService(&fakeGenerator{ready: true}, summarizer, testAIConfig())

	_, err := svc.Summarize(context.Background(), strings.Repeat("long enough input. ", 5))
	if !errors.Is(err, ai.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestGenerateFlashcardsShortInput(t *testing.T) {
	gen := &fakeGenerator{ready: true, output: `[{"front":"a","back":"b"}]`}
	svc := NewAIService(gen, nil, testAIConfig())

	cards, err := svc.GenerateFlashcards(context.Background(), "short")
	if err != nil {
		t.Fatalf("GenerateFlashcards returned error: %v", err)
	}
	if cards == nil || len(cards) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", cards)
	}
	if gen.calls != 0 {
		t.Error("short input must not invoke the provider")
	}
}

func TestGenerateFlashcardsSuccess(t *testing.T) {
	gen := &fakeGenerator{ready: true, output: "```json\n[{\"front\":\"Q\",\"back\":\"A\"}]\n```"}
	svc := NewAIService(gen, nil, testAIConfig())

	cards, err := svc.GenerateFlashcards(context.Background(), "a passage that is clearly long enough")
	if err != nil {
		t.Fatalf("GenerateFlashcards returned error: %v", err)
	}
	if len(cards) != 1 || cards[0].Front != "Q" || cards[0].Back != "A" {
		t.Errorf("unexpected cards %#v", cards)
	}
	if gen.calls != 1 {
		t.Errorf("expected 1 provider call, got %d", gen.calls)
	}
}

func TestGenerateFlashcardsNotConfigured(t *testing.T) {
	svc := NewAIService(&fakeGenerator{ready: false}, nil, testAIConfig())

	_, err := svc.GenerateFlashcards(context.Background(), "a passage that is clearly long enough")
	if !errors.Is(err, ai.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestGenerateFlashcardsGarbageOutput(t *testing.T) {
	gen := &fakeGenerator{ready: true, output: "I cannot help with that."}
	svc := NewAIService(gen, nil, testAIConfig())

	_, err := svc.GenerateFlashcards(context.Background(), "a passage that is clearly long enough")
	if !errors.Is(err, ai.ErrBadOutput) {
		t.Fatalf("expected ErrBadOutput, got %v", err)
	}
}

func TestGenerateFlashcardsProviderError(t *testing.T) {
	gen := &fakeGenerator{ready: true, err: ai.ErrUpstream}
	svc := NewAIService(gen, nil, testAIConfig())

	_, err := svc.GenerateFlashcards(context.Background(), "a passage that is clearly long enough")
	if !errors.Is(err, ai.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestGenerateStudyNotesShortInput(t *testing.T) {
	gen := &fakeGenerator{ready: true}
	svc := NewAIService(gen, nil, testAIConfig())

	notes, err := svc.GenerateStudyNotes(context.Background(), "tiny")
	if err != nil {
		t.Fatalf("GenerateStudyNotes returned error: %v", err)
	}
	if notes != NotesTooShortMessage {
		t.Errorf("expected short-input sentinel, got %q", notes)
	}
	if gen.calls != 0 {
		t.Error("short input must not invoke the provider")
	}
}

func TestGenerateStudyNotesVerbatim(t *testing.T) {
	gen := &fakeGenerator{ready: true, output: "```markdown\n# Topic\n- point one\n- point two\n```"}
	svc := NewAIService(gen, nil, testAIConfig())

	notes, err := svc.GenerateStudyNotes(context.Background(), "a passage that is clearly long enough")
	if err != nil {
		t.Fatalf("GenerateStudyNotes returned error: %v", err)
	}
	if notes != "# Topic\n- point one\n- point two" {
		t.Errorf("unexpected notes %q", notes)
	}
}

func TestGenerateStudyNotesEmptyResponse(t *testing.T) {
	gen := &fakeGenerator{ready: true, output: "   \n  "}
	svc := NewAIService(gen, nil, testAIConfig())

	notes, err := svc.GenerateStudyNotes(context.Background(), "a passage that is clearly long enough")
	if err != nil {
		t.Fatalf("GenerateStudyNotes returned error: %v", err)
	}
	if notes != NotesEmptyMessage {
		t.Errorf("expected empty-response sentinel, got %q", notes)
	}
}
