package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Summarizer calls the independently hosted summarization model endpoint.
// The wire format follows the hosted-inference convention: a JSON body with
// an "inputs" field, answered by a list of {"summary_text": ...} candidates.
type Summarizer struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

func NewSummarizer(endpoint, token string, timeout time.Duration) *Summarizer {
	return &Summarizer{
		endpoint: endpoint,
		token:    token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Ready reports whether both the endpoint and the credential are configured.
func (s *Summarizer) Ready() bool {
	return s.endpoint != "" && s.token != ""
}

type summarizeRequest struct {
	Inputs     string          `json:"inputs"`
	Parameters summarizeParams `json:"parameters"`
}

type summarizeParams struct {
	MaxLength int `json:"max_length"`
	MinLength int `json:"min_length"`
}

type summaryCandidate struct {
	SummaryText string `json:"summary_text"`
}

// Summarize sends the text to the hosted model and returns the summary.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	if !s.Ready() {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(summarizeRequest{
		Inputs: text,
		Parameters: summarizeParams{
			MaxLength: 150,
			MinLength: 30,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var candidates []summaryCandidate
	if err := json.Unmarshal(raw, &candidates); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadOutput, err)
	}
	if len(candidates) == 0 || strings.TrimSpace(candidates[0].SummaryText) == "" {
		return "", fmt.Errorf("%w: empty summary", ErrBadOutput)
	}

	return strings.TrimSpace(candidates[0].SummaryText), nil
}
