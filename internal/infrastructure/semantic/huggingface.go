package semantic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/pricescope/backend/internal/domain"
)

// DefaultHuggingFaceURL is the hosted inference endpoint for the sentence
// similarity model the comparison pipeline was tuned against
const DefaultHuggingFaceURL = "https://api-inference.huggingface.co/models/sentence-transformers/all-MiniLM-L6-v2"

// HuggingFaceScorer checks title similarity through the Hugging Face
// sentence-similarity inference API
type HuggingFaceScorer struct {
	httpClient  *http.Client
	apiToken    string
	apiURL      string
	threshold   float64
	rateLimiter *rate.Limiter
	debug       bool
}

// similarityRequest is the sentence-similarity pipeline payload: one source
// sentence scored against a list of candidates
type similarityRequest struct {
	Inputs similarityInputs `json:"inputs"`
}

type similarityInputs struct {
	SourceSentence string   `json:"source_sentence"`
	Sentences      []string `json:"sentences"`
}

// NewHuggingFaceScorer creates a scorer against the given endpoint. An empty
// apiURL falls back to the hosted default.
func NewHuggingFaceScorer(apiToken, apiURL string, threshold float64) *HuggingFaceScorer {
	if apiURL == "" {
		apiURL = DefaultHuggingFaceURL
	}

	// The free inference tier allows roughly 1000 requests per hour
	limiter := rate.NewLimiter(rate.Limit(0.278), 10)

	return &HuggingFaceScorer{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiToken:    apiToken,
		apiURL:      apiURL,
		threshold:   threshold,
		rateLimiter: limiter,
	}
}

// SetDebug toggles request logging
func (s *HuggingFaceScorer) SetDebug(debug bool) {
	s.debug = debug
}

// CheckSimilarity scores titleA against titleB. "No match", a missing token,
// and a still-loading model all come back as Matched=false with a reason;
// only transport failures after retries surface as errors.
func (s *HuggingFaceScorer) CheckSimilarity(ctx context.Context, titleA, titleB string) (*domain.SemanticResult, error) {
	if s.apiToken == "" {
		return &domain.SemanticResult{
			Method: "semantic",
			Reason: "API token not configured",
		}, nil
	}

	payload, err := json.Marshal(similarityRequest{
		Inputs: similarityInputs{SourceSentence: titleA, Sentences: []string{titleB}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := s.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, status, err := s.doRequest(ctx, payload)
		if err != nil {
			if s.debug {
				log.Printf("[HF] Request error (attempt %d): %v", attempt, err)
			}
			lastErr = err
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		switch {
		case status == http.StatusOK:
			return s.parseScores(body)
		case status == http.StatusServiceUnavailable:
			// The hosted model spins down when idle; not an error
			return &domain.SemanticResult{
				Method: "semantic",
				Reason: "model is loading, try again in a moment",
			}, nil
		default:
			if s.debug {
				log.Printf("[HF] API error (attempt %d) - Status: %d, Body: %s", attempt, status, string(body))
			}
			lastErr = fmt.Errorf("similarity API returned status %d", status)
			time.Sleep(exponentialBackoff(attempt))
		}
	}

	return nil, lastErr
}

func (s *HuggingFaceScorer) doRequest(ctx context.Context, payload []byte) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// parseScores reads the API's score array (one entry per candidate sentence)
// and applies the configured threshold
func (s *HuggingFaceScorer) parseScores(body []byte) (*domain.SemanticResult, error) {
	var scores []float64
	if err := json.Unmarshal(body, &scores); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("similarity API returned no scores")
	}

	score := scores[0]
	if score >= s.threshold {
		return &domain.SemanticResult{
			Matched: true,
			Score:   score,
			Method:  "semantic",
			Reason:  fmt.Sprintf("semantic score %.3f >= threshold %.2f", score, s.threshold),
		}, nil
	}
	return &domain.SemanticResult{
		Score:  score,
		Method: "semantic",
		Reason: fmt.Sprintf("semantic score %.3f < threshold %.2f", score, s.threshold),
	}, nil
}

// exponentialBackoff returns the sleep before retry n: 500ms, 1s, 2s
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}
