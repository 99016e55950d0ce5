package semantic

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pricescope/backend/internal/domain"
)

// EmbeddingScorer checks title similarity by embedding both titles and
// comparing them with cosine similarity. Embeddings are memoized per title,
// so repeated comparisons against the same candidate pool only pay for each
// title once.
type EmbeddingScorer struct {
	client    *openai.Client
	model     openai.EmbeddingModel
	threshold float64
	debug     bool

	mu         sync.RWMutex
	embeddings map[string][]float32
}

// NewEmbeddingScorer creates a scorer using the OpenAI embeddings API. An
// empty model name falls back to text-embedding-3-small. baseURL overrides
// the API endpoint for compatible services and tests.
func NewEmbeddingScorer(apiKey, baseURL, model string, threshold float64) *EmbeddingScorer {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	embeddingModel := openai.EmbeddingModel(model)
	if model == "" {
		embeddingModel = openai.SmallEmbedding3
	}

	return &EmbeddingScorer{
		client:     openai.NewClientWithConfig(config),
		model:      embeddingModel,
		threshold:  threshold,
		embeddings: make(map[string][]float32),
	}
}

// SetDebug toggles request logging
func (s *EmbeddingScorer) SetDebug(debug bool) {
	s.debug = debug
}

// CheckSimilarity embeds both titles and compares them. Transport failures
// surface as errors; callers treat those as non-matches.
func (s *EmbeddingScorer) CheckSimilarity(ctx context.Context, titleA, titleB string) (*domain.SemanticResult, error) {
	vecA, vecB, err := s.embedPair(ctx, titleA, titleB)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}

	score := cosineSimilarity(vecA, vecB)
	if s.debug {
		log.Printf("[EMBED] cosine %.3f: %q vs %q", score, titleA, titleB)
	}

	if score >= s.threshold {
		return &domain.SemanticResult{
			Matched: true,
			Score:   score,
			Method:  "semantic",
			Reason:  fmt.Sprintf("embedding cosine %.3f >= threshold %.2f", score, s.threshold),
		}, nil
	}
	return &domain.SemanticResult{
		Score:  score,
		Method: "semantic",
		Reason: fmt.Sprintf("embedding cosine %.3f < threshold %.2f", score, s.threshold),
	}, nil
}

// embedPair returns vectors for both titles, consulting the memo first and
// batching whatever is missing into one API call
func (s *EmbeddingScorer) embedPair(ctx context.Context, titleA, titleB string) ([]float32, []float32, error) {
	s.mu.RLock()
	vecA, okA := s.embeddings[titleA]
	vecB, okB := s.embeddings[titleB]
	s.mu.RUnlock()

	var missing []string
	if !okA {
		missing = append(missing, titleA)
	}
	if !okB && titleB != titleA {
		missing = append(missing, titleB)
	}

	if len(missing) > 0 {
		resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: missing,
			Model: s.model,
		})
		if err != nil {
			return nil, nil, err
		}
		if len(resp.Data) != len(missing) {
			return nil, nil, fmt.Errorf("expected %d embeddings, got %d", len(missing), len(resp.Data))
		}

		s.mu.Lock()
		for i, title := range missing {
			s.embeddings[title] = resp.Data[i].Embedding
		}
		vecA = s.embeddings[titleA]
		vecB = s.embeddings[titleB]
		s.mu.Unlock()
	}

	return vecA, vecB, nil
}

// cosineSimilarity computes the cosine of the angle between two vectors,
// clamped to [0,1] for use as a match score
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if cos < 0 {
		return 0
	}
	if cos > 1 {
		return 1
	}
	return cos
}
