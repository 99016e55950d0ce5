package semantic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHuggingFaceScorer(t *testing.T) {
	scorer := NewHuggingFaceScorer("test-token", "", 0.78)

	assert.NotNil(t, scorer)
	assert.Equal(t, "test-token", scorer.apiToken)
	assert.Equal(t, DefaultHuggingFaceURL, scorer.apiURL)
	assert.Equal(t, 0.78, scorer.threshold)
	assert.NotNil(t, scorer.httpClient)
	assert.NotNil(t, scorer.rateLimiter)
	assert.False(t, scorer.debug)
}

func TestHuggingFaceScorer_SetDebug(t *testing.T) {
	scorer := NewHuggingFaceScorer("test-token", "", 0.78)

	assert.False(t, scorer.debug)
	scorer.SetDebug(true)
	assert.True(t, scorer.debug)
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 500 * time.Millisecond},
		{2, 1000 * time.Millisecond},
		{3, 2000 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			assert.Equal(t, tt.expected, exponentialBackoff(tt.attempt))
		})
	}
}

func TestCheckSimilarity_AboveThreshold(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req similarityRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "samsung galaxy s24 128gb", req.Inputs.SourceSentence)
		require.Len(t, req.Inputs.Sentences, 1)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]float64{0.91})
	}))
	defer server.Close()

	scorer := NewHuggingFaceScorer("test-token", server.URL, 0.78)
	result, err := scorer.CheckSimilarity(context.Background(), "samsung galaxy s24 128gb", "samsung s24 mobile 128gb")

	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.Equal(t, 0.91, result.Score)
	assert.Equal(t, "semantic", result.Method)
	assert.Contains(t, result.Reason, ">= threshold")
}

func TestCheckSimilarity_BelowThreshold(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]float64{0.42})
	}))
	defer server.Close()

	scorer := NewHuggingFaceScorer("test-token", server.URL, 0.78)
	result, err := scorer.CheckSimilarity(context.Background(), "cotton bath towel", "stainless steel bottle")

	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.Equal(t, 0.42, result.Score)
	assert.Contains(t, result.Reason, "< threshold")
}

func TestCheckSimilarity_MissingToken(t *testing.T) {
	scorer := NewHuggingFaceScorer("", "", 0.78)

	result, err := scorer.CheckSimilarity(context.Background(), "a", "b")

	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.Equal(t, "API token not configured", result.Reason)
}

func TestCheckSimilarity_ModelLoading(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	scorer := NewHuggingFaceScorer("test-token", server.URL, 0.78)
	result, err := scorer.CheckSimilarity(context.Background(), "a", "b")

	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.Contains(t, result.Reason, "model is loading")
}

func TestCheckSimilarity_ServerErrorExhaustsRetries(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	scorer := NewHuggingFaceScorer("test-token", server.URL, 0.78)
	_, err := scorer.CheckSimilarity(context.Background(), "a", "b")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Equal(t, 3, attempts)
}

func TestCheckSimilarity_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "unexpected shape"}`))
	}))
	defer server.Close()

	scorer := NewHuggingFaceScorer("test-token", server.URL, 0.78)
	_, err := scorer.CheckSimilarity(context.Background(), "a", "b")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestCheckSimilarity_EmptyScores(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	scorer := NewHuggingFaceScorer("test-token", server.URL, 0.78)
	_, err := scorer.CheckSimilarity(context.Background(), "a", "b")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scores")
}
