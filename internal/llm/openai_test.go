package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rarebox/kalorify-ai/internal/analysis"
	"github.com/Rarebox/kalorify-ai/internal/config"
)

var testImage = analysis.Image{Filename: "plate.jpg", ContentType: "image/jpeg", Data: []byte("not really a jpeg")}

func completion(content string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-mini",
		"choices": []map[string]interface{}{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]interface{}{"role": "assistant", "content": content},
		}},
		"usage": map[string]interface{}{"prompt_tokens": 900, "completion_tokens": 120, "total_tokens": 1020},
	})
	return string(body)
}

func newTestProvider(t *testing.T, handler http.HandlerFunc) *OpenAI {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	provider, err := NewOpenAI(&config.OpenAIConfig{
		Provider:    "openai",
		APIKey:      "test-key",
		APIEndpoint: ts.URL + "/",
		Model:       "gpt-4o-mini",
		MaxTokens:   500,
	})
	require.NoError(t, err)
	return provider
}

func TestAnalyzeParsesModelReply(t *testing.T) {
	reply := "```json\n" + `[{"output":{"items":[{"name":"Baklava","portion_g":80,"calories_kcal":330,"dietFit":["high-sugar"]}],` +
		`"totals":{"portion_g":80,"calories_kcal":330},"summary":{"quality":"Very high in sugar and fat, low in protein."}}}]` + "\n```"

	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), "unexpected path %s", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "gpt-4o-mini")
		assert.Contains(t, string(body), "data:image/jpeg;base64,")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completion(reply)))
	})

	assert.Equal(t, "openai", provider.Name())

	res, err := provider.Analyze(context.Background(), testImage)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Baklava", res.Items[0].Name)
	assert.Equal(t, 330.0, res.Totals.CaloriesKcal)
	assert.Equal(t, "Very high in sugar and fat, low in protein.", res.Summary.Quality)
}

func TestAnalyzeNoFood(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completion("[]")))
	})

	res, err := provider.Analyze(context.Background(), testImage)
	assert.NoError(t, err)
	assert.Nil(t, res)
}

func TestAnalyzeProseReply(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completion("Sorry, I can't help with that.")))
	})

	_, err := provider.Analyze(context.Background(), testImage)
	var malformed *analysis.MalformedResponseError
	assert.True(t, errors.As(err, &malformed))
}

func TestAnalyzeAPIError(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`))
	})

	_, err := provider.Analyze(context.Background(), testImage)
	var transport *analysis.TransportError
	require.True(t, errors.As(err, &transport))
	assert.Equal(t, http.StatusUnauthorized, transport.StatusCode)
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	_, err := NewOpenAI(&config.OpenAIConfig{Provider: "openai"})
	assert.Error(t, err)
}
