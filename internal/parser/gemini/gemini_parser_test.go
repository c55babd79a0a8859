package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radlic/internal/config"
	"radlic/internal/parser/gemini"
	"radlic/internal/port"
)

func geminiReply(text string) string {
	body := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"parts": []map[string]string{{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	}
	b, _ := json.Marshal(body)
	return string(b)
}

func TestParseReturnsFieldsAndEquipment(t *testing.T) {
	payload := `{"MUNICIPIO":"MEDELLÍN","SEDE":"PRINCIPAL","EQUIPOS":[{"MARCA":"TOSHIBA","SERIE":"A1"},{"MARCA":"SIRONA"}]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(geminiReply(payload)))
	}))
	defer srv.Close()

	p := gemini.NewParserWithEndpoint(&config.ParserConfig{APIKey: "test-key"}, srv.URL)
	out, err := p.Parse(context.Background(), port.ParseInput{Text: "texto de licencia"})
	require.NoError(t, err)

	assert.Equal(t, "MEDELLÍN", out.Fields["MUNICIPIO"])
	assert.Equal(t, "PRINCIPAL", out.Fields["SEDE"])
	require.Len(t, out.Equipment, 2)
	assert.Equal(t, "TOSHIBA", out.Equipment[0]["MARCA"])
	assert.Equal(t, "SIRONA", out.Equipment[1]["MARCA"])
	assert.NotEmpty(t, out.PromptUsed)
}

// Model output wrapped in Markdown fences or surrounding prose still parses.
func TestParseToleratesFencedOutput(t *testing.T) {
	payload := "Claro, aquí está:\n```json\n{\"MUNICIPIO\":\"BELLO\",\"EQUIPOS\":[]}\n```"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(geminiReply(payload)))
	}))
	defer srv.Close()

	p := gemini.NewParserWithEndpoint(&config.ParserConfig{APIKey: "k"}, srv.URL)
	out, err := p.Parse(context.Background(), port.ParseInput{Text: "texto"})
	require.NoError(t, err)
	assert.Equal(t, "BELLO", out.Fields["MUNICIPIO"])
	assert.Empty(t, out.Equipment)
}

func TestParseAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := gemini.NewParserWithEndpoint(&config.ParserConfig{APIKey: "k"}, srv.URL)
	_, err := p.Parse(context.Background(), port.ParseInput{Text: "texto"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestParseRejectsNonJSONOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(geminiReply("no puedo procesar este documento")))
	}))
	defer srv.Close()

	p := gemini.NewParserWithEndpoint(&config.ParserConfig{APIKey: "k"}, srv.URL)
	_, err := p.Parse(context.Background(), port.ParseInput{Text: "texto"})
	assert.Error(t, err)
}
