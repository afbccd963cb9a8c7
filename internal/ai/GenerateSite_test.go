package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"whiteboard2web/internal/ai/fallback"
	"whiteboard2web/internal/ai/prompts"
	"whiteboard2web/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type completionRequest struct {
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// fakeCompletions serves /chat/completions with the given handler and records the last request.
type fakeCompletions struct {
	server  *httptest.Server
	calls   atomic.Int32
	last    completionRequest
	headers http.Header
}

func newFakeCompletions(t *testing.T, respond func(w http.ResponseWriter)) *fakeCompletions {
	t.Helper()
	f := &fakeCompletions{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		f.headers = r.Header.Clone()
		_ = json.NewDecoder(r.Body).Decode(&f.last)
		respond(w)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func replyWith(content string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"choices": []any{map[string]any{"index": 0, "message": map[string]any{"role": "assistant", "content": content}}},
		})
	}
}

func testGenerator(t *testing.T, baseURL string, mutate ...func(*Config)) *Generator {
	t.Helper()
	cfg := Config{
		APIKey:   "test-key",
		BaseURL:  baseURL,
		Model:    "test/model",
		ImageDir: t.TempDir(),
	}
	for _, m := range mutate {
		m(&cfg)
	}
	return NewGenerator(cfg)
}

func sampleDesign() types.DesignData {
	return types.DesignData{DesignAnalysis: types.DesignAnalysis{
		"elements": map[string]any{
			"text":    []any{map[string]any{"content": "Welcome", "type": "heading"}},
			"buttons": []any{map[string]any{"type": "button", "content": "Click me"}},
			"forms":   []any{map[string]any{"type": "input", "label": "Email"}},
		},
		"layout": map[string]any{"rows": 1},
	}}
}

func TestGenerateSite_Success(t *testing.T) {
	body := "```json\n" + `{
		"project_structure": [
			{"file": "index.html", "content": "<h1>Hello</h1>"},
			{"file": "styles.css", "content": "h1{color:red}"},
			{"file": "script.js", "content": "document.querySelector('h1').addEventListener('click', ()=>{})"}
		],
		"explanation": "Greeting page",
		"layout_type": "single"
	}` + "\n```"
	fake := newFakeCompletions(t, replyWith(body))
	g := testGenerator(t, fake.server.URL)

	project := g.GenerateSite(context.Background(), sampleDesign(), "Create a functional website")

	require.NotNil(t, project)
	assert.Empty(t, project.Notes)
	assert.True(t, project.HasIndex())
	assert.Equal(t, "<h1>Hello</h1>", project.MainHTML)
	assert.Equal(t, "h1{color:red}", project.MainCSS)
	assert.Equal(t, []string{"responsive", "forms", "buttons"}, project.FunctionalFeatures)
	assert.Equal(t, "Greeting page", project.Explanation)
	assert.NotEmpty(t, project.Instructions)

	assert.Equal(t, int32(1), fake.calls.Load())
	assert.Equal(t, "test/model", fake.last.Model)
	assert.Equal(t, 6000, fake.last.MaxTokens)
	assert.InDelta(t, 0.5, fake.last.Temperature, 1e-6)
	assert.InDelta(t, 0.9, fake.last.TopP, 1e-6)
	require.Len(t, fake.last.Messages, 2)
	assert.Equal(t, "system", fake.last.Messages[0].Role)
	assert.Equal(t, prompts.SystemPrompt, fake.last.Messages[0].Content)
	assert.Equal(t, "user", fake.last.Messages[1].Role)
	assert.Contains(t, fake.last.Messages[1].Content, "Create a functional website")
	assert.Contains(t, fake.last.Messages[1].Content, "✅ Forms detected")
	assert.Equal(t, "Bearer test-key", fake.headers.Get("Authorization"))
	assert.Equal(t, defaultTitle, fake.headers.Get("X-Title"))
	assert.Equal(t, defaultReferer, fake.headers.Get("HTTP-Referer"))
}

func TestGenerateSite_MissingAPIKey(t *testing.T) {
	fake := newFakeCompletions(t, replyWith("{}"))
	g := testGenerator(t, fake.server.URL, func(c *Config) { c.APIKey = "" })

	project := g.GenerateSite(context.Background(), sampleDesign(), "anything")

	assert.Equal(t, fallback.Project("API key not configured"), project)
	assert.Equal(t, int32(0), fake.calls.Load())
}

func TestGenerateSite_TransportFailures(t *testing.T) {
	tests := []struct {
		name    string
		respond func(w http.ResponseWriter)
		notes   string
	}{
		{
			name: "server error",
			respond: func(w http.ResponseWriter) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error": {"message": "upstream exploded", "type": "server_error"}}`))
			},
			notes: "AI service unavailable: HTTP 500",
		},
		{
			name: "non-json error page",
			respond: func(w http.ResponseWriter) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte("<html>bad gateway</html>"))
			},
			notes: "AI service unavailable: HTTP 502",
		},
		{
			name: "no choices",
			respond: func(w http.ResponseWriter) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"id": "x", "choices": []}`))
			},
			notes: "AI service unavailable: empty response",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeCompletions(t, tt.respond)
			g := testGenerator(t, fake.server.URL)

			project := g.GenerateSite(context.Background(), sampleDesign(), "site")

			assert.Equal(t, fallback.Project(tt.notes), project)
			assert.Equal(t, int32(1), fake.calls.Load(), "no retries")
		})
	}
}

func TestGenerateSite_Timeout(t *testing.T) {
	release := make(chan struct{})
	fake := newFakeCompletions(t, func(w http.ResponseWriter) {
		<-release
		replyWith("{}")(w)
	})
	defer close(release)
	g := testGenerator(t, fake.server.URL, func(c *Config) { c.Timeout = 50 * time.Millisecond })

	project := g.GenerateSite(context.Background(), sampleDesign(), "site")

	assert.Equal(t, "AI service unavailable: timeout", project.Notes)
	assert.True(t, project.HasIndex())
}

func TestGenerateSite_ConnectionRefused(t *testing.T) {
	fake := newFakeCompletions(t, replyWith("{}"))
	url := fake.server.URL
	fake.server.Close()
	g := testGenerator(t, url)

	project := g.GenerateSite(context.Background(), sampleDesign(), "site")

	assert.True(t, strings.HasPrefix(project.Notes, "AI service unavailable: "), project.Notes)
	assert.Equal(t, fallback.Features(), project.FunctionalFeatures)
}

func TestGenerateSite_UnparseableResponse(t *testing.T) {
	fake := newFakeCompletions(t, replyWith("I cannot help with that."))
	g := testGenerator(t, fake.server.URL)

	project := g.GenerateSite(context.Background(), sampleDesign(), "site")

	require.True(t, strings.HasPrefix(project.Notes, "JSON parsing error: "), project.Notes)
	assert.Equal(t, fallback.Project(project.Notes), project)
}

func TestGenerateSite_ResponseWithoutIndex(t *testing.T) {
	fake := newFakeCompletions(t, replyWith(`{"a": 1}`))
	g := testGenerator(t, fake.server.URL)

	project := g.GenerateSite(context.Background(), sampleDesign(), "site")

	assert.Contains(t, project.Notes, "no index.html")
	assert.True(t, project.HasIndex())
}

func TestGenerateSite_RecoveredAndLegacyResponses(t *testing.T) {
	tests := []struct {
		name    string
		content string
		files   []string
	}{
		{
			name:    "prose around object",
			content: "Here is your site:\n{\"project_structure\":[{\"file\":\"index.html\",\"content\":\"<h1/>\"}]}\nEnjoy!",
			files:   []string{"index.html"},
		},
		{
			name:    "legacy flat fields",
			content: `{"html":"<p>hi</p>","css":"body{}","javascript":"console.log(1)"}`,
			files:   []string{"index.html", "styles.css", "script.js"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeCompletions(t, replyWith(tt.content))
			g := testGenerator(t, fake.server.URL)

			project := g.GenerateSite(context.Background(), types.DesignData{}, "")

			assert.Empty(t, project.Notes)
			var files []string
			for _, f := range project.ProjectStructure {
				files = append(files, f.File)
			}
			assert.Equal(t, tt.files, files)
			assert.NotEmpty(t, project.FunctionalFeatures)
		})
	}
}

func TestGenerateSite_ShrinksImagesBeforeSending(t *testing.T) {
	fake := newFakeCompletions(t, replyWith(`{"html":"<p/>"}`))
	imageDir := t.TempDir()
	g := testGenerator(t, fake.server.URL, func(c *Config) {
		c.MaxImageBytes = 64
		c.ImageDir = imageDir
	})

	big := "data:image/png;base64," + strings.Repeat("QUFB", 40)
	design := types.DesignData{DesignAnalysis: types.DesignAnalysis{
		"elements": map[string]any{"images": []any{map[string]any{"id": "hero", "src": big}}},
	}}

	project := g.GenerateSite(context.Background(), design, "site")
	require.Empty(t, project.Notes)

	userPrompt := fake.last.Messages[1].Content
	assert.NotContains(t, userPrompt, big)
	assert.Contains(t, userPrompt, types.SavedFilePrefix+imageDir)

	entries, err := os.ReadDir(imageDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFallbackReason(t *testing.T) {
	assert.Equal(t, "API key not configured", fallbackReason(ErrMissingAPIKey))
	assert.Equal(t, "AI service unavailable: empty response", fallbackReason(fmt.Errorf("%w: %w", ErrTransport, errEmptyCompletion)))
	assert.Equal(t, assert.AnError.Error(), fallbackReason(assert.AnError))
}
