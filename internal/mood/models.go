package mood

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultModelsURL     = "http://localhost:1234/v1/models"
	DefaultModelsTimeout = 5 * time.Second
)

// Model is one entry of an OpenAI-style model listing.
type Model struct {
	ID      string `json:"id"`
	OwnedBy string `json:"owned_by,omitempty"`
}

var families = []struct {
	key, label string
}{
	{"codellama", "Code Llama"},
	{"gemma", "Google Gemma"},
	{"deepseek", "DeepSeek"},
	{"llama", "Llama"},
	{"qwen", "Qwen"},
	{"phi", "Phi"},
	{"mistral", "Mistral"},
}

// Family returns a human label for the model family, or "" when unknown.
func (m Model) Family() string {
	id := strings.ToLower(m.ID)
	for _, f := range families {
		if strings.Contains(id, f.key) {
			return f.label
		}
	}
	return ""
}

// DisplayName is the family label, or the ID truncated to 20 runes.
func (m Model) DisplayName() string {
	if f := m.Family(); f != "" {
		return f
	}
	r := []rune(m.ID)
	if len(r) > 20 {
		return string(r[:20]) + "..."
	}
	return m.ID
}

// ModelLister lists the models offered by a local inference server.
type ModelLister interface {
	List(ctx context.Context) ([]Model, error)
}

type ModelClient struct {
	url    string
	client *http.Client
}

func NewModelClient(url string, timeout time.Duration) *ModelClient {
	if url == "" {
		url = DefaultModelsURL
	}
	if timeout <= 0 {
		timeout = DefaultModelsTimeout
	}
	return &ModelClient{url: url, client: &http.Client{Timeout: timeout}}
}

func (c *ModelClient) List(ctx context.Context) ([]Model, error) {
	body, err := get(ctx, c.client, c.url)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Data []Model `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decoding model list: %w", err)
	}
	out := payload.Data[:0]
	for _, m := range payload.Data {
		if m.ID != "" {
			out = append(out, m)
		}
	}
	return out, nil
}

// Recommend picks a model for a use case: "speed" prefers phi or gemma,
// "reasoning" deepseek or qwen, "creativity" llama or mistral. Anything
// else, or no match, falls back to the first model.
func Recommend(models []Model, useCase string) (Model, bool) {
	if len(models) == 0 {
		return Model{}, false
	}
	var keys []string
	switch strings.ToLower(useCase) {
	case "speed":
		keys = []string{"phi", "gemma"}
	case "reasoning":
		keys = []string{"deepseek", "qwen"}
	case "creativity":
		keys = []string{"llama", "mistral"}
	}
	for _, m := range models {
		id := strings.ToLower(m.ID)
		for _, k := range keys {
			if strings.Contains(id, k) {
				return m, true
			}
		}
	}
	return models[0], true
}
