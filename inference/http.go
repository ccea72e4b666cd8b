package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

// Parameters controls sampling on the model server.
type Parameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	DoSample       bool    `json:"do_sample"`
	ReturnFullText bool    `json:"return_full_text"`
}

type generateRequest struct {
	Inputs     string     `json:"inputs"`
	Parameters Parameters `json:"parameters"`
}

type generation struct {
	GeneratedText string `json:"generated_text"`
}

type Option func(*HTTPGenerator)

// WithHTTPClient overrides the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *HTTPGenerator) { g.client = c }
}

// WithToken sends the token as a bearer credential.
func WithToken(token string) Option {
	return func(g *HTTPGenerator) { g.token = token }
}

func WithMaxNewTokens(n int) Option {
	return func(g *HTTPGenerator) { g.params.MaxNewTokens = n }
}

func WithTemperature(t float64) Option {
	return func(g *HTTPGenerator) { g.params.Temperature = t }
}

// HTTPGenerator calls a Hugging Face style text-generation endpoint.
type HTTPGenerator struct {
	url    string
	token  string
	client *http.Client
	params Parameters
}

func NewHTTPGenerator(url string, opts ...Option) *HTTPGenerator {
	g := &HTTPGenerator{
		url: url,
		client: &http.Client{
			Timeout: 2 * time.Minute,
		},
		params: Parameters{
			MaxNewTokens: 200,
			Temperature:  0.7,
			DoSample:     true,
		},
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate posts the prompt and returns only the generated continuation.
func (g *HTTPGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.url == "" {
		return "", ErrNotConfigured
	}

	payload, err := json.Marshal(generateRequest{Inputs: prompt, Parameters: g.params})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call inference endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
	}

	text, err := decodeGeneration(body)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyOutput
	}
	return text, nil
}

// decodeGeneration accepts both {"generated_text": ...} and the list form
// [{"generated_text": ...}].
func decodeGeneration(body []byte) (string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []generation
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}
		if len(list) == 0 {
			return "", ErrEmptyOutput
		}
		return list[0].GeneratedText, nil
	}

	var single generation
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return single.GeneratedText, nil
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
