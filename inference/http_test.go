package inference_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"medassist/inference"
)

func TestHTTPGeneratorRequest(t *testing.T) {
	var got struct {
		Inputs     string                `json:"inputs"`
		Parameters inference.Parameters `json:"parameters"`
	}
	var auth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"generated_text":"Disease: Flu"}`))
	}))
	defer ts.Close()

	g := inference.NewHTTPGenerator(ts.URL, inference.WithToken("secret"), inference.WithMaxNewTokens(64), inference.WithTemperature(0.5))
	text, err := g.Generate(context.Background(), "prompt text")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != "Disease: Flu" {
		t.Errorf("Generate() = %q, want %q", text, "Disease: Flu")
	}
	if auth != "Bearer secret" {
		t.Errorf("Authorization = %q, want %q", auth, "Bearer secret")
	}
	if got.Inputs != "prompt text" {
		t.Errorf("inputs = %q, want %q", got.Inputs, "prompt text")
	}
	want := inference.Parameters{MaxNewTokens: 64, Temperature: 0.5, DoSample: true, ReturnFullText: false}
	if got.Parameters != want {
		t.Errorf("parameters = %+v, want %+v", got.Parameters, want)
	}
}

func TestHTTPGeneratorResponses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr error
	}{
		{"object", http.StatusOK, `{"generated_text":"Disease: Flu"}`, "Disease: Flu", nil},
		{"list", http.StatusOK, `[{"generated_text":"Disease: Cold"}]`, "Disease: Cold", nil},
		{"empty list", http.StatusOK, `[]`, "", inference.ErrEmptyOutput},
		{"blank text", http.StatusOK, `{"generated_text":"   "}`, "", inference.ErrEmptyOutput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			got, err := inference.NewHTTPGenerator(ts.URL).Generate(context.Background(), "p")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Generate() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Generate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHTTPGeneratorStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	_, err := inference.NewHTTPGenerator(ts.URL).Generate(context.Background(), "p")
	var statusErr *inference.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Generate() error = %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, http.StatusServiceUnavailable)
	}
}

func TestHTTPGeneratorStatusErrorBodyTruncated(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "x"+strings.Repeat("é", 300), http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := inference.NewHTTPGenerator(ts.URL).Generate(context.Background(), "p")
	var statusErr *inference.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Generate() error = %v, want *StatusError", err)
	}
	if !utf8.ValidString(statusErr.Body) {
		t.Errorf("Body is not valid UTF-8: %q", statusErr.Body)
	}
	if want := "x" + strings.Repeat("é", 255); statusErr.Body != want {
		t.Errorf("Body has %d bytes, want %d", len(statusErr.Body), len(want))
	}
}

func TestHTTPGeneratorMalformed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>oops</html>`))
	}))
	defer ts.Close()

	if _, err := inference.NewHTTPGenerator(ts.URL).Generate(context.Background(), "p"); err == nil {
		t.Error("Generate() error = nil, want decode error")
	}
}

func TestNotConfigured(t *testing.T) {
	if _, err := inference.NewHTTPGenerator("").Generate(context.Background(), "p"); !errors.Is(err, inference.ErrNotConfigured) {
		t.Errorf("HTTPGenerator.Generate() error = %v, want %v", err, inference.ErrNotConfigured)
	}
	if _, err := (inference.Unavailable{}).Generate(context.Background(), "p"); !errors.Is(err, inference.ErrNotConfigured) {
		t.Errorf("Unavailable.Generate() error = %v, want %v", err, inference.ErrNotConfigured)
	}
}
