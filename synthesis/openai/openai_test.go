package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/kbukum/voxlate/errors"
	"github.com/kbukum/voxlate/synthesis"
)

type speechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	ResponseFormat string  `json:"response_format"`
	Speed          float64 `json:"speed"`
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name      string
		slow      bool
		wantSpeed float64
	}{
		{"normal", false, 1.0},
		{"slow", true, 0.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got speechRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if !strings.HasSuffix(r.URL.Path, "/audio/speech") {
					t.Errorf("path = %s", r.URL.Path)
				}
				if r.Header.Get("Authorization") != "Bearer sk" {
					t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
				}
				_ = json.NewDecoder(r.Body).Decode(&got)
				w.Header().Set("Content-Type", "audio/mpeg")
				_, _ = w.Write([]byte("ID3audio"))
			}))
			defer srv.Close()

			p := New(Config{APIKey: "sk", BaseURL: srv.URL + "/v1"})
			out, err := p.Execute(context.Background(), synthesis.Request{Text: "こんにちは", Language: "ja", Slow: tt.slow})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(out.Data) != "ID3audio" || out.Format != "mp3" {
				t.Errorf("Execute = %+v", out)
			}
			if got.Model != "tts-1" || got.Voice != "alloy" || got.Input != "こんにちは" || got.ResponseFormat != "mp3" {
				t.Errorf("request = %+v", got)
			}
			if got.Speed != tt.wantSpeed {
				t.Errorf("speed = %v, want %v", got.Speed, tt.wantSpeed)
			}
		})
	}
}

func TestExecuteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	p := New(Config{APIKey: "sk", BaseURL: srv.URL + "/v1"})
	_, err := p.Execute(context.Background(), synthesis.Request{Text: "hi"})
	if !apperrors.HasCode(err, apperrors.ErrCodeSynthesisFailed) {
		t.Fatalf("error = %v, want SYNTHESIS_FAILED", err)
	}
}

func TestFactoryRequiresKey(t *testing.T) {
	if _, err := Factory()(map[string]any{"voice": "nova"}); !apperrors.HasCode(err, apperrors.ErrCodeInvalidInput) {
		t.Fatalf("error = %v, want INVALID_INPUT", err)
	}
	b, err := Factory()(map[string]any{"api_key": "sk"})
	if err != nil {
		t.Fatal(err)
	}
	if b.Name() != ProviderName || !b.IsAvailable(context.Background()) {
		t.Errorf("backend = %s available=%v", b.Name(), b.IsAvailable(context.Background()))
	}
}
