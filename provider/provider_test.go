package provider

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/voxlate/errors"
)

type testProvider struct {
	name string
	cfg  map[string]any
}

func (p *testProvider) Name() string                       { return p.name }
func (p *testProvider) IsAvailable(_ context.Context) bool { return true }

func TestRegistryRegisterAndCreate(t *testing.T) {
	reg := NewRegistry[*testProvider]("translation")
	reg.RegisterFactory("google", func(cfg map[string]any) (*testProvider, error) {
		return &testProvider{name: "google", cfg: cfg}, nil
	})

	p, err := reg.Create("google", map[string]any{"project": "demo"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.Name() != "google" {
		t.Errorf("expected name 'google', got %q", p.Name())
	}
	if p.cfg["project"] != "demo" {
		t.Errorf("expected options to reach the factory, got %v", p.cfg)
	}
}

func TestRegistryCreateNilOptions(t *testing.T) {
	reg := NewRegistry[*testProvider]("synthesis")
	reg.RegisterFactory("google", func(cfg map[string]any) (*testProvider, error) {
		if cfg == nil {
			t.Error("expected non-nil options map")
		}
		return &testProvider{name: "google"}, nil
	})
	if _, err := reg.Create("google", nil); err != nil {
		t.Fatal(err)
	}
}

func TestRegistryCreateUnregistered(t *testing.T) {
	reg := NewRegistry[*testProvider]("transcription")
	reg.RegisterFactory("google", func(map[string]any) (*testProvider, error) { return &testProvider{}, nil })
	reg.RegisterFactory("whisper", func(map[string]any) (*testProvider, error) { return &testProvider{}, nil })

	_, err := reg.Create("azure", nil)
	if err == nil {
		t.Fatal("expected error for unregistered factory")
	}
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
	if !strings.Contains(err.Error(), "google, whisper") {
		t.Errorf("expected available providers in error, got %q", err.Error())
	}
}

func TestRegistryList(t *testing.T) {
	reg := NewRegistry[*testProvider]("translation")
	reg.RegisterFactory("openai", func(map[string]any) (*testProvider, error) { return nil, nil })
	reg.RegisterFactory("google", func(map[string]any) (*testProvider, error) { return nil, nil })

	names := reg.List()
	if len(names) != 2 || names[0] != "google" || names[1] != "openai" {
		t.Errorf("expected sorted [google openai], got %v", names)
	}
}

func TestFunc(t *testing.T) {
	p := Func("upper", func(_ context.Context, in string) (string, error) {
		return strings.ToUpper(in), nil
	})
	if p.Name() != "upper" || !p.IsAvailable(context.Background()) {
		t.Fatal("unexpected provider metadata")
	}
	out, err := p.Execute(context.Background(), "ja")
	if err != nil || out != "JA" {
		t.Errorf("expected JA, got %q, err %v", out, err)
	}
}

func TestOptions(t *testing.T) {
	o := Options{
		"model":      "nova-2",
		"empty":      "",
		"rate":       "1.25",
		"pitch":      2,
		"slow":       "true",
		"timeout":    "45s",
		"seconds":    30,
		"count":      float64(3),
		"count_text": "7",
	}

	if got := o.String("model", "x"); got != "nova-2" {
		t.Errorf("String = %q", got)
	}
	if got := o.String("empty", "def"); got != "def" {
		t.Errorf("empty String should fall back, got %q", got)
	}
	if got := o.String("missing", "def"); got != "def" {
		t.Errorf("missing String should fall back, got %q", got)
	}
	if got := o.Float("rate", 1); got != 1.25 {
		t.Errorf("Float(string) = %v", got)
	}
	if got := o.Float("pitch", 0); got != 2 {
		t.Errorf("Float(int) = %v", got)
	}
	if !o.Bool("slow", false) {
		t.Error("Bool(string) should parse true")
	}
	if got := o.Duration("timeout", 0); got != 45*time.Second {
		t.Errorf("Duration(string) = %v", got)
	}
	if got := o.Duration("seconds", 0); got != 30*time.Second {
		t.Errorf("Duration(int) = %v", got)
	}
	if got := o.Int("count", 0); got != 3 {
		t.Errorf("Int(float64) = %v", got)
	}
	if got := o.Int("count_text", 0); got != 7 {
		t.Errorf("Int(string) = %v", got)
	}
	if got := o.Int("model", 9); got != 9 {
		t.Errorf("malformed Int should fall back, got %v", got)
	}
}

type startableProvider struct {
	testProvider
	started bool
}

func (p *startableProvider) Start(context.Context) error {
	p.started = true
	return nil
}

func TestStart(t *testing.T) {
	p := &startableProvider{testProvider: testProvider{name: "google"}}
	if err := Start(context.Background(), p); err != nil || !p.started {
		t.Fatalf("expected Start to be forwarded, err=%v", err)
	}
	if err := Start(context.Background(), &testProvider{}); err != nil {
		t.Fatalf("non-startable providers are a no-op, got %v", err)
	}
}

func TestOptionsRedacted(t *testing.T) {
	o := Options{
		"api_key":          "sk-1234567890",
		"credentials_file": "/etc/gcp.json",
		"token":            "abc",
		"model":            "nova-2",
	}
	got := o.Redacted()
	if got["api_key"] != "sk-***" {
		t.Errorf("api_key = %v", got["api_key"])
	}
	if got["token"] != "***" {
		t.Errorf("token = %v", got["token"])
	}
	if got["model"] != "nova-2" || got["credentials_file"] != "/etc/gcp.json" {
		t.Errorf("non-secret values changed: %v", got)
	}
	if o["api_key"] != "sk-1234567890" {
		t.Error("Redacted modified the receiver")
	}
}
