package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func jsonLogger(buf *bytes.Buffer, level string) *Logger {
	return NewWithWriter(&Config{Level: level, Format: "json"}, "voxlate", buf)
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	line := strings.TrimSpace(buf.String())
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("decode %q: %v", line, err)
	}
	return m
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "invalid-level", Format: "json"}, "test", &buf)
	l.Info("hello")
	if buf.Len() == 0 {
		t.Fatal("expected invalid level to fall back to info")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "warn")
	l.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}
	l.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("expected warn to be written, got %q", buf.String())
	}
}

func TestJSONFields(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf, "debug").WithComponent("pipeline").Info("done", Fields("attempt", 2))

	m := decodeLine(t, &buf)
	if m["component"] != "pipeline" {
		t.Errorf("expected component=pipeline, got %v", m["component"])
	}
	if m["service"] != "voxlate" {
		t.Errorf("expected service=voxlate, got %v", m["service"])
	}
	if m["attempt"] != float64(2) {
		t.Errorf("expected attempt=2, got %v", m["attempt"])
	}
	if m["message"] != "done" {
		t.Errorf("expected message=done, got %v", m["message"])
	}
}

func TestWithContextCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithCorrelationID(context.Background(), "run-1")
	ctx = ContextWithTrace(ctx, "trace-1", "span-1")

	if got := CorrelationID(ctx); got != "run-1" {
		t.Errorf("CorrelationID() = %q, want run-1", got)
	}

	jsonLogger(&buf, "info").WithContext(ctx).Info("x")
	m := decodeLine(t, &buf)
	if m[FieldCorrelationID] != "run-1" {
		t.Errorf("expected correlation id, got %v", m[FieldCorrelationID])
	}
	if m[FieldTraceID] != "trace-1" || m[FieldSpanID] != "span-1" {
		t.Errorf("expected trace fields, got %v / %v", m[FieldTraceID], m[FieldSpanID])
	}
}

func TestCorrelationIDMissing(t *testing.T) {
	if got := CorrelationID(context.Background()); got != "" {
		t.Errorf("expected empty correlation id, got %q", got)
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf, "info").WithError(errors.New("boom")).Error("failed")
	m := decodeLine(t, &buf)
	if m["error"] != "boom" {
		t.Errorf("expected error=boom, got %v", m["error"])
	}
}

func TestConsoleLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "console", NoColor: true}, "voxlate", &buf)
	l.Warn("careful")
	out := buf.String()
	if !strings.Contains(out, "[voxlate][WRN]") {
		t.Errorf("expected service and level tag, got %q", out)
	}
	if !strings.Contains(out, "careful") {
		t.Errorf("expected message, got %q", out)
	}
}

func TestInit(t *testing.T) {
	cfg := Config{Level: "info"}
	Init(&cfg)
	if cfg.Output != "stderr" {
		t.Errorf("expected Init to apply defaults, got output %q", cfg.Output)
	}
	if GetGlobalLogger() == nil {
		t.Fatal("expected global logger to be set after Init")
	}
}

func TestGetGlobalLoggerDefault(t *testing.T) {
	globalLogger = nil
	if GetGlobalLogger() == nil {
		t.Fatal("expected default global logger to be created")
	}
}

func TestSetGlobalLogger(t *testing.T) {
	l := NewDefault("custom")
	SetGlobalLogger(l)
	if GetGlobalLogger() != l {
		t.Error("expected SetGlobalLogger to replace the global logger")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "warn" {
		t.Errorf("expected level warn, got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format console, got %q", cfg.Format)
	}
	if cfg.Output != "stderr" {
		t.Errorf("expected output stderr, got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamp enabled")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json", Output: "stderr"}, false},
		{"disabled", Config{Level: "disabled", Format: "console", Output: "stdout"}, false},
		{"bad level", Config{Level: "loud", Format: "json", Output: "stderr"}, true},
		{"bad format", Config{Level: "info", Format: "xml", Output: "stderr"}, true},
		{"bad output", Config{Level: "info", Format: "json", Output: "file"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegisterAndGet(t *testing.T) {
	l := NewDefault("x").WithComponent("audio")
	Register("audio", l)
	if Get("audio") != l {
		t.Error("expected registered logger")
	}
}

func TestGetUnregistered(t *testing.T) {
	if Get("never-registered") == nil {
		t.Fatal("expected fallback logger")
	}
}

func TestRegisterDefaults(t *testing.T) {
	RegisterDefaults("capture", "playback")
	for _, name := range []string{"capture", "playback"} {
		registry.mu.RLock()
		_, ok := registry.loggers[name]
		registry.mu.RUnlock()
		if !ok {
			t.Errorf("expected %q to be registered", name)
		}
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		name string
		kvs  []interface{}
		want int
	}{
		{"empty", nil, 0},
		{"pairs", []interface{}{"a", 1, "b", 2}, 2},
		{"odd", []interface{}{"a", 1, "b"}, 1},
		{"non-string key", []interface{}{1, "a"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(Fields(tt.kvs...)); got != tt.want {
				t.Errorf("len(Fields()) = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestErrorFields(t *testing.T) {
	f := ErrorFields("translate", errors.New("bad"))
	if f[FieldOperation] != "translate" || f[FieldError] != "bad" {
		t.Errorf("unexpected fields: %v", f)
	}
}

func TestDurationFields(t *testing.T) {
	f := DurationFields("capture", 1500*time.Millisecond)
	if f[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", f[FieldDuration])
	}
}
