package component

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type mockComponent struct {
	name       string
	startErr   error
	stopErr    error
	startOrder *[]string
	stopOrder  *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	if m.startOrder != nil {
		*m.startOrder = append(*m.startOrder, m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	if m.stopOrder != nil {
		*m.stopOrder = append(*m.stopOrder, m.name)
	}
	return m.stopErr
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&mockComponent{name: "speech"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(&mockComponent{name: "speech"}); err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestGet(t *testing.T) {
	r := NewRegistry()
	c := &mockComponent{name: "speech"}
	_ = r.Register(c)

	if r.Get("speech") != c {
		t.Error("expected registered component")
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for unknown component")
	}
	if len(r.All()) != 1 {
		t.Errorf("expected 1 component, got %d", len(r.All()))
	}
}

func TestStartAndStopOrder(t *testing.T) {
	var started, stopped []string
	r := NewRegistry()
	for _, name := range []string{"telemetry", "speech", "translate"} {
		_ = r.Register(&mockComponent{name: name, startOrder: &started, stopOrder: &stopped})
	}

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}

	if strings.Join(started, ",") != "telemetry,speech,translate" {
		t.Errorf("unexpected start order %v", started)
	}
	if strings.Join(stopped, ",") != "translate,speech,telemetry" {
		t.Errorf("unexpected stop order %v", stopped)
	}
}

func TestStartAllErrorStopsOnlyStarted(t *testing.T) {
	var stopped []string
	r := NewRegistry()
	_ = r.Register(&mockComponent{name: "a", stopOrder: &stopped})
	_ = r.Register(&mockComponent{name: "b", startErr: errors.New("no credentials"), stopOrder: &stopped})
	_ = r.Register(&mockComponent{name: "c", stopOrder: &stopped})

	err := r.StartAll(context.Background())
	if err == nil || !strings.Contains(err.Error(), "failed to start b") {
		t.Fatalf("expected start failure for b, got %v", err)
	}

	_ = r.StopAll(context.Background())
	if len(stopped) != 1 || stopped[0] != "a" {
		t.Errorf("expected only a to be stopped, got %v", stopped)
	}
}

func TestStopAllWithErrors(t *testing.T) {
	var stopped []string
	r := NewRegistry()
	stopErr := errors.New("close failed")
	_ = r.Register(&mockComponent{name: "a", stopOrder: &stopped})
	_ = r.Register(&mockComponent{name: "b", stopErr: stopErr, stopOrder: &stopped})
	_ = r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if !errors.Is(err, stopErr) {
		t.Errorf("expected joined stop error, got %v", err)
	}
	if len(stopped) != 2 {
		t.Errorf("expected both components stopped, got %v", stopped)
	}
}

func TestFuncs(t *testing.T) {
	started := false
	f := &Funcs{ComponentName: "audio", OnStart: func(context.Context) error { started = true; return nil }}
	if f.Name() != "audio" {
		t.Errorf("unexpected name %q", f.Name())
	}
	if err := f.Start(context.Background()); err != nil || !started {
		t.Errorf("expected OnStart to run, err %v", err)
	}
	if err := f.Stop(context.Background()); err != nil {
		t.Errorf("expected nil OnStop to be a no-op, got %v", err)
	}
}
