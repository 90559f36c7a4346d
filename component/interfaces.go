package component

import "context"

// Component is a lifecycle-managed resource of a run: a cloud client holding
// a gRPC connection, an audio context, a telemetry exporter.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string
	// Start acquires the component's resources.
	Start(ctx context.Context) error
	// Stop releases the component's resources.
	Stop(ctx context.Context) error
}

// Funcs adapts a pair of functions into a Component. Either may be nil.
type Funcs struct {
	ComponentName string
	OnStart       func(ctx context.Context) error
	OnStop        func(ctx context.Context) error
}

func (f *Funcs) Name() string { return f.ComponentName }

func (f *Funcs) Start(ctx context.Context) error {
	if f.OnStart == nil {
		return nil
	}
	return f.OnStart(ctx)
}

func (f *Funcs) Stop(ctx context.Context) error {
	if f.OnStop == nil {
		return nil
	}
	return f.OnStop(ctx)
}
