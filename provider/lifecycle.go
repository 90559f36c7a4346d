package provider

import "context"

// Closeable is optionally implemented by providers that hold resources
// requiring explicit cleanup, such as gRPC connections to cloud APIs.
type Closeable interface {
	Close(ctx context.Context) error
}

// Close closes p if it implements Closeable.
// Middleware wrappers forward to it so the outermost provider can be closed.
func Close(ctx context.Context, p any) error {
	if c, ok := p.(Closeable); ok {
		return c.Close(ctx)
	}
	return nil
}

// Startable is optionally implemented by providers that connect eagerly,
// e.g. to surface credential errors before the first request.
type Startable interface {
	Start(ctx context.Context) error
}

// Start starts p if it implements Startable.
func Start(ctx context.Context, p any) error {
	if s, ok := p.(Startable); ok {
		return s.Start(ctx)
	}
	return nil
}
