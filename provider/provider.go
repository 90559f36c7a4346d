package provider

import "context"

// Provider is the base interface every stage backend implements.
type Provider interface {
	// Name returns the backend's registry name (e.g. "google", "openai").
	Name() string
	// IsAvailable reports whether the backend is configured to serve requests.
	IsAvailable(ctx context.Context) bool
}

// Factory creates a provider instance from the backend's options map.
type Factory[T Provider] func(cfg map[string]any) (T, error)
