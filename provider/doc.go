// Package provider implements swappable stage backends using generics.
//
// Each remote stage of the pipeline (transcribe, translate, synthesize) is a
// RequestResponse[I, O]. Backends register a Factory under a name in the
// stage's Registry and are created from the configured provider name and its
// options map.
//
// # Middleware
//
// Middleware[I, O] wraps a RequestResponse provider. Instrument composes the
// standard logging, metrics and tracing middlewares:
//
//	reg := provider.NewRegistry[translation.Backend]("translation")
//	reg.RegisterFactory("google", google.NewFactory())
//	backend, err := reg.Create(cfg.Provider, cfg.Options)
//	wrapped := provider.Instrument(backend, "translate", log, metrics)
//
// Wrappers forward Close, so provider.Close(ctx, wrapped) releases the
// backend's connections.
package provider
