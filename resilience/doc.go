// Package resilience provides bounded retry with optional backoff.
//
// Retry drives voxlate's capture loop: each attempt records and transcribes
// one utterance, RetryIf decides whether the outcome is worth another try and
// OnRetry prompts the speaker before the next attempt.
//
//	resp, attempts, err := resilience.Retry(ctx, cfg, func(ctx context.Context, attempt int) (Response, error) {
//	    return listenOnce(ctx)
//	})
package resilience
