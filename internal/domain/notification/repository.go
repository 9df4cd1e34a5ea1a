package notification

import "context"

// DispatchRepository is the at-most-once ledger for scheduled sends.
type DispatchRepository interface {
	// Claim records (kind, key) and reports false when it was already recorded.
	Claim(ctx context.Context, kind Kind, key string) (bool, error)
	// Release forgets a claim so a failed send can be retried by the next run.
	Release(ctx context.Context, kind Kind, key string) error
}
