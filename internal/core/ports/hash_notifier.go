package ports

import "context"

// HashNotifier forwards a fingerprint and its reference id to the hash registry.
// Notify never fails the caller; delivery problems are handled behind it.
type HashNotifier interface {
	Notify(ctx context.Context, hash, referenceID string)
}

// ErrorReporter records failures that are swallowed instead of returned.
type ErrorReporter interface {
	Report(ctx context.Context, err error, op, referenceID string)
}
