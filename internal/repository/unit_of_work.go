package repository

import "context"

// UnitOfWork is a scoped transactional boundary bundling both
// repositories. On entry it opens a session and binds both repositories
// to it; on exit it commits if fn returned nil and rolls back
// otherwise, always releasing the session. Every use case opens exactly
// one UnitOfWork so job mutation and attempt insertion are atomic.
//
// A callback-scoped transaction rather than an explicit Begin/Commit
// object, so a panic inside fn cannot leak an open transaction.
type UnitOfWork interface {
	Atomic(ctx context.Context, fn func(ctx context.Context, jobs JobRepository, attempts JobAttemptRepository) error) error
}
