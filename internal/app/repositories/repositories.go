package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Shared repository errors
var (
	// ErrNotFound is returned when a row is absent.
	ErrNotFound = errors.New("record not found")
)

// querier is the subset of pgx operations shared by *pgxpool.Pool and pgx.Tx.
// Repository methods that participate in a workflow transaction take an
// optional pgx.Tx and fall back to the pool when it is nil.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Repositories is the container for all data-access objects
type Repositories struct {
	Users        *UserRepository
	Categories   *CategoryRepository
	Events       *EventRepository
	Requests     *RequestRepository
	Comments     *CommentRepository
	Compilations *CompilationRepository
}

// NewRepositories creates all repositories over a shared connection pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:        NewUserRepository(db),
		Categories:   NewCategoryRepository(db),
		Events:       NewEventRepository(db),
		Requests:     NewRequestRepository(db),
		Comments:     NewCommentRepository(db),
		Compilations: NewCompilationRepository(db),
	}
}
