package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/antonkh/eventory/internal/app/models"
	"github.com/antonkh/eventory/internal/pkg/helpers"
)

// CompilationRepository handles compilation database operations. Event
// membership lives in the compilation_events join table and is replaced
// wholesale on update.
type CompilationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCompilationRepository creates a new CompilationRepository
func NewCompilationRepository(db *pgxpool.Pool) *CompilationRepository {
	return &CompilationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new compilation with its member events
func (r *CompilationRepository) Create(ctx context.Context, tx pgx.Tx, comp *models.Compilation, eventIDs []int64) (*models.Compilation, error) {
	sql, args, err := r.sb.Insert("compilations").
		Columns("title", "pinned").
		Values(comp.Title, comp.Pinned).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create compilation query: %w", err)
	}

	if err := tx.QueryRow(ctx, sql, args...).Scan(&comp.ID); err != nil {
		return nil, fmt.Errorf("error creating compilation: %w", err)
	}

	if err := r.insertMembers(ctx, tx, comp.ID, eventIDs); err != nil {
		return nil, err
	}

	return comp, nil
}

// Update persists title and pinned, and replaces the member set when eventIDs
// is non-nil. A nil slice leaves membership untouched, an empty one clears it.
func (r *CompilationRepository) Update(ctx context.Context, tx pgx.Tx, comp *models.Compilation, eventIDs *[]int64) error {
	sql, args, err := r.sb.Update("compilations").
		Set("title", comp.Title).
		Set("pinned", comp.Pinned).
		Where(squirrel.Eq{"id": comp.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update compilation query: %w", err)
	}

	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating compilation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if eventIDs == nil {
		return nil
	}

	if _, err := tx.Exec(ctx,
		"DELETE FROM compilation_events WHERE compilation_id = $1", comp.ID); err != nil {
		return fmt.Errorf("error clearing compilation events: %w", err)
	}

	return r.insertMembers(ctx, tx, comp.ID, *eventIDs)
}

// GetByID retrieves a compilation without its events
func (r *CompilationRepository) GetByID(ctx context.Context, id int64) (*models.Compilation, error) {
	sql, args, err := r.sb.Select("id", "title", "pinned").
		From("compilations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get compilation query: %w", err)
	}

	var comp models.Compilation
	err = r.db.QueryRow(ctx, sql, args...).Scan(&comp.ID, &comp.Title, &comp.Pinned)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting compilation: %w", err)
	}

	return &comp, nil
}

// List retrieves a page of compilations, optionally filtered by pinned
func (r *CompilationRepository) List(ctx context.Context, pinned *bool, page helpers.Page) ([]models.Compilation, error) {
	builder := r.sb.Select("id", "title", "pinned").
		From("compilations").
		OrderBy("id").
		Offset(page.Offset()).
		Limit(page.Limit())
	if pinned != nil {
		builder = builder.Where(squirrel.Eq{"pinned": *pinned})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list compilations query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying compilations: %w", err)
	}
	defer rows.Close()

	compilations := make([]models.Compilation, 0)
	for rows.Next() {
		var comp models.Compilation
		if err := rows.Scan(&comp.ID, &comp.Title, &comp.Pinned); err != nil {
			return nil, fmt.Errorf("error scanning compilation row: %w", err)
		}
		compilations = append(compilations, comp)
	}

	return compilations, rows.Err()
}

// Delete removes a compilation. The join table rows go with it via cascade.
func (r *CompilationRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM compilations WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("error deleting compilation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// EventIDsByCompilations returns the member event ids per compilation id,
// preserving insertion order within each compilation.
func (r *CompilationRepository) EventIDsByCompilations(ctx context.Context, compilationIDs []int64) (map[int64][]int64, error) {
	members := make(map[int64][]int64, len(compilationIDs))
	if len(compilationIDs) == 0 {
		return members, nil
	}

	sql, args, err := r.sb.Select("compilation_id", "event_id").
		From("compilation_events").
		Where(squirrel.Eq{"compilation_id": compilationIDs}).
		OrderBy("compilation_id", "event_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build compilation events query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying compilation events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var compilationID, eventID int64
		if err := rows.Scan(&compilationID, &eventID); err != nil {
			return nil, fmt.Errorf("error scanning compilation event row: %w", err)
		}
		members[compilationID] = append(members[compilationID], eventID)
	}

	return members, rows.Err()
}

func (r *CompilationRepository) insertMembers(ctx context.Context, tx pgx.Tx, compilationID int64, eventIDs []int64) error {
	if len(eventIDs) == 0 {
		return nil
	}

	builder := r.sb.Insert("compilation_events").Columns("compilation_id", "event_id")
	for _, eventID := range eventIDs {
		builder = builder.Values(compilationID, eventID)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build compilation events insert: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error inserting compilation events: %w", err)
	}

	return nil
}
