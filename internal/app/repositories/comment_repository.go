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

// CommentRepository handles comment database operations
type CommentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var joinedCommentColumns = []string{
	"cm.id", "cm.text", "cm.author_id", "cm.event_id", "cm.parent_id",
	"cm.status", "cm.created", "cm.updated", "cm.editable_until",
	"cm.edit_restricted", "cm.restriction_reason",
	"u.name",
}

func (r *CommentRepository) joinedSelect() squirrel.SelectBuilder {
	return r.sb.Select(joinedCommentColumns...).
		From("comments cm").
		Join("users u ON u.id = cm.author_id")
}

func scanJoinedComment(row pgx.Row) (*models.Comment, error) {
	var (
		cm         models.Comment
		authorName string
	)
	err := row.Scan(
		&cm.ID, &cm.Text, &cm.AuthorID, &cm.EventID, &cm.ParentID,
		&cm.Status, &cm.Created, &cm.Updated, &cm.EditableUntil,
		&cm.EditRestricted, &cm.RestrictionReason,
		&authorName,
	)
	if err != nil {
		return nil, err
	}
	cm.Author = &models.User{ID: cm.AuthorID, Name: authorName}
	return &cm, nil
}

// Create inserts a new comment
func (r *CommentRepository) Create(ctx context.Context, cm *models.Comment) (*models.Comment, error) {
	sql, args, err := r.sb.Insert("comments").
		Columns("text", "author_id", "event_id", "parent_id", "status",
			"created", "editable_until", "edit_restricted").
		Values(cm.Text, cm.AuthorID, cm.EventID, cm.ParentID, cm.Status,
			cm.Created, cm.EditableUntil, cm.EditRestricted).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create comment query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&cm.ID); err != nil {
		return nil, fmt.Errorf("error creating comment: %w", err)
	}

	return cm, nil
}

// GetByID retrieves a comment with its author
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	sql, args, err := r.joinedSelect().
		Where(squirrel.Eq{"cm.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get comment query: %w", err)
	}

	cm, err := scanJoinedComment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting comment: %w", err)
	}

	return cm, nil
}

// Update persists the mutable comment fields
func (r *CommentRepository) Update(ctx context.Context, cm *models.Comment) error {
	sql, args, err := r.sb.Update("comments").
		Set("text", cm.Text).
		Set("status", cm.Status).
		Set("updated", cm.Updated).
		Set("edit_restricted", cm.EditRestricted).
		Set("restriction_reason", cm.RestrictionReason).
		Where(squirrel.Eq{"id": cm.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update comment query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListTopLevelByEvent retrieves a page of an event's root comments
func (r *CommentRepository) ListTopLevelByEvent(ctx context.Context, eventID int64, page helpers.Page) ([]models.Comment, error) {
	sql, args, err := r.joinedSelect().
		Where(squirrel.Eq{"cm.event_id": eventID}).
		Where(squirrel.Expr("cm.parent_id IS NULL")).
		OrderBy("cm.created DESC", "cm.id DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list comments query: %w", err)
	}

	return r.queryComments(ctx, sql, args)
}

// ListReplies retrieves the replies of a comment, oldest first
func (r *CommentRepository) ListReplies(ctx context.Context, parentID int64) ([]models.Comment, error) {
	sql, args, err := r.joinedSelect().
		Where(squirrel.Eq{"cm.parent_id": parentID}).
		OrderBy("cm.created ASC", "cm.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list replies query: %w", err)
	}

	return r.queryComments(ctx, sql, args)
}

// ListByAuthor retrieves a page of a user's comments
func (r *CommentRepository) ListByAuthor(ctx context.Context, authorID int64, page helpers.Page) ([]models.Comment, error) {
	sql, args, err := r.joinedSelect().
		Where(squirrel.Eq{"cm.author_id": authorID}).
		OrderBy("cm.created DESC", "cm.id DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list comments query: %w", err)
	}

	return r.queryComments(ctx, sql, args)
}

// ListByStatus retrieves a page of comments for moderation, newest first. A nil
// status lists all comments.
func (r *CommentRepository) ListByStatus(ctx context.Context, status *models.CommentStatus, page helpers.Page) ([]models.Comment, error) {
	builder := r.joinedSelect()
	if status != nil {
		builder = builder.Where(squirrel.Eq{"cm.status": *status})
	}

	sql, args, err := builder.
		OrderBy("cm.created DESC", "cm.id DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list comments query: %w", err)
	}

	return r.queryComments(ctx, sql, args)
}

// CountRepliesByParents returns the reply count per parent comment id
func (r *CommentRepository) CountRepliesByParents(ctx context.Context, parentIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(parentIDs))
	if len(parentIDs) == 0 {
		return counts, nil
	}

	sql, args, err := r.sb.Select("parent_id", "COUNT(*)").
		From("comments").
		Where(squirrel.Eq{"parent_id": parentIDs}).
		GroupBy("parent_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count replies query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error counting replies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var parentID, count int64
		if err := rows.Scan(&parentID, &count); err != nil {
			return nil, fmt.Errorf("error scanning reply count: %w", err)
		}
		counts[parentID] = count
	}

	return counts, rows.Err()
}

func (r *CommentRepository) queryComments(ctx context.Context, sql string, args []any) ([]models.Comment, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying comments: %w", err)
	}
	defer rows.Close()

	comments := make([]models.Comment, 0)
	for rows.Next() {
		cm, err := scanJoinedComment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning comment row: %w", err)
		}
		comments = append(comments, *cm)
	}

	return comments, rows.Err()
}
