package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/snaplist/snaplist/internal/common"
	"github.com/snaplist/snaplist/internal/dbx"
	"github.com/snaplist/snaplist/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const taskColumns = "id, user_id, text, status, priority, due_date, created_at, updated_at"

func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	t := &models.Task{}
	var due sql.NullTime
	err := row.Scan(&t.ID, &t.UserID, &t.Text, &t.Status, &t.Priority, &due, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if due.Valid {
		d := due.Time
		t.DueDate = &d
	}
	return t, nil
}

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {

	query :=
		`INSERT INTO tasks (user_id, text, status, priority, due_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		task.UserID, task.Text, task.Status, task.Priority, nullDate(task.DueDate), task.CreatedAt, task.UpdatedAt).Scan(&task.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) Update(ctx context.Context, task *models.Task) error {

	query :=
		`UPDATE tasks
		 SET text = $1, status = $2, priority = $3, due_date = $4, updated_at = $5
		 WHERE id = $6
		 `

	res, err := r.db.ExecContext(ctx, query,
		task.Text, task.Status, task.Priority, nullDate(task.DueDate), task.UpdatedAt, task.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {

	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) FindByUser(ctx context.Context, userID int64, page Page) (*PagedTasks, error) {
	return r.findPage(ctx, "user_id = $1", []any{userID}, page)
}

func (r *PostgresRepository) FindByUserAndStatus(ctx context.Context, userID int64, status models.Status, page Page) (*PagedTasks, error) {
	return r.findPage(ctx, "user_id = $1 AND status = $2", []any{userID, status}, page)
}

func (r *PostgresRepository) FindByUserAndPriority(ctx context.Context, userID int64, priority models.Priority, page Page) (*PagedTasks, error) {
	return r.findPage(ctx, "user_id = $1 AND priority = $2", []any{userID, priority}, page)
}

func (r *PostgresRepository) FindByUserAndDueBetween(ctx context.Context, userID int64, after, before time.Time, page Page) (*PagedTasks, error) {
	return r.findPage(ctx, "user_id = $1 AND due_date BETWEEN $2 AND $3", []any{userID, after, before}, page)
}

func (r *PostgresRepository) SearchByText(ctx context.Context, userID int64, q string, page Page) (*PagedTasks, error) {
	return r.findPage(ctx, "user_id = $1 AND text ILIKE '%' || $2 || '%'", []any{userID, q}, page)
}

func (r *PostgresRepository) FindDueOn(ctx context.Context, userID int64, day time.Time, page Page) (*PagedTasks, error) {
	return r.findPage(ctx, "user_id = $1 AND due_date = $2", []any{userID, day}, page)
}

func (r *PostgresRepository) FindOverdue(ctx context.Context, userID int64, day time.Time, page Page) (*PagedTasks, error) {
	return r.findPage(ctx, "user_id = $1 AND status = $2 AND due_date < $3",
		[]any{userID, models.StatusPending, day}, page)
}

// findPage runs a count plus a windowed select over the same predicate.
// Results are ordered by id so pages are stable.
func (r *PostgresRepository) findPage(ctx context.Context, where string, args []any, page Page) (*PagedTasks, error) {

	var total int64
	countQuery := `SELECT count(*) FROM tasks WHERE ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE %s ORDER BY id LIMIT $%d OFFSET $%d`,
		taskColumns, where, len(args)+1, len(args)+2)

	rows, err := r.db.QueryContext(ctx, query, append(args, page.Size, page.Offset())...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := &PagedTasks{TotalElements: total}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result.Tasks = append(result.Tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func nullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
