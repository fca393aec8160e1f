package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/snaplist/snaplist/internal/common"
	"github.com/snaplist/snaplist/internal/dbx"
	"github.com/snaplist/snaplist/internal/server/models"
	"github.com/snaplist/snaplist/internal/server/repositories/repomanager"
	"github.com/snaplist/snaplist/internal/server/repositories/tasks"
)

// DefaultPageSize applies when the caller does not specify a page size.
const DefaultPageSize = 20

// TaskInput is the write shape shared by create and update. Text is always
// required; nil Status/Priority/DueDate mean "leave unset" on create and
// "keep the current value" on update.
type TaskInput struct {
	Text     string
	Status   *models.Status
	Priority *models.Priority
	DueDate  *time.Time
}

// ListFilter narrows a listing. Exactly one branch applies, in order:
// Status, then Priority, then DueAfter+DueBefore together, then Q. A single
// due-date bound on its own has no effect.
type ListFilter struct {
	Status    *models.Status
	Priority  *models.Priority
	DueBefore *time.Time
	DueAfter  *time.Time
	Q         string
}

// TaskService owns every per-user task read and write.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

// NewTaskService constructs a TaskService.
func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m, now: time.Now}
}

// Create stores a new task owned by userID. Status defaults to PENDING and
// priority to MEDIUM; both timestamps are assigned here and are equal.
func (s *TaskService) Create(ctx context.Context, userID int64, in TaskInput) (*models.Task, error) {
	now := s.now().UTC()

	task := &models.Task{
		UserID:    userID,
		Text:      in.Text,
		Status:    models.StatusPending,
		Priority:  models.PriorityMedium,
		DueDate:   in.DueDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Status != nil {
		task.Status = *in.Status
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}

	repo := s.repomanager.Tasks(s.db)
	created, err := repo.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	return created, nil
}

// List returns one page of the user's tasks for whichever filter branch
// wins. An explicit status filter takes priority over a priority filter,
// which takes priority over a due-date range, which takes priority over a
// text search.
func (s *TaskService) List(ctx context.Context, userID int64, f ListFilter, page tasks.Page) (*tasks.PagedTasks, error) {
	if page.Size <= 0 {
		page.Size = DefaultPageSize
	}
	if page.Number < 0 {
		page.Number = 0
	}

	repo := s.repomanager.Tasks(s.db)

	switch {
	case f.Status != nil:
		return repo.FindByUserAndStatus(ctx, userID, *f.Status, page)
	case f.Priority != nil:
		return repo.FindByUserAndPriority(ctx, userID, *f.Priority, page)
	case f.DueAfter != nil && f.DueBefore != nil:
		return repo.FindByUserAndDueBetween(ctx, userID, *f.DueAfter, *f.DueBefore, page)
	case strings.TrimSpace(f.Q) != "":
		return repo.SearchByText(ctx, userID, f.Q, page)
	default:
		return repo.FindByUser(ctx, userID, page)
	}
}

// ListDueToday returns the user's tasks due on the current day.
func (s *TaskService) ListDueToday(ctx context.Context, userID int64, page tasks.Page) (*tasks.PagedTasks, error) {
	if page.Size <= 0 {
		page.Size = DefaultPageSize
	}
	repo := s.repomanager.Tasks(s.db)
	return repo.FindDueOn(ctx, userID, today(s.now()), page)
}

// ListOverdue returns the user's PENDING tasks whose due date has passed.
func (s *TaskService) ListOverdue(ctx context.Context, userID int64, page tasks.Page) (*tasks.PagedTasks, error) {
	if page.Size <= 0 {
		page.Size = DefaultPageSize
	}
	repo := s.repomanager.Tasks(s.db)
	return repo.FindOverdue(ctx, userID, today(s.now()), page)
}

// Get loads a single task, enforcing ownership.
func (s *TaskService) Get(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	repo := s.repomanager.Tasks(s.db)
	return s.getOwned(ctx, repo, userID, taskID)
}

// Update overwrites the task text and patches status, priority, and due
// date only when the input supplies them. Load, ownership check, and write
// happen in one transaction.
func (s *TaskService) Update(ctx context.Context, userID, taskID int64, in TaskInput) (*models.Task, error) {
	var updated *models.Task

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tasks(tx)

		task, err := s.getOwned(ctx, repo, userID, taskID)
		if err != nil {
			return err
		}

		task.Text = in.Text
		if in.Status != nil {
			task.Status = *in.Status
		}
		if in.Priority != nil {
			task.Priority = *in.Priority
		}
		if in.DueDate != nil {
			task.DueDate = in.DueDate
		}
		task.UpdatedAt = s.now().UTC()

		if err := repo.Update(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the task if the caller owns it.
func (s *TaskService) Delete(ctx context.Context, userID, taskID int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tasks(tx)

		task, err := s.getOwned(ctx, repo, userID, taskID)
		if err != nil {
			return err
		}
		return repo.Delete(ctx, task.ID)
	})
}

// MarkCompleted sets the task's status to DONE regardless of its current
// status, so repeating the call is a no-op success.
func (s *TaskService) MarkCompleted(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	var updated *models.Task

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tasks(tx)

		task, err := s.getOwned(ctx, repo, userID, taskID)
		if err != nil {
			return err
		}

		task.Status = models.StatusDone
		task.UpdatedAt = s.now().UTC()

		if err := repo.Update(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// getOwned loads a task by id and verifies the owner. A task owned by
// someone else is reported as ErrorNotFound, identical to a missing id.
func (s *TaskService) getOwned(ctx context.Context, repo tasks.Repository, userID, taskID int64) (*models.Task, error) {
	task, err := repo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading task: %w", err)
	}
	if task.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return task, nil
}

func today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
