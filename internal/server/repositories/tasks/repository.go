package tasks

import (
	"context"
	"time"

	"github.com/snaplist/snaplist/internal/server/models"
)

// Page selects a window of results. Number is zero-based.
type Page struct {
	Number int
	Size   int
}

// Offset returns the row offset of the page start.
func (p Page) Offset() int {
	return p.Number * p.Size
}

// PagedTasks is one page of tasks plus the total number of matches.
type PagedTasks struct {
	Tasks         []*models.Task
	TotalElements int64
}

// Repository provides single-predicate, user-scoped lookups plus by-id
// access. GetByID deliberately ignores ownership; the service layer
// compares the owner to the caller.
type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id int64) error

	FindByUser(ctx context.Context, userID int64, page Page) (*PagedTasks, error)
	FindByUserAndStatus(ctx context.Context, userID int64, status models.Status, page Page) (*PagedTasks, error)
	FindByUserAndPriority(ctx context.Context, userID int64, priority models.Priority, page Page) (*PagedTasks, error)
	FindByUserAndDueBetween(ctx context.Context, userID int64, after, before time.Time, page Page) (*PagedTasks, error)
	SearchByText(ctx context.Context, userID int64, q string, page Page) (*PagedTasks, error)
	FindDueOn(ctx context.Context, userID int64, day time.Time, page Page) (*PagedTasks, error)
	FindOverdue(ctx context.Context, userID int64, day time.Time, page Page) (*PagedTasks, error)
}
