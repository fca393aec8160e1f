package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/snaplist/snaplist/internal/common"
	"github.com/snaplist/snaplist/internal/dbx"
	"github.com/snaplist/snaplist/internal/server/models"
	tasksrepo "github.com/snaplist/snaplist/internal/server/repositories/tasks"
	usersrepo "github.com/snaplist/snaplist/internal/server/repositories/users"
)

// --- shared helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// fakeUsersRepo is an in-memory users.Repository.
type fakeUsersRepo struct {
	byUsername map[string]*models.User
	nextID     int64
	createErr  error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byUsername: make(map[string]*models.User), nextID: 1}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byUsername[u.Username]; ok {
		return nil, common.ErrorUsernameTaken
	}
	for _, existing := range f.byUsername {
		if existing.Email == u.Email {
			return nil, common.ErrorEmailTaken
		}
	}
	u.ID = f.nextID
	f.nextID++
	f.byUsername[u.Username] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

// fakeTasksRepo is an in-memory tasks.Repository that records which finder
// was invoked.
type fakeTasksRepo struct {
	byID       map[int64]*models.Task
	nextID     int64
	lastFinder string
	lastDay    time.Time
}

func newFakeTasksRepo() *fakeTasksRepo {
	return &fakeTasksRepo{byID: make(map[int64]*models.Task), nextID: 1}
}

func (f *fakeTasksRepo) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	task.ID = f.nextID
	f.nextID++
	copied := *task
	f.byID[copied.ID] = &copied
	return task, nil
}

func (f *fakeTasksRepo) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTasksRepo) Update(ctx context.Context, task *models.Task) error {
	if _, ok := f.byID[task.ID]; !ok {
		return common.ErrorNotFound
	}
	copied := *task
	f.byID[task.ID] = &copied
	return nil
}

func (f *fakeTasksRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeTasksRepo) all(userID int64) *tasksrepo.PagedTasks {
	out := &tasksrepo.PagedTasks{}
	for _, t := range f.byID {
		if t.UserID == userID {
			copied := *t
			out.Tasks = append(out.Tasks, &copied)
			out.TotalElements++
		}
	}
	return out
}

func (f *fakeTasksRepo) FindByUser(ctx context.Context, userID int64, page tasksrepo.Page) (*tasksrepo.PagedTasks, error) {
	f.lastFinder = "FindByUser"
	return f.all(userID), nil
}

func (f *fakeTasksRepo) FindByUserAndStatus(ctx context.Context, userID int64, status models.Status, page tasksrepo.Page) (*tasksrepo.PagedTasks, error) {
	f.lastFinder = "FindByUserAndStatus"
	result := &tasksrepo.PagedTasks{}
	for _, t := range f.all(userID).Tasks {
		if t.Status == status {
			result.Tasks = append(result.Tasks, t)
			result.TotalElements++
		}
	}
	return result, nil
}

func (f *fakeTasksRepo) FindByUserAndPriority(ctx context.Context, userID int64, priority models.Priority, page tasksrepo.Page) (*tasksrepo.PagedTasks, error) {
	f.lastFinder = "FindByUserAndPriority"
	result := &tasksrepo.PagedTasks{}
	for _, t := range f.all(userID).Tasks {
		if t.Priority == priority {
			result.Tasks = append(result.Tasks, t)
			result.TotalElements++
		}
	}
	return result, nil
}

func (f *fakeTasksRepo) FindByUserAndDueBetween(ctx context.Context, userID int64, after, before time.Time, page tasksrepo.Page) (*tasksrepo.PagedTasks, error) {
	f.lastFinder = "FindByUserAndDueBetween"
	return f.all(userID), nil
}

func (f *fakeTasksRepo) SearchByText(ctx context.Context, userID int64, q string, page tasksrepo.Page) (*tasksrepo.PagedTasks, error) {
	f.lastFinder = "SearchByText"
	return f.all(userID), nil
}

func (f *fakeTasksRepo) FindDueOn(ctx context.Context, userID int64, day time.Time, page tasksrepo.Page) (*tasksrepo.PagedTasks, error) {
	f.lastFinder = "FindDueOn"
	f.lastDay = day
	return f.all(userID), nil
}

func (f *fakeTasksRepo) FindOverdue(ctx context.Context, userID int64, day time.Time, page tasksrepo.Page) (*tasksrepo.PagedTasks, error) {
	f.lastFinder = "FindOverdue"
	f.lastDay = day
	return f.all(userID), nil
}

// fakeRepoManager vends the fakes regardless of the handle.
type fakeRepoManager struct {
	u *fakeUsersRepo
	t *fakeTasksRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), t: newFakeTasksRepo()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.u }
func (m *fakeRepoManager) Tasks(db dbx.DBTX) tasksrepo.Repository      { return m.t }
