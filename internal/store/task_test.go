package store

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdeck-dev/taskdeck/internal/models"
)

func taskColumns() []string {
	return []string{"id", "created_at", "updated_at", "project_id", "assignee_id", "title", "description", "status", "due_date", "tags", "image"}
}

func taskRow(id, projectID uint, title, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(taskColumns()).
		AddRow(id, now, now, projectID, nil, title, "", status, nil, nil, "")
}

func TestTaskStore_Create(t *testing.T) {
	t.Run("member creates a task with defaulted status", func(t *testing.T) {
		db, mock := newTestDB(t)

		mock.ExpectQuery(`SELECT 1 FROM projects`).
			WithArgs(7, 43, 7, 43).
			WillReturnRows(accessRow())
		mock.ExpectQuery(`INSERT INTO "tasks"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

		task, err := NewTaskStore(db, NewAccessEvaluator(db)).Create(7, 43, CreateTaskParams{Title: "Ship it"})

		require.NoError(t, err)
		assert.Equal(t, uint(1), task.ID)
		assert.Equal(t, models.StatusPending, task.Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty title persists nothing", func(t *testing.T) {
		db, mock := newTestDB(t)

		_, err := NewTaskStore(db, NewAccessEvaluator(db)).Create(7, 43, CreateTaskParams{Title: "   "})

		assert.True(t, IsValidation(err))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		db, _ := newTestDB(t)

		_, err := NewTaskStore(db, NewAccessEvaluator(db)).Create(7, 43, CreateTaskParams{Title: "Ship it", Status: "blocked"})

		assert.True(t, IsValidation(err))
	})

	t.Run("outsiders are denied", func(t *testing.T) {
		db, mock := newTestDB(t)

		mock.ExpectQuery(`SELECT 1 FROM projects`).
			WillReturnRows(noAccessRows())

		_, err := NewTaskStore(db, NewAccessEvaluator(db)).Create(7, 99, CreateTaskParams{Title: "Ship it"})

		assert.ErrorIs(t, err, ErrDenied)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown assignee surfaces as validation", func(t *testing.T) {
		db, mock := newTestDB(t)

		mock.ExpectQuery(`SELECT 1 FROM projects`).
			WillReturnRows(accessRow())
		mock.ExpectQuery(`INSERT INTO "tasks"`).
			WillReturnError(&pgconn.PgError{Code: "23503"})

		assignee := uint(999)
		_, err := NewTaskStore(db, NewAccessEvaluator(db)).Create(7, 43, CreateTaskParams{Title: "Ship it", AssigneeID: &assignee})

		assert.True(t, IsValidation(err))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTaskStore_List(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectQuery(`SELECT 1 FROM projects`).
		WithArgs(7, 43, 7, 43).
		WillReturnRows(accessRow())
	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE project_id = \$1 ORDER BY created_at DESC`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(taskColumns()).
			AddRow(2, time.Now(), time.Now(), 7, nil, "Newest", "", "pending", nil, nil, "").
			AddRow(1, time.Now().Add(-time.Hour), time.Now(), 7, nil, "Oldest", "", "done", nil, nil, ""))

	tasks, err := NewTaskStore(db, NewAccessEvaluator(db)).List(7, 43)

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Newest", tasks[0].Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskStore_Update(t *testing.T) {
	t.Run("access derives from the task's own project", func(t *testing.T) {
		db, mock := newTestDB(t)

		mock.ExpectQuery(`SELECT "id","project_id" FROM "tasks"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "project_id"}).AddRow(3, 7))
		// The member check must run against project 7 from the row,
		// whatever the caller claims.
		mock.ExpectQuery(`SELECT 1 FROM projects`).
			WithArgs(7, 43, 7, 43).
			WillReturnRows(accessRow())
		mock.ExpectQuery(`UPDATE "tasks" SET`).
			WillReturnRows(taskRow(3, 7, "Ship it", "done"))

		status := models.StatusDone
		task, err := NewTaskStore(db, NewAccessEvaluator(db)).Update(3, 43, UpdateTaskParams{Status: &status})

		require.NoError(t, err)
		assert.Equal(t, models.StatusDone, task.Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent task is not found before any access check", func(t *testing.T) {
		db, mock := newTestDB(t)

		mock.ExpectQuery(`SELECT "id","project_id" FROM "tasks"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "project_id"}))

		status := models.StatusDone
		_, err := NewTaskStore(db, NewAccessEvaluator(db)).Update(3, 43, UpdateTaskParams{Status: &status})

		assert.ErrorIs(t, err, ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-member is denied", func(t *testing.T) {
		db, mock := newTestDB(t)

		mock.ExpectQuery(`SELECT "id","project_id" FROM "tasks"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "project_id"}).AddRow(3, 7))
		mock.ExpectQuery(`SELECT 1 FROM projects`).
			WillReturnRows(noAccessRows())

		status := models.StatusDone
		_, err := NewTaskStore(db, NewAccessEvaluator(db)).Update(3, 99, UpdateTaskParams{Status: &status})

		assert.ErrorIs(t, err, ErrDenied)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("status can move backwards", func(t *testing.T) {
		db, mock := newTestDB(t)

		mock.ExpectQuery(`SELECT "id","project_id" FROM "tasks"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "project_id"}).AddRow(3, 7))
		mock.ExpectQuery(`SELECT 1 FROM projects`).
			WillReturnRows(accessRow())
		mock.ExpectQuery(`UPDATE "tasks" SET`).
			WillReturnRows(taskRow(3, 7, "Ship it", "pending"))

		status := models.StatusPending
		task, err := NewTaskStore(db, NewAccessEvaluator(db)).Update(3, 43, UpdateTaskParams{Status: &status})

		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, task.Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects empty update", func(t *testing.T) {
		db, mock := newTestDB(t)

		mock.ExpectQuery(`SELECT "id","project_id" FROM "tasks"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "project_id"}).AddRow(3, 7))
		mock.ExpectQuery(`SELECT 1 FROM projects`).
			WillReturnRows(accessRow())

		_, err := NewTaskStore(db, NewAccessEvaluator(db)).Update(3, 43, UpdateTaskParams{})

		assert.True(t, IsValidation(err))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTaskStore_Delete(t *testing.T) {
	t.Run("member deletes and learns the owning project", func(t *testing.T) {
		db, mock := newTestDB(t)

		mock.ExpectQuery(`SELECT "id","project_id" FROM "tasks"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "project_id"}).AddRow(3, 7))
		mock.ExpectQuery(`SELECT 1 FROM projects`).
			WithArgs(7, 43, 7, 43).
			WillReturnRows(accessRow())
		mock.ExpectExec(`DELETE FROM "tasks"`).
			WithArgs(3).
			WillReturnResult(sqlmock.NewResult(0, 1))

		projectID, err := NewTaskStore(db, NewAccessEvaluator(db)).Delete(3, 43)

		require.NoError(t, err)
		assert.Equal(t, uint(7), projectID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent task is not found", func(t *testing.T) {
		db, mock := newTestDB(t)

		mock.ExpectQuery(`SELECT "id","project_id" FROM "tasks"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "project_id"}))

		_, err := NewTaskStore(db, NewAccessEvaluator(db)).Delete(3, 43)

		assert.ErrorIs(t, err, ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-member is denied", func(t *testing.T) {
		db, mock := newTestDB(t)

		mock.ExpectQuery(`SELECT "id","project_id" FROM "tasks"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "project_id"}).AddRow(3, 7))
		mock.ExpectQuery(`SELECT 1 FROM projects`).
			WillReturnRows(noAccessRows())

		_, err := NewTaskStore(db, NewAccessEvaluator(db)).Delete(3, 99)

		assert.ErrorIs(t, err, ErrDenied)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
