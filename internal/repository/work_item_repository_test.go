package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
)

var workItemRowColumns = []string{"id", "code", "date", "client_id", "project", "activity_type", "description", "owner", "duration_minutes", "tags", "status", "revision_count", "created_at", "updated_at"}

func TestWorkItemRepositoryLockByIDUsesRowLock(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM work_items WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(workItemRowColumns).
			AddRow(3, "MST001-IS001", now, 1, "Launch", "Design", "Banner", "Ayse", 90, "", "Pending", 0, now, now))

	item, err := NewWorkItemRepository(db).LockByID(context.Background(), nil, 3)
	require.NoError(t, err)
	assert.Equal(t, models.WorkItemStatusPending, item.Status)
	assert.Equal(t, 90, item.DurationMinutes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkItemRepositoryIncrementRevisionCount(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE work_items SET revision_count = revision_count + 1")).
		WithArgs(int64(3), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"revision_count"}).AddRow(2))

	count, err := NewWorkItemRepository(db).IncrementRevisionCount(context.Background(), nil, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkItemRepositoryUpdateStatusMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE work_items SET status = $2")).
		WithArgs(int64(9), models.WorkItemStatusApproved, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewWorkItemRepository(db).UpdateStatus(context.Background(), nil, 9, models.WorkItemStatusApproved)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkItemRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM work_items WHERE client_id = $1 AND status = $2 AND date >= $3 ORDER BY date DESC, id DESC LIMIT 20 OFFSET 0")).
		WithArgs(int64(1), models.WorkItemStatusInRevision, from).
		WillReturnRows(sqlmock.NewRows(workItemRowColumns))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM work_items WHERE client_id = $1")).
		WithArgs(int64(1), models.WorkItemStatusInRevision, from).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	items, total, err := NewWorkItemRepository(db).List(context.Background(), models.WorkItemFilter{
		ClientID: int64Ptr(1),
		Status:   models.WorkItemStatusInRevision,
		Range:    models.DateRange{From: &from},
	})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkItemRepositoryLastCodeForClient(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT code FROM work_items WHERE client_id = $1 ORDER BY id DESC LIMIT 1")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"code"}).AddRow("MST002-IS007"))

	code, err := NewWorkItemRepository(db).LastCodeForClient(context.Background(), nil, 2)
	require.NoError(t, err)
	assert.Equal(t, "MST002-IS007", code)
	require.NoError(t, mock.ExpectationsWereMet())
}
