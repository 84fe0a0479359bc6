package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
)

func TestCallLogRepositoryListFollowUpsDue(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	today := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	follow := today.AddDate(0, 0, -1)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = $1 AND follow_up_date IS NOT NULL AND follow_up_date <= $2")).
		WithArgs(models.CallLogStatusPending, today).
		WillReturnRows(sqlmock.NewRows([]string{"id", "date", "client_id", "counterpart", "subject", "outcome", "owner", "notes", "follow_up_date", "status", "created_at", "updated_at"}).
			AddRow(1, today, 1, "Mehmet", "Budget", "Callback", "Ayse", "", follow, "pending", today, today))

	logs, err := NewCallLogRepository(db).ListFollowUpsDue(context.Background(), today)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.NotNil(t, logs[0].FollowUpDate)
	assert.Equal(t, models.CallLogStatusPending, logs[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCallLogRepositoryListByStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("FROM call_logs WHERE client_id = $1 AND status = $2")).
		WithArgs(int64(3), models.CallLogStatusDone).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	logs, err := NewCallLogRepository(db).List(context.Background(), models.CallLogFilter{ClientID: int64Ptr(3), Status: models.CallLogStatusDone})
	require.NoError(t, err)
	assert.Empty(t, logs)
	require.NoError(t, mock.ExpectationsWereMet())
}
