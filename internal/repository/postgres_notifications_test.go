package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
)

func TestCreateNotification_EncodesData(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresNotificationsRepository(db)

	mock.ExpectQuery("INSERT INTO notifications").
		WithArgs(int64(8), "screening_completed", "Hasil Skrining", "Selesai", `{"screening_id":12}`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, time.Now()))

	_, err := repo.CreateNotification(context.Background(), &domain.Notification{
		UserID: 8, Type: "screening_completed", Title: "Hasil Skrining", Body: "Selesai",
		Data: map[string]any{"screening_id": 12},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListNotifications_DecodesData(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresNotificationsRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notifications WHERE \(user_id = \$1 AND read_at IS NULL\)`).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT id, user_id, type").
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "type", "title", "body", "data", "read_at", "created_at"}).
			AddRow(1, 8, "pmt_program_created", "PMT", "Program dimulai", []byte(`{"program_id":3}`), nil, time.Now()))

	out, total, err := repo.ListNotifications(context.Background(), 8, true, Page{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, out, 1)
	assert.Equal(t, float64(3), out[0].Data["program_id"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkRead_ForeignNotification(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresNotificationsRepository(db)

	mock.ExpectExec("UPDATE notifications SET read_at").
		WithArgs(int64(5), int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.MarkRead(context.Background(), 8, 5)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}
