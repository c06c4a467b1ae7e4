package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
)

func TestCreateFoodLog_WritesItemsInTx(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresFoodLogsRepository(db)
	now := time.Now()

	l := &domain.FoodLog{
		ChildID:  4,
		LogDate:  day(2026, 3, 2),
		MealTime: domain.MealLunch,
		Items: []domain.FoodLogItem{
			{FoodID: 10, Quantity: 1, ServingSize: 100, Calories: 130},
			{FoodID: 11, Quantity: 2, ServingSize: 50, Calories: 80},
		},
	}
	l.RecalculateTotals()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO food_logs").
		WithArgs(int64(4), l.LogDate, domain.MealLunch, 210.0, 0.0, 0.0, 0.0, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(55, now, now))
	mock.ExpectQuery("INSERT INTO food_log_items").
		WithArgs(int64(55), int64(10), 1.0, 100.0, 130.0, 0.0, 0.0, 0.0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery("INSERT INTO food_log_items").
		WithArgs(int64(55), int64(11), 2.0, 50.0, 80.0, 0.0, 0.0, 0.0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectCommit()

	id, err := repo.CreateFoodLog(context.Background(), l)
	require.NoError(t, err)
	assert.Equal(t, int64(55), id)
	assert.Equal(t, int64(55), l.Items[1].FoodLogID)
	assert.Equal(t, int64(2), l.Items[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateFoodLog_RollsBackWhenItemFails(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresFoodLogsRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE food_logs").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM food_log_items").WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery("INSERT INTO food_log_items").WillReturnError(errors.New("fk violation"))
	mock.ExpectRollback()

	err := repo.UpdateFoodLog(context.Background(), &domain.FoodLog{
		ID: 9, ChildID: 4, LogDate: day(2026, 3, 2), MealTime: domain.MealSnack,
		Items: []domain.FoodLogItem{{FoodID: 999, Quantity: 1, ServingSize: 10}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to update food log")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDailyTotals(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresFoodLogsRepository(db)

	mock.ExpectQuery("SELECT log_date, SUM").
		WithArgs(int64(4), "2026-02-01", "2026-03-02").
		WillReturnRows(sqlmock.NewRows([]string{"log_date", "c", "p", "cb", "f"}).
			AddRow(day(2026, 3, 1), 900.5, 20.0, 110.0, 30.0).
			AddRow(day(2026, 3, 2), 1000.0, 25.0, 120.0, 35.0))

	out, err := repo.DailyTotals(context.Background(), 4, day(2026, 2, 1), day(2026, 3, 2))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 900.5, out[0].Calories)
	assert.Equal(t, 35.0, out[1].Fat)
	require.NoError(t, mock.ExpectationsWereMet())
}
