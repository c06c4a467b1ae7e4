package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
)

var userRowColumns = []string{
	"id", "name", "email", "password", "user_type", "phone", "avatar_url",
	"push_notifications", "weekly_report", "created_at", "updated_at",
}

func TestGetUserByEmail_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresUsersRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT .* FROM users WHERE LOWER\(email\) = LOWER\(\$1\)`).
		WithArgs("siti@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(7, "Siti", "siti@example.com", "$2a$10$hash", "nakes", nil, nil, true, false, now, now))

	u, err := repo.GetUserByEmail(context.Background(), "siti@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, int64(7), u.ID)
	assert.True(t, u.IsNakes())
	assert.Nil(t, u.Phone)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUser_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresUsersRepository(db)

	mock.ExpectQuery("SELECT").WithArgs(int64(99)).WillReturnError(sql.ErrNoRows)

	u, err := repo.GetUser(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, u)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_Duplicate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresUsersRepository(db)

	mock.ExpectQuery("INSERT INTO users").WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.CreateUser(context.Background(), &domain.User{
		Name: "Budi", Email: "budi@example.com", PasswordHash: "x", UserType: domain.UserTypeParent,
	})
	assert.ErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListParents_Search(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresUsersRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users u WHERE`).
		WithArgs("parent", "%ani%", "%ani%", "%ani%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT u.id.* FROM users u WHERE .* ORDER BY u.created_at DESC LIMIT 15 OFFSET 15`).
		WithArgs("parent", "%ani%", "%ani%", "%ani%").
		WillReturnRows(sqlmock.NewRows(append(userRowColumns, "children_count")).
			AddRow(3, "Ani", "ani@example.com", "h", "parent", "0812", nil, true, false, now, now, 2))

	out, total, err := repo.ListParents(context.Background(), UserFilters{Search: " ani "}, Page{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].ChildrenCount)
	assert.Equal(t, "0812", *out[0].Phone)
	require.NoError(t, mock.ExpectationsWereMet())
}
