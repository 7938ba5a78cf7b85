package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cafewifi/webapp/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupSessionTestRepository creates a session repository with a mock database
func setupSessionTestRepository(t *testing.T) (*sessionRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewSessionRepository(db, zap.NewNop())

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestNewSessionRepository(t *testing.T) {
	db := &sql.DB{}

	repo := NewSessionRepository(db, zap.NewNop())

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestSessionRepository_Create(t *testing.T) {
	tests := []struct {
		name          string
		session       *models.Session
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
	}{
		{
			name: "success",
			session: &models.Session{
				Token:  "11111111-2222-3333-4444-555555555555",
				UserID: 1,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO sessions`).
					WithArgs("11111111-2222-3333-4444-555555555555", 1).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
		},
		{
			name: "database error",
			session: &models.Session{
				Token:  "11111111-2222-3333-4444-555555555555",
				UserID: 1,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO sessions`).
					WithArgs("11111111-2222-3333-4444-555555555555", 1).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupSessionTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.Create(context.Background(), tt.session)

			if tt.expectedError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessionRepository_GetByToken(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		token           string
		setupMock       func(sqlmock.Sqlmock)
		expectedError   error
		expectedSession *models.Session
	}{
		{
			name:  "success",
			token: "11111111-2222-3333-4444-555555555555",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "token", "user_id", "created_at"}).
					AddRow(1, "11111111-2222-3333-4444-555555555555", 42, createdAt)
				mock.ExpectQuery(`SELECT id, token, user_id, created_at FROM sessions WHERE token = \?`).
					WithArgs("11111111-2222-3333-4444-555555555555").
					WillReturnRows(rows)
			},
			expectedSession: &models.Session{
				ID:        1,
				Token:     "11111111-2222-3333-4444-555555555555",
				UserID:    42,
				CreatedAt: createdAt,
			},
		},
		{
			name:  "session ended",
			token: "gone",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, token, user_id, created_at FROM sessions WHERE token = \?`).
					WithArgs("gone").
					WillReturnError(sql.ErrNoRows)
			},
			expectedError: ErrNotFound,
		},
		{
			name:  "database error",
			token: "11111111-2222-3333-4444-555555555555",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, token, user_id, created_at FROM sessions WHERE token = \?`).
					WithArgs("11111111-2222-3333-4444-555555555555").
					WillReturnError(errors.New("database error"))
			},
			expectedError: errors.New("failed to get session by token"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupSessionTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			session, err := repo.GetByToken(context.Background(), tt.token)

			if tt.expectedError != nil {
				require.Error(t, err)
				if errors.Is(tt.expectedError, ErrNotFound) {
					assert.ErrorIs(t, err, ErrNotFound)
				} else {
					assert.Contains(t, err.Error(), tt.expectedError.Error())
				}
				assert.Nil(t, session)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedSession, session)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessionRepository_DeleteByToken(t *testing.T) {
	tests := []struct {
		name          string
		token         string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
	}{
		{
			name:  "success",
			token: "11111111-2222-3333-4444-555555555555",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM sessions WHERE token = \?`).
					WithArgs("11111111-2222-3333-4444-555555555555").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:  "already deleted is not an error",
			token: "gone",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM sessions WHERE token = \?`).
					WithArgs("gone").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
		},
		{
			name:  "database error",
			token: "11111111-2222-3333-4444-555555555555",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM sessions WHERE token = \?`).
					WithArgs("11111111-2222-3333-4444-555555555555").
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupSessionTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.DeleteByToken(context.Background(), tt.token)

			if tt.expectedError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
