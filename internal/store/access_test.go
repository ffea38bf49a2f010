package store

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessEvaluator_Check(t *testing.T) {
	tests := []struct {
		name      string
		level     AccessLevel
		setupMock func(mock sqlmock.Sqlmock)
		expectErr error
	}{
		{
			name:  "owner level allows the owner",
			level: AccessOwner,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT 1 FROM projects WHERE id = \$1 AND owner_id = \$2`).
					WithArgs(7, 42).
					WillReturnRows(accessRow())
			},
			expectErr: nil,
		},
		{
			name:  "owner level denies a plain member",
			level: AccessOwner,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT 1 FROM projects WHERE id = \$1 AND owner_id = \$2`).
					WithArgs(7, 42).
					WillReturnRows(noAccessRows())
			},
			expectErr: ErrDenied,
		},
		{
			name:  "member level checks both tables in one statement",
			level: AccessMember,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT 1 FROM projects WHERE id = \$1 AND owner_id = \$2 UNION SELECT 1 FROM project_members WHERE project_id = \$3 AND user_id = \$4`).
					WithArgs(7, 42, 7, 42).
					WillReturnRows(accessRow())
			},
			expectErr: nil,
		},
		{
			name:  "member level denies an outsider",
			level: AccessMember,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT 1 FROM projects`).
					WithArgs(7, 42, 7, 42).
					WillReturnRows(noAccessRows())
			},
			expectErr: ErrDenied,
		},
		{
			name:  "missing project is indistinguishable from no access",
			level: AccessMember,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT 1 FROM projects`).
					WithArgs(7, 42, 7, 42).
					WillReturnRows(noAccessRows())
			},
			expectErr: ErrDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newTestDB(t)
			tt.setupMock(mock)

			evaluator := NewAccessEvaluator(db)
			err := evaluator.Check(42, 7, tt.level)

			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
			} else {
				assert.NoError(t, err)
			}

			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
