package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftlog/liftlog-go/internal/core/domain"
	"github.com/liftlog/liftlog-go/internal/core/service"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want *domain.DomainError
	}{
		{"no rows", sql.ErrNoRows, domain.ErrSetNotFound},
		{"domain error passes", domain.ErrExerciseInUse, domain.ErrExerciseInUse},
		{"check violation", &pgconn.PgError{Code: codeCheckViolation}, domain.ErrValidation},
		{"other pg error", &pgconn.PgError{Code: "57014"}, domain.ErrDatabase},
		{"plain error", errors.New("conn reset"), domain.ErrDatabase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err, domain.ErrSetNotFound)
			assert.ErrorIs(t, got, tt.want)
		})
	}

	assert.NoError(t, mapError(nil, domain.ErrSetNotFound))
}

func TestIsForeignKeyViolation(t *testing.T) {
	name, ok := isForeignKeyViolation(&pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: fkInstanceSession})
	assert.True(t, ok)
	assert.Equal(t, fkInstanceSession, name)

	_, ok = isForeignKeyViolation(&pgconn.PgError{Code: codeUniqueViolation})
	assert.False(t, ok)
	_, ok = isForeignKeyViolation(errors.New("x"))
	assert.False(t, ok)
}

func TestPing(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(`^SELECT \$1::int$`).WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"int4"}).AddRow(1))
	require.NoError(t, Ping(context.Background(), db, time.Second))

	mock.ExpectQuery(`^SELECT \$1::int$`).WithArgs(1).
		WillReturnError(errors.New("db down"))
	err := Ping(context.Background(), db, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestOpen_RequiresURL(t *testing.T) {
	_, err := Open(context.Background(), Config{})
	require.Error(t, err)
}

func TestMigrate_UsesEmbeddedDir(t *testing.T) {
	db, _ := newMock(t)

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	var gotDir string
	gooseUpContext = func(ctx context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}

	require.NoError(t, Migrate(context.Background(), db))
	assert.Equal(t, migrationsDir, gotDir)

	entries, err := migrations.ReadDir(migrationsDir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestMigrate_PropagatesError(t *testing.T) {
	db, _ := newMock(t)

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })
	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("dirty")
	}

	assert.EqualError(t, Migrate(context.Background(), db), "dirty")
}

var (
	_ service.UserRepository     = (*UserRepository)(nil)
	_ service.UserFinder         = (*UserRepository)(nil)
	_ service.TokenRepository    = (*TokenRepository)(nil)
	_ service.ExerciseRepository = (*ExerciseRepository)(nil)
	_ service.SessionRepository  = (*SessionRepository)(nil)
	_ service.InstanceRepository = (*InstanceRepository)(nil)
	_ service.SetRepository      = (*SetRepository)(nil)
)
