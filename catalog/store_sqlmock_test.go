package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/larder/errors"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewStore(conn, nil), mock
}

func TestListWrapsDriverError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT id, name, category, created_at FROM ingredients").
		WillReturnError(errors.New("disk I/O error"))

	_, err := s.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list ingredients")
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetWrapsDriverError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT (.+) FROM ingredients WHERE id = ?").
		WithArgs(int64(7)).
		WillReturnError(errors.New("database is locked"))

	_, err := s.Get(context.Background(), 7)
	require.Error(t, err)
	assert.False(t, errors.IsNotFound(err))
	assert.Contains(t, err.Error(), "get ingredient 7")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWrapsNonConstraintError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO ingredients").
		WithArgs("Salt", "salt", "spices").
		WillReturnError(errors.New("readonly database"))

	_, err := s.Create(context.Background(), "Salt", "Spices")
	require.Error(t, err)
	assert.False(t, errors.IsConflict(err))
	assert.Contains(t, err.Error(), `create ingredient "Salt"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRowsAffectedError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("DELETE FROM ingredients WHERE id = ?").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewErrorResult(errors.New("rows affected unsupported")))

	err := s.Delete(context.Background(), 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete ingredient 3")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportRollsBackOnError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("salt").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO ingredients").
		WithArgs("Salt", "salt", "").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := s.Import(context.Background(), strings.NewReader("- name: Salt\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `import "Salt"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
