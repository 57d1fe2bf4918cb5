package sink

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/xapi"
)

func TestOutbox_Emit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO xapi_statements")
	prep.ExpectExec().
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s := NewOutbox(db)
	require.NoError(t, s.Emit(context.Background(), sampleStatements()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOutbox_EmitEmptyBatchSkipsTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewOutbox(db)
	require.NoError(t, s.Emit(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOutbox_EmitRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO xapi_statements")
	prep.ExpectExec().
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	s := NewOutbox(db)
	err = s.Emit(context.Background(), []xapi.Statement{{
		Verb:   xapi.Verb{ID: "https://wiki.haski.app/variables/xapi.clicked"},
		Object: xapi.Activity{ID: "https://lms.example.edu/course/view.php?id=3"},
	}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewOutbox_NilDB(t *testing.T) {
	require.Panics(t, func() { NewOutbox(nil) })
}
