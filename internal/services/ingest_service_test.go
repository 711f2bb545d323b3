package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"momo-insights/pkg"
	"momo-insights/pkg/database"
	"momo-insights/pkg/repositories"
)

const ingestBackupXML = `<?xml version="1.0" encoding="UTF-8"?>
<smses count="3">
  <sms protocol="0" address="M-Money" date="1715000000000" type="1" body="You have received 2,000 RWF from Jane Smith (*********013) on your mobile money account." readable_date="6 May 2024 12:30:51 PM" contact_name="(Unknown)" />
  <sms protocol="0" address="M-Money" date="1715001000000" type="1" body="TxId: 73214. Your payment of 1,000 RWF to Jane Smith 12845 has been completed." readable_date="6 May 2024 12:40:00 PM" contact_name="(Unknown)" />
  <sms protocol="0" address="M-Money" date="1715004000000" type="1" body="Your OTP is 1234. Do not share it." readable_date="6 May 2024 13:30:00 PM" contact_name="(Unknown)" />
</smses>`

func newIngestFixture(t *testing.T) (IngestService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	db := database.NewFromPool(mock)
	svc := NewIngestService(zap.NewNop(), db, repositories.NewTransactionRepository(db))
	return svc, mock
}

func expectInsert(mock pgxmock.PgxPoolIface) {
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
}

func TestIngest_PersistsRecognizedMessages(t *testing.T) {
	svc, mock := newIngestFixture(t)

	mock.ExpectBegin()
	expectInsert(mock)
	expectInsert(mock)
	mock.ExpectCommit()

	summary, err := svc.Ingest(context.Background(), "trace-1", uuid.New(), []byte(ingestBackupXML))
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Messages)
	assert.Equal(t, 2, summary.Inserted)
	assert.Equal(t, 1, summary.Skipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIngest_MalformedXMLTouchesNoDatabase(t *testing.T) {
	svc, mock := newIngestFixture(t)

	_, err := svc.Ingest(context.Background(), "trace-1", uuid.New(), []byte(`<smses><sms protocol=`))
	require.Error(t, err)

	var appErr pkg.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkg.ErrParseCode.Code, appErr.Code.Code)
	assert.NoError(t, mock.ExpectationsWereMet(), "no begin/exec/commit should have happened")
}

func TestIngest_InsertFailureRollsBack(t *testing.T) {
	svc, mock := newIngestFixture(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnError(&pgconn.PgError{Code: "23514", ConstraintName: "transactions_amount_check"})
	mock.ExpectRollback()

	_, err := svc.Ingest(context.Background(), "trace-1", uuid.New(), []byte(ingestBackupXML))
	require.Error(t, err)

	var appErr pkg.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkg.ErrSQLInvalidInput.Code, appErr.Code.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIngest_EmptyBackupCommitsNothing(t *testing.T) {
	svc, mock := newIngestFixture(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	summary, err := svc.Ingest(context.Background(), "trace-1", uuid.New(), []byte(`<smses count="0"></smses>`))
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Messages)
	assert.Equal(t, 0, summary.Inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReset_ReportsDeletedCount(t *testing.T) {
	svc, mock := newIngestFixture(t)
	userID := uuid.New()

	mock.ExpectExec("DELETE FROM transactions").
		WithArgs(userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	deleted, err := svc.Reset(context.Background(), "trace-1", userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
