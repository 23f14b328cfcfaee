package dbx

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/socialnet/internal/common"
	"github.com/dmitrijs2005/socialnet/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger() (logging.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil))), &buf
}

// sqlmock's option type is unexported, so ping monitoring is passed as a flag.
func mockOpener(t *testing.T, monitorPings ...bool) (Opener, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(len(monitorPings) > 0 && monitorPings[0]))
	require.NoError(t, err)
	return func(context.Context) (*sql.DB, error) { return db, nil }, mock
}

func TestWithConnection_RunsOperationAndCloses(t *testing.T) {
	open, mock := mockOpener(t)
	mock.ExpectExec("DELETE FROM t").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectClose()

	log, buf := newBufferLogger()
	g := NewGateway(open, time.Second, log)

	err := g.WithConnection(context.Background(), func(ctx context.Context, conn DBTX) error {
		_, err := conn.ExecContext(ctx, "DELETE FROM t")
		return err
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, buf.String(), "success path must not log")
}

func TestWithConnection_OperationErrorPassesThroughAndCloses(t *testing.T) {
	open, mock := mockOpener(t)
	mock.ExpectClose()

	g := NewGateway(open, time.Second, logging.NewNopLogger())
	boom := errors.New("boom")

	err := g.WithConnection(context.Background(), func(context.Context, DBTX) error {
		return boom
	})

	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet(), "connection must be closed on error")
}

func TestWithConnection_PanicIsRecoveredAndCloses(t *testing.T) {
	open, mock := mockOpener(t)
	mock.ExpectClose()

	g := NewGateway(open, time.Second, logging.NewNopLogger())

	var err error
	require.NotPanics(t, func() {
		err = g.WithConnection(context.Background(), func(context.Context, DBTX) error {
			panic("kaput")
		})
	})

	require.ErrorIs(t, err, common.ErrQuery)
	assert.Contains(t, err.Error(), "kaput")
	require.NoError(t, mock.ExpectationsWereMet(), "connection must be closed on panic")
}

func TestWithConnection_OpenError(t *testing.T) {
	log, buf := newBufferLogger()
	g := NewGateway(func(context.Context) (*sql.DB, error) {
		return nil, errors.New("refused")
	}, time.Second, log)

	called := false
	err := g.WithConnection(context.Background(), func(context.Context, DBTX) error {
		called = true
		return nil
	})

	require.ErrorIs(t, err, common.ErrNoConnection)
	assert.False(t, called)
	assert.Equal(t, 1, strings.Count(buf.String(), "level=ERROR"), "exactly one error line")
	assert.Contains(t, buf.String(), "Unable to connect to the database")
}

func TestWithConnection_PingError(t *testing.T) {
	open, mock := mockOpener(t, true)
	mock.ExpectPing().WillReturnError(errors.New("no route"))
	mock.ExpectClose()

	g := NewGateway(open, time.Second, logging.NewNopLogger())

	err := g.WithConnection(context.Background(), func(context.Context, DBTX) error {
		t.Fatal("operation must not run without a connection")
		return nil
	})

	require.ErrorIs(t, err, common.ErrNoConnection)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithConnection_ConnectTimeout(t *testing.T) {
	blocking := func(ctx context.Context) (*sql.DB, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	g := NewGateway(blocking, 20*time.Millisecond, logging.NewNopLogger())

	start := time.Now()
	err := g.WithConnection(context.Background(), func(context.Context, DBTX) error { return nil })

	require.ErrorIs(t, err, common.ErrNoConnection)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNewGateway_DefaultTimeout(t *testing.T) {
	g := NewGateway(nil, 0, logging.NewNopLogger())
	assert.Equal(t, DefaultConnectTimeout, g.timeout)
}
