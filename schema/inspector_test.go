package schema

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memobit/labsql/internal/validation"
)

const describeLog = "DESCRIBE `medical_analysis_log`"

func describeRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("id", "int(11)", "NO", "PRI", nil, "auto_increment").
		AddRow("analysisId", "int(11)", "NO", "", nil, "").
		AddRow("date", "date", "NO", "", nil, "").
		AddRow("value", "decimal(10,2)", "NO", "", nil, "").
		AddRow("notes", "text", "YES", "", nil, "")
}

func newMock(t *testing.T) (sqlmock.Sqlmock, func(...Option) *Inspector) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return mock, func(opts ...Option) *Inspector { return NewInspector(db, opts...) }
}

func TestInspectorDescribe(t *testing.T) {
	mock, newInspector := newMock(t)
	mock.ExpectQuery(describeLog).WillReturnRows(describeRows())

	table, err := newInspector().Describe(context.Background(), "medical_analysis_log")
	require.NoError(t, err)

	assert.Equal(t, "medical_analysis_log", table.Name)
	require.Len(t, table.Columns, 5)

	value, ok := table.Column("value")
	require.True(t, ok)
	assert.False(t, value.Quoted())
	assert.False(t, value.Nullable)

	notes, ok := table.Column("notes")
	require.True(t, ok)
	assert.True(t, notes.Quoted())
	assert.True(t, notes.Nullable)

	id, _ := table.Column("id")
	assert.Equal(t, "PRI", id.Key)
	assert.Equal(t, "auto_increment", id.Extra)
	assert.Nil(t, id.Default)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInspectorCacheMissThenHit(t *testing.T) {
	mock, newInspector := newMock(t)
	mock.ExpectQuery(describeLog).WillReturnRows(describeRows())

	in := newInspector()
	ctx := context.Background()
	data := map[string]any{"analysisId": 3, "date": "2024-01-10", "value": "5.4"}

	miss, err := in.Describe(ctx, "medical_analysis_log")
	require.NoError(t, err)
	missBound, err := miss.Bind(data)
	require.NoError(t, err)

	hit, err := in.Describe(ctx, "medical_analysis_log")
	require.NoError(t, err)
	hitBound, err := hit.Bind(data)
	require.NoError(t, err)

	assert.Same(t, miss, hit)
	assert.Equal(t, missBound, hitBound)
	assert.Equal(t, 5.4, hitBound["value"])
	assert.Equal(t, "2024-01-10", hitBound["date"])

	// A single catalog round trip for both calls.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInspectorInvalidateAndRefresh(t *testing.T) {
	mock, newInspector := newMock(t)
	mock.ExpectQuery(describeLog).WillReturnRows(describeRows())
	mock.ExpectQuery(describeLog).WillReturnRows(describeRows())
	mock.ExpectQuery(describeLog).WillReturnRows(
		sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
			AddRow("id", "int(11)", "NO", "PRI", nil, "auto_increment").
			AddRow("value", "varchar(32)", "YES", "", "n/a", ""),
	)

	in := newInspector()
	ctx := context.Background()

	_, err := in.Describe(ctx, "medical_analysis_log")
	require.NoError(t, err)

	in.Invalidate("medical_analysis_log")
	_, err = in.Describe(ctx, "medical_analysis_log")
	require.NoError(t, err)

	refreshed, err := in.Refresh(ctx, "medical_analysis_log")
	require.NoError(t, err)
	value, ok := refreshed.Column("value")
	require.True(t, ok)
	assert.True(t, value.Quoted())
	require.NotNil(t, value.Default)
	assert.Equal(t, "n/a", *value.Default)

	// Served from cache after the refresh.
	again, err := in.Describe(ctx, "medical_analysis_log")
	require.NoError(t, err)
	assert.Same(t, refreshed, again)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInspectorInvalidateAll(t *testing.T) {
	mock, newInspector := newMock(t)
	mock.ExpectQuery(describeLog).WillReturnRows(describeRows())
	mock.ExpectQuery(describeLog).WillReturnRows(describeRows())

	in := newInspector()
	ctx := context.Background()

	_, err := in.Describe(ctx, "medical_analysis_log")
	require.NoError(t, err)
	in.InvalidateAll()
	_, err = in.Describe(ctx, "medical_analysis_log")
	require.NoError(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInspectorWithoutCache(t *testing.T) {
	mock, newInspector := newMock(t)
	mock.ExpectQuery(describeLog).WillReturnRows(describeRows())
	mock.ExpectQuery(describeLog).WillReturnRows(describeRows())

	in := newInspector(WithoutCache())
	assert.False(t, in.Cached())

	for range 2 {
		_, err := in.Describe(context.Background(), "medical_analysis_log")
		require.NoError(t, err)
	}

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInspectorTableNotFound(t *testing.T) {
	mock, newInspector := newMock(t)
	mock.ExpectQuery("DESCRIBE `missing`").
		WillReturnError(&mysql.MySQLError{Number: 1146, Message: "Table 'lab.missing' doesn't exist"})
	mock.ExpectQuery("DESCRIBE `empty`").
		WillReturnRows(sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}))

	in := newInspector()

	_, err := in.Describe(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTableNotFound)

	_, err = in.Describe(context.Background(), "empty")
	assert.ErrorIs(t, err, ErrTableNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInspectorRejectsBadTableName(t *testing.T) {
	mock, newInspector := newMock(t)

	_, err := newInspector().Describe(context.Background(), "x`; DROP TABLE y")
	require.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInspectorRejectsQualifiedTable(t *testing.T) {
	mock, newInspector := newMock(t)

	_, err := newInspector().Describe(context.Background(), "lab.medical_clinics")
	var idErr *validation.IdentifierError
	require.ErrorAs(t, err, &idErr)
	assert.Contains(t, idErr.Reason, "qualified")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInspectorSharedLookupSurvivesCancelledCaller(t *testing.T) {
	mock, newInspector := newMock(t)
	mock.ExpectQuery(describeLog).WillDelayFor(200 * time.Millisecond).WillReturnRows(describeRows())

	in := newInspector()
	ctxA, cancelA := context.WithCancel(context.Background())
	defer cancelA()

	errA := make(chan error, 1)
	go func() {
		_, err := in.Describe(ctxA, "medical_analysis_log")
		errA <- err
	}()

	// B joins the lookup A started.
	time.Sleep(50 * time.Millisecond)

	type result struct {
		table *Table
		err   error
	}
	resB := make(chan result, 1)
	go func() {
		table, err := in.Describe(context.Background(), "medical_analysis_log")
		resB <- result{table, err}
	}()

	time.Sleep(20 * time.Millisecond)
	cancelA()

	assert.ErrorIs(t, <-errA, context.Canceled)

	b := <-resB
	require.NoError(t, b.err)
	assert.Len(t, b.table.Columns, 5)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInspectorDescribeWithUsesGivenQuerier(t *testing.T) {
	mock, newInspector := newMock(t)
	db2, mock2, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db2.Close() })

	mock2.ExpectQuery(describeLog).WillReturnRows(describeRows())

	in := newInspector()
	table, err := in.DescribeWith(context.Background(), db2, "medical_analysis_log")
	require.NoError(t, err)
	assert.Len(t, table.Columns, 5)

	// Stored for the pool path too; the pool is never queried.
	hit, err := in.Describe(context.Background(), "medical_analysis_log")
	require.NoError(t, err)
	assert.Same(t, table, hit)

	require.NoError(t, mock.ExpectationsWereMet())
	require.NoError(t, mock2.ExpectationsWereMet())
}
