package labsql

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/memobit/labsql/dialect"
	"github.com/memobit/labsql/schema"
)

// Builder, tek bir SELECT/INSERT/UPDATE/DELETE işleminin değişmez tanımıdır.
//
// Yapılandırma metotları alıcıyı değiştirmez; her biri yeni bir Builder döndürür.
// Bu yüzden terminal bir çağrıdan sonra sıfırlama gerekmez ve kök Builder
// goroutine'ler arasında paylaşılabilir.
//
//	rows, err := db.Builder().
//	    Columns("id", "name").
//	    OrderBy("name", dialect.OrderAsc).
//	    Get(ctx, "medical_clinics")
type Builder struct {
	db *DB
	tx *Tx
	q  query
}

// query, dialect.QueryBuilder'ı uygular. Dilimler asla yerinde büyütülmez.
type query struct {
	table   string
	columns []string
	joins   []dialect.JoinClause
	wheres  []dialect.WhereClause
	groupBy []string
	orders  []dialect.OrderClause
	limit   *int
	ignore  bool
}

func (q query) GetTable() string                 { return q.table }
func (q query) GetColumns() []string             { return q.columns }
func (q query) GetWheres() []dialect.WhereClause { return q.wheres }
func (q query) GetOrders() []dialect.OrderClause { return q.orders }
func (q query) GetJoins() []dialect.JoinClause   { return q.joins }
func (q query) GetGroupBy() []string             { return q.groupBy }
func (q query) GetLimit() *int                   { return q.limit }
func (q query) IsIgnoreInsert() bool             { return q.ignore }

// ----------------------------------------------------------------------------
// Configuration
// ----------------------------------------------------------------------------

// Columns, seçilecek kolonları ayarlar. Boş liste "*" demektir.
// "ma.id as analysisId" biçiminde alias desteklenir.
func (b Builder) Columns(columns ...string) Builder {
	b.q.columns = slices.Clone(columns)
	return b
}

// Join, bir JOIN ekler. Birden fazla çağrı birikir.
func (b Builder) Join(mode dialect.JoinType, table, first, operator, second string) Builder {
	b.q.joins = append(slices.Clip(b.q.joins), dialect.JoinClause{
		Type:     mode,
		Table:    table,
		First:    first,
		Operator: operator,
		Second:   second,
	})
	return b
}

// LeftJoin, LEFT JOIN ekler.
func (b Builder) LeftJoin(table, first, operator, second string) Builder {
	return b.Join(dialect.JoinLeft, table, first, operator, second)
}

// InnerJoin, INNER JOIN ekler.
func (b Builder) InnerJoin(table, first, operator, second string) Builder {
	return b.Join(dialect.JoinInner, table, first, operator, second)
}

// Where, sorgunun tek WHERE ifadesini ayarlar; önceki ifadenin yerini alır.
// Birden fazla predikat AND ile bağlanır.
func (b Builder) Where(preds ...dialect.WhereClause) Builder {
	wheres := make([]dialect.WhereClause, len(preds))
	for i, p := range preds {
		p.Boolean = dialect.WhereBooleanAnd
		wheres[i] = p
	}
	b.q.wheres = wheres
	return b
}

// GroupBy, GROUP BY kolonlarını ekler.
func (b Builder) GroupBy(columns ...string) Builder {
	b.q.groupBy = append(slices.Clip(b.q.groupBy), columns...)
	return b
}

// OrderBy, ORDER BY ekler.
func (b Builder) OrderBy(column string, direction dialect.OrderDirection) Builder {
	b.q.orders = append(slices.Clip(b.q.orders), dialect.OrderClause{Column: column, Direction: direction})
	return b
}

// Asc, artan sırada ORDER BY ekler.
func (b Builder) Asc(column string) Builder {
	return b.OrderBy(column, dialect.OrderAsc)
}

// Desc, azalan sırada ORDER BY ekler.
func (b Builder) Desc(column string) Builder {
	return b.OrderBy(column, dialect.OrderDesc)
}

// Limit, LIMIT ekler.
func (b Builder) Limit(n int) Builder {
	b.q.limit = &n
	return b
}

// IgnoreInsert, INSERT IGNORE kullanılıp kullanılmayacağını ayarlar.
func (b Builder) IgnoreInsert(ignore bool) Builder {
	b.q.ignore = ignore
	return b
}

// ----------------------------------------------------------------------------
// Compilation
// ----------------------------------------------------------------------------

// ToSQL, table üzerinde SELECT ifadesini çalıştırmadan derler.
func (b Builder) ToSQL(table string) (dialect.Statement, error) {
	return b.selectStatement("get", table)
}

func (b Builder) selectStatement(op, table string) (dialect.Statement, error) {
	if table == "" {
		return dialect.Statement{}, contractf(op, "table required")
	}
	q := b.q
	q.table = table
	stmt, err := b.db.grammar.CompileSelect(q)
	if err != nil {
		return dialect.Statement{}, compileError(op, err)
	}
	return stmt, nil
}

// InsertStatement, Insert'in çalıştıracağı ifadeyi üretir: tablonun kolon
// tanımları okunur ve her değer kolonunun yazma politikasıyla bağlanır.
func (b Builder) InsertStatement(ctx context.Context, table string, data map[string]any) (dialect.Statement, error) {
	const op = "insert"
	if table == "" {
		return dialect.Statement{}, contractf(op, "table required")
	}
	if len(data) == 0 {
		return dialect.Statement{}, contractf(op, "data required")
	}

	bound, err := b.bind(ctx, op, table, data)
	if err != nil {
		return dialect.Statement{}, err
	}

	q := b.q
	q.table = table
	stmt, err := b.db.grammar.CompileInsert(q, bound)
	if err != nil {
		return dialect.Statement{}, compileError(op, err)
	}
	return stmt, nil
}

// UpdateStatement, Update'in çalıştıracağı ifadeyi üretir.
func (b Builder) UpdateStatement(ctx context.Context, table string, data map[string]any) (dialect.Statement, error) {
	const op = "update"
	if table == "" {
		return dialect.Statement{}, contractf(op, "table required")
	}
	if len(b.q.wheres) == 0 {
		return dialect.Statement{}, contractf(op, "where expression required")
	}
	if len(data) == 0 {
		return dialect.Statement{}, contractf(op, "data required")
	}

	bound, err := b.bind(ctx, op, table, data)
	if err != nil {
		return dialect.Statement{}, err
	}

	q := b.q
	q.table = table
	stmt, err := b.db.grammar.CompileUpdate(q, bound)
	if err != nil {
		return dialect.Statement{}, compileError(op, err)
	}
	return stmt, nil
}

// bind, tablonun tanımını inceleyiciden alır ve data'yı bağlar. Transaction
// içindeki bir ıskalama kataloğu aynı transaction üzerinden okur.
func (b Builder) bind(ctx context.Context, op, table string, data map[string]any) (map[string]any, error) {
	var (
		def *schema.Table
		err error
	)
	if b.tx != nil {
		def, err = b.db.inspector.DescribeWith(ctx, b.tx, table)
	} else {
		def, err = b.db.inspector.Describe(ctx, table)
	}
	if err != nil {
		if isIdentifierError(err) {
			return nil, compileError(op, err)
		}
		return nil, &SchemaError{Table: table, Err: err}
	}

	bound, err := def.Bind(data)
	switch {
	case errors.Is(err, schema.ErrUnknownColumn):
		return nil, &SchemaError{Table: table, Err: err}
	case err != nil:
		return nil, &QueryError{Op: op, Table: table, Err: err}
	}
	return bound, nil
}

// ----------------------------------------------------------------------------
// Terminal operations
// ----------------------------------------------------------------------------

// Get, table üzerinde SELECT çalıştırır. Sayısal kolonlar sayı olarak döner.
func (b Builder) Get(ctx context.Context, table string) ([]Row, error) {
	stmt, err := b.selectStatement("get", table)
	if err != nil {
		return nil, err
	}
	return b.fetch(ctx, "get", table, stmt, true, 0)
}

// GetRow, en fazla bir satır bekler. Hiç satır yoksa nil döner; birden fazla
// satır eşleşirse CardinalityError döner.
func (b Builder) GetRow(ctx context.Context, table string) (*Row, error) {
	if b.q.limit == nil || *b.q.limit > 2 {
		b = b.Limit(2)
	}

	stmt, err := b.selectStatement("get_row", table)
	if err != nil {
		return nil, err
	}

	rows, err := b.fetch(ctx, "get_row", table, stmt, true, 2)
	if err != nil {
		return nil, err
	}

	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return &rows[0], nil
	}
	return nil, &CardinalityError{Table: table, Rows: len(rows)}
}

// GetColumn, Columns ile seçilmiş tek kolonun ham değerlerini döndürür.
func (b Builder) GetColumn(ctx context.Context, table string) ([]any, error) {
	if len(b.q.columns) != 1 {
		return nil, contractf("get_column", "exactly one column required, got %d", len(b.q.columns))
	}

	stmt, err := b.selectStatement("get_column", table)
	if err != nil {
		return nil, err
	}

	rows, err := b.fetch(ctx, "get_column", table, stmt, false, 0)
	if err != nil {
		return nil, err
	}

	values := make([]any, len(rows))
	for i, r := range rows {
		values[i] = r.values[0]
	}
	return values, nil
}

// Insert, data'yı table'a ekler ve üretilen birincil anahtarı döndürür.
func (b Builder) Insert(ctx context.Context, table string, data map[string]any) (int64, error) {
	stmt, err := b.InsertStatement(ctx, table, data)
	if err != nil {
		return 0, err
	}

	res, err := b.exec(ctx, "insert", table, stmt)
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, &QueryError{Op: "insert", Table: table, Query: stmt.SQL, Args: stmt.Args, Err: err}
	}
	return id, nil
}

// Update, WHERE ifadesine uyan satırları günceller ve etkilenen satır sayısını döndürür.
func (b Builder) Update(ctx context.Context, table string, data map[string]any) (int64, error) {
	stmt, err := b.UpdateStatement(ctx, table, data)
	if err != nil {
		return 0, err
	}
	return b.affected(ctx, "update", table, stmt)
}

// Delete, WHERE ifadesine uyan satırları siler ve etkilenen satır sayısını döndürür.
func (b Builder) Delete(ctx context.Context, table string) (int64, error) {
	const op = "delete"
	if table == "" {
		return 0, contractf(op, "table required")
	}
	if len(b.q.wheres) == 0 {
		return 0, contractf(op, "where expression required")
	}

	q := b.q
	q.table = table
	stmt, err := b.db.grammar.CompileDelete(q)
	if err != nil {
		return 0, compileError(op, err)
	}
	return b.affected(ctx, op, table, stmt)
}

// Run, önceden hazırlanmış bir ifadeyi çalıştırır. multi false ise yalnızca ilk
// satır döner. Builder yapılandırması yok sayılır.
func (b Builder) Run(ctx context.Context, sql string, multi bool, args ...any) ([]Row, error) {
	if sql == "" {
		return nil, contractf("run", "query required")
	}

	limit := 0
	if !multi {
		limit = 1
	}
	return b.fetch(ctx, "run", "", dialect.Statement{SQL: sql, Args: args}, true, limit)
}

// RunRow, Run(ctx, sql, false, args...) için kısayoldur.
func (b Builder) RunRow(ctx context.Context, sql string, args ...any) (*Row, error) {
	rows, err := b.Run(ctx, sql, false, args...)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

// SecureValue, v'yi bir string literali içine gömülebilecek şekilde kaçırır.
// nil için false döner; çağıran NULL yazmalıdır.
func (b Builder) SecureValue(v any) (string, bool) {
	return SecureValue(v)
}

// SecureValue, Builder.SecureValue'nun paket düzeyindeki karşılığıdır.
func SecureValue(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return dialect.Escape(x), true
	case []byte:
		return dialect.Escape(string(x)), true
	case bool:
		if x {
			return "1", true
		}
		return "", true
	}
	return dialect.Escape(fmt.Sprint(v)), true
}

// ----------------------------------------------------------------------------
// Execution
// ----------------------------------------------------------------------------

// acquire, transaction varsa onu, yoksa havuzdan ayrılmış bir bağlantıyı döndürür.
func (b Builder) acquire(ctx context.Context) (QueryExecutor, func(), error) {
	if b.tx != nil {
		return b.tx, func() {}, nil
	}
	return b.db.acquire(ctx)
}

func (b Builder) fetch(ctx context.Context, op, table string, stmt dialect.Statement, coerce bool, limit int) ([]Row, error) {
	exec, release, err := b.acquire(ctx)
	if err != nil {
		return nil, &QueryError{Op: op, Table: table, Query: stmt.SQL, Args: stmt.Args, Err: err}
	}
	defer release()

	start := time.Now()
	rows, err := exec.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		b.db.observe(stmt, start, err)
		return nil, &QueryError{Op: op, Table: table, Query: stmt.SQL, Args: stmt.Args, Err: err}
	}
	defer rows.Close()

	result, err := scanRows(rows, coerce, limit)
	b.db.observe(stmt, start, err)
	if err != nil {
		return nil, &QueryError{Op: op, Table: table, Query: stmt.SQL, Args: stmt.Args, Err: err}
	}
	return result, nil
}

type execResult interface {
	LastInsertId() (int64, error)
	RowsAffected() (int64, error)
}

func (b Builder) exec(ctx context.Context, op, table string, stmt dialect.Statement) (execResult, error) {
	exec, release, err := b.acquire(ctx)
	if err != nil {
		return nil, &QueryError{Op: op, Table: table, Query: stmt.SQL, Args: stmt.Args, Err: err}
	}
	defer release()

	start := time.Now()
	res, err := exec.ExecContext(ctx, stmt.SQL, stmt.Args...)
	b.db.observe(stmt, start, err)
	if err != nil {
		return nil, &QueryError{Op: op, Table: table, Query: stmt.SQL, Args: stmt.Args, Err: err}
	}
	return res, nil
}

func (b Builder) affected(ctx context.Context, op, table string, stmt dialect.Statement) (int64, error) {
	res, err := b.exec(ctx, op, table, stmt)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &QueryError{Op: op, Table: table, Query: stmt.SQL, Args: stmt.Args, Err: err}
	}
	return n, nil
}
