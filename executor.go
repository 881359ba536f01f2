package labsql

import (
	"context"
	"database/sql"
	"time"

	"github.com/memobit/labsql/dialect"
	"github.com/memobit/labsql/schema"
)

// QueryExecutor, *sql.Conn ve *sql.Tx'in ortak yöntemlerini soyutlar. Builder
// ifadelerini hangisi üzerinde çalıştırdığını bilmez.
type QueryExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

var (
	_ QueryExecutor = (*sql.DB)(nil)
	_ QueryExecutor = (*sql.Conn)(nil)
	_ QueryExecutor = (*sql.Tx)(nil)
	_ QueryExecutor = (*Tx)(nil)
)

// DB, sınırlı bir *sql.DB havuzunu sarar; gramer, şema inceleyici ve logger'ı
// Builder'lara taşır.
//
// Her terminal Builder çağrısı havuzdan tek bir bağlantı alır, ifadesini
// çalıştırır ve bağlantıyı geri bırakır. DB eşzamanlı kullanım için güvenlidir.
type DB struct {
	*sql.DB
	grammar    dialect.Grammar
	inspector  *schema.Inspector
	schemaOpts []schema.Option
	logger     Logger
}

// NewDB, açık bir *sql.DB'yi sarar.
func NewDB(db *sql.DB, opts ...Option) *DB {
	d := &DB{
		DB:     db,
		logger: NopLogger{},
	}
	applyOptions(d, opts)

	if d.grammar == nil {
		d.grammar = dialect.MySQL()
	}
	if d.inspector == nil {
		d.inspector = schema.NewInspector(db, d.schemaOpts...)
	}

	return d
}

// Grammar, aktif SQL gramerini döndürür.
func (d *DB) Grammar() dialect.Grammar {
	return d.grammar
}

// Inspector, yazma politikası için kullanılan şema inceleyicisini döndürür.
func (d *DB) Inspector() *schema.Inspector {
	return d.inspector
}

// Builder, boş bir sorgu tanımı döndürür. Dönen değer paylaşılabilir; her
// yapılandırma çağrısı yeni bir değer üretir.
func (d *DB) Builder() Builder {
	return Builder{db: d}
}

// acquire, tek bir terminal çağrı için havuzdan bir bağlantı ayırır.
func (d *DB) acquire(ctx context.Context) (QueryExecutor, func(), error) {
	conn, err := d.DB.Conn(ctx)
	if err != nil {
		return nil, nil, err
	}
	return conn, func() { _ = conn.Close() }, nil
}

func (d *DB) observe(stmt dialect.Statement, start time.Time, err error) {
	d.logger.Log(stmt.SQL, stmt.Args, time.Since(start), err)
}

// BeginTx, manuel olarak yönetilecek bir transaction başlatır.
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := d.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, WrapError("begin transaction", err)
	}
	return &Tx{tx: tx, db: d}, nil
}

// Transaction, fn'i tek bir transaction içinde çalıştırır. fn hata döndürürse
// veya panic olursa rollback, aksi halde commit yapılır.
//
//	err := db.Transaction(ctx, func(tx *labsql.Tx) error {
//	    for _, entry := range entries {
//	        if _, err := tx.Builder().Insert(ctx, "medical_analysis_log", entry); err != nil {
//	            return err
//	        }
//	    }
//	    return nil
//	})
func (d *DB) Transaction(ctx context.Context, fn func(*Tx) error) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return WrapError("rollback after error", rbErr)
		}
		return err
	}

	return tx.Commit()
}

// Ping, bağlantının canlı olup olmadığını kontrol eder.
func (d *DB) Ping(ctx context.Context) error {
	return d.DB.PingContext(ctx)
}
