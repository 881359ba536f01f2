package labsql

import (
	"context"
	"database/sql"
	"errors"
	"sync"
)

// Tx, bir SQL transaction'ıdır. Builder() ile üretilen sorgular aynı
// transaction üzerinde çalışır. Aynı Tx birden fazla goroutine tarafından
// kullanılmamalıdır; kilit yalnızca kapanış durumunu korur.
type Tx struct {
	tx *sql.Tx
	db *DB

	mu     sync.Mutex
	closed bool
}

// Builder, bu transaction'a bağlı boş bir sorgu tanımı döndürür.
func (t *Tx) Builder() Builder {
	return Builder{db: t.db, tx: t}
}

// Commit, yapılan işlemleri kalıcı hale getirir. İkinci çağrı ErrTxClosed döndürür.
func (t *Tx) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTxClosed
	}

	t.closed = true
	if err := t.tx.Commit(); err != nil {
		return WrapError("commit transaction", err)
	}
	return nil
}

// Rollback, tüm değişiklikleri geri alır. Idempotenttir.
func (t *Tx) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}

	t.closed = true
	if err := t.tx.Rollback(); err != nil {
		if errors.Is(err, sql.ErrTxDone) {
			return nil
		}
		return WrapError("rollback transaction", err)
	}
	return nil
}

// IsClosed, transaction'ın commit ya da rollback ile kapanıp kapanmadığını bildirir.
func (t *Tx) IsClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// ExecContext, transaction içinde sonuç satırı döndürmeyen bir ifade çalıştırır.
func (t *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if t.IsClosed() {
		return nil, ErrTxClosed
	}
	return t.tx.ExecContext(ctx, query, args...)
}

// QueryContext, transaction içinde satır döndüren bir ifade çalıştırır.
func (t *Tx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if t.IsClosed() {
		return nil, ErrTxClosed
	}
	return t.tx.QueryContext(ctx, query, args...)
}
