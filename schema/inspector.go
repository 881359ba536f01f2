package schema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/memobit/labsql/internal/validation"
)

// DefaultTTL, önbelleğe alınan tablo tanımlarının varsayılan ömrüdür.
const DefaultTTL = 5 * time.Minute

// LookupTimeout, paylaşılan bir katalog sorgusunun üst süre sınırıdır.
const LookupTimeout = 30 * time.Second

// mysqlNoSuchTable, ER_NO_SUCH_TABLE hata numarasıdır.
const mysqlNoSuchTable = 1146

// Querier, Inspector'ın katalog sorgusu için ihtiyaç duyduğu tek yöntemdir.
// *sql.DB, *sql.Conn ve *sql.Tx bunu sağlar.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Inspector, tablo tanımlarını DESCRIBE ile okur ve tablo adına göre önbellekte tutar.
// Aynı tablo için eşzamanlı ıskalamalar tek bir katalog sorgusuna indirgenir.
// Eşzamanlı kullanım için güvenlidir.
type Inspector struct {
	db     Querier
	ttl    time.Duration
	cache  *cache.Cache
	group  singleflight.Group
	logger logrus.FieldLogger
}

// Option, Inspector yapılandırmasını değiştirir.
type Option func(*Inspector)

// WithTTL, önbellek ömrünü ayarlar. Sıfır önbelleği kapatır; negatif değer
// girdilerin hiç eskimemesi demektir.
func WithTTL(ttl time.Duration) Option {
	return func(i *Inspector) {
		i.ttl = ttl
	}
}

// WithoutCache, önbelleği kapatır: her Describe kataloğa gider.
func WithoutCache() Option {
	return func(i *Inspector) {
		i.ttl = 0
	}
}

// WithLogger, önbellek olaylarının yazılacağı logger'ı ayarlar.
func WithLogger(l logrus.FieldLogger) Option {
	return func(i *Inspector) {
		i.logger = l
	}
}

// NewInspector, db üzerinden katalog okuyan bir Inspector oluşturur.
func NewInspector(db Querier, opts ...Option) *Inspector {
	i := &Inspector{
		db:     db,
		ttl:    DefaultTTL,
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(i)
		}
	}

	if i.ttl != 0 {
		expiration := i.ttl
		if expiration < 0 {
			expiration = cache.NoExpiration
		}
		i.cache = cache.New(expiration, 2*DefaultTTL)
	}

	return i
}

// Cached, önbelleğin açık olup olmadığını döndürür.
func (i *Inspector) Cached() bool {
	return i.cache != nil
}

// Describe, tablonun kolon tanımlarını döndürür. Önbellek açıksa ve girdi
// eskimemişse katalog sorgusu yapılmaz.
//
// Aynı tablo için eşzamanlı ıskalamalar tek bir sorguda birleşir. Ortak sorgu
// çağıranların iptalinden bağımsız çalışır; her çağıran yalnızca kendi ctx'i
// bitince vazgeçer.
func (i *Inspector) Describe(ctx context.Context, table string) (*Table, error) {
	if err := validation.ValidateTableName(table); err != nil {
		return nil, err
	}

	if t, ok := i.cached(table); ok {
		return t, nil
	}

	ch := i.group.DoChan(table, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), LookupTimeout)
		defer cancel()

		return i.fill(lookupCtx, i.db, table)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Table), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// DescribeWith, Describe gibidir ancak ıskalamada kataloğu q üzerinden okur.
// Açık bir transaction içindeki çağıran havuzdan ikinci bir bağlantı beklememek
// için kendi transaction'ını verir. Bu sorgu başka çağıranlarla paylaşılmaz.
func (i *Inspector) DescribeWith(ctx context.Context, q Querier, table string) (*Table, error) {
	if err := validation.ValidateTableName(table); err != nil {
		return nil, err
	}

	if t, ok := i.cached(table); ok {
		return t, nil
	}

	return i.fill(ctx, q, table)
}

func (i *Inspector) cached(table string) (*Table, bool) {
	if i.cache == nil {
		return nil, false
	}
	v, ok := i.cache.Get(table)
	if !ok {
		return nil, false
	}
	return v.(*Table), true
}

// fill, tabloyu q üzerinden okur ve önbellek açıksa saklar.
func (i *Inspector) fill(ctx context.Context, q Querier, table string) (*Table, error) {
	t, err := i.load(ctx, q, table)
	if err != nil {
		return nil, err
	}
	if i.cache != nil {
		i.cache.Set(table, t, cache.DefaultExpiration)
		i.logger.WithFields(logrus.Fields{"table": table, "columns": len(t.Columns)}).Debug("Schema cached")
	}
	return t, nil
}

// Refresh, önbellekteki girdiyi yok sayarak tabloyu yeniden okur ve saklar.
func (i *Inspector) Refresh(ctx context.Context, table string) (*Table, error) {
	i.Invalidate(table)
	return i.Describe(ctx, table)
}

// Invalidate, tek bir tablonun önbellek girdisini siler.
func (i *Inspector) Invalidate(table string) {
	if i.cache == nil {
		return
	}
	i.cache.Delete(table)
	i.logger.WithField("table", table).Debug("Schema invalidated")
}

// InvalidateAll, bütün önbelleği boşaltır.
func (i *Inspector) InvalidateAll() {
	if i.cache == nil {
		return
	}
	i.cache.Flush()
}

func (i *Inspector) load(ctx context.Context, q Querier, table string) (*Table, error) {
	rows, err := q.QueryContext(ctx, "DESCRIBE `"+table+"`")
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == mysqlNoSuchTable {
			return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
		}
		return nil, err
	}
	defer rows.Close()

	columns := make([]Column, 0)
	for rows.Next() {
		var (
			c        Column
			nullable string
			key      sql.NullString
			def      sql.NullString
			extra    sql.NullString
		)
		if err := rows.Scan(&c.Name, &c.Type, &nullable, &key, &def, &extra); err != nil {
			return nil, err
		}
		c.Nullable = nullable == "YES"
		c.Key = key.String
		c.Extra = extra.String
		if def.Valid {
			d := def.String
			c.Default = &d
		}
		columns = append(columns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}

	return NewTable(table, columns), nil
}
