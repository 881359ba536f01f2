package labsql

import (
	"time"

	"github.com/memobit/labsql/dialect"
	"github.com/memobit/labsql/schema"
)

// Option, bir *DB örneği üzerinde çalışan yapılandırma fonksiyonudur.
//
// Örnek:
//
//	db := labsql.NewDB(sqlDB,
//	    labsql.WithLogger(labsql.NewLogrusLogger(log, 200*time.Millisecond)),
//	    labsql.WithSchemaCacheTTL(time.Minute),
//	)
type Option func(*DB)

// WithGrammar, derleme aşamasında kullanılacak SQL gramerini değiştirir.
// Varsayılan MySQL gramerdir.
func WithGrammar(g dialect.Grammar) Option {
	return func(d *DB) {
		d.grammar = g
	}
}

// WithLogger, çalıştırılan ifadelerin gönderileceği Logger'ı ayarlar.
func WithLogger(logger Logger) Option {
	return func(d *DB) {
		d.logger = logger
	}
}

// WithInspector, hazır bir şema inceleyicisini kullanır. Birden fazla DB
// örneğinin aynı önbelleği paylaşması gerektiğinde işe yarar.
func WithInspector(i *schema.Inspector) Option {
	return func(d *DB) {
		d.inspector = i
	}
}

// WithSchemaCacheTTL, yazma politikası için okunan tablo tanımlarının ne kadar
// süre önbellekte kalacağını belirler. Sıfır önbelleği kapatır: her Insert ve
// Update kataloğu yeniden okur.
func WithSchemaCacheTTL(ttl time.Duration) Option {
	return func(d *DB) {
		d.schemaOpts = append(d.schemaOpts, schema.WithTTL(ttl))
	}
}

// WithSchemaOptions, varsayılan inceleyiciye doğrudan seçenek geçirir.
func WithSchemaOptions(opts ...schema.Option) Option {
	return func(d *DB) {
		d.schemaOpts = append(d.schemaOpts, opts...)
	}
}

func applyOptions(d *DB, opts []Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
}
