package labsql

import (
	"context"
	"database/sql"

	// MySQL sürücüsünü "mysql" adıyla kaydeder.
	_ "github.com/go-sql-driver/mysql"
)

// Version, labsql kütüphanesinin mevcut sürümüdür.
const Version = "0.3.0"

// Connect, verilen sürücü ve veri kaynağıyla bir havuz açar, bağlantıyı
// doğrular ve DB örneğini döndürür.
//
//	db, err := labsql.Connect(ctx, "mysql", "user:pass@tcp(localhost:3306)/lab?interpolateParams=true")
func Connect(ctx context.Context, driverName, dataSourceName string, opts ...Option) (*DB, error) {
	sqlDB, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, WrapError("connect", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, WrapError("ping", err)
	}

	return NewDB(sqlDB, opts...), nil
}

// ConnectWithConfig, Config'ten DSN üretir, havuz sınırlarını uygular ve bağlanır.
func ConnectWithConfig(ctx context.Context, cfg *Config, opts ...Option) (*DB, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	driver := cfg.Driver
	if driver == "" {
		driver = "mysql"
	}

	db, err := Connect(ctx, driver, cfg.DSN(), opts...)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.DB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.DB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLife > 0 {
		db.DB.SetConnMaxLifetime(cfg.ConnMaxLife)
	}
	if cfg.ConnMaxIdle > 0 {
		db.DB.SetConnMaxIdleTime(cfg.ConnMaxIdle)
	}

	return db, nil
}
