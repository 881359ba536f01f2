package labsql

import (
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
)

// ----------------------------------------------------------------------------
// Configuration Types
// ----------------------------------------------------------------------------

// Config, veritabanı bağlantısının adresini ve havuz davranışını tanımlar.
// YAML etiketleri servis yapılandırma dosyasındaki "database" bloğuna karşılık gelir.
type Config struct {
	Driver       string        `yaml:"driver"`
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	Database     string        `yaml:"database"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"`
	Charset      string        `yaml:"charset"`
	Collation    string        `yaml:"collation"`
	MaxOpenConns int           `yaml:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns"`
	ConnMaxLife  time.Duration `yaml:"conn_max_life"`
	ConnMaxIdle  time.Duration `yaml:"conn_max_idle"`
	TLS          bool          `yaml:"tls"`
}

// DefaultConfig, yerel bir MySQL sunucusu için makul varsayılanları döndürür.
func DefaultConfig() *Config {
	return &Config{
		Driver:       "mysql",
		Host:         "localhost",
		Port:         3306,
		Charset:      "utf8mb4",
		Collation:    "utf8mb4_unicode_ci",
		MaxOpenConns: 25,
		MaxIdleConns: 5,
		ConnMaxLife:  5 * time.Minute,
		ConnMaxIdle:  5 * time.Minute,
	}
}

// DSN, go-sql-driver/mysql biçiminde bağlantı dizesini üretir.
//
// interpolateParams açıktır: "?" argümanları istemci tarafında literal olarak
// yerleştirilir, böylece sunucuya giden metin yazma politikasının ürettiği
// literallerle birebir aynıdır. parseTime kapalıdır; tarih kolonları ham
// metin olarak okunur.
func (c *Config) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = c.Username
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = c.Host
	if c.Port > 0 {
		cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	}
	cfg.DBName = c.Database
	cfg.Collation = c.Collation
	cfg.InterpolateParams = true
	cfg.ParseTime = false
	if c.Charset != "" {
		cfg.Params = map[string]string{"charset": c.Charset}
	}
	if c.TLS {
		cfg.TLSConfig = "true"
	}
	return cfg.FormatDSN()
}

// ----------------------------------------------------------------------------
// Logger Interface
// ----------------------------------------------------------------------------

// Logger, çalıştırılan her ifadeyi, argümanlarını, süresini ve hatasını alır.
type Logger interface {
	Log(query string, args []any, duration time.Duration, err error)
}

// NopLogger, her şeyi yutan Logger'dır. Varsayılan budur.
type NopLogger struct{}

// Log, hiçbir şey yapmaz.
func (NopLogger) Log(string, []any, time.Duration, error) {}
