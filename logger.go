package labsql

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/memobit/labsql/dialect"
)

// LogrusLogger, ifadeleri logrus'a yazan Logger'dır.
// Hatalı ifadeler error, eşik süresini aşanlar warn, diğerleri debug seviyesindedir.
type LogrusLogger struct {
	target logrus.FieldLogger
	slow   time.Duration
}

// NewLogrusLogger, target'a yazan bir Logger döndürür. slow sıfırsa yavaş
// sorgu uyarısı verilmez.
func NewLogrusLogger(target logrus.FieldLogger, slow time.Duration) *LogrusLogger {
	if target == nil {
		target = logrus.StandardLogger()
	}
	return &LogrusLogger{target: target, slow: slow}
}

// Log, Logger arayüzünü uygular.
func (l *LogrusLogger) Log(query string, args []any, duration time.Duration, err error) {
	entry := l.target.WithFields(logrus.Fields{
		"query":    dialect.Interpolate(query, args),
		"duration": duration,
	})

	switch {
	case err != nil:
		entry.WithError(err).Error("Query failed")
	case l.slow > 0 && duration >= l.slow:
		entry.Warn("Slow query")
	default:
		entry.Debug("Query")
	}
}
