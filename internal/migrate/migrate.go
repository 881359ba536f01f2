// Package migrate creates the medical_* tables labtrackd works on.
package migrate

import (
	"context"
	_ "embed"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/memobit/labsql"
)

//go:embed schema.sql
var schema string

// Statements returns the DDL statements of the embedded schema, in order.
func Statements() []string {
	parts := strings.Split(schema, ";")

	stmts := make([]string, 0, len(parts))
	for _, part := range parts {
		stmt := strings.TrimSpace(part)
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
	}

	return stmts
}

// Apply runs every statement of the embedded schema. The statements are
// idempotent. Cached column definitions are dropped afterwards.
func Apply(ctx context.Context, db *labsql.DB, log logrus.FieldLogger) error {
	defer db.Inspector().InvalidateAll()

	for i, stmt := range Statements() {
		_, err := db.Builder().Run(ctx, stmt, true)
		if err != nil {
			return err
		}

		log.WithField("step", i+1).Debug("Applied schema statement")
	}

	log.Info("Schema is up to date")

	return nil
}
