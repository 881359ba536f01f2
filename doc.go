// Package labsql provides the data-access layer of the lab-results tracker:
// an immutable, chainable query builder for MySQL that decides how written
// values are quoted from the live table schema and turns read values back into
// numbers or strings from the result metadata.
//
// # Quick Start
//
// Connect and obtain a root builder:
//
//	db, err := labsql.ConnectWithConfig(ctx, cfg,
//	    labsql.WithLogger(labsql.NewLogrusLogger(log, 200*time.Millisecond)),
//	)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	qb := db.Builder()
//
// # Select Queries
//
// Every configuration call returns a new Builder; the receiver is never
// modified, so qb can be reused for unrelated queries:
//
//	rows, err := qb.Columns("ma.id as analysisId", "mc.name as categoryName").
//	    LeftJoin("medical_categories AS mc", "mc.id", "=", "ma.categoryId").
//	    Where(dialect.Eq("ma.categoryId", 2)).
//	    Asc("analysisName").
//	    Get(ctx, "medical_analysis AS ma")
//
//	row, err := qb.Where(dialect.Eq("id", 1)).GetRow(ctx, "medical_clinics")
//	names, err := qb.Columns("name").GetColumn(ctx, "medical_units")
//
// Numeric result columns come back as int64 or float64, everything else as
// string, NULL as nil.
//
// # Predicates
//
// Where takes structured predicates; values are always bound:
//
//	dialect.Eq("id", 3)
//	dialect.And(dialect.Gte("value", 1), dialect.Lt("value", 10))
//	dialect.Or(dialect.IsNull("minRange"), dialect.Raw("minRange > maxRange"))
//
// # Insert, Update, Delete
//
// Writes read the destination table's column definitions (cached per table)
// and bind each value by the column's declared type: enum, varchar, text,
// tinytext and date columns get quoted literals, other columns numbers, and a
// nil on a nullable column becomes NULL.
//
//	id, err := qb.Insert(ctx, "medical_analysis_log", map[string]any{
//	    "analysisId": 3, "date": "2024-01-10", "clinicId": 2, "value": 5.4,
//	})
//
//	n, err := qb.Where(dialect.Eq("id", id)).
//	    Update(ctx, "medical_analysis_log", map[string]any{"value": "5.6"})
//
//	n, err := qb.Where(dialect.Eq("id", id)).Delete(ctx, "medical_analysis_log")
//
// Update and Delete without a where expression fail with ErrContractViolation
// before any statement is sent.
//
// # Transactions
//
//	err := db.Transaction(ctx, func(tx *labsql.Tx) error {
//	    for _, entry := range entries {
//	        if _, err := tx.Builder().Insert(ctx, "medical_analysis_log", entry); err != nil {
//	            return err
//	        }
//	    }
//	    return nil
//	})
//
// # Errors
//
// Terminal calls return errors matching exactly one of ErrContractViolation,
// ErrSchema, ErrQuery or ErrCardinality. Nothing in this package logs and
// exits; the caller decides how to render a failure.
//
// # Thread Safety
//
// DB and Builder values are safe for concurrent use. A Tx is owned by one
// goroutine.
package labsql
