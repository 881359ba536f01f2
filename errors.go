package labsql

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/memobit/labsql/dialect"
	"github.com/memobit/labsql/internal/validation"
)

// Error kinds. Every error returned by a terminal Builder call matches exactly
// one of these with errors.Is.
var (
	// ErrContractViolation is returned when a terminal call is missing its table,
	// where expression or data, or when a name/operator fails validation.
	// The engine is never contacted in that case.
	ErrContractViolation = errors.New("labsql: contract violation")

	// ErrSchema is returned when the destination table's column definitions
	// could not be read or do not contain a written column.
	ErrSchema = errors.New("labsql: schema lookup failed")

	// ErrQuery is returned when the engine rejects a statement or a value
	// cannot be bound to its column.
	ErrQuery = errors.New("labsql: query failed")

	// ErrCardinality is returned by GetRow when more than one row matches.
	ErrCardinality = errors.New("labsql: more than one row")

	// ErrTxClosed is returned when a committed or rolled back transaction is used.
	ErrTxClosed = errors.New("labsql: transaction already closed")
)

// ContractError describes a call that could not be issued as requested.
type ContractError struct {
	Op     string
	Reason string
	Err    error
}

func (e *ContractError) Error() string {
	return "labsql: " + e.Op + ": " + e.Reason
}

func (e *ContractError) Unwrap() error { return e.Err }

func (e *ContractError) Is(target error) bool { return target == ErrContractViolation }

func contractf(op, format string, args ...any) *ContractError {
	return &ContractError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// compileError turns a grammar or identifier failure into a ContractError.
func compileError(op string, err error) error {
	return &ContractError{Op: op, Reason: err.Error(), Err: err}
}

func isIdentifierError(err error) bool {
	var idErr *validation.IdentifierError
	return errors.As(err, &idErr)
}

// QueryError wraps an engine error with the statement that caused it.
type QueryError struct {
	Op    string
	Table string
	Query string
	Args  []any
	Err   error
}

func (e *QueryError) Error() string {
	if e.Table == "" {
		return "labsql: " + e.Op + ": " + e.Err.Error()
	}
	return "labsql: " + e.Op + " " + e.Table + ": " + e.Err.Error()
}

func (e *QueryError) Unwrap() error { return e.Err }

func (e *QueryError) Is(target error) bool { return target == ErrQuery }

// Statement returns the failed statement with its arguments inlined.
func (e *QueryError) Statement() string {
	return dialect.Interpolate(e.Query, e.Args)
}

// Code returns the MySQL server error number, or 0 if the failure did not
// come from the server.
func (e *QueryError) Code() uint16 {
	var myErr *mysql.MySQLError
	if errors.As(e.Err, &myErr) {
		return myErr.Number
	}
	return 0
}

// SchemaError wraps a failed column-definition lookup.
type SchemaError struct {
	Table string
	Err   error
}

func (e *SchemaError) Error() string {
	return "labsql: describe " + e.Table + ": " + e.Err.Error()
}

func (e *SchemaError) Unwrap() error { return e.Err }

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

// CardinalityError is returned when a single-row read matched several rows.
// Rows is a lower bound: the read stops as soon as a second row is seen.
type CardinalityError struct {
	Table string
	Rows  int
}

func (e *CardinalityError) Error() string {
	return fmt.Sprintf("labsql: get_row %s: expected at most one row, got %d or more", e.Table, e.Rows)
}

func (e *CardinalityError) Is(target error) bool { return target == ErrCardinality }

// WrapError adds an operation label to a driver error.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("labsql: %s: %w", op, err)
}
