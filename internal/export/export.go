// Package export writes a session's working table to PostgreSQL.
//
// Each export creates one table whose column types are inferred from the
// cell values, then bulk-loads the rows with COPY. The whole export runs in
// a single transaction.
package export

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/cleaner/internal/cleaner"
)

var (
	ErrInvalidTableName = errors.New("table name must be letters, digits and underscores, optionally schema-qualified")
	ErrNoColumns        = errors.New("nothing to export: table has no columns")
	ErrTableExists      = errors.New("table already exists; set replace to overwrite it")
)

// Postgres column types chosen by inference.
const (
	TypeBigint    = "bigint"
	TypeDouble    = "double precision"
	TypeBoolean   = "boolean"
	TypeTimestamp = "timestamptz"
	TypeText      = "text"
)

const pgDuplicateTable = "42P07"

// Beginner starts transactions. *pgxpool.Pool and *pgx.Conn satisfy it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Request names the destination.
type Request struct {
	Table   string `json:"table" validate:"required,max=127"`
	Replace bool   `json:"replace"`
}

// Result describes a finished export.
type Result struct {
	Table   string            `json:"table"`
	Rows    int64             `json:"rows"`
	Columns map[string]string `json:"columns"`
	DDL     string            `json:"ddl"`
}

// Exporter copies tables into Postgres.
type Exporter struct {
	db Beginner
}

// New returns an exporter writing through db.
func New(db Beginner) *Exporter {
	return &Exporter{db: db}
}

// Export creates req.Table and loads records into it. columns fixes the
// column order.
func (e *Exporter) Export(ctx context.Context, req Request, columns []string, records []map[string]any) (Result, error) {
	ident, err := parseTableName(req.Table)
	if err != nil {
		return Result{}, err
	}
	if len(columns) == 0 {
		return Result{}, ErrNoColumns
	}

	types := make([]string, len(columns))
	typeMap := make(map[string]string, len(columns))
	for i, col := range columns {
		types[i] = inferType(records, col)
		typeMap[col] = types[i]
	}
	ddl := createTableSQL(ident, columns, types)

	tx, err := e.db.Begin(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // No-op after commit

	if req.Replace {
		if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+ident.Sanitize()); err != nil {
			return Result{}, fmt.Errorf("drop table %s: %w", req.Table, err)
		}
	}
	if _, err := tx.Exec(ctx, ddl); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgDuplicateTable {
			return Result{}, ErrTableExists
		}
		return Result{}, fmt.Errorf("create table %s: %w", req.Table, err)
	}

	n, err := tx.CopyFrom(ctx, ident, columns, pgx.CopyFromRows(copyRows(records, columns, types)))
	if err != nil {
		return Result{}, fmt.Errorf("copy into %s: %w", req.Table, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Result{}, fmt.Errorf("failed to commit export: %w", err)
	}

	return Result{Table: req.Table, Rows: n, Columns: typeMap, DDL: ddl}, nil
}

var identPart = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// parseTableName accepts "table" or "schema.table".
func parseTableName(name string) (pgx.Identifier, error) {
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return nil, ErrInvalidTableName
	}
	for _, p := range parts {
		if !identPart.MatchString(p) {
			return nil, ErrInvalidTableName
		}
	}
	return pgx.Identifier(parts), nil
}

func createTableSQL(ident pgx.Identifier, columns, types []string) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(ident.Sanitize())
	b.WriteString(" (")
	for i, col := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(pgx.Identifier{col}.Sanitize())
		b.WriteByte(' ')
		b.WriteString(types[i])
	}
	b.WriteString(")")
	return b.String()
}

// inferType picks the narrowest type that holds every non-null cell of col.
// Integers widen to double precision when floats are present; any other
// mix falls back to text.
func inferType(records []map[string]any, col string) string {
	var ints, floats, bools, times, others int
	for _, rec := range records {
		switch rec[col].(type) {
		case nil:
		case int64:
			ints++
		case float64:
			floats++
		case bool:
			bools++
		case time.Time:
			times++
		default:
			others++
		}
	}

	switch {
	case others > 0:
		return TypeText
	case ints+floats+bools+times == 0:
		return TypeText
	case bools == 0 && times == 0 && floats == 0:
		return TypeBigint
	case bools == 0 && times == 0:
		return TypeDouble
	case ints+floats == 0 && times == 0:
		return TypeBoolean
	case ints+floats == 0 && bools == 0:
		return TypeTimestamp
	}
	return TypeText
}

func copyRows(records []map[string]any, columns, types []string) [][]any {
	rows := make([][]any, len(records))
	for i, rec := range records {
		row := make([]any, len(columns))
		for j, col := range columns {
			row[j] = copyValue(rec[col], types[j])
		}
		rows[i] = row
	}
	return rows
}

func copyValue(v any, typ string) any {
	if v == nil {
		return nil
	}
	switch typ {
	case TypeText:
		return cleaner.Stringify(v)
	case TypeDouble:
		if i, ok := v.(int64); ok {
			return float64(i)
		}
	}
	return v
}
