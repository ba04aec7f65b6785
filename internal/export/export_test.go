package export

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeTx records the statements an export issues. Methods the exporter
// does not call panic through the nil embedded interface.
type fakeTx struct {
	pgx.Tx

	execs      []string
	execErr    error
	copyTable  pgx.Identifier
	copyCols   []string
	copyRows   [][]any
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	if f.execErr != nil && strings.HasPrefix(sql, "CREATE") {
		return pgconn.CommandTag{}, f.execErr
	}
	return pgconn.CommandTag{}, nil
}

func (f *fakeTx) CopyFrom(ctx context.Context, table pgx.Identifier, cols []string, src pgx.CopyFromSource) (int64, error) {
	f.copyTable = table
	f.copyCols = cols
	for src.Next() {
		vals, err := src.Values()
		if err != nil {
			return 0, err
		}
		f.copyRows = append(f.copyRows, vals)
	}
	return int64(len(f.copyRows)), src.Err()
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	if !f.committed {
		f.rolledBack = true
	}
	return nil
}

type fakeDB struct{ tx *fakeTx }

func (d *fakeDB) Begin(context.Context) (pgx.Tx, error) { return d.tx, nil }

func TestExport(t *testing.T) {
	when := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	records := []map[string]any{
		{"id": int64(1), "score": 1.5, "ok": true, "at": when, "name": "a"},
		{"id": int64(2), "score": int64(3), "ok": nil, "at": nil, "name": int64(7)},
	}
	tx := &fakeTx{}

	res, err := New(&fakeDB{tx: tx}).Export(context.Background(),
		Request{Table: "public.clean_data", Replace: true},
		[]string{"id", "score", "ok", "at", "name"}, records)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	if res.Rows != 2 {
		t.Errorf("Rows = %d, want 2", res.Rows)
	}
	wantDDL := `CREATE TABLE "public"."clean_data" ("id" bigint, "score" double precision, "ok" boolean, "at" timestamptz, "name" text)`
	if res.DDL != wantDDL {
		t.Errorf("DDL = %s\nwant  %s", res.DDL, wantDDL)
	}
	if len(tx.execs) != 2 || tx.execs[0] != `DROP TABLE IF EXISTS "public"."clean_data"` {
		t.Errorf("execs = %v", tx.execs)
	}
	if !tx.committed {
		t.Error("transaction not committed")
	}

	wantRows := [][]any{
		{int64(1), 1.5, true, when, "a"},
		{int64(2), 3.0, nil, nil, "7"},
	}
	if !reflect.DeepEqual(tx.copyRows, wantRows) {
		t.Errorf("copied rows = %v, want %v", tx.copyRows, wantRows)
	}
	if res.Columns["score"] != TypeDouble {
		t.Errorf("Columns[score] = %q", res.Columns["score"])
	}
}

func TestExport_TableExists(t *testing.T) {
	tx := &fakeTx{execErr: &pgconn.PgError{Code: pgDuplicateTable}}

	_, err := New(&fakeDB{tx: tx}).Export(context.Background(),
		Request{Table: "t"}, []string{"a"}, []map[string]any{{"a": "x"}})
	if !errors.Is(err, ErrTableExists) {
		t.Fatalf("err = %v, want ErrTableExists", err)
	}
	if len(tx.execs) != 1 {
		t.Errorf("execs = %v, want only CREATE", tx.execs)
	}
	if !tx.rolledBack {
		t.Error("transaction not rolled back")
	}
}

func TestExport_Validation(t *testing.T) {
	e := New(&fakeDB{tx: &fakeTx{}})
	ctx := context.Background()

	if _, err := e.Export(ctx, Request{Table: "x"}, nil, nil); !errors.Is(err, ErrNoColumns) {
		t.Errorf("no columns: err = %v", err)
	}

	for _, name := range []string{"", "1abc", "a.b.c", "drop table;", "a-b", strings.Repeat("x", 64)} {
		if _, err := e.Export(ctx, Request{Table: name}, []string{"a"}, nil); !errors.Is(err, ErrInvalidTableName) {
			t.Errorf("table %q: err = %v, want ErrInvalidTableName", name, err)
		}
	}
}

func TestInferType(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name   string
		values []any
		want   string
	}{
		{"ints", []any{int64(1), nil, int64(2)}, TypeBigint},
		{"ints and floats", []any{int64(1), 2.5}, TypeDouble},
		{"bools", []any{true, false}, TypeBoolean},
		{"times", []any{now, nil}, TypeTimestamp},
		{"strings", []any{"a"}, TypeText},
		{"all null", []any{nil, nil}, TypeText},
		{"empty", nil, TypeText},
		{"bool and int", []any{true, int64(1)}, TypeText},
		{"number and string", []any{1.5, "x"}, TypeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := make([]map[string]any, len(tt.values))
			for i, v := range tt.values {
				records[i] = map[string]any{"c": v}
			}
			if got := inferType(records, "c"); got != tt.want {
				t.Errorf("inferType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCreateTableSQL_QuotesColumns(t *testing.T) {
	got := createTableSQL(pgx.Identifier{"t"}, []string{`odd "name"`, "Total Sales"}, []string{TypeText, TypeDouble})
	want := `CREATE TABLE "t" ("odd ""name""" text, "Total Sales" double precision)`
	if got != want {
		t.Errorf("createTableSQL() = %s, want %s", got, want)
	}
}
