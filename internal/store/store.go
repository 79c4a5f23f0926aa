// Package store persists tokenization runs to a SQL database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"mlang/internal/lexer"
)

// Store writes token dumps to one database connection.
type Store struct {
	db      *sql.DB
	dialect string
}

// Run is a stored tokenization pass.
type Run struct {
	ID         string
	URI        string
	ReachedEOF bool
	Error      string
	Created    time.Time
}

// Row is one stored token.
type Row struct {
	Seq        int
	Kind       lexer.Kind
	Characters string
	Precedence lexer.Precedence
	Position   lexer.Position
	Valid      bool
}

// DriverName maps a database type onto its registered database/sql driver.
func DriverName(dbType string) (string, error) {
	switch strings.ToLower(dbType) {
	case "sqlite", "sqlite3":
		return "sqlite", nil
	case "postgres", "postgresql":
		return "postgres", nil
	case "mysql":
		return "mysql", nil
	case "sqlserver", "mssql":
		return "sqlserver", nil
	default:
		return "", fmt.Errorf("unsupported database type: %s", dbType)
	}
}

// Open connects to dsn and checks the connection.
func Open(ctx context.Context, dbType, dsn string) (*Store, error) {
	driverName, err := DriverName(dbType)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	if driverName == "sqlite" {
		// a single connection keeps :memory: databases alive and avoids
		// SQLITE_BUSY between writers
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	return &Store{db: db, dialect: driverName}, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

var schema = []struct {
	table   string
	columns string
}{
	{"runs", `(
		id VARCHAR(36) PRIMARY KEY,
		uri VARCHAR(1024) NOT NULL,
		reached_eof INTEGER NOT NULL,
		error TEXT NOT NULL,
		created_at BIGINT NOT NULL
	)`},
	{"tokens", `(
		run_id VARCHAR(36) NOT NULL,
		seq INTEGER NOT NULL,
		kind INTEGER NOT NULL,
		characters TEXT NOT NULL,
		precedence INTEGER NOT NULL,
		start_offset INTEGER NOT NULL,
		end_offset INTEGER NOT NULL,
		line INTEGER NOT NULL,
		col INTEGER NOT NULL,
		valid INTEGER NOT NULL,
		PRIMARY KEY (run_id, seq)
	)`},
}

// migrationSQL returns the statements creating the schema for dialect.
// SQL Server has no CREATE TABLE IF NOT EXISTS.
func migrationSQL(dialect string) []string {
	stmts := make([]string, 0, len(schema))
	for _, t := range schema {
		if dialect == "sqlserver" {
			stmts = append(stmts, fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL CREATE TABLE %s %s", t.table, t.table, t.columns))
			continue
		}
		stmts = append(stmts, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s %s", t.table, t.columns))
	}
	return stmts
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range migrationSQL(s.dialect) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "migration failed")
		}
	}
	return nil
}

// SaveRun stores res under a new run id.
func (s *Store) SaveRun(ctx context.Context, uri string, res lexer.Result) (string, error) {
	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to begin transaction")
	}

	if err := s.insertRun(ctx, tx, id, uri, res); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return "", fmt.Errorf("transaction failed: %v, rollback failed: %w", err, rbErr)
		}
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", errors.Wrap(err, "commit failed")
	}
	return id, nil
}

func (s *Store) insertRun(ctx context.Context, tx *sql.Tx, id, uri string, res lexer.Result) error {
	var brief string
	if res.Err != nil {
		brief = res.Err.Error()
	}

	_, err := tx.ExecContext(ctx, s.rebind("INSERT INTO runs (id, uri, reached_eof, error, created_at) VALUES (?, ?, ?, ?, ?)"),
		id, uri, boolInt(res.ReachedEOF), brief, time.Now().UnixNano())
	if err != nil {
		return errors.Wrapf(err, "insert run %s", id)
	}

	stmt, err := tx.PrepareContext(ctx, s.rebind(`INSERT INTO tokens
		(run_id, seq, kind, characters, precedence, start_offset, end_offset, line, col, valid)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return errors.Wrap(err, "prepare token insert")
	}
	defer stmt.Close()

	for i, tk := range res.Tokens {
		p := tk.Position
		_, err := stmt.ExecContext(ctx, id, i, int(tk.Kind()), tk.Text(), int(tk.Lexeme.Precedence),
			p.Start, p.End, p.Line, p.Column, boolInt(tk.Valid))
		if err != nil {
			return errors.Wrapf(err, "insert token %d", i)
		}
	}
	return nil
}

// GetRun loads the run header for id.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	var (
		run     Run
		eof     int
		created int64
	)
	row := s.db.QueryRowContext(ctx, s.rebind("SELECT id, uri, reached_eof, error, created_at FROM runs WHERE id = ?"), id)
	if err := row.Scan(&run.ID, &run.URI, &eof, &run.Error, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, fmt.Errorf("run %s not found", id)
		}
		return Run{}, errors.Wrap(err, "query failed")
	}
	run.ReachedEOF = eof != 0
	run.Created = time.Unix(0, created)
	return run, nil
}

// Tokens loads the tokens of run id in stream order.
func (s *Store) Tokens(ctx context.Context, id string) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT seq, kind, characters, precedence,
		start_offset, end_offset, line, col, valid FROM tokens WHERE run_id = ? ORDER BY seq`), id)
	if err != nil {
		return nil, errors.Wrap(err, "query failed")
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var (
			r         Row
			kind, prc int
			valid     int
		)
		if err := rows.Scan(&r.Seq, &kind, &r.Characters, &prc,
			&r.Position.Start, &r.Position.End, &r.Position.Line, &r.Position.Column, &valid); err != nil {
			return nil, err
		}
		r.Kind = lexer.Kind(kind)
		r.Precedence = lexer.Precedence(prc)
		r.Valid = valid != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// rebind rewrites ? placeholders for drivers that use numbered ones.
func (s *Store) rebind(query string) string {
	var prefix string
	switch s.dialect {
	case "postgres":
		prefix = "$"
	case "sqlserver":
		prefix = "@p"
	default:
		return query
	}

	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString(fmt.Sprintf("%s%d", prefix, n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
