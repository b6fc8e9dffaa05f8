package recordstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

var migrations = map[Dialect][]string{
	DialectPostgres: {
		`CREATE TABLE IF NOT EXISTS records (
			id         BIGSERIAL PRIMARY KEY,
			table_name TEXT  NOT NULL,
			data       JSONB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS records_table_name_idx ON records (table_name)`,
	},
	DialectSQLite: {
		`CREATE TABLE IF NOT EXISTS records (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			table_name TEXT NOT NULL,
			data       TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS records_table_name_idx ON records (table_name)`,
	},
}

// SQL stores every table in one `records` table with a JSON payload.
// Filtering and paging are applied after loading the table's rows.
type SQL struct {
	db      *sql.DB
	dialect Dialect
	log     *zap.Logger
	now     func() time.Time
}

// OpenSQL opens and migrates a database. dialect picks the driver.
func OpenSQL(ctx context.Context, dialect Dialect, dsn string, log *zap.Logger) (*SQL, error) {
	driver := "postgres"
	if dialect == DialectSQLite {
		driver = "sqlite"
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// один writer, иначе SQLITE_BUSY
		db.SetMaxOpenConns(1)
	}
	s, err := NewSQL(ctx, db, dialect, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQL wraps an existing handle and runs migrations.
func NewSQL(ctx context.Context, db *sql.DB, dialect Dialect, log *zap.Logger) (*SQL, error) {
	stmts, ok := migrations[dialect]
	if !ok {
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
	if log == nil {
		log = zap.NewNop()
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return nil, fmt.Errorf("migrate records: %w", err)
		}
	}
	return &SQL{db: db, dialect: dialect, log: log, now: time.Now}, nil
}

var placeholderRe = regexp.MustCompile(`\$\d+`)

// rebind turns $n placeholders into ? for sqlite. Queries use each
// placeholder once and in order.
func (s *SQL) rebind(q string) string {
	if s.dialect == DialectSQLite {
		return placeholderRe.ReplaceAllString(q, "?")
	}
	return q
}

func (s *SQL) FetchRecords(ctx context.Context, table string, q Query) (*FetchResponse, error) {
	if table == "" {
		return nil, ErrMissingTable
	}
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT id, data FROM records WHERE table_name = $1 ORDER BY id`), table)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", table, err)
	}
	defer rows.Close()

	var all []Record
	for rows.Next() {
		var (
			id   int64
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("fetch %s: scan: %w", table, err)
		}
		r, err := decodeRow(id, data)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", table, err)
		}
		all = append(all, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", table, err)
	}
	return apply(all, q), nil
}

func (s *SQL) GetRecordByID(ctx context.Context, table, id string, fields []string) (Record, error) {
	if table == "" {
		return nil, ErrMissingTable
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, nil
	}
	r, err := s.load(ctx, s.db, table, n)
	if err != nil || r == nil {
		return nil, err
	}
	return project(r, fields), nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQL) load(ctx context.Context, q queryer, table string, id int64) (Record, error) {
	var data []byte
	err := q.QueryRowContext(ctx,
		s.rebind(`SELECT data FROM records WHERE table_name = $1 AND id = $2`), table, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%d: %w", table, id, err)
	}
	return decodeRow(id, data)
}

func (s *SQL) CreateRecords(ctx context.Context, table string, records []Record) (*MutationResponse, error) {
	if table == "" {
		return nil, ErrMissingTable
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create %s: begin: %w", table, err)
	}
	defer func() { _ = tx.Rollback() }()

	stamp := FormatTime(s.now())
	resp := &MutationResponse{Success: true}
	for _, in := range records {
		r := in.Clone()
		delete(r, FieldID)
		r[FieldCreatedOn] = stamp
		r[FieldModifiedOn] = stamp
		data, err := json.Marshal(r)
		if err != nil {
			resp.Results = append(resp.Results, Result{Message: err.Error()})
			continue
		}
		var id int64
		if err := tx.QueryRowContext(ctx,
			s.rebind(`INSERT INTO records (table_name, data) VALUES ($1, $2) RETURNING id`),
			table, string(data)).Scan(&id); err != nil {
			return nil, fmt.Errorf("create %s: insert: %w", table, err)
		}
		r[FieldID] = strconv.FormatInt(id, 10)
		resp.Results = append(resp.Results, Result{Success: true, ID: r.ID(), Data: r})
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create %s: commit: %w", table, err)
	}
	return resp, nil
}

func (s *SQL) UpdateRecords(ctx context.Context, table string, records []Record) (*MutationResponse, error) {
	if table == "" {
		return nil, ErrMissingTable
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("update %s: begin: %w", table, err)
	}
	defer func() { _ = tx.Rollback() }()

	stamp := FormatTime(s.now())
	resp := &MutationResponse{Success: true}
	for _, in := range records {
		id := in.ID()
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			resp.Results = append(resp.Results, Result{ID: id, Message: ErrMissingID.Error()})
			continue
		}
		cur, err := s.load(ctx, tx, table, n)
		if err != nil {
			return nil, err
		}
		if cur == nil {
			resp.Results = append(resp.Results, Result{ID: id, Message: ErrNotFound.Error()})
			continue
		}
		next := merge(cur, in)
		next[FieldModifiedOn] = stamp
		stored := next.Clone()
		delete(stored, FieldID)
		data, err := json.Marshal(stored)
		if err != nil {
			resp.Results = append(resp.Results, Result{ID: id, Message: err.Error()})
			continue
		}
		if _, err := tx.ExecContext(ctx,
			s.rebind(`UPDATE records SET data = $1 WHERE table_name = $2 AND id = $3`),
			string(data), table, n); err != nil {
			return nil, fmt.Errorf("update %s/%s: %w", table, id, err)
		}
		resp.Results = append(resp.Results, Result{Success: true, ID: id, Data: next})
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("update %s: commit: %w", table, err)
	}
	return resp, nil
}

func (s *SQL) DeleteRecords(ctx context.Context, table string, ids []string) (*MutationResponse, error) {
	if table == "" {
		return nil, ErrMissingTable
	}
	resp := &MutationResponse{Success: true}
	for _, id := range ids {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			resp.Results = append(resp.Results, Result{ID: id, Message: ErrNotFound.Error()})
			continue
		}
		res, err := s.db.ExecContext(ctx,
			s.rebind(`DELETE FROM records WHERE table_name = $1 AND id = $2`), table, n)
		if err != nil {
			return nil, fmt.Errorf("delete %s/%s: %w", table, id, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("delete %s/%s: rows affected: %w", table, id, err)
		}
		if affected == 0 {
			resp.Results = append(resp.Results, Result{ID: id, Message: ErrNotFound.Error()})
			continue
		}
		resp.Results = append(resp.Results, Result{Success: true, ID: id})
	}
	return resp, nil
}

func (s *SQL) Close() error {
	if err := s.db.Close(); err != nil {
		s.log.Warn("[store][close] db close failed", zap.Error(err))
		return err
	}
	return nil
}

func decodeRow(id int64, data []byte) (Record, error) {
	r := Record{}
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode record %d: %w", id, err)
	}
	r[FieldID] = strconv.FormatInt(id, 10)
	return r, nil
}
