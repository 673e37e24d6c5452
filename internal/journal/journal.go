// Package journal records the events the bridge delivers to the host
// in a SQL table, one row per event in delivery order.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/slzatz/vimbridge/vim"
)

// dialect holds the statements that differ between SQLite and Postgres.
type dialect struct {
	driver string
	schema string
	insert string
}

var sqliteSchema = `CREATE TABLE IF NOT EXISTS event (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session TEXT NOT NULL,
	seq INTEGER NOT NULL,
	name TEXT NOT NULL,
	payload TEXT NOT NULL,
	recorded_at TEXT NOT NULL
)`

var postgresSchema = `CREATE TABLE IF NOT EXISTS event (
	id BIGSERIAL PRIMARY KEY,
	session TEXT NOT NULL,
	seq INTEGER NOT NULL,
	name TEXT NOT NULL,
	payload TEXT NOT NULL,
	recorded_at TEXT NOT NULL
)`

func sqliteDialect(d SQLiteDriver) dialect {
	return dialect{
		driver: d.DriverName(),
		schema: sqliteSchema,
		insert: "INSERT INTO event (session, seq, name, payload, recorded_at) VALUES (?, ?, ?, ?, ?)",
	}
}

var postgresDialect = dialect{
	driver: "postgres",
	schema: postgresSchema,
	insert: "INSERT INTO event (session, seq, name, payload, recorded_at) VALUES ($1, $2, $3, $4, $5)",
}

// Entry is one recorded event.
type Entry struct {
	Session    string
	Seq        int
	Name       string
	Payload    map[string]any
	RecordedAt time.Time
}

// Journal appends events to a database. It is not safe for concurrent
// use; the bridge delivers events on one thread.
type Journal struct {
	db      *sql.DB
	dialect dialect
	session string
	seq     int
	now     func() time.Time
}

// Option configures Open.
type Option func(*options)

type options struct {
	driver  SQLiteDriver
	session string
}

// WithSQLiteDriver selects the SQLite implementation for file journals.
func WithSQLiteDriver(d SQLiteDriver) Option {
	return func(o *options) { o.driver = d }
}

// WithSession tags every entry with name. The default is the open time.
func WithSession(name string) Option {
	return func(o *options) { o.session = name }
}

// Open opens or creates the journal at dsn: a postgres:// URL or a
// SQLite file path.
func Open(ctx context.Context, dsn string, opts ...Option) (*Journal, error) {
	o := options{session: time.Now().UTC().Format(time.RFC3339Nano)}
	for _, opt := range opts {
		opt(&o)
	}

	d := sqliteDialect(o.driver)
	if isPostgres(dsn) {
		d = postgresDialect
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", d.driver, err)
	}
	if d.driver != "postgres" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.ExecContext(ctx, d.schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: create schema: %w", err)
	}
	return &Journal{db: db, dialect: d, session: o.session, now: time.Now}, nil
}

// Session returns the session tag of new entries.
func (j *Journal) Session() string { return j.session }

// Record appends ev. ids resolves buffer handles to buffer numbers; a
// nil ids records every buffer as 0.
func (j *Journal) Record(ctx context.Context, ev vim.Event, ids func(vim.Buffer) int) error {
	payload, err := json.Marshal(Payload(ev, ids))
	if err != nil {
		return fmt.Errorf("journal: encode %s: %w", ev.Name(), err)
	}
	seq := j.seq + 1
	_, err = j.db.ExecContext(ctx, j.dialect.insert,
		j.session, seq, ev.Name(), string(payload), j.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("journal: insert %s: %w", ev.Name(), err)
	}
	j.seq = seq
	return nil
}

// Events returns the entries of the current session in order.
func (j *Journal) Events(ctx context.Context) ([]Entry, error) {
	query := "SELECT session, seq, name, payload, recorded_at FROM event WHERE session = ? ORDER BY seq"
	if j.dialect.driver == "postgres" {
		query = "SELECT session, seq, name, payload, recorded_at FROM event WHERE session = $1 ORDER BY seq"
	}
	rows, err := j.db.QueryContext(ctx, query, j.session)
	if err != nil {
		return nil, fmt.Errorf("journal: query: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e        Entry
			payload  string
			recorded string
		)
		if err := rows.Scan(&e.Session, &e.Seq, &e.Name, &payload, &recorded); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &e.Payload); err != nil {
			return nil, fmt.Errorf("journal: decode entry %d: %w", e.Seq, err)
		}
		if e.RecordedAt, err = time.Parse(time.RFC3339Nano, recorded); err != nil {
			return nil, fmt.Errorf("journal: decode time of entry %d: %w", e.Seq, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Payload flattens ev into JSON-friendly fields.
func Payload(ev vim.Event, ids func(vim.Buffer) int) map[string]any {
	id := func(b vim.Buffer) int {
		if ids == nil || b.IsZero() {
			return 0
		}
		return ids(b)
	}
	switch e := ev.(type) {
	case vim.BufferChanged:
		return map[string]any{"buffer": id(e.Buffer), "start": e.LineStart, "end": e.LineEnd, "extra": e.Extra}
	case vim.Autocommand:
		return map[string]any{"kind": e.Kind.String(), "buffer": id(e.Buffer)}
	case vim.DirectoryChanged:
		return map[string]any{"path": e.Path}
	case vim.Message:
		return map[string]any{"priority": e.Priority.String(), "title": e.Title, "body": e.Body}
	case vim.Quit:
		p := map[string]any{"forced": e.Forced}
		if b, ok := e.Buffer.Get(); ok {
			p["buffer"] = id(b)
		}
		return p
	case vim.WindowMovement:
		return map[string]any{"kind": e.Kind.String(), "count": e.Count}
	case vim.WindowSplit:
		return map[string]any{"kind": e.Kind.String(), "path": e.Path}
	}
	return map[string]any{}
}
