package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/forumcrawl/internal/model"
)

// schema creates the threads and responses relations.
// Every statement is idempotent so it runs on each Open.
const schema = `
CREATE TABLE IF NOT EXISTS threads (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	question TEXT
);

CREATE TABLE IF NOT EXISTS responses (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	thread_id INTEGER REFERENCES threads(id),
	response TEXT
);

CREATE INDEX IF NOT EXISTS idx_responses_thread ON responses(thread_id);
`

// ThreadDB persists crawled threads and their responses in SQLite.
// Rows are append-only: nothing in this package updates or deletes them.
type ThreadDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// path is the path to the SQLite database file.
	path string
}

// Options configures ThreadDB behavior.
type Options struct {
	// CreateIfNotExists creates the parent directory and database file if
	// they don't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a ThreadDB at the given file path and makes sure
// the schema exists.
func Open(path string, opts Options) (*ThreadDB, error) {
	if !opts.CreateIfNotExists {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s (use CreateIfNotExists option to create)", ErrDatabaseNotFound, path)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	// modernc.org/sqlite accepts mode and pragmas in the DSN.
	// mode=rw refuses to create a missing file, mode=rwc allows it.
	mode := "rw"
	if opts.CreateIfNotExists {
		mode = "rwc"
	}
	dsn := "file:" + path + "?mode=" + mode + "&_pragma=foreign_keys(1)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; the crawl is sequential anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	tdb := &ThreadDB{
		db:   db,
		path: path,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := tdb.createTables(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return tdb, nil
}

// Close closes the database connection.
func (tdb *ThreadDB) Close() error {
	return tdb.db.Close()
}

// Path returns the database file path.
func (tdb *ThreadDB) Path() string {
	return tdb.path
}

// createTables creates the database schema if it doesn't exist.
func (tdb *ThreadDB) createTables(ctx context.Context) error {
	_, err := tdb.db.ExecContext(ctx, schema)
	return err
}

// Persist stores one thread and its responses as a single transaction and
// returns the id assigned to the thread. Responses keep their order.
// If any insert fails the transaction is rolled back and no row of the
// thread is visible.
func (tdb *ThreadDB) Persist(ctx context.Context, question string, responses []string) (id int64, err error) {
	if question == "" {
		return 0, ErrEmptyQuestion
	}

	tx, err := tdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("failed to roll back: %w", rbErr))
			}
		}
	}()

	result, err := tx.ExecContext(ctx, `INSERT INTO threads (question) VALUES (?)`, question)
	if err != nil {
		return 0, fmt.Errorf("failed to insert thread: %w", err)
	}

	threadID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get thread id: %w", err)
	}

	if len(responses) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO responses (thread_id, response) VALUES (?, ?)`)
		if err != nil {
			return 0, fmt.Errorf("failed to prepare response insert: %w", err)
		}
		defer stmt.Close()

		for i, response := range responses {
			if _, err := stmt.ExecContext(ctx, threadID, response); err != nil {
				return 0, fmt.Errorf("failed to insert response %d: %w", i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit thread: %w", err)
	}

	return threadID, nil
}

// GetThread retrieves a thread and its responses by id.
// It returns nil, nil when no thread has that id.
func (tdb *ThreadDB) GetThread(ctx context.Context, id int64) (*model.PersistedThread, error) {
	var thread model.PersistedThread
	var question sql.NullString

	err := tdb.db.QueryRowContext(ctx, `SELECT id, question FROM threads WHERE id = ?`, id).Scan(&thread.ID, &question)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}
	thread.Question = question.String

	responses, err := tdb.responses(ctx, id)
	if err != nil {
		return nil, err
	}
	thread.Responses = responses

	return &thread, nil
}

// ListThreads returns stored threads in id order, each with its responses.
// A limit of 0 or less returns every thread.
func (tdb *ThreadDB) ListThreads(ctx context.Context, limit int) ([]model.PersistedThread, error) {
	query := `SELECT id, question FROM threads ORDER BY id`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := tdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}

	var threads []model.PersistedThread
	for rows.Next() {
		var thread model.PersistedThread
		var question sql.NullString
		if err := rows.Scan(&thread.ID, &question); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan thread: %w", err)
		}
		thread.Question = question.String
		threads = append(threads, thread)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	// The single connection must be released before the response queries.
	if err := rows.Close(); err != nil {
		return nil, err
	}

	for i := range threads {
		responses, err := tdb.responses(ctx, threads[i].ID)
		if err != nil {
			return nil, err
		}
		threads[i].Responses = responses
	}

	return threads, nil
}

// CountThreads returns the number of stored threads.
func (tdb *ThreadDB) CountThreads(ctx context.Context) (int, error) {
	var count int
	if err := tdb.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM threads`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count threads: %w", err)
	}
	return count, nil
}

// CountResponses returns the number of stored responses.
func (tdb *ThreadDB) CountResponses(ctx context.Context) (int, error) {
	var count int
	if err := tdb.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM responses`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count responses: %w", err)
	}
	return count, nil
}

// responses returns the responses of one thread in insertion order.
func (tdb *ThreadDB) responses(ctx context.Context, threadID int64) ([]model.PersistedResponse, error) {
	rows, err := tdb.db.QueryContext(ctx,
		`SELECT id, thread_id, response FROM responses WHERE thread_id = ? ORDER BY id`, threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	defer rows.Close()

	responses := make([]model.PersistedResponse, 0)
	for rows.Next() {
		var r model.PersistedResponse
		var text sql.NullString
		if err := rows.Scan(&r.ID, &r.ThreadID, &text); err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}
		r.Response = text.String
		responses = append(responses, r)
	}

	return responses, rows.Err()
}
