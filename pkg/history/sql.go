package history

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // "pgx" driver
	_ "modernc.org/sqlite"             // "sqlite" driver
)

// Dialect selects SQL differences between the supported databases.
type Dialect int

// Supported dialects.
const (
	SQLite Dialect = iota
	Postgres
)

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	figma_user_id TEXT NOT NULL UNIQUE,
	name          TEXT NOT NULL,
	created_at    {{ts}} NOT NULL,
	updated_at    {{ts}} NOT NULL
);
CREATE TABLE IF NOT EXISTS token_collections (
	id              TEXT PRIMARY KEY,
	user_id         TEXT REFERENCES users(id),
	figma_file_id   TEXT NOT NULL,
	figma_file_name TEXT NOT NULL,
	name            TEXT NOT NULL,
	tokens          TEXT NOT NULL,
	metadata        TEXT,
	token_count     INTEGER NOT NULL DEFAULT 0,
	created_at      {{ts}} NOT NULL,
	updated_at      {{ts}} NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_token_collections_updated ON token_collections (updated_at);
CREATE TABLE IF NOT EXISTS export_history (
	id            TEXT PRIMARY KEY,
	collection_id TEXT REFERENCES token_collections(id),
	export_type   TEXT NOT NULL,
	status        TEXT NOT NULL,
	token_count   INTEGER NOT NULL DEFAULT 0,
	commit_url    TEXT,
	error_message TEXT,
	created_at    {{ts}} NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_export_history_created ON export_history (created_at);
`

// SQLStore is a Store on top of database/sql, for Postgres (pgx) and SQLite (modernc).
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

var _ Store = (*SQLStore)(nil)

// SQLOption configures an SQLStore.
type SQLOption func(*SQLStore)

// WithClock sets the time source for row timestamps.
func WithClock(now func() time.Time) SQLOption {
	return func(s *SQLStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSQLStore wraps an open database. Call Migrate before first use.
func NewSQLStore(db *sql.DB, dialect Dialect, opts ...SQLOption) *SQLStore {
	s := &SQLStore{db: db, dialect: dialect, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open connects to dsn and migrates the schema. postgres:// and postgresql:// URLs use
// Postgres; anything else is a SQLite path, optionally prefixed with "sqlite:".
func Open(ctx context.Context, dsn string, opts ...SQLOption) (*SQLStore, error) {
	dsn = strings.TrimSpace(dsn)
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return OpenPostgres(ctx, dsn, opts...)
	}
	return OpenSQLite(ctx, strings.TrimPrefix(dsn, "sqlite:"), opts...)
}

// OpenPostgres connects through the pgx driver.
func OpenPostgres(ctx context.Context, dsn string, opts ...SQLOption) (*SQLStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return migrated(ctx, NewSQLStore(db, Postgres, opts...))
}

// OpenSQLite opens a SQLite file, or a private in-memory database for ":memory:".
// Pragmas are passed in the DSN so that every pooled connection gets them.
func OpenSQLite(ctx context.Context, path string, opts ...SQLOption) (*SQLStore, error) {
	pragmas := []string{"foreign_keys(1)", "busy_timeout(10000)"}
	if path != ":memory:" {
		pragmas = append(pragmas, "journal_mode(WAL)", "synchronous(NORMAL)")
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	dsn := path + sep + "_pragma=" + strings.Join(pragmas, "&_pragma=")

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == ":memory:" {
		// every connection would get its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return migrated(ctx, NewSQLStore(db, SQLite, opts...))
}

func migrated(ctx context.Context, s *SQLStore) (*SQLStore, error) {
	if err := s.Migrate(ctx); err != nil {
		s.db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates missing tables and indexes.
func (s *SQLStore) Migrate(ctx context.Context) error {
	ts := "TIMESTAMP"
	if s.dialect == Postgres {
		ts = "TIMESTAMPTZ"
	}
	ddl := strings.ReplaceAll(schema, "{{ts}}", ts)
	for _, stmt := range strings.Split(ddl, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s schema: %w", s.dialect, err)
		}
	}
	return nil
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders to $n for Postgres.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) SaveCollection(ctx context.Context, in CollectionInput) (*Collection, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	now := s.now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var userID string
	err = tx.QueryRowContext(ctx, s.rebind(`
		INSERT INTO users (id, figma_user_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (figma_user_id) DO UPDATE SET updated_at = excluded.updated_at
		RETURNING id`),
		uuid.NewString(), DemoUserID, DemoUserName, now, now,
	).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	c := &Collection{
		ID:            uuid.NewString(),
		UserID:        userID,
		FigmaFileID:   in.FigmaFileID,
		FigmaFileName: in.FigmaFileName,
		Name:          in.Name,
		Tokens:        in.Tokens,
		Metadata:      in.Metadata,
		TokenCount:    in.TokenCount,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var metadata sql.NullString
	if len(in.Metadata) > 0 {
		metadata = sql.NullString{String: string(in.Metadata), Valid: true}
	}
	_, err = tx.ExecContext(ctx, s.rebind(`
		INSERT INTO token_collections
			(id, user_id, figma_file_id, figma_file_name, name, tokens, metadata, token_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		c.ID, c.UserID, c.FigmaFileID, c.FigmaFileName, c.Name, string(c.Tokens), metadata, c.TokenCount, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert collection: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return c, nil
}

func (s *SQLStore) RecordExport(ctx context.Context, in ExportInput) (*ExportRecord, error) {
	if in.Kind == "" || in.Status == "" {
		return nil, ErrInvalid
	}
	rec := &ExportRecord{
		ID:           uuid.NewString(),
		CollectionID: in.CollectionID,
		ExportType:   in.Kind,
		Status:       in.Status,
		TokenCount:   in.TokenCount,
		CreatedAt:    s.now().UTC(),
		CommitURL:    in.CommitURL,
		Error:        in.Error,
	}

	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO export_history
			(id, collection_id, export_type, status, token_count, commit_url, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		rec.ID, nullable(rec.CollectionID), string(rec.ExportType), string(rec.Status), rec.TokenCount,
		nullable(rec.CommitURL), nullable(rec.Error), rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert export: %w", err)
	}
	return rec, nil
}

func (s *SQLStore) RecentCollections(ctx context.Context, limit int) ([]CollectionSummary, error) {
	if limit <= 0 {
		limit = DefaultCollectionsLimit
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT tc.id, tc.name, tc.figma_file_name, tc.token_count, tc.updated_at, COALESCE(u.name, '')
		FROM token_collections tc
		LEFT JOIN users u ON tc.user_id = u.id
		ORDER BY tc.updated_at DESC
		LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("query collections: %w", err)
	}
	defer rows.Close()

	list := make([]CollectionSummary, 0, limit)
	for rows.Next() {
		var c CollectionSummary
		if err := rows.Scan(&c.ID, &c.Name, &c.FigmaFileName, &c.TokenCount, &c.UpdatedAt, &c.UserName); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		c.UpdatedAt = c.UpdatedAt.UTC()
		list = append(list, c)
	}
	return list, rows.Err()
}

func (s *SQLStore) RecentExports(ctx context.Context, limit int) ([]ExportSummary, error) {
	if limit <= 0 {
		limit = DefaultExportsLimit
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT eh.id, eh.export_type, eh.status, eh.token_count, eh.created_at,
			COALESCE(eh.commit_url, ''), COALESCE(tc.name, ''), COALESCE(eh.error_message, '')
		FROM export_history eh
		LEFT JOIN token_collections tc ON eh.collection_id = tc.id
		ORDER BY eh.created_at DESC
		LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("query exports: %w", err)
	}
	defer rows.Close()

	list := make([]ExportSummary, 0, limit)
	for rows.Next() {
		var (
			e            ExportSummary
			kind, status string
		)
		if err := rows.Scan(&e.ID, &kind, &status, &e.TokenCount, &e.CreatedAt, &e.CommitURL, &e.CollectionName, &e.Error); err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		e.ExportType = ExportKind(kind)
		e.Status = ExportStatus(status)
		e.CreatedAt = e.CreatedAt.UTC()
		list = append(list, e)
	}
	return list, rows.Err()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
