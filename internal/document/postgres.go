package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrWong99/wordsmith/pkg/analysis"
)

// Schema is the SQL DDL for the documents table. Execute it via
// [PostgresStore.Migrate] or apply it manually during deployment.
const Schema = `
CREATE TABLE IF NOT EXISTS documents (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    type        TEXT NOT NULL DEFAULT 'text/plain',
    size        BIGINT NOT NULL DEFAULT 0,
    content     TEXT NOT NULL DEFAULT '',
    word_count  BIGINT NOT NULL DEFAULT 0,
    char_count  BIGINT NOT NULL DEFAULT 0,
    status      TEXT NOT NULL DEFAULT 'uploaded',
    tags        JSONB NOT NULL DEFAULT '[]',
    analysis    JSONB NOT NULL DEFAULT '{}',
    uploaded_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    modified_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_documents_uploaded ON documents(uploaded_at DESC);
`

const selectColumns = `id, name, type, size, content, word_count, char_count,
       status, tags, analysis, uploaded_at, modified_at`

// DB is the database interface used by [PostgresStore]. Both *pgxpool.Pool
// and *pgx.Conn satisfy it.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore is a [Store] backed by PostgreSQL. Tags and the analysis
// bundle are stored as JSONB.
type PostgresStore struct {
	db DB
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a [PostgresStore] on db. Call
// [PostgresStore.Migrate] before issuing queries.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate executes [Schema].
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("document: migrate: %w", err)
	}
	return nil
}

// Create implements [Store.Create].
func (s *PostgresStore) Create(ctx context.Context, doc *Document) error {
	tagsJSON, analysisJSON, err := marshalFields(doc)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO documents (
			id, name, type, size, content, word_count, char_count,
			status, tags, analysis, uploaded_at, modified_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`

	_, err = s.db.Exec(ctx, query,
		doc.ID, doc.Name, doc.Type, doc.Size, doc.Content, int64(doc.WordCount), int64(doc.CharCount),
		string(doc.Status), tagsJSON, analysisJSON, doc.UploadedAt, doc.ModifiedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("document: id %q already exists", doc.ID)
		}
		return fmt.Errorf("document: create: %w", err)
	}
	return nil
}

// Get implements [Store.Get].
func (s *PostgresStore) Get(ctx context.Context, id string) (*Document, error) {
	query := `SELECT ` + selectColumns + ` FROM documents WHERE id = $1`

	doc, err := scanDocument(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("document: get %q: %w", id, err)
	}
	return doc, nil
}

// Update implements [Store.Update].
func (s *PostgresStore) Update(ctx context.Context, doc *Document) error {
	tagsJSON, analysisJSON, err := marshalFields(doc)
	if err != nil {
		return err
	}

	const query = `
		UPDATE documents SET
			name = $2, type = $3, size = $4, content = $5,
			word_count = $6, char_count = $7, status = $8,
			tags = $9, analysis = $10, modified_at = $11
		WHERE id = $1`

	tag, err := s.db.Exec(ctx, query,
		doc.ID, doc.Name, doc.Type, doc.Size, doc.Content, int64(doc.WordCount), int64(doc.CharCount),
		string(doc.Status), tagsJSON, analysisJSON, doc.ModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("document: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete implements [Store.Delete].
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id); err != nil {
		return fmt.Errorf("document: delete %q: %w", id, err)
	}
	return nil
}

// List implements [Store.List].
func (s *PostgresStore) List(ctx context.Context) ([]Document, error) {
	query := `SELECT ` + selectColumns + ` FROM documents ORDER BY uploaded_at DESC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("document: list: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("document: list scan: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("document: list: %w", err)
	}
	return docs, nil
}

// scanDocument reads one row in selectColumns order.
func scanDocument(row pgx.Row) (*Document, error) {
	var (
		doc                    Document
		status                 string
		words, chars           int64
		tagsJSON, analysisJSON []byte
	)
	if err := row.Scan(
		&doc.ID, &doc.Name, &doc.Type, &doc.Size, &doc.Content, &words, &chars,
		&status, &tagsJSON, &analysisJSON, &doc.UploadedAt, &doc.ModifiedAt,
	); err != nil {
		return nil, err
	}
	doc.WordCount = int(words)
	doc.CharCount = int(chars)
	doc.Status = Status(status)

	if err := json.Unmarshal(tagsJSON, &doc.Tags); err != nil {
		return nil, fmt.Errorf("document: unmarshal tags: %w", err)
	}
	var bundle map[analysis.Operation]analysis.Result
	if err := json.Unmarshal(analysisJSON, &bundle); err != nil {
		return nil, fmt.Errorf("document: unmarshal analysis: %w", err)
	}
	if len(bundle) > 0 {
		doc.Analysis = bundle
	}
	return &doc, nil
}

func marshalFields(doc *Document) (tags, bundle []byte, err error) {
	t := doc.Tags
	if t == nil {
		t = []string{}
	}
	if tags, err = json.Marshal(t); err != nil {
		return nil, nil, fmt.Errorf("document: marshal tags: %w", err)
	}
	a := doc.Analysis
	if a == nil {
		a = map[analysis.Operation]analysis.Result{}
	}
	if bundle, err = json.Marshal(a); err != nil {
		return nil, nil, fmt.Errorf("document: marshal analysis: %w", err)
	}
	return tags, bundle, nil
}

// isDuplicateKeyError reports a unique violation (SQLSTATE 23505).
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
