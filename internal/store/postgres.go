package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/recallwire/cms-api/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- API Keys ---

const apiKeyColumns = `id, name, key_hash, key_prefix, is_active, expires_at, last_used_at, created_at`

func scanAPIKey(row pgx.Row) (*models.APIKey, error) {
	var k models.APIKey
	err := row.Scan(&k.ID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.IsActive,
		&k.ExpiresAt, &k.LastUsedAt, &k.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

func (s *PostgresStore) GetAPIKeyByHash(ctx context.Context, hash string) (*models.APIKey, error) {
	key, err := scanAPIKey(s.pool.QueryRow(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE key_hash = $1`, hash))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get api key by hash: %w", err)
	}
	return key, nil
}

func (s *PostgresStore) TouchAPIKey(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE api_keys SET last_used_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touch api key: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateAPIKey(ctx context.Context, key *models.APIKey) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO api_keys (id, name, key_hash, key_prefix, is_active, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		key.ID, key.Name, key.KeyHash, key.KeyPrefix, key.IsActive, key.ExpiresAt, key.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create api key: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAPIKeys(ctx context.Context) ([]*models.APIKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		k, err := scanAPIKey(rows)
		if err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) UpdateAPIKey(ctx context.Context, id uuid.UUID, upd APIKeyUpdate) (*models.APIKey, error) {
	b := newSetBuilder()
	if upd.Name != nil {
		b.set("name", *upd.Name)
	}
	if upd.IsActive != nil {
		b.set("is_active", *upd.IsActive)
	}
	if upd.ExpiresAt != nil {
		b.set("expires_at", *upd.ExpiresAt)
	}
	if b.empty() {
		return s.getAPIKey(ctx, id)
	}

	query := fmt.Sprintf(`UPDATE api_keys SET %s WHERE id = $%d RETURNING `+apiKeyColumns,
		b.clause(), b.next())
	key, err := scanAPIKey(s.pool.QueryRow(ctx, query, b.with(id)...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update api key: %w", err)
	}
	return key, nil
}

func (s *PostgresStore) getAPIKey(ctx context.Context, id uuid.UUID) (*models.APIKey, error) {
	key, err := scanAPIKey(s.pool.QueryRow(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get api key: %w", err)
	}
	return key, nil
}

func (s *PostgresStore) DeleteAPIKey(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM api_keys WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete api key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Usage Records ---

func (s *PostgresStore) InsertUsage(ctx context.Context, rec *models.UsageRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO api_usage (api_key_id, endpoint, method, status_code, response_time_ms, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.APIKeyID, rec.Endpoint, rec.Method, rec.StatusCode, rec.ResponseTimeMs, rec.CreatedAt)
	if err != nil {
		if isForeignKeyError(err) {
			return ErrInvalidReference
		}
		return fmt.Errorf("insert usage record: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListUsage(ctx context.Context, keyID uuid.UUID, limit, offset int) ([]*models.UsageRecord, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM api_usage WHERE api_key_id = $1`, keyID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count usage records: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, api_key_id, endpoint, method, status_code, response_time_ms, created_at
		 FROM api_usage WHERE api_key_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		keyID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list usage records: %w", err)
	}
	defer rows.Close()

	var recs []*models.UsageRecord
	for rows.Next() {
		var r models.UsageRecord
		if err := rows.Scan(&r.ID, &r.APIKeyID, &r.Endpoint, &r.Method,
			&r.StatusCode, &r.ResponseTimeMs, &r.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan usage record: %w", err)
		}
		recs = append(recs, &r)
	}
	return recs, total, rows.Err()
}

// --- helpers ---

// setBuilder accumulates SET clauses for partial updates. Placeholders are
// numbered from $1; the WHERE argument goes last via with().
type setBuilder struct {
	cols []string
	args []any
}

func newSetBuilder() *setBuilder {
	return &setBuilder{}
}

func (b *setBuilder) set(col string, val any) {
	b.args = append(b.args, val)
	b.cols = append(b.cols, fmt.Sprintf("%s = $%d", col, len(b.args)))
}

// raw appends a clause with no placeholder, e.g. "updated_at = NOW()".
func (b *setBuilder) raw(clause string) {
	b.cols = append(b.cols, clause)
}

func (b *setBuilder) empty() bool {
	return len(b.args) == 0
}

func (b *setBuilder) clause() string {
	return strings.Join(b.cols, ", ")
}

// next returns the placeholder index for the WHERE argument.
func (b *setBuilder) next() int {
	return len(b.args) + 1
}

func (b *setBuilder) with(extra ...any) []any {
	return append(b.args, extra...)
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// isForeignKeyError checks if a pgx error is a foreign key violation.
func isForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503" // foreign_key_violation
	}
	return false
}
