package credentials

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
)

// Fields is the full set of credential names the dashboard manages,
// keyed by platform prefix.
var Fields = []string{
	"twitter_api_key",
	"twitter_api_secret",
	"twitter_access_token",
	"twitter_access_token_secret",
	"twitter_bearer_token",
	"bluesky_identifier",
	"bluesky_app_password",
	"bluesky_service_url",
	"linkedin_access_token",
	"linkedin_author_urn",
	"email_smtp_host",
	"email_smtp_port",
	"email_smtp_user",
	"email_smtp_password",
	"email_from",
	"email_to",
}

// KnownField reports whether name is a managed credential field.
func KnownField(name string) bool {
	for _, f := range Fields {
		if f == name {
			return true
		}
	}
	return false
}

// Store reads and writes named credential values.
type Store interface {
	Get(ctx context.Context, name string) (string, error)
	Set(ctx context.Context, name, value string) error
	Delete(ctx context.Context, name string) error
	DeleteAll(ctx context.Context) error
	Status(ctx context.Context) (map[string]bool, error)
}

// SQLStore persists credentials in the social_credentials table. Reads
// fall back to the process environment (field name upper-cased) so
// container-level configuration still works without the dashboard.
type SQLStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Get(ctx context.Context, name string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM social_credentials WHERE name = $1`, name,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return os.Getenv(strings.ToUpper(name)), nil
	}
	if err != nil {
		return "", fmt.Errorf("get credential %s: %w", name, err)
	}
	return value, nil
}

func (s *SQLStore) Set(ctx context.Context, name, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO social_credentials (name, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, name, value)
	if err != nil {
		return fmt.Errorf("set credential %s: %w", name, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM social_credentials WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete credential %s: %w", name, err)
	}
	return nil
}

func (s *SQLStore) DeleteAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM social_credentials`)
	if err != nil {
		return fmt.Errorf("delete credentials: %w", err)
	}
	return nil
}

// Status reports, per managed field, whether a non-empty value is
// configured in the store or the environment. Values never leave the
// backend through this path.
func (s *SQLStore) Status(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM social_credentials WHERE value <> ''`)
	if err != nil {
		return nil, fmt.Errorf("credential status: %w", err)
	}
	defer rows.Close()

	stored := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan credential name: %w", err)
		}
		stored[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credential names: %w", err)
	}

	status := make(map[string]bool, len(Fields))
	for _, f := range Fields {
		status[f] = stored[f] || os.Getenv(strings.ToUpper(f)) != ""
	}
	return status, nil
}
