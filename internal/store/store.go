package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/daybook-ai/daybook/internal/domain"
)

// Store wraps the sqlite database.
type Store struct {
	db *sql.DB
}

// AccountLink is one linked provider account for one user.
type AccountLink struct {
	User         domain.UserID
	Provider     domain.ProviderID
	RefreshToken string
	AccessToken  string
	ExpiresAt    time.Time
	UpdatedAt    time.Time
}

// Open opens (creating if needed) the database at dbPath and applies
// migrations. Use ":memory:" for an ephemeral database in tests.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS account_links (
			user_id TEXT NOT NULL,
			provider TEXT NOT NULL,
			refresh_token TEXT NOT NULL DEFAULT '',
			access_token TEXT NOT NULL DEFAULT '',
			expires_at DATETIME,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, provider)
		)`,
		`CREATE TABLE IF NOT EXISTS calendar_cache (
			user_id TEXT NOT NULL,
			provider TEXT NOT NULL,
			calendar_id TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			color TEXT NOT NULL DEFAULT '',
			is_primary INTEGER NOT NULL DEFAULT 0,
			access_role TEXT NOT NULL DEFAULT '',
			time_zone TEXT NOT NULL DEFAULT '',
			refreshed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, provider, calendar_id)
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}

// SaveLink inserts or replaces the link for (link.User, link.Provider).
func (s *Store) SaveLink(ctx context.Context, link AccountLink) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO account_links (user_id, provider, refresh_token, access_token, expires_at, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, provider) DO UPDATE SET
			refresh_token = excluded.refresh_token,
			access_token = excluded.access_token,
			expires_at = excluded.expires_at,
			updated_at = CURRENT_TIMESTAMP`,
		string(link.User), string(link.Provider), link.RefreshToken, link.AccessToken, link.ExpiresAt)
	if err != nil {
		return fmt.Errorf("save link: %w", err)
	}
	return nil
}

// Link returns the stored link for (user, provider), or nil when the user
// has not linked that provider.
func (s *Store) Link(ctx context.Context, user domain.UserID, provider domain.ProviderID) (*AccountLink, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT refresh_token, access_token, expires_at, updated_at
		FROM account_links WHERE user_id = ? AND provider = ?`,
		string(user), string(provider))

	link := AccountLink{User: user, Provider: provider}
	var expiresAt, updatedAt sql.NullTime
	err := row.Scan(&link.RefreshToken, &link.AccessToken, &expiresAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load link: %w", err)
	}
	if expiresAt.Valid {
		link.ExpiresAt = expiresAt.Time
	}
	if updatedAt.Valid {
		link.UpdatedAt = updatedAt.Time
	}
	return &link, nil
}

// UpdateAccessToken records a freshly minted access token for an existing
// link without touching the refresh token.
func (s *Store) UpdateAccessToken(ctx context.Context, user domain.UserID, provider domain.ProviderID, accessToken string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE account_links SET access_token = ?, expires_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND provider = ?`,
		accessToken, expiresAt, string(user), string(provider))
	if err != nil {
		return fmt.Errorf("update access token: %w", err)
	}
	return nil
}

// DeleteLink removes the link and the cached calendars that depended on it.
func (s *Store) DeleteLink(ctx context.Context, user domain.UserID, provider domain.ProviderID) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM account_links WHERE user_id = ? AND provider = ?`,
		string(user), string(provider)); err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM calendar_cache WHERE user_id = ? AND provider = ?`,
		string(user), string(provider)); err != nil {
		return fmt.Errorf("delete cached calendars: %w", err)
	}
	return nil
}

// UpsertCalendars replaces the cached calendar metadata for (user, provider)
// with the given snapshot.
func (s *Store) UpsertCalendars(ctx context.Context, user domain.UserID, provider domain.ProviderID, calendars []domain.Calendar) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM calendar_cache WHERE user_id = ? AND provider = ?`,
		string(user), string(provider)); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}

	for _, cal := range calendars {
		primary := 0
		if cal.Primary {
			primary = 1
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO calendar_cache
				(user_id, provider, calendar_id, summary, description, color, is_primary, access_role, time_zone, refreshed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
			string(user), string(provider), string(cal.ID), cal.Summary, cal.Description,
			cal.Color, primary, string(cal.AccessRole), cal.TimeZone); err != nil {
			return fmt.Errorf("insert calendar: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// CachedCalendars returns the cached calendar metadata for (user, provider).
// An empty result is not an error; the cache may simply be cold.
func (s *Store) CachedCalendars(ctx context.Context, user domain.UserID, provider domain.ProviderID) ([]domain.Calendar, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT calendar_id, summary, description, color, is_primary, access_role, time_zone
		FROM calendar_cache WHERE user_id = ? AND provider = ?
		ORDER BY is_primary DESC, summary`,
		string(user), string(provider))
	if err != nil {
		return nil, fmt.Errorf("query cache: %w", err)
	}
	defer rows.Close()

	var calendars []domain.Calendar
	for rows.Next() {
		var cal domain.Calendar
		var id, role string
		var primary int
		if err := rows.Scan(&id, &cal.Summary, &cal.Description, &cal.Color, &primary, &role, &cal.TimeZone); err != nil {
			return nil, fmt.Errorf("scan calendar: %w", err)
		}
		cal.ID = domain.CalendarID(id)
		cal.AccessRole = domain.AccessRole(role)
		cal.Primary = primary == 1
		calendars = append(calendars, cal)
	}
	return calendars, rows.Err()
}
