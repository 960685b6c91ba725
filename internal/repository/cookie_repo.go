package repository

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/andy/invoicedesk/internal/db"
)

// CookieRepo is a SQLite implementation of CookieRepository
type CookieRepo struct {
	db  *db.DB
	now func() time.Time
}

// NewCookieRepo creates a new CookieRepo
func NewCookieRepo(database *db.DB) *CookieRepo {
	return &CookieRepo{db: database, now: time.Now}
}

// Load retrieves unexpired cookies for a host
func (r *CookieRepo) Load(ctx context.Context, host string) ([]*http.Cookie, error) {
	query := `
		SELECT name, value, path, domain, expires, secure, http_only
		FROM cookies
		WHERE host = ?
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query, host)
	if err != nil {
		return nil, fmt.Errorf("failed to load cookies: %w", err)
	}
	defer rows.Close()

	now := r.now()
	cookies := make([]*http.Cookie, 0)
	for rows.Next() {
		c, err := scanCookie(rows)
		if err != nil {
			return nil, err
		}
		if !c.Expires.IsZero() && c.Expires.Before(now) {
			continue
		}
		cookies = append(cookies, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cookies: %w", err)
	}

	return cookies, nil
}

// Save upserts cookies for a host in one transaction
func (r *CookieRepo) Save(ctx context.Context, host string, cookies []*http.Cookie) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	upsert := `
		INSERT INTO cookies (host, name, value, path, domain, expires, secure, http_only, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(host, name) DO UPDATE SET
			value = excluded.value,
			path = excluded.path,
			domain = excluded.domain,
			expires = excluded.expires,
			secure = excluded.secure,
			http_only = excluded.http_only,
			updated_at = excluded.updated_at
	`
	remove := `DELETE FROM cookies WHERE host = ? AND name = ?`

	for _, c := range cookies {
		if c.MaxAge < 0 {
			if _, err := tx.ExecContext(ctx, remove, host, c.Name); err != nil {
				return fmt.Errorf("failed to delete cookie %s: %w", c.Name, err)
			}
			continue
		}

		var expires sql.NullString
		switch {
		case c.MaxAge > 0:
			expires = sql.NullString{String: r.now().Add(time.Duration(c.MaxAge) * time.Second).UTC().Format(timeLayout), Valid: true}
		case !c.Expires.IsZero():
			expires = sql.NullString{String: c.Expires.UTC().Format(timeLayout), Valid: true}
		}

		path := c.Path
		if path == "" {
			path = "/"
		}

		_, err := tx.ExecContext(ctx, upsert,
			host,
			c.Name,
			c.Value,
			path,
			c.Domain,
			expires,
			boolToInt(c.Secure),
			boolToInt(c.HttpOnly),
			formatTime(),
		)
		if err != nil {
			return fmt.Errorf("failed to save cookie %s: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cookies: %w", err)
	}
	return nil
}

// List returns every stored cookie, including expired ones, grouped by host
func (r *CookieRepo) List(ctx context.Context) (map[string][]*http.Cookie, error) {
	query := `
		SELECT host, name, value, path, domain, expires, secure, http_only
		FROM cookies
		ORDER BY host, name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list cookies: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]*http.Cookie)
	for rows.Next() {
		var host string
		c, err := scanCookie(rows, &host)
		if err != nil {
			return nil, err
		}
		out[host] = append(out[host], c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cookies: %w", err)
	}
	return out, nil
}

// Clear removes every stored cookie
func (r *CookieRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM cookies"); err != nil {
		return fmt.Errorf("failed to clear cookies: %w", err)
	}
	return nil
}

// scanCookie reads one row; leading destinations (e.g. host) are scanned first
func scanCookie(rows *sql.Rows, leading ...any) (*http.Cookie, error) {
	c := &http.Cookie{}
	var expires sql.NullString
	var secure, httpOnly int

	dest := append(leading, &c.Name, &c.Value, &c.Path, &c.Domain, &expires, &secure, &httpOnly)
	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("failed to scan cookie: %w", err)
	}

	if expires.Valid && expires.String != "" {
		t, err := parseTime(expires.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse expires: %w", err)
		}
		c.Expires = t
	}
	c.Secure = secure == 1
	c.HttpOnly = httpOnly == 1
	return c, nil
}
