package repository

import (
	"context"
	"net/http"
)

// CookieRepository persists cookies issued by the invoice server
type CookieRepository interface {
	// Load returns the unexpired cookies stored for host
	Load(ctx context.Context, host string) ([]*http.Cookie, error)
	// Save upserts cookies for host; a cookie with MaxAge < 0 is removed
	Save(ctx context.Context, host string, cookies []*http.Cookie) error
	// List returns every stored cookie grouped by host
	List(ctx context.Context) (map[string][]*http.Cookie, error)
	// Clear removes all stored cookies
	Clear(ctx context.Context) error
}
