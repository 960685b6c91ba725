package session

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"

	"github.com/andy/invoicedesk/internal/logging"
	"github.com/andy/invoicedesk/internal/repository"
)

// Jar is an http.CookieJar that writes every cookie the server sets through
// to a CookieRepository, so the session and CSRF token survive restarts.
type Jar struct {
	inner *cookiejar.Jar
	repo  repository.CookieRepository
	log   *zap.Logger
}

// NewJar creates a jar and seeds it with the cookies stored for base
func NewJar(ctx context.Context, repo repository.CookieRepository, base *url.URL, log *zap.Logger) (*Jar, error) {
	inner, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	stored, err := repo.Load(ctx, base.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to load stored cookies: %w", err)
	}
	inner.SetCookies(base, stored)
	log.Debug("session restored", zap.String("host", base.Host), zap.Int("cookies", len(stored)))

	return &Jar{inner: inner, repo: repo, log: log}, nil
}

// SetCookies implements http.CookieJar
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.inner.SetCookies(u, cookies)
	if len(cookies) == 0 {
		return
	}
	pairs := make([]string, 0, len(cookies))
	for _, c := range cookies {
		pairs = append(pairs, c.Name+"="+c.Value)
	}
	j.log.Debug("cookies received",
		zap.String("host", u.Host),
		zap.String("cookies", logging.MaskCookie(strings.Join(pairs, "; "))),
	)

	// CookieJar has no context; persistence is best-effort
	if err := j.repo.Save(context.Background(), u.Host, cookies); err != nil {
		j.log.Warn("failed to persist cookies", zap.String("host", u.Host), zap.Error(err))
	}
}

// Cookies implements http.CookieJar
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	return j.inner.Cookies(u)
}

// Set stores a single cookie by hand, e.g. a session id copied from a browser
func (j *Jar) Set(ctx context.Context, u *url.URL, name, value string) error {
	c := &http.Cookie{Name: name, Value: value, Path: "/"}
	j.inner.SetCookies(u, []*http.Cookie{c})
	if err := j.repo.Save(ctx, u.Host, []*http.Cookie{c}); err != nil {
		return fmt.Errorf("failed to save cookie %s: %w", name, err)
	}
	return nil
}
