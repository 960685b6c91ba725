package session

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
)

type memCookieRepo struct {
	byHost  map[string][]*http.Cookie
	saveErr error
	saves   int
}

func (m *memCookieRepo) Load(ctx context.Context, host string) ([]*http.Cookie, error) {
	return m.byHost[host], nil
}
func (m *memCookieRepo) Save(ctx context.Context, host string, cookies []*http.Cookie) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.byHost[host] = append(m.byHost[host], cookies...)
	return nil
}
func (m *memCookieRepo) List(ctx context.Context) (map[string][]*http.Cookie, error) {
	return m.byHost, nil
}
func (m *memCookieRepo) Clear(ctx context.Context) error {
	m.byHost = map[string][]*http.Cookie{}
	return nil
}

func mustURL(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestNewJar_RestoresStoredCookies(t *testing.T) {
	base := mustURL(t, "http://127.0.0.1:8000/")
	repo := &memCookieRepo{byHost: map[string][]*http.Cookie{
		"127.0.0.1:8000": {{Name: "csrftoken", Value: "abc", Path: "/"}},
	}}

	jar, err := NewJar(context.Background(), repo, base, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cookies := jar.Cookies(mustURL(t, "http://127.0.0.1:8000/invoice/"))
	if len(cookies) != 1 || cookies[0].Value != "abc" {
		t.Fatalf("expected restored csrftoken, got %+v", cookies)
	}
}

func TestJar_SetCookiesPersists(t *testing.T) {
	base := mustURL(t, "http://127.0.0.1:8000/")
	repo := &memCookieRepo{byHost: map[string][]*http.Cookie{}}

	jar, err := NewJar(context.Background(), repo, base, nil)
	if err != nil {
		t.Fatal(err)
	}

	jar.SetCookies(base, []*http.Cookie{{Name: "sessionid", Value: "s1", Path: "/"}})
	if got := repo.byHost["127.0.0.1:8000"]; len(got) != 1 || got[0].Name != "sessionid" {
		t.Fatalf("expected sessionid persisted, got %+v", got)
	}

	// nothing to persist
	jar.SetCookies(base, nil)
	if repo.saves != 1 {
		t.Fatalf("expected a single save, got %d", repo.saves)
	}
}

func TestJar_PersistFailureKeepsInMemoryCookie(t *testing.T) {
	base := mustURL(t, "http://127.0.0.1:8000/")
	repo := &memCookieRepo{byHost: map[string][]*http.Cookie{}, saveErr: errors.New("disk full")}

	jar, err := NewJar(context.Background(), repo, base, nil)
	if err != nil {
		t.Fatal(err)
	}
	jar.SetCookies(base, []*http.Cookie{{Name: "csrftoken", Value: "x", Path: "/"}})

	if len(jar.Cookies(base)) != 1 {
		t.Fatalf("expected cookie to stay usable in memory")
	}
	if err := jar.Set(context.Background(), base, "sessionid", "y"); err == nil {
		t.Fatalf("expected Set to report the persistence failure")
	}
}
