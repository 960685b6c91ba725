package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"

	"github.com/andy/invoicedesk/internal/domain"
	"github.com/andy/invoicedesk/internal/logging"
)

const (
	invoicesPath = "invoice/"
	itemsPath    = "invoice-details/"
	pdfPath      = "invoice-pdf/"

	requestIDHeader = "X-Request-ID"
)

// Client talks to the invoice REST server.
// Requests are never retried and carry no timeout of their own.
type Client struct {
	base       *url.URL
	http       *http.Client
	csrfCookie string
	csrfHeader string
	log        *zap.Logger
	requestID  func() string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Its Jar is kept if set.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger used for request/response lines
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithCSRF overrides the CSRF cookie and header names
func WithCSRF(cookie, header string) Option {
	return func(c *Client) {
		if cookie != "" {
			c.csrfCookie = cookie
		}
		if header != "" {
			c.csrfHeader = header
		}
	}
}

// New creates a Client for baseURL. A nil jar gets an in-memory one.
func New(baseURL string, jar http.CookieJar, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", baseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	if jar == nil {
		jar, err = cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
	}

	c := &Client{
		base:       base,
		http:       &http.Client{},
		csrfCookie: "csrftoken",
		csrfHeader: "X-CSRFToken",
		log:        zap.NewNop(),
		requestID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Jar == nil {
		c.http.Jar = jar
	}

	return c, nil
}

// BaseURL returns the server root
func (c *Client) BaseURL() *url.URL {
	u := *c.base
	return &u
}

// ListInvoices returns every invoice. A non-array payload yields an empty list.
func (c *Client) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, invoicesPath, nil, nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[domain.Invoice](raw)
}

// GetInvoice fetches a single invoice
func (c *Client) GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error) {
	var inv domain.Invoice
	if err := c.do(ctx, http.MethodGet, invoicePath(id), nil, nil, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// CreateInvoice posts a new invoice and returns what the server echoed back
func (c *Client) CreateInvoice(ctx context.Context, in domain.InvoiceInput) (*domain.Invoice, error) {
	var inv domain.Invoice
	if err := c.do(ctx, http.MethodPost, invoicesPath, nil, in, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// UpdateInvoice replaces customer and date of an invoice
func (c *Client) UpdateInvoice(ctx context.Context, id int64, in domain.InvoiceInput) (*domain.Invoice, error) {
	var inv domain.Invoice
	if err := c.do(ctx, http.MethodPut, invoicePath(id), nil, in, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// DeleteInvoice removes an invoice and, server-side, its items
func (c *Client) DeleteInvoice(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, invoicePath(id), nil, nil, nil)
}

// ListItems returns the items of one invoice.
// Items reported for a different invoice are dropped in case the server ignores the filter.
func (c *Client) ListItems(ctx context.Context, invoiceID int64) ([]domain.InvoiceItem, error) {
	q := url.Values{}
	q.Set("invoice", strconv.FormatInt(invoiceID, 10))

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, itemsPath, q, nil, &raw); err != nil {
		return nil, err
	}
	items, err := decodeList[domain.InvoiceItem](raw)
	if err != nil {
		return nil, err
	}

	filtered := items[:0]
	for _, it := range items {
		if it.InvoiceID == 0 || it.InvoiceID == invoiceID {
			filtered = append(filtered, it)
		}
	}
	return filtered, nil
}

// CreateItem adds a line item to an invoice
func (c *Client) CreateItem(ctx context.Context, in domain.ItemInput) (*domain.InvoiceItem, error) {
	var it domain.InvoiceItem
	if err := c.do(ctx, http.MethodPost, itemsPath, nil, in, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// DeleteItem removes a single line item
func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, itemsPath+strconv.FormatInt(id, 10)+"/", nil, nil, nil)
}

// PDFURL is the server page that renders an invoice as PDF
func (c *Client) PDFURL(id int64) string {
	return c.base.JoinPath(pdfPath + strconv.FormatInt(id, 10) + "/").String()
}

// DownloadPDF streams the rendered PDF into w
func (c *Client) DownloadPDF(ctx context.Context, id int64, w io.Writer) (int64, error) {
	u := c.PDFURL(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/pdf")
	req.Header.Set(requestIDHeader, c.requestID())

	resp, err := c.send(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return 0, newError(resp.StatusCode, body)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to read PDF: %w", err)
	}
	return n, nil
}

// CSRFToken returns the current CSRF cookie value, or ""
func (c *Client) CSRFToken() string {
	if c.http.Jar == nil {
		return ""
	}
	for _, ck := range c.http.Jar.Cookies(c.base) {
		if ck.Name == c.csrfCookie {
			return ck.Value
		}
	}
	return ""
}

// ensureCSRF loads the site root once so the server can issue a CSRF cookie,
// the way a browser gets one when it first loads the page.
func (c *Client) ensureCSRF(ctx context.Context) string {
	if token := c.CSRFToken(); token != "" {
		return token
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base.String(), nil)
	if err != nil {
		return ""
	}
	req.Header.Set(requestIDHeader, c.requestID())
	resp, err := c.send(req)
	if err != nil {
		c.log.Warn("csrf priming request failed", zap.Error(err))
		return ""
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	return c.CSRFToken()
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.base.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, c.requestID())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet && method != http.MethodHead {
		if token := c.ensureCSRF(ctx); token != "" {
			req.Header.Set(c.csrfHeader, token)
		}
	}

	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Debug("error body", zap.String("body", trimBody(data)))
		return newError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		// Success responses with an unexpected body are treated as empty
		c.log.Warn("unexpected response body",
			zap.String("method", method),
			zap.String("path", u.Path),
			zap.Error(err),
		)
	}
	return nil
}

// send performs the round trip and logs it
func (c *Client) send(req *http.Request) (*http.Response, error) {
	start := time.Now()
	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.String("request_id", req.Header.Get(requestIDHeader)),
	}
	c.log.Debug("request", append(fields, zap.Any("headers", logging.MaskHeaders(req.Header)))...)

	resp, err := c.http.Do(req)
	fields = append(fields, zap.Duration("duration", time.Since(start)))
	if err != nil {
		c.log.Warn("request failed", append(fields, zap.Error(err))...)
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}

	c.log.Info("response", append(fields, zap.Int("status", resp.StatusCode))...)
	return resp, nil
}

func invoicePath(id int64) string {
	return invoicesPath + strconv.FormatInt(id, 10) + "/"
}

// decodeList decodes a JSON array, treating any other shape as empty
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}
