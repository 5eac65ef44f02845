// Package remote talks to a self-hosted journal API and pushes local
// changes to it in the background.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tableflip.dev/journal/pkg/entry"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("remote: http %d", e.Code)
	}
	return fmt.Sprintf("remote: http %d: %s", e.Code, body)
}

// Client is an API client. The zero value is not usable, use New.
type Client struct {
	base  string
	http  *http.Client
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client, which times out after 30s.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sends the admin password as a bearer token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New returns a client for the server rooted at baseURL. The API lives
// under baseURL/api.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimSuffix(baseURL, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) url(endpoint string, q url.Values) string {
	u := c.base + "/api/" + strings.TrimPrefix(endpoint, "/")
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (c *Client) do(ctx context.Context, method, u string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("remote: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("remote: %s %s: %w", method, u, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("remote: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Body: string(b)}
	}
	switch v := out.(type) {
	case nil:
		return nil
	case *[]byte:
		*v = b
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("remote: decode response: %w", err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("remote: encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, c.url(endpoint, nil), bytes.NewReader(b), "application/json", out)
}

// Status is the server status payload.
type Status struct {
	Status  string `json:"status"`
	Type    string `json:"type,omitempty"`
	Version string `json:"version,omitempty"`
}

// Online reports whether the server answered as online.
func (s Status) Online() bool {
	return s.Status == "online"
}

// Status asks the server whether it is online.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var s Status
	if err := c.do(ctx, http.MethodGet, c.url("status", nil), nil, "", &s); err != nil {
		return Status{}, err
	}
	return s, nil
}

// Load fetches the journal. A body that is not a JSON object yields nil
// data and no error.
func (c *Client) Load(ctx context.Context) (*entry.AppData, error) {
	var raw []byte
	if err := c.do(ctx, http.MethodGet, c.url("data", nil), nil, "", &raw); err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return nil, nil
	}
	var data entry.AppData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("remote: decode data: %w", err)
	}
	return &data, nil
}

type actionRequest struct {
	Action   string `json:"action"`
	Filename string `json:"filename,omitempty"`
}

type result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func (r result) err() error {
	if r.Error != "" {
		return fmt.Errorf("remote: %s", r.Error)
	}
	return nil
}

// Save replaces the server copy with data.
func (c *Client) Save(ctx context.Context, data entry.AppData) error {
	body := struct {
		Action string `json:"action"`
		entry.AppData
	}{Action: "save", AppData: data}

	var r result
	if err := c.postJSON(ctx, "data", body, &r); err != nil {
		return err
	}
	return r.err()
}

// Backup is one server-side snapshot.
type Backup struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Date     int64  `json:"date"`
}

// Backups lists the server snapshots, newest first.
func (c *Client) Backups(ctx context.Context) ([]Backup, error) {
	var out struct {
		Backups []Backup `json:"backups"`
	}
	q := url.Values{"action": {"list_backups"}}
	if err := c.do(ctx, http.MethodGet, c.url("data", q), nil, "", &out); err != nil {
		return nil, err
	}
	return out.Backups, nil
}

// CreateBackup snapshots the server copy.
func (c *Client) CreateBackup(ctx context.Context) error {
	var r result
	if err := c.postJSON(ctx, "data", actionRequest{Action: "backup"}, &r); err != nil {
		return err
	}
	return r.err()
}

// Restore replaces the server copy with the named snapshot.
func (c *Client) Restore(ctx context.Context, filename string) error {
	var r result
	if err := c.postJSON(ctx, "data", actionRequest{Action: "restore", Filename: filename}, &r); err != nil {
		return err
	}
	return r.err()
}

// Reset clears the server copy.
func (c *Client) Reset(ctx context.Context) error {
	var r result
	if err := c.postJSON(ctx, "data", actionRequest{Action: "reset"}, &r); err != nil {
		return err
	}
	return r.err()
}

// Upload sends an image and returns its server-relative url.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("remote: create form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("remote: read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("remote: close form: %w", err)
	}

	var out struct {
		URL   string `json:"url"`
		Error string `json:"error"`
	}
	if err := c.do(ctx, http.MethodPost, c.url("upload", nil), &buf, mw.FormDataContentType(), &out); err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", fmt.Errorf("remote: upload: %s", out.Error)
	}
	return out.URL, nil
}
