// Package doi resolves DOIs against the CrossRef works API and normalizes the
// response into publication fields.
package doi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"acadrepo/internal/apperror"
)

const maxResponseBytes = 4 << 20

// ErrNotFound is the only failure Lookup reports; transport errors, non-2xx
// statuses and malformed payloads all collapse into it.
var ErrNotFound = apperror.New(apperror.KindNotFound, "DOI not found or invalid")

// Metadata is a normalized bibliographic record.
type Metadata struct {
	Title           string   `json:"title"`
	Authors         []string `json:"authors"`
	Journal         string   `json:"journal"`
	PublicationYear *int     `json:"publication_year"`
	Abstract        string   `json:"abstract"`
	URL             string   `json:"url"`
}

// Config configures the registry client.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client talks to a CrossRef-compatible registry.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewClient returns a Client with a bounded timeout and a traced transport.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Lookup fetches and normalizes the work identified by id.
func (c *Client) Lookup(ctx context.Context, id string) (*Metadata, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/works/"+escapeDOI(id), nil)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindNotFound, err, ErrNotFound.Message())
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindNotFound, err, ErrNotFound.Message())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.Wrap(apperror.KindNotFound,
			fmt.Errorf("registry returned status %d", resp.StatusCode), ErrNotFound.Message())
	}

	var payload workResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return nil, apperror.Wrap(apperror.KindNotFound, err, ErrNotFound.Message())
	}
	if payload.Message == nil {
		return nil, apperror.Wrap(apperror.KindNotFound,
			fmt.Errorf("registry payload has no message"), ErrNotFound.Message())
	}
	return Normalize(payload.Message), nil
}

// escapeDOI escapes each path segment while keeping the prefix/suffix slash.
func escapeDOI(id string) string {
	parts := strings.Split(id, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

type workResponse struct {
	Message *Work `json:"message"`
}

// Work is the subset of a CrossRef work we read.
type Work struct {
	Title           []string  `json:"title"`
	Author          []Author  `json:"author"`
	ContainerTitle  []string  `json:"container-title"`
	PublishedPrint  *DateInfo `json:"published-print"`
	PublishedOnline *DateInfo `json:"published-online"`
	Abstract        string    `json:"abstract"`
	URL             string    `json:"URL"`
}

type Author struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

type DateInfo struct {
	DateParts [][]*int `json:"date-parts"`
}

func (d *DateInfo) year() *int {
	if d == nil || len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return nil
	}
	y := d.DateParts[0][0]
	if y == nil || *y == 0 {
		return nil
	}
	v := *y
	return &v
}

// Normalize converts a registry work into Metadata.
func Normalize(w *Work) *Metadata {
	m := &Metadata{
		Title:    first(w.Title),
		Authors:  make([]string, 0, len(w.Author)),
		Journal:  first(w.ContainerTitle),
		Abstract: w.Abstract,
		URL:      w.URL,
	}
	for _, a := range w.Author {
		name := strings.TrimSpace(strings.TrimSpace(a.Given) + " " + strings.TrimSpace(a.Family))
		if name != "" {
			m.Authors = append(m.Authors, name)
		}
	}
	m.PublicationYear = w.PublishedPrint.year()
	if m.PublicationYear == nil {
		m.PublicationYear = w.PublishedOnline.year()
	}
	return m
}

func first(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[0]
}
