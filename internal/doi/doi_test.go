package doi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acadrepo/internal/apperror"
)

const workJSON = `{
  "status": "ok",
  "message": {
    "title": ["Everyday Life in Debate"],
    "author": [
      {"given": "Marco", "family": "Santos"},
      {"given": "", "family": ""},
      {"given": " Ana ", "family": "Lima"},
      {"family": "Collective"}
    ],
    "container-title": ["Journal of Education", "J. Educ."],
    "published-print": {"date-parts": [[2019, 5, 1]]},
    "published-online": {"date-parts": [[2018, 12]]},
    "abstract": "<jats:p>Abstract</jats:p>",
    "URL": "http://dx.doi.org/10.1000/xyz123"
  }
}`

func newServer(t *testing.T, h http.HandlerFunc) *Client {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, Timeout: time.Second, UserAgent: "test"})
}

func TestLookup_Success(t *testing.T) {
	var gotPath, gotAccept string
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(workJSON))
	})

	m, err := c.Lookup(context.Background(), "10.1000/xyz123")
	require.NoError(t, err)

	assert.Equal(t, "/works/10.1000/xyz123", gotPath)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "Everyday Life in Debate", m.Title)
	assert.Equal(t, []string{"Marco Santos", "Ana Lima", "Collective"}, m.Authors)
	assert.Equal(t, "Journal of Education", m.Journal)
	require.NotNil(t, m.PublicationYear)
	assert.Equal(t, 2019, *m.PublicationYear)
	assert.Equal(t, "http://dx.doi.org/10.1000/xyz123", m.URL)
}

func TestLookup_FailuresAreNotFound(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"404", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) }},
		{"500", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) }},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"message": [`)) }},
		{"no message", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"status":"ok"}`)) }},
		{"wrong shape", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"message":{"title":"x"}}`)) }},
		{"slow", func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(1500 * time.Millisecond)
			w.Write([]byte(workJSON))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newServer(t, tt.handler)
			m, err := c.Lookup(context.Background(), "10.1000/abc")
			assert.Nil(t, m)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
		})
	}
}

func TestLookup_UnreachableRegistry(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1", Timeout: 500 * time.Millisecond})
	_, err := c.Lookup(context.Background(), "10.1000/abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookup_EmptyIdentifier(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://unused"})
	_, err := c.Lookup(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func intp(v int) *int { return &v }

func TestNormalize_YearPreference(t *testing.T) {
	online := &DateInfo{DateParts: [][]*int{{intp(2020)}}}

	m := Normalize(&Work{PublishedOnline: online})
	require.NotNil(t, m.PublicationYear)
	assert.Equal(t, 2020, *m.PublicationYear)

	m = Normalize(&Work{PublishedPrint: &DateInfo{DateParts: [][]*int{{nil}}}, PublishedOnline: online})
	require.NotNil(t, m.PublicationYear)
	assert.Equal(t, 2020, *m.PublicationYear)

	m = Normalize(&Work{})
	assert.Nil(t, m.PublicationYear)
	assert.Empty(t, m.Title)
	assert.NotNil(t, m.Authors)
}
