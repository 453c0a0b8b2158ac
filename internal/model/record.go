package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Kind identifies one of the record collections. The value doubles as the URL
// segment and the table name.
type Kind string

const (
	KindProduct  Kind = "products"
	KindNews     Kind = "news"
	KindEnsino   Kind = "ensino"
	KindExtensao Kind = "extensao"
)

// Role names an attachment slot on a record.
type Role string

const (
	RoleDocument Role = "document"
	RoleAudio    Role = "audio"
	RoleImage    Role = "image"
	RoleMaterial Role = "material"
)

// Counter names a monotonically increasing per-record counter.
type Counter string

const (
	CounterViews     Counter = "view_count"
	CounterDownloads Counter = "download_count"
)

// Meta holds the fields every record kind carries.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Record is implemented by the pointer types of every record kind so that one
// generic content engine can manage them.
type Record interface {
	// Base returns the common fields for in-place mutation.
	Base() *Meta
	// Slot returns the stored filename field for role, or nil when the kind has no such slot.
	Slot(role Role) *string
	// Count returns the counter field, or nil when the kind does not track it.
	Count(c Counter) *int64
	// Subtype is the enumerated type used for stats breakdowns.
	Subtype() string
	// Heading is the display title.
	Heading() string
	// Matches reports whether the record passes the list filter.
	Matches(f Filter) bool
}

// Filter carries the list filters. Zero values are ignored; each kind decides
// which of them apply.
type Filter struct {
	Search string
	Type   string
	Author string
	Year   int
}

// RecentItem is the short form of a record used by the stats rollup.
type RecentItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// KindSummary is the per-collection part of a stats snapshot.
type KindSummary struct {
	Total  int            `json:"total"`
	ByType map[string]int `json:"by_type"`
	Recent []RecentItem   `json:"recent"`
}

// StringList is a list of strings persisted as a JSON array.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("string list: unsupported source type")
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}
