package model

import "time"

// Extensao is an outreach activity (social project, event, workshop, talk).
type Extensao struct {
	Meta
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Location     string     `json:"location"`
	Tipo         string     `json:"tipo"`
	EventDate    *time.Time `json:"event_date"`
	VideoURL     *string    `json:"video_url"`
	MaterialFile string     `json:"file,omitempty"`
	ImageFile    string     `json:"image_file,omitempty"`
}

var _ Record = (*Extensao)(nil)

func (e *Extensao) Base() *Meta { return &e.Meta }

func (e *Extensao) Slot(role Role) *string {
	switch role {
	case RoleMaterial:
		return &e.MaterialFile
	case RoleImage:
		return &e.ImageFile
	}
	return nil
}

func (e *Extensao) Count(Counter) *int64 { return nil }

func (e *Extensao) Subtype() string { return e.Tipo }

func (e *Extensao) Heading() string { return e.Title }

func (e *Extensao) Matches(f Filter) bool {
	if f.Type != "" && e.Tipo != f.Type {
		return false
	}
	if f.Search != "" &&
		!containsFold(e.Title, f.Search) &&
		!containsFold(e.Description, f.Search) &&
		!containsFold(e.Location, f.Search) {
		return false
	}
	return true
}

func (e *Extensao) Clone() *Extensao {
	c := *e
	c.VideoURL = cloneString(e.VideoURL)
	if e.EventDate != nil {
		d := *e.EventDate
		c.EventDate = &d
	}
	return &c
}
