package model

// Ensino is a courseware item (slides, recorded class, exercises, ...).
type Ensino struct {
	Meta
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Subject      string  `json:"subject"`
	Tipo         string  `json:"tipo"`
	VideoURL     *string `json:"video_url"`
	MaterialFile string  `json:"file,omitempty"`
	ImageFile    string  `json:"image_file,omitempty"`
}

var _ Record = (*Ensino)(nil)

func (e *Ensino) Base() *Meta { return &e.Meta }

func (e *Ensino) Slot(role Role) *string {
	switch role {
	case RoleMaterial:
		return &e.MaterialFile
	case RoleImage:
		return &e.ImageFile
	}
	return nil
}

func (e *Ensino) Count(Counter) *int64 { return nil }

func (e *Ensino) Subtype() string { return e.Tipo }

func (e *Ensino) Heading() string { return e.Title }

func (e *Ensino) Matches(f Filter) bool {
	if f.Type != "" && e.Tipo != f.Type {
		return false
	}
	if f.Search != "" &&
		!containsFold(e.Title, f.Search) &&
		!containsFold(e.Description, f.Search) &&
		!containsFold(e.Subject, f.Search) {
		return false
	}
	return true
}

func (e *Ensino) Clone() *Ensino {
	c := *e
	c.VideoURL = cloneString(e.VideoURL)
	return &c
}
