package model

import "strings"

// Product is a publication record (article, book, project, videocast, ...).
type Product struct {
	Meta
	Title           string     `json:"title"`
	Authors         StringList `json:"authors"`
	Abstract        string     `json:"abstract"`
	ProductType     string     `json:"product_type"`
	DOI             *string    `json:"doi"`
	PublicationYear *int       `json:"publication_year"`
	Journal         *string    `json:"journal"`
	Keywords        StringList `json:"keywords"`
	URL             *string    `json:"url"`
	DocumentFile    string     `json:"document_file,omitempty"`
	AudioFile       string     `json:"audio_file,omitempty"`
	ViewCount       int64      `json:"view_count"`
	DownloadCount   int64      `json:"download_count"`
}

var _ Record = (*Product)(nil)

func (p *Product) Base() *Meta { return &p.Meta }

func (p *Product) Slot(role Role) *string {
	switch role {
	case RoleDocument:
		return &p.DocumentFile
	case RoleAudio:
		return &p.AudioFile
	}
	return nil
}

func (p *Product) Count(c Counter) *int64 {
	switch c {
	case CounterViews:
		return &p.ViewCount
	case CounterDownloads:
		return &p.DownloadCount
	}
	return nil
}

func (p *Product) Subtype() string { return p.ProductType }

func (p *Product) Heading() string { return p.Title }

func (p *Product) Matches(f Filter) bool {
	if f.Type != "" && p.ProductType != f.Type {
		return false
	}
	if f.Year != 0 && (p.PublicationYear == nil || *p.PublicationYear != f.Year) {
		return false
	}
	if f.Author != "" && !anyContains(p.Authors, f.Author) {
		return false
	}
	if f.Search != "" &&
		!containsFold(p.Title, f.Search) &&
		!containsFold(p.Abstract, f.Search) &&
		!anyContains(p.Keywords, f.Search) {
		return false
	}
	return true
}

// Clone returns a deep copy.
func (p *Product) Clone() *Product {
	c := *p
	c.Authors = append(StringList{}, p.Authors...)
	c.Keywords = append(StringList{}, p.Keywords...)
	c.DOI = cloneString(p.DOI)
	c.Journal = cloneString(p.Journal)
	c.URL = cloneString(p.URL)
	if p.PublicationYear != nil {
		y := *p.PublicationYear
		c.PublicationYear = &y
	}
	return &c
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func anyContains(list []string, sub string) bool {
	for _, s := range list {
		if containsFold(s, sub) {
			return true
		}
	}
	return false
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
