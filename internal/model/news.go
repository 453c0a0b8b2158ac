package model

// News is a portal news post.
type News struct {
	Meta
	Title     string `json:"title"`
	Content   string `json:"content"`
	Category  string `json:"category"`
	Author    string `json:"author"`
	ImageFile string `json:"image_file,omitempty"`
}

var _ Record = (*News)(nil)

func (n *News) Base() *Meta { return &n.Meta }

func (n *News) Slot(role Role) *string {
	if role == RoleImage {
		return &n.ImageFile
	}
	return nil
}

func (n *News) Count(Counter) *int64 { return nil }

func (n *News) Subtype() string { return n.Category }

func (n *News) Heading() string { return n.Title }

func (n *News) Matches(f Filter) bool {
	if f.Type != "" && n.Category != f.Type {
		return false
	}
	if f.Author != "" && !containsFold(n.Author, f.Author) {
		return false
	}
	if f.Search != "" && !containsFold(n.Title, f.Search) && !containsFold(n.Content, f.Search) {
		return false
	}
	return true
}

func (n *News) Clone() *News {
	c := *n
	return &c
}
