package postgres

import "acadrepo/internal/model"

// ProductTable maps model.Product onto the products table.
var ProductTable = Table[*model.Product]{
	Name: "products",
	Columns: []string{
		"title", "authors", "abstract", "product_type", "doi",
		"publication_year", "journal", "keywords", "url",
	},
	Slots: []SlotColumn{
		{Role: model.RoleDocument, Column: "document_file"},
		{Role: model.RoleAudio, Column: "audio_file"},
	},
	Counters: []model.Counter{model.CounterViews, model.CounterDownloads},
	New:      func() *model.Product { return &model.Product{} },
	Values: func(p *model.Product) []any {
		return []any{p.Title, p.Authors, p.Abstract, p.ProductType, p.DOI,
			p.PublicationYear, p.Journal, p.Keywords, p.URL}
	},
	Targets: func(p *model.Product) []any {
		return []any{&p.Title, &p.Authors, &p.Abstract, &p.ProductType, &p.DOI,
			&p.PublicationYear, &p.Journal, &p.Keywords, &p.URL}
	},
	TitleColumn: "title",
	TypeColumn:  "product_type",
	SearchExprs: []string{"title", "abstract", "keywords::text"},
	AuthorMatch: "EXISTS (SELECT 1 FROM jsonb_array_elements_text(authors) AS a(name) WHERE a.name ILIKE $%d)",
	YearColumn:  "publication_year",
}

// NewsTable maps model.News onto the news table.
var NewsTable = Table[*model.News]{
	Name:    "news",
	Columns: []string{"title", "content", "category", "author"},
	Slots:   []SlotColumn{{Role: model.RoleImage, Column: "image_file"}},
	New:     func() *model.News { return &model.News{} },
	Values: func(n *model.News) []any {
		return []any{n.Title, n.Content, n.Category, n.Author}
	},
	Targets: func(n *model.News) []any {
		return []any{&n.Title, &n.Content, &n.Category, &n.Author}
	},
	TitleColumn: "title",
	TypeColumn:  "category",
	SearchExprs: []string{"title", "content"},
	AuthorMatch: "author ILIKE $%d",
}

// EnsinoTable maps model.Ensino onto the ensino table.
var EnsinoTable = Table[*model.Ensino]{
	Name:    "ensino",
	Columns: []string{"title", "description", "subject", "tipo", "video_url"},
	Slots: []SlotColumn{
		{Role: model.RoleMaterial, Column: "material_file"},
		{Role: model.RoleImage, Column: "image_file"},
	},
	New: func() *model.Ensino { return &model.Ensino{} },
	Values: func(e *model.Ensino) []any {
		return []any{e.Title, e.Description, e.Subject, e.Tipo, e.VideoURL}
	},
	Targets: func(e *model.Ensino) []any {
		return []any{&e.Title, &e.Description, &e.Subject, &e.Tipo, &e.VideoURL}
	},
	TitleColumn: "title",
	TypeColumn:  "tipo",
	SearchExprs: []string{"title", "description", "subject"},
}

// ExtensaoTable maps model.Extensao onto the extensao table.
var ExtensaoTable = Table[*model.Extensao]{
	Name:    "extensao",
	Columns: []string{"title", "description", "location", "tipo", "event_date", "video_url"},
	Slots: []SlotColumn{
		{Role: model.RoleMaterial, Column: "material_file"},
		{Role: model.RoleImage, Column: "image_file"},
	},
	New: func() *model.Extensao { return &model.Extensao{} },
	Values: func(e *model.Extensao) []any {
		return []any{e.Title, e.Description, e.Location, e.Tipo, e.EventDate, e.VideoURL}
	},
	Targets: func(e *model.Extensao) []any {
		return []any{&e.Title, &e.Description, &e.Location, &e.Tipo, &e.EventDate, &e.VideoURL}
	},
	TitleColumn: "title",
	TypeColumn:  "tipo",
	SearchExprs: []string{"title", "description", "location"},
}
