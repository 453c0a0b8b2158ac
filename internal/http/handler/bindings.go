package handler

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"acadrepo/internal/model"
)

// binding turns requests into records, patches and filters for one kind.
type binding[R model.Record] struct {
	// fromForm builds a new record from multipart/urlencoded text fields.
	fromForm func(c *fiber.Ctx, v *validator.Validate) (R, error)
	// patch decodes a JSON body into a function that overwrites supplied fields.
	patch func(c *fiber.Ctx, v *validator.Validate) (func(R) error, error)
	// filter reads the list filters from the query string.
	filter func(c *fiber.Ctx) (model.Filter, error)
}

type productForm struct {
	Title           string `form:"title" validate:"required"`
	Authors         string `form:"authors" validate:"required"`
	Abstract        string `form:"abstract" validate:"required"`
	ProductType     string `form:"product_type" validate:"required"`
	DOI             string `form:"doi"`
	PublicationYear string `form:"publication_year" validate:"omitempty,number"`
	Journal         string `form:"journal"`
	Keywords        string `form:"keywords"`
	URL             string `form:"url"`
}

type productPatch struct {
	Title           *string   `json:"title" validate:"omitempty,min=1"`
	Authors         *[]string `json:"authors"`
	Abstract        *string   `json:"abstract"`
	ProductType     *string   `json:"product_type" validate:"omitempty,min=1"`
	DOI             *string   `json:"doi"`
	PublicationYear *int      `json:"publication_year"`
	Journal         *string   `json:"journal"`
	Keywords        *[]string `json:"keywords"`
	URL             *string   `json:"url"`
}

type newsForm struct {
	Title    string `form:"title" validate:"required"`
	Content  string `form:"content" validate:"required"`
	Category string `form:"category" validate:"required"`
	Author   string `form:"author" validate:"required"`
}

type newsPatch struct {
	Title    *string `json:"title" validate:"omitempty,min=1"`
	Content  *string `json:"content"`
	Category *string `json:"category" validate:"omitempty,min=1"`
	Author   *string `json:"author"`
}

type ensinoForm struct {
	Title       string `form:"title" validate:"required"`
	Description string `form:"description" validate:"required"`
	Subject     string `form:"subject" validate:"required"`
	Tipo        string `form:"tipo" validate:"required"`
	VideoURL    string `form:"video_url"`
}

type ensinoPatch struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	Subject     *string `json:"subject"`
	Tipo        *string `json:"tipo" validate:"omitempty,min=1"`
	VideoURL    *string `json:"video_url"`
}

type extensaoForm struct {
	Title       string `form:"title" validate:"required"`
	Description string `form:"description" validate:"required"`
	Location    string `form:"location" validate:"required"`
	Tipo        string `form:"tipo" validate:"required"`
	EventDate   string `form:"event_date"`
	VideoURL    string `form:"video_url"`
}

type extensaoPatch struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	Tipo        *string `json:"tipo" validate:"omitempty,min=1"`
	EventDate   *string `json:"event_date"`
	VideoURL    *string `json:"video_url"`
}

var productBinding = binding[*model.Product]{
	fromForm: func(c *fiber.Ctx, v *validator.Validate) (*model.Product, error) {
		var f productForm
		if err := parseForm(c, v, &f); err != nil {
			return nil, err
		}
		authors, err := parseStringList("authors", f.Authors)
		if err != nil {
			return nil, err
		}
		keywords, err := parseStringList("keywords", f.Keywords)
		if err != nil {
			return nil, err
		}
		p := &model.Product{
			Title:       f.Title,
			Authors:     authors,
			Abstract:    f.Abstract,
			ProductType: f.ProductType,
			DOI:         optional(f.DOI),
			Journal:     optional(f.Journal),
			Keywords:    keywords,
			URL:         optional(f.URL),
		}
		if f.PublicationYear != "" {
			y, err := strconv.Atoi(f.PublicationYear)
			if err != nil {
				return nil, invalid("publication_year must be a number")
			}
			p.PublicationYear = &y
		}
		return p, nil
	},
	patch: func(c *fiber.Ctx, v *validator.Validate) (func(*model.Product) error, error) {
		var in productPatch
		if err := parseJSON(c, v, &in); err != nil {
			return nil, err
		}
		return func(p *model.Product) error {
			setString(&p.Title, in.Title)
			setString(&p.Abstract, in.Abstract)
			setString(&p.ProductType, in.ProductType)
			if in.Authors != nil {
				p.Authors = append(model.StringList{}, (*in.Authors)...)
			}
			if in.Keywords != nil {
				p.Keywords = append(model.StringList{}, (*in.Keywords)...)
			}
			if in.DOI != nil {
				p.DOI = optional(*in.DOI)
			}
			if in.Journal != nil {
				p.Journal = optional(*in.Journal)
			}
			if in.URL != nil {
				p.URL = optional(*in.URL)
			}
			if in.PublicationYear != nil {
				y := *in.PublicationYear
				p.PublicationYear = &y
			}
			return nil
		}, nil
	},
	filter: func(c *fiber.Ctx) (model.Filter, error) {
		f := model.Filter{
			Type:   strings.TrimSpace(c.Query("product_type")),
			Search: strings.TrimSpace(c.Query("search")),
			Author: strings.TrimSpace(c.Query("author")),
		}
		if raw := c.Query("year"); raw != "" {
			y, err := strconv.Atoi(raw)
			if err != nil {
				return f, invalid("invalid year")
			}
			f.Year = y
		}
		return f, nil
	},
}

var newsBinding = binding[*model.News]{
	fromForm: func(c *fiber.Ctx, v *validator.Validate) (*model.News, error) {
		var f newsForm
		if err := parseForm(c, v, &f); err != nil {
			return nil, err
		}
		return &model.News{
			Title:    f.Title,
			Content:  f.Content,
			Category: f.Category,
			Author:   f.Author,
		}, nil
	},
	patch: func(c *fiber.Ctx, v *validator.Validate) (func(*model.News) error, error) {
		var in newsPatch
		if err := parseJSON(c, v, &in); err != nil {
			return nil, err
		}
		return func(n *model.News) error {
			setString(&n.Title, in.Title)
			setString(&n.Content, in.Content)
			setString(&n.Category, in.Category)
			setString(&n.Author, in.Author)
			return nil
		}, nil
	},
	filter: func(c *fiber.Ctx) (model.Filter, error) {
		return model.Filter{
			Type:   strings.TrimSpace(c.Query("category")),
			Search: strings.TrimSpace(c.Query("search")),
		}, nil
	},
}

var ensinoBinding = binding[*model.Ensino]{
	fromForm: func(c *fiber.Ctx, v *validator.Validate) (*model.Ensino, error) {
		var f ensinoForm
		if err := parseForm(c, v, &f); err != nil {
			return nil, err
		}
		return &model.Ensino{
			Title:       f.Title,
			Description: f.Description,
			Subject:     f.Subject,
			Tipo:        f.Tipo,
			VideoURL:    optional(f.VideoURL),
		}, nil
	},
	patch: func(c *fiber.Ctx, v *validator.Validate) (func(*model.Ensino) error, error) {
		var in ensinoPatch
		if err := parseJSON(c, v, &in); err != nil {
			return nil, err
		}
		return func(e *model.Ensino) error {
			setString(&e.Title, in.Title)
			setString(&e.Description, in.Description)
			setString(&e.Subject, in.Subject)
			setString(&e.Tipo, in.Tipo)
			if in.VideoURL != nil {
				e.VideoURL = optional(*in.VideoURL)
			}
			return nil
		}, nil
	},
	filter: tipoFilter,
}

var extensaoBinding = binding[*model.Extensao]{
	fromForm: func(c *fiber.Ctx, v *validator.Validate) (*model.Extensao, error) {
		var f extensaoForm
		if err := parseForm(c, v, &f); err != nil {
			return nil, err
		}
		e := &model.Extensao{
			Title:       f.Title,
			Description: f.Description,
			Location:    f.Location,
			Tipo:        f.Tipo,
			VideoURL:    optional(f.VideoURL),
		}
		if f.EventDate != "" {
			d, err := parseEventDate(f.EventDate)
			if err != nil {
				return nil, err
			}
			e.EventDate = &d
		}
		return e, nil
	},
	patch: func(c *fiber.Ctx, v *validator.Validate) (func(*model.Extensao) error, error) {
		var in extensaoPatch
		if err := parseJSON(c, v, &in); err != nil {
			return nil, err
		}
		var date *time.Time
		if in.EventDate != nil && *in.EventDate != "" {
			d, err := parseEventDate(*in.EventDate)
			if err != nil {
				return nil, err
			}
			date = &d
		}
		return func(e *model.Extensao) error {
			setString(&e.Title, in.Title)
			setString(&e.Description, in.Description)
			setString(&e.Location, in.Location)
			setString(&e.Tipo, in.Tipo)
			if in.EventDate != nil {
				e.EventDate = date
			}
			if in.VideoURL != nil {
				e.VideoURL = optional(*in.VideoURL)
			}
			return nil
		}, nil
	},
	filter: tipoFilter,
}

func tipoFilter(c *fiber.Ctx) (model.Filter, error) {
	return model.Filter{
		Type:   strings.TrimSpace(c.Query("tipo")),
		Search: strings.TrimSpace(c.Query("search")),
	}, nil
}

func parseForm(c *fiber.Ctx, v *validator.Validate, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return invalid("invalid form body")
	}
	return validateStruct(v, dst)
}

func parseJSON(c *fiber.Ctx, v *validator.Validate, dst any) error {
	body := c.Body()
	if len(body) == 0 {
		return invalid("request body is required")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return invalid("invalid JSON body")
	}
	return validateStruct(v, dst)
}

// parseStringList decodes a JSON array sent as a single form field. An empty
// value yields an empty list.
func parseStringList(field, raw string) (model.StringList, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.StringList{}, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, invalid(field + " must be a JSON array of strings")
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

var eventDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseEventDate accepts RFC3339 or YYYY-MM-DD[THH:MM[:SS]]; zone-less values are UTC.
func parseEventDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, invalid("invalid event_date format")
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// page reads skip/limit; bounds are clamped by the service.
func page(c *fiber.Ctx) (limit, offset int, err error) {
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return 0, 0, invalid("invalid limit")
		}
	}
	if raw := c.Query("skip"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, invalid("invalid skip")
		}
	}
	return limit, offset, nil
}
