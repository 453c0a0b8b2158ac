package handler

import (
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"acadrepo/internal/attachment"
	"acadrepo/internal/model"
	"acadrepo/internal/service"
)

// contentHandler serves the CRUD and attachment routes of one record kind.
type contentHandler[R model.Record] struct {
	svc      service.ContentService[R]
	bind     binding[R]
	validate *validator.Validate
}

func newContentHandler[R model.Record](svc service.ContentService[R], bind binding[R], v *validator.Validate) *contentHandler[R] {
	return &contentHandler[R]{svc: svc, bind: bind, validate: v}
}

// mount attaches the routes under /{kind}; write routes go through auth.
func (h *contentHandler[R]) mount(r fiber.Router, auth fiber.Handler) {
	g := r.Group("/" + string(h.svc.Schema().Kind))
	g.Get("/", h.list)
	g.Post("/", auth, h.create)
	g.Get("/:id", h.get)
	g.Put("/:id", auth, h.update)
	g.Delete("/:id", auth, h.delete)
	g.Get("/:id/attachments/:role", h.download)
	g.Put("/:id/attachments/:role", auth, h.replaceAttachment)
}

func (h *contentHandler[R]) list(c *fiber.Ctx) error {
	limit, offset, err := page(c)
	if err != nil {
		return err
	}
	f, err := h.bind.filter(c)
	if err != nil {
		return err
	}
	res, err := h.svc.List(c.UserContext(), f, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *contentHandler[R]) get(c *fiber.Ctx) error {
	id, err := recordID(c)
	if err != nil {
		return err
	}
	rec, err := h.svc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(rec)
}

// create accepts multipart/form-data with the kind's text fields and up to
// one file per slot under "{role}_file".
func (h *contentHandler[R]) create(c *fiber.Ctx) error {
	rec, err := h.bind.fromForm(c, h.validate)
	if err != nil {
		return err
	}
	uploads, closeAll, err := h.uploads(c)
	if err != nil {
		return err
	}
	defer closeAll()

	created, err := h.svc.Create(c.UserContext(), rec, uploads)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *contentHandler[R]) update(c *fiber.Ctx) error {
	id, err := recordID(c)
	if err != nil {
		return err
	}
	apply, err := h.bind.patch(c, h.validate)
	if err != nil {
		return err
	}
	rec, err := h.svc.Update(c.UserContext(), id, apply)
	if err != nil {
		return err
	}
	return c.JSON(rec)
}

func (h *contentHandler[R]) delete(c *fiber.Ctx) error {
	id, err := recordID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// replaceAttachment swaps the file of one slot; the part is named "file".
func (h *contentHandler[R]) replaceAttachment(c *fiber.Ctx) error {
	id, err := recordID(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil || fh.Filename == "" {
		return invalid("file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return invalid("cannot open uploaded file")
	}
	defer f.Close()

	rec, err := h.svc.ReplaceAttachment(c.UserContext(), id, attachment.Upload{
		Role:     model.Role(c.Params("role")),
		Filename: fh.Filename,
		Size:     fh.Size,
		Body:     f,
	})
	if err != nil {
		return err
	}
	return c.JSON(rec)
}

func (h *contentHandler[R]) download(c *fiber.Ctx) error {
	return h.serve(c, model.Role(c.Params("role")))
}

// downloadRole serves a fixed slot, for the legacy single-file download routes.
func (h *contentHandler[R]) downloadRole(role model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return h.serve(c, role)
	}
}

func (h *contentHandler[R]) serve(c *fiber.Ctx, role model.Role) error {
	id, err := recordID(c)
	if err != nil {
		return err
	}
	d, err := h.svc.Download(c.UserContext(), id, role)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, d.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, d.Filename))
	size := -1
	if d.Size >= 0 {
		size = int(d.Size)
	}
	// fasthttp closes the body once the response is written.
	return c.SendStream(d.Body, size)
}

// uploads collects the file parts for the kind's slots. Parts with an empty
// filename are treated as absent.
func (h *contentHandler[R]) uploads(c *fiber.Ctx) ([]attachment.Upload, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm) {
		return nil, noop, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, noop, invalid("invalid multipart body")
	}

	var (
		out    []attachment.Upload
		opened []multipart.File
	)
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}
	for _, role := range h.svc.Schema().Slots {
		fh := firstFile(form.File[string(role)+"_file"])
		if fh == nil {
			continue
		}
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, noop, invalid("cannot open uploaded file")
		}
		opened = append(opened, f)
		out = append(out, attachment.Upload{
			Role:     role,
			Filename: fh.Filename,
			Size:     fh.Size,
			Body:     f,
		})
	}
	return out, closeAll, nil
}

func firstFile(files []*multipart.FileHeader) *multipart.FileHeader {
	for _, fh := range files {
		if fh != nil && fh.Filename != "" {
			return fh
		}
	}
	return nil
}

// recordID returns the :id param. Ids are UUIDs; anything else cannot exist.
func recordID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", service.ErrRecordNotFound
	}
	return id, nil
}
