package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"acadrepo/internal/attachment"
	"acadrepo/internal/model"
	"acadrepo/internal/repository"
	"acadrepo/internal/storage"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Schema describes the per-kind behaviour of the content engine.
type Schema struct {
	Kind  model.Kind
	Slots []model.Role
	// CountViews makes every successful Get bump view_count.
	CountViews bool
	// CountDownloads makes every successful Download bump download_count.
	CountDownloads bool
}

var (
	ProductSchema = Schema{
		Kind:           model.KindProduct,
		Slots:          []model.Role{model.RoleDocument, model.RoleAudio},
		CountViews:     true,
		CountDownloads: true,
	}
	NewsSchema = Schema{
		Kind:  model.KindNews,
		Slots: []model.Role{model.RoleImage},
	}
	EnsinoSchema = Schema{
		Kind:  model.KindEnsino,
		Slots: []model.Role{model.RoleMaterial, model.RoleImage},
	}
	ExtensaoSchema = Schema{
		Kind:  model.KindExtensao,
		Slots: []model.Role{model.RoleMaterial, model.RoleImage},
	}
)

// HasSlot reports whether the kind carries an attachment for role.
func (s Schema) HasSlot(role model.Role) bool {
	for _, r := range s.Slots {
		if r == role {
			return true
		}
	}
	return false
}

// ListResult is the service-level DTO for paginated records.
type ListResult[R model.Record] struct {
	Items []R `json:"data"`
	Total int `json:"total"`
}

// Download is an open attachment stream. Callers must close Body.
type Download struct {
	Body        io.ReadCloser
	Filename    string
	ContentType string
	Size        int64
}

// ContentService defines the use cases shared by every record kind.
type ContentService[R model.Record] interface {
	Schema() Schema

	// Create validates every upload before touching storage, stores the blobs,
	// then persists the record. Nothing is left behind when any step fails.
	Create(ctx context.Context, rec R, uploads []attachment.Upload) (R, error)

	// List returns records newest first using limit/offset and a total count.
	List(ctx context.Context, f model.Filter, limit, offset int) (*ListResult[R], error)

	// Get returns a single record. For kinds that count views the returned
	// view_count is the value before this read.
	Get(ctx context.Context, id string) (R, error)

	// Update loads the record, lets apply overwrite the supplied fields and
	// stores it with a refreshed updated_at.
	Update(ctx context.Context, id string, apply func(R) error) (R, error)

	// ReplaceAttachment stores a new file for one slot and purges the previous one.
	ReplaceAttachment(ctx context.Context, id string, up attachment.Upload) (R, error)

	// Delete removes the record's blobs and then the record.
	Delete(ctx context.Context, id string) error

	// Download opens the blob stored in a slot.
	Download(ctx context.Context, id string, role model.Role) (*Download, error)
}

type contentService[R model.Record] struct {
	schema    Schema
	repo      repository.RecordRepository[R]
	store     storage.Storage
	validator *attachment.Validator
	log       zerolog.Logger
	now       func() time.Time
}

// NewContentService constructs the engine for one record kind.
func NewContentService[R model.Record](
	schema Schema,
	repo repository.RecordRepository[R],
	store storage.Storage,
	validator *attachment.Validator,
	log zerolog.Logger,
) ContentService[R] {
	return &contentService[R]{
		schema:    schema,
		repo:      repo,
		store:     store,
		validator: validator,
		log:       log.With().Str("kind", string(schema.Kind)).Logger(),
		now:       time.Now,
	}
}

func (s *contentService[R]) Schema() Schema { return s.schema }

type acceptedUpload struct {
	attachment.Upload
	ext string
}

func (s *contentService[R]) validate(uploads []attachment.Upload) ([]acceptedUpload, error) {
	seen := make(map[model.Role]bool, len(uploads))
	out := make([]acceptedUpload, 0, len(uploads))
	for _, up := range uploads {
		if !s.schema.HasSlot(up.Role) {
			return nil, attachment.ErrUnknownRole
		}
		if seen[up.Role] {
			return nil, ErrDuplicateRole
		}
		seen[up.Role] = true

		ext, err := s.validator.Validate(up.Role, up.Size, up.Filename)
		if err != nil {
			attachmentUploads.WithLabelValues(string(s.schema.Kind), string(up.Role), "rejected").Inc()
			return nil, err
		}
		out = append(out, acceptedUpload{Upload: up, ext: ext})
	}
	return out, nil
}

func (s *contentService[R]) put(ctx context.Context, id string, up acceptedUpload) (string, error) {
	key := attachment.FileName(id, up.Role, up.ext)
	_, err := s.store.Put(ctx, key, up.Body, storage.PutObjectOptions{
		Size:        up.Size,
		ContentType: attachment.MediaType(key),
		Metadata:    map[string]string{"original-filename": up.Filename},
	})
	outcome := "stored"
	if err != nil {
		outcome = "failed"
	}
	attachmentUploads.WithLabelValues(string(s.schema.Kind), string(up.Role), outcome).Inc()
	return key, err
}

// rollback removes blobs written during a failed operation. It runs on a
// fresh context because the request context may already be cancelled.
func (s *contentService[R]) rollback(keys []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	var firstErr error
	for _, k := range keys {
		if err := s.store.Delete(ctx, k); err != nil {
			s.log.Error().Err(err).Str("key", k).Msg("rollback_delete_failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *contentService[R]) Create(ctx context.Context, rec R, uploads []attachment.Upload) (R, error) {
	var zero R
	accepted, err := s.validate(uploads)
	if err != nil {
		return zero, err
	}

	id := uuid.New().String()
	now := s.now().UTC()
	meta := rec.Base()
	meta.ID = id
	meta.CreatedAt = now
	meta.UpdatedAt = now
	for _, role := range s.schema.Slots {
		*rec.Slot(role) = ""
	}
	for _, c := range []model.Counter{model.CounterViews, model.CounterDownloads} {
		if n := rec.Count(c); n != nil {
			*n = 0
		}
	}

	stored := make([]string, 0, len(accepted))
	for _, up := range accepted {
		key, err := s.put(ctx, id, up)
		if err != nil {
			if rbErr := s.rollback(stored); rbErr != nil {
				return zero, translateUpload(fmt.Errorf("upload to storage: %v; rollback delete failed: %w", err, rbErr), "failed to store attachment")
			}
			return zero, translateUpload(fmt.Errorf("upload to storage: %w", err), "failed to store attachment")
		}
		stored = append(stored, key)
		*rec.Slot(up.Role) = key
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		// Rollback: delete the blobs from storage
		if rbErr := s.rollback(stored); rbErr != nil {
			return zero, translateUpload(fmt.Errorf("db save failed: %v; rollback delete failed: %w", err, rbErr), "failed to save record")
		}
		return zero, translateUpload(fmt.Errorf("db save failed: %w", err), "failed to save record")
	}
	return rec, nil
}

// List returns paginated records without exposing repository types.
func (s *contentService[R]) List(ctx context.Context, f model.Filter, limit, offset int) (*ListResult[R], error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, f, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, translate(err, "failed to list records")
	}
	return &ListResult[R]{Items: res.Items, Total: res.Total}, nil
}

func (s *contentService[R]) Get(ctx context.Context, id string) (R, error) {
	var zero R
	if id == "" {
		return zero, ErrRecordNotFound
	}
	if !s.schema.CountViews {
		rec, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return zero, translate(err, "failed to load record")
		}
		return rec, nil
	}

	n, err := s.repo.Increment(ctx, id, model.CounterViews)
	if err != nil {
		return zero, translate(err, "failed to count view")
	}
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return zero, translate(err, "failed to load record")
	}
	*rec.Count(model.CounterViews) = n - 1
	return rec, nil
}

func (s *contentService[R]) Update(ctx context.Context, id string, apply func(R) error) (R, error) {
	var zero R
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return zero, translate(err, "failed to load record")
	}
	created := rec.Base().CreatedAt
	slots := make(map[model.Role]string, len(s.schema.Slots))
	for _, role := range s.schema.Slots {
		slots[role] = *rec.Slot(role)
	}
	counts := map[model.Counter]int64{}
	for _, c := range []model.Counter{model.CounterViews, model.CounterDownloads} {
		if n := rec.Count(c); n != nil {
			counts[c] = *n
		}
	}

	if err := apply(rec); err != nil {
		return zero, err
	}

	for role, name := range slots {
		*rec.Slot(role) = name
	}
	for c, n := range counts {
		*rec.Count(c) = n
	}
	meta := rec.Base()
	meta.ID = id
	meta.CreatedAt = created
	meta.UpdatedAt = s.touch(created)

	if err := s.repo.Update(ctx, rec); err != nil {
		return zero, translate(err, "failed to update record")
	}
	return rec, nil
}

// touch returns the new updated_at, never earlier than created.
func (s *contentService[R]) touch(created time.Time) time.Time {
	now := s.now().UTC()
	if now.Before(created) {
		return created
	}
	return now
}

func (s *contentService[R]) ReplaceAttachment(ctx context.Context, id string, up attachment.Upload) (R, error) {
	var zero R
	accepted, err := s.validate([]attachment.Upload{up})
	if err != nil {
		return zero, err
	}
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return zero, translate(err, "failed to load record")
	}
	previous := *rec.Slot(up.Role)

	key, err := s.put(ctx, id, accepted[0])
	if err != nil {
		if key != previous {
			_ = s.rollback([]string{key})
		}
		return zero, translateUpload(fmt.Errorf("upload to storage: %w", err), "failed to store attachment")
	}

	if err := s.repo.SetAttachment(ctx, id, up.Role, key); err != nil {
		if key != previous {
			_ = s.rollback([]string{key})
		}
		return zero, translate(fmt.Errorf("db save failed: %w", err), "failed to save record")
	}
	*rec.Slot(up.Role) = key

	rec.Base().UpdatedAt = s.touch(rec.Base().CreatedAt)
	if err := s.repo.Update(ctx, rec); err != nil {
		return zero, translate(err, "failed to update record")
	}

	if previous != "" && previous != key {
		if err := s.store.Delete(ctx, previous); err != nil {
			s.log.Warn().Err(err).Str("key", previous).Msg("stale_attachment_delete_failed")
		}
	}
	return rec, nil
}

// Delete removes the record's blobs first, clearing each slot as its blob
// goes; if a blob delete fails the record is kept and every remaining
// filename still names an existing blob.
func (s *contentService[R]) Delete(ctx context.Context, id string) error {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return translate(err, "failed to load record")
	}
	for _, role := range s.schema.Slots {
		name := *rec.Slot(role)
		if name == "" {
			continue
		}
		if err := s.store.Delete(ctx, name); err != nil {
			return translate(fmt.Errorf("delete storage: %w", err), "failed to delete attachment")
		}
		if err := s.repo.SetAttachment(ctx, id, role, ""); err != nil {
			return translate(fmt.Errorf("clear slot %s: %w", role, err), "failed to delete attachment")
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err, "failed to delete record")
	}
	return nil
}

func (s *contentService[R]) Download(ctx context.Context, id string, role model.Role) (*Download, error) {
	if !s.schema.HasSlot(role) {
		return nil, ErrAttachmentNotFound
	}
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "failed to load record")
	}
	name := *rec.Slot(role)
	if name == "" {
		return nil, ErrAttachmentNotFound
	}

	body, info, err := s.store.Get(ctx, name)
	if err != nil {
		return nil, translate(err, "failed to open attachment")
	}

	if s.schema.CountDownloads {
		if _, err := s.repo.Increment(ctx, id, model.CounterDownloads); err != nil {
			body.Close()
			return nil, translate(err, "failed to count download")
		}
	}

	return &Download{
		Body:        body,
		Filename:    name,
		ContentType: attachment.MediaType(name),
		Size:        info.Size,
	}, nil
}
