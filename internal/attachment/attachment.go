// Package attachment holds the upload policy for record attachment slots and
// the deterministic naming of stored blobs.
package attachment

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"acadrepo/internal/apperror"
	"acadrepo/internal/model"
)

// DefaultMaxSize is the per-file ceiling (10 MiB).
const DefaultMaxSize int64 = 10 << 20

var (
	ErrTooLarge        = apperror.New(apperror.KindPayloadTooLarge, "file too large")
	ErrUnsupportedType = apperror.New(apperror.KindInvalidInput, "unsupported file type")
	ErrUnknownRole     = apperror.New(apperror.KindInvalidInput, "unknown attachment role")
	ErrInvalidSize     = apperror.New(apperror.KindInvalidInput, "invalid file size")
)

var allowedExtensions = map[model.Role]map[string]struct{}{
	model.RoleDocument: set("pdf", "doc", "docx"),
	model.RoleAudio:    set("wav"),
	model.RoleImage:    set("jpg", "jpeg", "png", "gif"),
	model.RoleMaterial: set("pdf", "ppt", "pptx", "doc", "docx", "zip"),
}

var mediaTypes = map[string]string{
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"zip":  "application/zip",
	"wav":  "audio/wav",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
}

func set(exts ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		m[e] = struct{}{}
	}
	return m
}

// Upload is one file part destined for a record slot.
type Upload struct {
	Role     model.Role
	Filename string
	Size     int64
	Body     io.Reader
}

// Validator decides whether a declared upload may be stored. It never reads
// the body; the declared filename and size are the whole trust boundary.
type Validator struct {
	maxSize int64
}

// NewValidator returns a Validator with the given ceiling; maxSize <= 0 uses DefaultMaxSize.
func NewValidator(maxSize int64) *Validator {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Validator{maxSize: maxSize}
}

// MaxSize returns the configured ceiling in bytes.
func (v *Validator) MaxSize() int64 { return v.maxSize }

// Validate checks the upload against the role's policy and returns the
// normalized (lower-case, dot-less) extension to store it under.
func (v *Validator) Validate(role model.Role, size int64, filename string) (string, error) {
	allowed, ok := allowedExtensions[role]
	if !ok {
		return "", ErrUnknownRole
	}
	if size < 0 {
		return "", ErrInvalidSize
	}
	if size > v.maxSize {
		return "", ErrTooLarge
	}
	ext := Extension(filename)
	if _, ok := allowed[ext]; !ok {
		return "", ErrUnsupportedType
	}
	return ext, nil
}

// Extension returns the lower-cased extension of filename without the dot.
func Extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// FileName is the stored name for a record's slot: {id}_{role}.{ext}.
func FileName(recordID string, role model.Role, ext string) string {
	return fmt.Sprintf("%s_%s.%s", recordID, role, ext)
}

// MediaType returns the content type served for a stored filename.
func MediaType(filename string) string {
	if mt, ok := mediaTypes[Extension(filename)]; ok {
		return mt
	}
	return "application/octet-stream"
}

// Roles lists the known slot roles.
func Roles() []model.Role {
	return []model.Role{model.RoleDocument, model.RoleAudio, model.RoleImage, model.RoleMaterial}
}
