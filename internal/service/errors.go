package service

import (
	"context"
	"errors"

	"acadrepo/internal/apperror"
	"acadrepo/internal/repository"
	"acadrepo/internal/storage"
)

var (
	ErrRecordNotFound     = apperror.New(apperror.KindNotFound, "record not found")
	ErrAttachmentNotFound = apperror.New(apperror.KindNotFound, "attachment not found")
	ErrDuplicateRole      = apperror.New(apperror.KindInvalidInput, "more than one file for the same attachment")
	ErrSizeMismatch       = apperror.New(apperror.KindInvalidInput, "file size does not match declared size")
	ErrUploadAborted      = apperror.New(apperror.KindInvalidInput, "upload interrupted")
)

// translate maps persistence and storage errors onto the public taxonomy.
func translate(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case apperror.As(err) != nil:
		return err
	case errors.Is(err, repository.ErrNotFound):
		return ErrRecordNotFound
	case errors.Is(err, storage.ErrObjectNotFound):
		return ErrAttachmentNotFound
	case errors.Is(err, storage.ErrSizeMismatch):
		return ErrSizeMismatch
	}
	return apperror.Wrap(apperror.KindInternal, err, msg)
}

// translateUpload is translate for write paths that consume a client body,
// where a cancelled or expired context means the upload was cut short.
func translateUpload(err error, msg string) error {
	if apperror.As(err) == nil &&
		(errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return apperror.Wrap(apperror.KindInvalidInput, err, ErrUploadAborted.Message())
	}
	return translate(err, msg)
}
