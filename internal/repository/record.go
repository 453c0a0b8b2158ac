package repository

import (
	"context"

	"acadrepo/internal/model"
)

// RecordRepository defines data access for one record kind.
// No business logic here, strictly persistence operations.
type RecordRepository[R model.Record] interface {
	// Create inserts a fully populated record.
	Create(ctx context.Context, rec R) error

	// FindByID returns the record or ErrNotFound.
	FindByID(ctx context.Context, id string) (R, error)

	// List returns one page of records matching f, newest first, and the
	// total number of matches.
	List(ctx context.Context, f model.Filter, pq PageQuery) (*PageResult[R], error)

	// Update overwrites the mutable fields and updated_at. Attachment slots,
	// counters and created_at are left untouched.
	Update(ctx context.Context, rec R) error

	// SetAttachment stores filename in the slot for role.
	SetAttachment(ctx context.Context, id string, role model.Role, filename string) error

	// Delete removes the record; ErrNotFound when nothing was deleted.
	Delete(ctx context.Context, id string) error

	// Increment atomically adds one to counter and returns the new value.
	Increment(ctx context.Context, id string, counter model.Counter) (int64, error)

	// Summary returns the total, the per-subtype breakdown and the most
	// recently created records.
	Summary(ctx context.Context, recent int) (*model.KindSummary, error)
}

// PrincipalRepository defines data access for editor accounts.
type PrincipalRepository interface {
	// Create inserts p; ErrConflict when the username is taken.
	Create(ctx context.Context, p *model.Principal) error

	// FindByUsername returns the principal or ErrNotFound.
	FindByUsername(ctx context.Context, username string) (*model.Principal, error)

	// UpdatePassword replaces the stored digest; ErrNotFound for unknown usernames.
	UpdatePassword(ctx context.Context, username, hash string) error

	// Upsert inserts p or, when the username exists, replaces its digest.
	Upsert(ctx context.Context, p *model.Principal) error
}
