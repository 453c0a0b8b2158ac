package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"acadrepo/internal/attachment"
	"acadrepo/internal/doi"
	"acadrepo/internal/model"
	"acadrepo/internal/service"
)

type MockContentService[R model.Record] struct {
	mock.Mock
	Sch service.Schema
}

var _ service.ContentService[*model.Product] = (*MockContentService[*model.Product])(nil)

func (m *MockContentService[R]) Schema() service.Schema { return m.Sch }

func (m *MockContentService[R]) Create(ctx context.Context, rec R, uploads []attachment.Upload) (R, error) {
	args := m.Called(ctx, rec, uploads)
	return record[R](args.Get(0)), args.Error(1)
}

func (m *MockContentService[R]) List(ctx context.Context, f model.Filter, limit, offset int) (*service.ListResult[R], error) {
	args := m.Called(ctx, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[R]), args.Error(1)
}

func (m *MockContentService[R]) Get(ctx context.Context, id string) (R, error) {
	args := m.Called(ctx, id)
	return record[R](args.Get(0)), args.Error(1)
}

func (m *MockContentService[R]) Update(ctx context.Context, id string, apply func(R) error) (R, error) {
	args := m.Called(ctx, id, apply)
	return record[R](args.Get(0)), args.Error(1)
}

func (m *MockContentService[R]) ReplaceAttachment(ctx context.Context, id string, up attachment.Upload) (R, error) {
	args := m.Called(ctx, id, up)
	return record[R](args.Get(0)), args.Error(1)
}

func (m *MockContentService[R]) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContentService[R]) Download(ctx context.Context, id string, role model.Role) (*service.Download, error) {
	args := m.Called(ctx, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Download), args.Error(1)
}

func record[R model.Record](v any) R {
	var zero R
	if v == nil {
		return zero
	}
	return v.(R)
}

type MockMetadataService struct {
	mock.Mock
}

var _ service.MetadataService = (*MockMetadataService)(nil)

func (m *MockMetadataService) Lookup(ctx context.Context, id string) (*doi.Metadata, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*doi.Metadata), args.Error(1)
}

type MockStatsService struct {
	mock.Mock
}

var _ service.StatsService = (*MockStatsService)(nil)

func (m *MockStatsService) Snapshot(ctx context.Context) (*service.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Stats), args.Error(1)
}
