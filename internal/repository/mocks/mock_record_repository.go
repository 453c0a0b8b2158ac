package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"acadrepo/internal/model"
	"acadrepo/internal/repository"
)

type MockRecordRepository[R model.Record] struct {
	mock.Mock
}

func (m *MockRecordRepository[R]) Create(ctx context.Context, rec R) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockRecordRepository[R]) FindByID(ctx context.Context, id string) (R, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		var zero R
		return zero, args.Error(1)
	}
	return args.Get(0).(R), args.Error(1)
}

func (m *MockRecordRepository[R]) List(ctx context.Context, f model.Filter, pq repository.PageQuery) (*repository.PageResult[R], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[R]), args.Error(1)
}

func (m *MockRecordRepository[R]) Update(ctx context.Context, rec R) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockRecordRepository[R]) SetAttachment(ctx context.Context, id string, role model.Role, filename string) error {
	args := m.Called(ctx, id, role, filename)
	return args.Error(0)
}

func (m *MockRecordRepository[R]) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecordRepository[R]) Increment(ctx context.Context, id string, counter model.Counter) (int64, error) {
	args := m.Called(ctx, id, counter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecordRepository[R]) Summary(ctx context.Context, recent int) (*model.KindSummary, error) {
	args := m.Called(ctx, recent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.KindSummary), args.Error(1)
}

type MockPrincipalRepository struct {
	mock.Mock
}

func (m *MockPrincipalRepository) Create(ctx context.Context, p *model.Principal) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPrincipalRepository) FindByUsername(ctx context.Context, username string) (*model.Principal, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Principal), args.Error(1)
}

func (m *MockPrincipalRepository) UpdatePassword(ctx context.Context, username, hash string) error {
	args := m.Called(ctx, username, hash)
	return args.Error(0)
}

func (m *MockPrincipalRepository) Upsert(ctx context.Context, p *model.Principal) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
