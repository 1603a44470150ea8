package mocks

import (
	"context"

	"storesite/internal/model"
	"storesite/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockBuildRepository struct {
	mock.Mock
}

func (m *MockBuildRepository) Create(ctx context.Context, b *model.Build) (*model.Build, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Build), args.Error(1)
}

func (m *MockBuildRepository) FindByID(ctx context.Context, id string) (*model.Build, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Build), args.Error(1)
}

func (m *MockBuildRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Build], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Build]), args.Error(1)
}
