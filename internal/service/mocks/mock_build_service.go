package mocks

import (
	"context"

	"storesite/internal/model"
	"storesite/internal/prerender"
	"storesite/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockBuildService struct {
	mock.Mock
}

func (m *MockBuildService) Publish(ctx context.Context, dir string, res *prerender.Result) (*model.Build, error) {
	args := m.Called(ctx, dir, res)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Build), args.Error(1)
}

func (m *MockBuildService) List(ctx context.Context, limit, offset int) (*service.BuildListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BuildListResult), args.Error(1)
}

func (m *MockBuildService) Get(ctx context.Context, id string) (*service.BuildView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BuildView), args.Error(1)
}
