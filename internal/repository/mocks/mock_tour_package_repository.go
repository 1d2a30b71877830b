package mocks

import (
	"context"

	"tourapi/internal/model"
	"tourapi/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockTourPackageRepository struct {
	mock.Mock
}

func (m *MockTourPackageRepository) Create(ctx context.Context, tp *model.TourPackage) (*model.TourPackage, error) {
	args := m.Called(ctx, tp)
	if f, ok := args.Get(0).(func(context.Context, *model.TourPackage) *model.TourPackage); ok {
		return f(ctx, tp), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TourPackage), args.Error(1)
}

func (m *MockTourPackageRepository) FindByID(ctx context.Context, id string) (*model.TourPackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TourPackage), args.Error(1)
}

func (m *MockTourPackageRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.TourPackage], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.TourPackage]), args.Error(1)
}

func (m *MockTourPackageRepository) Update(ctx context.Context, id string, tp *model.TourPackage) (*model.TourPackage, error) {
	args := m.Called(ctx, id, tp)
	if f, ok := args.Get(0).(func(context.Context, string, *model.TourPackage) *model.TourPackage); ok {
		return f(ctx, id, tp), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TourPackage), args.Error(1)
}

func (m *MockTourPackageRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
