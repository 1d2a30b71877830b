package mocks

import (
	"context"

	"tourapi/internal/model"
	"tourapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockTourPackageService struct {
	mock.Mock
}

func (m *MockTourPackageService) Create(ctx context.Context, actor model.Actor, in service.CreateTourPackageInput, files service.FileGroups) (*model.TourPackage, error) {
	args := m.Called(ctx, actor, in, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TourPackage), args.Error(1)
}

func (m *MockTourPackageService) Get(ctx context.Context, id string) (*model.TourPackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TourPackage), args.Error(1)
}

func (m *MockTourPackageService) List(ctx context.Context, limit, offset int) (*service.TourPackageListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TourPackageListResult), args.Error(1)
}

func (m *MockTourPackageService) Update(ctx context.Context, actor model.Actor, id string, in service.UpdateTourPackageInput, files service.FileGroups) (*model.TourPackage, error) {
	args := m.Called(ctx, actor, id, in, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TourPackage), args.Error(1)
}

func (m *MockTourPackageService) Delete(ctx context.Context, actor model.Actor, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}
