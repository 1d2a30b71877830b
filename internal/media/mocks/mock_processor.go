package mocks

import (
	"context"

	"tourapi/internal/media"

	"github.com/stretchr/testify/mock"
)

type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) Process(ctx context.Context, f media.File) (*media.Blob, error) {
	args := m.Called(ctx, f)
	if fn, ok := args.Get(0).(func(context.Context, media.File) *media.Blob); ok {
		return fn(ctx, f), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*media.Blob), args.Error(1)
}
