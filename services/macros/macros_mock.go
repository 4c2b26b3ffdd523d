package macros

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"macrofeed/models"
)

// MockMacrosService is a mock implementation of the MacrosService interface
type MockMacrosService struct {
	mock.Mock
}

func (m *MockMacrosService) GetConfiguredMacros(ctx context.Context) ([]models.ConfiguredMacro, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ConfiguredMacro), args.Error(1)
}

func (m *MockMacrosService) GetMacroByValue(
	ctx context.Context,
	value int64,
) (mo.Option[models.ConfiguredMacro], error) {
	args := m.Called(ctx, value)
	return args.Get(0).(mo.Option[models.ConfiguredMacro]), args.Error(1)
}
