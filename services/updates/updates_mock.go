package updates

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"macrofeed/models"
)

// MockUpdatesService is a mock implementation of the UpdatesService interface
type MockUpdatesService struct {
	mock.Mock
}

func (m *MockUpdatesService) AppendUpdate(ctx context.Context, payload models.WebhookPayload) (*models.Update, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Update), args.Error(1)
}

func (m *MockUpdatesService) GetUpdates(ctx context.Context, macro string) ([]*models.Update, error) {
	args := m.Called(ctx, macro)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Update), args.Error(1)
}

func (m *MockUpdatesService) GetUpdateByID(
	ctx context.Context,
	macro string,
	id int64,
) (mo.Option[*models.Update], error) {
	args := m.Called(ctx, macro, id)
	return args.Get(0).(mo.Option[*models.Update]), args.Error(1)
}

func (m *MockUpdatesService) ClearUpdates(ctx context.Context, macro string) error {
	args := m.Called(ctx, macro)
	return args.Error(0)
}

func (m *MockUpdatesService) ClearAllUpdates(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
