package services

import (
	"context"

	"github.com/samber/mo"

	"macrofeed/models"
)

// UpdatesService defines the interface for the per-macro update log
type UpdatesService interface {
	AppendUpdate(ctx context.Context, payload models.WebhookPayload) (*models.Update, error)
	GetUpdates(ctx context.Context, macro string) ([]*models.Update, error)
	GetUpdateByID(ctx context.Context, macro string, id int64) (mo.Option[*models.Update], error)
	ClearUpdates(ctx context.Context, macro string) error
	ClearAllUpdates(ctx context.Context) error
}

// MacrosService defines the interface for the configured macro list
type MacrosService interface {
	GetConfiguredMacros(ctx context.Context) ([]models.ConfiguredMacro, error)
	GetMacroByValue(ctx context.Context, value int64) (mo.Option[models.ConfiguredMacro], error)
}
