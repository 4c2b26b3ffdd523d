package macros

import (
	"context"
	"log"

	"github.com/samber/mo"

	"macrofeed/models"
)

// MacrosService serves the macro list declared at startup. It never changes after construction.
type MacrosService struct {
	macros []models.ConfiguredMacro
}

func NewMacrosService(configured []models.ConfiguredMacro) *MacrosService {
	macros := make([]models.ConfiguredMacro, len(configured))
	copy(macros, configured)

	for _, m := range macros {
		log.Printf("📋 Configured macro: %s", m.Name)
	}
	return &MacrosService{macros: macros}
}

func (s *MacrosService) GetConfiguredMacros(ctx context.Context) ([]models.ConfiguredMacro, error) {
	result := make([]models.ConfiguredMacro, len(s.macros))
	copy(result, s.macros)
	return result, nil
}

// GetMacroByValue finds the macro whose declared integer equals value
func (s *MacrosService) GetMacroByValue(ctx context.Context, value int64) (mo.Option[models.ConfiguredMacro], error) {
	for _, m := range s.macros {
		if m.Value == value {
			return mo.Some(m), nil
		}
	}
	return mo.None[models.ConfiguredMacro](), nil
}
