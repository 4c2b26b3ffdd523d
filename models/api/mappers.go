package api

import "macrofeed/models"

// DomainMacrosToAPIMacroNames converts configured macros to the name list served by /api/macros
func DomainMacrosToAPIMacroNames(macros []models.ConfiguredMacro) []string {
	names := make([]string, 0, len(macros))
	for _, m := range macros {
		names = append(names, m.Name)
	}
	return names
}

// DomainUpdatesToAPIUpdates makes sure an empty result is encoded as [] rather than null
func DomainUpdatesToAPIUpdates(updates []*models.Update) []*models.Update {
	if updates == nil {
		return []*models.Update{}
	}
	return updates
}
