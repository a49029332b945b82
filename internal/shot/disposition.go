package shot

import "shotline/server/internal/field"

// ShouldIgnore decides whether a target occupant is exempt from collision
// for a segment's token filter. Unscoped filters never exclude on
// disposition. Scoped filters list the relationship classes to include:
// the acting occupant itself needs Owner, same-disposition occupants need
// Ally, everything else needs Other.
func ShouldIgnore(target field.Occupant, filter TokenFilter, acting *field.Occupant) bool {
	if !filter.Scoped {
		return false
	}
	if acting != nil {
		if target.ID == acting.ID {
			return !filter.Owner
		}
		if target.Disposition == acting.Disposition {
			return !filter.Ally
		}
	}
	return !filter.Other
}
