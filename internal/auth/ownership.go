package auth

import (
	"todo-be/internal/apperrors"
	"todo-be/internal/entities"
)

// Authorize succeeds iff the acting user owns the resource. The policy is
// intentionally flat; any extension (shared ownership, admin bypass) is a
// change localized to this function.
func Authorize(actor *entities.User, ownerID int64) error {
	if actor == nil || actor.ID != ownerID {
		return apperrors.ErrForbidden
	}
	return nil
}
