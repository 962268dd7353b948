// Package access derives effective query scopes from a caller's role.
// Every read and write path goes through the same two entry points
// instead of re-deriving role restrictions per handler.
package access

import (
	"time"

	"github.com/google/uuid"

	"example.com/mams/internal/apperrors"
	"example.com/mams/internal/models"
)

// Actor identifies the authenticated caller.
type Actor struct {
	ID     uuid.UUID
	Role   string
	BaseID *uuid.UUID
}

// Scope is a filter over the movement logs and the baseline table.
type Scope struct {
	BaseID        *uuid.UUID
	EquipmentType string
	StartDate     *time.Time
	EndDate       *time.Time
}

// ResolveRead returns the effective scope for a read. Commanders are
// forced to their home base regardless of any caller-supplied filter;
// a commander with no home base is rejected rather than granted
// unrestricted access.
func ResolveRead(actor Actor, requested Scope) (Scope, error) {
	if actor.Role != models.RoleCommander {
		return requested, nil
	}
	if actor.BaseID == nil {
		return Scope{}, apperrors.New(apperrors.KindForbidden, "commander has no assigned base")
	}
	base := *actor.BaseID
	requested.BaseID = &base
	return requested, nil
}

// ResolveWriteBase returns the base a write must target. Commanders may
// only write against their home base; a conflicting caller-supplied
// base fails with Forbidden. Admin and logistics callers must name a
// base explicitly.
func ResolveWriteBase(actor Actor, requested *uuid.UUID) (uuid.UUID, error) {
	if actor.Role == models.RoleCommander {
		if actor.BaseID == nil {
			return uuid.Nil, apperrors.New(apperrors.KindForbidden, "commander has no assigned base")
		}
		if requested != nil && *requested != *actor.BaseID {
			return uuid.Nil, apperrors.New(apperrors.KindForbidden, "cannot operate on assets of another base")
		}
		return *actor.BaseID, nil
	}

	if requested == nil {
		return uuid.Nil, apperrors.New(apperrors.KindInvalidArgument, "baseId is required")
	}
	return *requested, nil
}
