package access

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"example.com/mams/internal/apperrors"
	"example.com/mams/internal/models"
)

func TestResolveReadAdminKeepsRequestedScope(t *testing.T) {
	requestedBase := uuid.New()
	actor := Actor{ID: uuid.New(), Role: models.RoleAdmin}

	scope, err := ResolveRead(actor, Scope{BaseID: &requestedBase, EquipmentType: "M16 Rifle"})

	require.NoError(t, err)
	require.Equal(t, requestedBase, *scope.BaseID)
	require.Equal(t, "M16 Rifle", scope.EquipmentType)
}

func TestResolveReadLogisticsUnrestricted(t *testing.T) {
	actor := Actor{ID: uuid.New(), Role: models.RoleLogistics}

	scope, err := ResolveRead(actor, Scope{})

	require.NoError(t, err)
	require.Nil(t, scope.BaseID)
}

func TestResolveReadCommanderForcedToHomeBase(t *testing.T) {
	homeBase := uuid.New()
	otherBase := uuid.New()
	actor := Actor{ID: uuid.New(), Role: models.RoleCommander, BaseID: &homeBase}

	scope, err := ResolveRead(actor, Scope{BaseID: &otherBase})

	require.NoError(t, err)
	require.Equal(t, homeBase, *scope.BaseID)
}

func TestResolveReadCommanderWithoutBaseForbidden(t *testing.T) {
	actor := Actor{ID: uuid.New(), Role: models.RoleCommander}

	_, err := ResolveRead(actor, Scope{})

	require.Error(t, err)
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestResolveWriteBaseCommanderDefaultsToHomeBase(t *testing.T) {
	homeBase := uuid.New()
	actor := Actor{ID: uuid.New(), Role: models.RoleCommander, BaseID: &homeBase}

	baseID, err := ResolveWriteBase(actor, nil)

	require.NoError(t, err)
	require.Equal(t, homeBase, baseID)
}

func TestResolveWriteBaseCommanderCrossBaseForbidden(t *testing.T) {
	homeBase := uuid.New()
	otherBase := uuid.New()
	actor := Actor{ID: uuid.New(), Role: models.RoleCommander, BaseID: &homeBase}

	_, err := ResolveWriteBase(actor, &otherBase)

	require.Error(t, err)
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestResolveWriteBaseCommanderWithoutBaseForbidden(t *testing.T) {
	actor := Actor{ID: uuid.New(), Role: models.RoleCommander}

	_, err := ResolveWriteBase(actor, nil)

	require.Error(t, err)
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestResolveWriteBaseAdminRequiresExplicitBase(t *testing.T) {
	actor := Actor{ID: uuid.New(), Role: models.RoleAdmin}

	_, err := ResolveWriteBase(actor, nil)

	require.Error(t, err)
	require.Equal(t, apperrors.KindInvalidArgument, apperrors.KindOf(err))

	requested := uuid.New()
	baseID, err := ResolveWriteBase(actor, &requested)
	require.NoError(t, err)
	require.Equal(t, requested, baseID)
}
