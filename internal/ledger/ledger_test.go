package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func baselineRow(baseID uuid.UUID, equipment string, opening int64) Row {
	return Row{
		Key:            Key{BaseID: baseID, EquipmentType: equipment},
		BaseName:       "Base " + baseID.String()[:4],
		EquipmentType:  equipment,
		OpeningBalance: opening,
	}
}

func TestMergeComputesClosingBalance(t *testing.T) {
	baseID := uuid.New()
	key := Key{BaseID: baseID, EquipmentType: "M16 Rifle"}

	rows := Merge(
		[]Row{baselineRow(baseID, "M16 Rifle", 100)},
		[]Delta{
			{Key: key, Field: FieldPurchases, Quantity: 20},
			{Key: key, Field: FieldTransfersOut, Quantity: 10},
			{Key: key, Field: FieldExpended, Quantity: 5},
			{Key: key, Field: FieldAssigned, Quantity: 15},
		},
		Options{},
	)

	require.Len(t, rows, 1)
	require.Equal(t, int64(100), rows[0].OpeningBalance)
	require.Equal(t, int64(20), rows[0].Purchases)
	require.Equal(t, int64(10), rows[0].TransfersOut)
	require.Equal(t, int64(5), rows[0].Expended)
	require.Equal(t, int64(15), rows[0].Assigned)
	require.Equal(t, int64(10), rows[0].NetMovement)
	require.Equal(t, int64(105), rows[0].ClosingBalance)
}

func TestMergeEmitsBaselineRowWithoutMovements(t *testing.T) {
	baseID := uuid.New()

	rows := Merge([]Row{baselineRow(baseID, "Tank M1", 5)}, nil, Options{})

	require.Len(t, rows, 1)
	require.Equal(t, int64(0), rows[0].NetMovement)
	require.Equal(t, int64(5), rows[0].ClosingBalance)
}

func TestMergeAssignedDoesNotReduceClosing(t *testing.T) {
	baseID := uuid.New()
	key := Key{BaseID: baseID, EquipmentType: "Humvee"}

	rows := Merge(
		[]Row{baselineRow(baseID, "Humvee", 10)},
		[]Delta{{Key: key, Field: FieldAssigned, Quantity: 4}},
		Options{},
	)

	require.Len(t, rows, 1)
	require.Equal(t, int64(4), rows[0].Assigned)
	require.Equal(t, int64(10), rows[0].ClosingBalance)
}

func TestMergeTransferConservation(t *testing.T) {
	fromBase := uuid.New()
	toBase := uuid.New()

	rows := Merge(
		[]Row{
			baselineRow(fromBase, "M16 Rifle", 50),
			baselineRow(toBase, "M16 Rifle", 20),
		},
		[]Delta{
			{Key: Key{BaseID: fromBase, EquipmentType: "M16 Rifle"}, Field: FieldTransfersOut, Quantity: 12},
			{Key: Key{BaseID: toBase, EquipmentType: "M16 Rifle"}, Field: FieldTransfersIn, Quantity: 12},
		},
		Options{},
	)

	require.Len(t, rows, 2)
	require.Equal(t, int64(38), rows[0].ClosingBalance)
	require.Equal(t, int64(32), rows[1].ClosingBalance)
	require.Equal(t, rows[0].ClosingBalance+rows[1].ClosingBalance, int64(50+20))
}

func TestMergeDropsUnbaselinedByDefault(t *testing.T) {
	baselined := uuid.New()
	unbaselined := uuid.New()

	rows := Merge(
		[]Row{baselineRow(baselined, "M16 Rifle", 100)},
		[]Delta{
			{Key: Key{BaseID: unbaselined, EquipmentType: "Grenade"}, Field: FieldPurchases, Quantity: 30},
		},
		Options{},
	)

	require.Len(t, rows, 1)
	require.Equal(t, baselined, rows[0].Key.BaseID)
}

func TestMergeIncludesUnbaselinedWhenEnabled(t *testing.T) {
	baselined := uuid.New()
	unbaselined := uuid.New()

	rows := Merge(
		[]Row{baselineRow(baselined, "M16 Rifle", 100)},
		[]Delta{
			{Key: Key{BaseID: unbaselined, EquipmentType: "Grenade"}, Field: FieldPurchases, Quantity: 30},
			{Key: Key{BaseID: unbaselined, EquipmentType: "Grenade"}, Field: FieldExpended, Quantity: 5},
		},
		Options{
			IncludeUnbaselined: true,
			BaseName: func(id uuid.UUID) string {
				require.Equal(t, unbaselined, id)
				return "Base Delta"
			},
		},
	)

	require.Len(t, rows, 2)
	require.Equal(t, "Base Delta", rows[1].BaseName)
	require.Equal(t, "Grenade", rows[1].EquipmentType)
	require.Equal(t, int64(0), rows[1].OpeningBalance)
	require.Equal(t, int64(30), rows[1].NetMovement)
	require.Equal(t, int64(25), rows[1].ClosingBalance)
}

func TestMergePreservesBaselineOrder(t *testing.T) {
	baseID := uuid.New()
	baselines := []Row{
		baselineRow(baseID, "Ammo Box 5.56mm", 500),
		baselineRow(baseID, "M16 Rifle", 100),
		baselineRow(baseID, "Humvee", 10),
	}

	rows := Merge(baselines, []Delta{
		{Key: Key{BaseID: baseID, EquipmentType: "Humvee"}, Field: FieldPurchases, Quantity: 2},
	}, Options{})

	require.Len(t, rows, 3)
	require.Equal(t, "Ammo Box 5.56mm", rows[0].EquipmentType)
	require.Equal(t, "M16 Rifle", rows[1].EquipmentType)
	require.Equal(t, "Humvee", rows[2].EquipmentType)
	require.Equal(t, int64(12), rows[2].ClosingBalance)
}

func TestMergeAccumulatesRepeatedDeltas(t *testing.T) {
	baseID := uuid.New()
	key := Key{BaseID: baseID, EquipmentType: "M16 Rifle"}

	rows := Merge(
		[]Row{baselineRow(baseID, "M16 Rifle", 0)},
		[]Delta{
			{Key: key, Field: FieldPurchases, Quantity: 7},
			{Key: key, Field: FieldPurchases, Quantity: 3},
		},
		Options{},
	)

	require.Len(t, rows, 1)
	require.Equal(t, int64(10), rows[0].Purchases)
	require.Equal(t, int64(10), rows[0].ClosingBalance)
}
