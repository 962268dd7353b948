// Package ledger reconstructs per-base, per-equipment inventory
// balances from a baseline snapshot and grouped movement sums.
package ledger

import (
	"github.com/google/uuid"
)

// AssignedReducesClosing controls whether checked-out assignments are
// subtracted from the closing balance. Assigned items are treated as
// still on the base's books; they are reported as a separate figure.
const AssignedReducesClosing = false

// Key is the unit of aggregation. A value type keyed on the base ID and
// equipment label; never a concatenated string, so equipment names
// containing delimiters cannot collide.
type Key struct {
	BaseID        uuid.UUID
	EquipmentType string
}

// Field names a movement column of a ledger row.
type Field int

const (
	FieldPurchases Field = iota
	FieldTransfersIn
	FieldTransfersOut
	FieldExpended
	FieldAssigned
)

// Delta is one grouped sum out of a movement log.
type Delta struct {
	Key      Key
	Field    Field
	Quantity int64
}

// Row is one reconciled (base, equipment type) line of the dashboard.
type Row struct {
	Key            Key    `json:"-"`
	BaseName       string `json:"baseName"`
	EquipmentType  string `json:"equipmentType"`
	OpeningBalance int64  `json:"openingBalance"`
	Purchases      int64  `json:"purchases"`
	TransfersIn    int64  `json:"transfersIn"`
	TransfersOut   int64  `json:"transfersOut"`
	Expended       int64  `json:"expended"`
	Assigned       int64  `json:"assigned"`
	NetMovement    int64  `json:"netMovement"`
	ClosingBalance int64  `json:"closingBalance"`
}

// Options controls merge behavior.
type Options struct {
	// IncludeUnbaselined keeps movement keys that have no baseline row,
	// giving them a zero opening balance. When false such keys are
	// dropped, so a pair purchased before being baselined never appears.
	IncludeUnbaselined bool

	// BaseName resolves a display name for unbaselined keys; baseline
	// rows carry their own. Optional.
	BaseName func(uuid.UUID) string
}

// Merge folds grouped movement sums into the baseline row set and
// computes net movement and closing balance for every row. Baseline
// rows keep their enumeration order; unbaselined rows (when included)
// follow in first-seen delta order.
func Merge(baselines []Row, deltas []Delta, opts Options) []Row {
	index := make(map[Key]int, len(baselines))
	rows := make([]Row, len(baselines))
	for i, b := range baselines {
		b.EquipmentType = b.Key.EquipmentType
		rows[i] = b
		index[b.Key] = i
	}

	for _, d := range deltas {
		i, ok := index[d.Key]
		if !ok {
			if !opts.IncludeUnbaselined {
				continue
			}
			row := Row{Key: d.Key, EquipmentType: d.Key.EquipmentType}
			if opts.BaseName != nil {
				row.BaseName = opts.BaseName(d.Key.BaseID)
			}
			rows = append(rows, row)
			i = len(rows) - 1
			index[d.Key] = i
		}

		switch d.Field {
		case FieldPurchases:
			rows[i].Purchases += d.Quantity
		case FieldTransfersIn:
			rows[i].TransfersIn += d.Quantity
		case FieldTransfersOut:
			rows[i].TransfersOut += d.Quantity
		case FieldExpended:
			rows[i].Expended += d.Quantity
		case FieldAssigned:
			rows[i].Assigned += d.Quantity
		}
	}

	for i := range rows {
		rows[i].NetMovement = rows[i].Purchases + rows[i].TransfersIn - rows[i].TransfersOut
		rows[i].ClosingBalance = rows[i].OpeningBalance + rows[i].NetMovement - rows[i].Expended
		if AssignedReducesClosing {
			rows[i].ClosingBalance -= rows[i].Assigned
		}
	}

	return rows
}
