package store

import (
	"context"
	"strings"
	"time"

	"github.com/assettrack/apiserver/internal/rowstore"
	"github.com/assettrack/apiserver/types"
	"github.com/google/uuid"
)

// MovementRepository handles persistence for asset movements. The
// movements table is an append-only audit log: there is no update and
// no delete.
type MovementRepository struct {
	rs *rowstore.RowStore
}

func NewMovementRepository(rs *rowstore.RowStore) *MovementRepository {
	return &MovementRepository{rs: rs}
}

// List returns every movement in storage order (oldest first).
func (r *MovementRepository) List(ctx context.Context) ([]types.Movement, error) {
	rows, err := r.rs.ReadAll(ctx, TableMovements)
	if err != nil {
		return nil, err
	}
	movements := make([]types.Movement, 0, len(rows))
	for _, row := range rows {
		movements = append(movements, rowToMovement(row))
	}
	return movements, nil
}

// ListByAsset returns the movements recorded for the given asset code,
// matched case-insensitively like every other code lookup.
func (r *MovementRepository) ListByAsset(ctx context.Context, assetCode string) ([]types.Movement, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]types.Movement, 0, len(all))
	for _, m := range all {
		if strings.EqualFold(m.AssetCode, assetCode) {
			matched = append(matched, m)
		}
	}
	return matched, nil
}

// Create appends a new movement row.
func (r *MovementRepository) Create(ctx context.Context, movement types.Movement) (types.Movement, error) {
	movement.RowID = uuid.NewString()
	movement.CreatedAt = time.Now()
	if err := r.rs.Append(ctx, TableMovements, movementToRow(movement)); err != nil {
		return types.Movement{}, err
	}
	return movement, nil
}

func movementToRow(m types.Movement) rowstore.Row {
	return rowstore.Row{
		"ID":            m.RowID,
		"Asset Code":    m.AssetCode,
		"From Location": m.FromLocation,
		"To Location":   m.ToLocation,
		"Reason":        m.Reason,
		"Date":          formatDate(m.Date),
		"Moved By":      m.MovedBy,
		"Created At":    m.CreatedAt.Format(time.RFC3339),
	}
}

func rowToMovement(row rowstore.Row) types.Movement {
	return types.Movement{
		RowID:        row["ID"],
		AssetCode:    row["Asset Code"],
		FromLocation: row["From Location"],
		ToLocation:   row["To Location"],
		Reason:       row["Reason"],
		Date:         parseDate(row["Date"]),
		MovedBy:      row["Moved By"],
		CreatedAt:    parseTime(row["Created At"]),
	}
}
