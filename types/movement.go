package types

import "time"

// Movement is an append-only audit record of an asset's change of
// location. Movements are never mutated or deleted; the asset's
// current-location field is updated separately as a consequence of
// recording one.
type Movement struct {
	// RowID is the synthetic identifier of the backing row.
	RowID string `json:"-"`

	// AssetCode is the code of the asset that was moved.
	AssetCode string `json:"asset_code"`

	// FromLocation is the location name the asset left.
	FromLocation string `json:"from_location"`

	// ToLocation is the location name the asset arrived at.
	ToLocation string `json:"to_location"`

	// Reason is free-form text explaining the movement.
	Reason string `json:"reason"`

	// Date is the effective date of the movement.
	Date time.Time `json:"date"`

	// MovedBy is the username of the account that recorded the movement.
	MovedBy string `json:"moved_by"`

	// CreatedAt is the timestamp at which the record was written.
	CreatedAt time.Time `json:"created_at"`
}
