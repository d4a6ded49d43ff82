package store

import (
	"context"
	"strings"

	"github.com/assettrack/apiserver/internal/rowstore"
	"github.com/assettrack/apiserver/types"
	"github.com/google/uuid"
)

// LocationRepository handles persistence for locations.
type LocationRepository struct {
	rs *rowstore.RowStore
}

func NewLocationRepository(rs *rowstore.RowStore) *LocationRepository {
	return &LocationRepository{rs: rs}
}

// List returns every location in storage order.
func (r *LocationRepository) List(ctx context.Context) ([]types.Location, error) {
	rows, err := r.rs.ReadAll(ctx, TableLocations)
	if err != nil {
		return nil, err
	}
	locations := make([]types.Location, 0, len(rows))
	for _, row := range rows {
		locations = append(locations, rowToLocation(row))
	}
	return locations, nil
}

// GetByName returns the location with the given name, matched
// case-insensitively.
func (r *LocationRepository) GetByName(ctx context.Context, name string) (types.Location, error) {
	locations, err := r.List(ctx)
	if err != nil {
		return types.Location{}, err
	}
	for _, l := range locations {
		if strings.EqualFold(l.Name, name) {
			return l, nil
		}
	}
	return types.Location{}, ErrNotFound
}

// Create appends a new location row, assigning its row identifier.
func (r *LocationRepository) Create(ctx context.Context, location types.Location) (types.Location, error) {
	location.RowID = uuid.NewString()
	if err := r.rs.Append(ctx, TableLocations, locationToRow(location)); err != nil {
		return types.Location{}, err
	}
	return location, nil
}

// Update overwrites the location row addressed by its row identifier.
func (r *LocationRepository) Update(ctx context.Context, location types.Location) error {
	pos, err := positionOf(ctx, r.rs, TableLocations, location.RowID)
	if err != nil {
		return err
	}
	return r.rs.Update(ctx, TableLocations, pos, locationToRow(location))
}

// Delete removes the location row addressed by its row identifier.
func (r *LocationRepository) Delete(ctx context.Context, rowID string) error {
	pos, err := positionOf(ctx, r.rs, TableLocations, rowID)
	if err != nil {
		return err
	}
	return r.rs.Delete(ctx, TableLocations, pos)
}

func locationToRow(l types.Location) rowstore.Row {
	return rowstore.Row{
		"ID":            l.RowID,
		"Location Name": l.Name,
		"Address":       l.Address,
		"Description":   l.Description,
	}
}

func rowToLocation(row rowstore.Row) types.Location {
	return types.Location{
		RowID:       row["ID"],
		Name:        row["Location Name"],
		Address:     row["Address"],
		Description: row["Description"],
	}
}
