package store

import (
	"context"
	"strings"

	"github.com/assettrack/apiserver/internal/rowstore"
	"github.com/assettrack/apiserver/types"
	"github.com/google/uuid"
)

// BrandRepository handles persistence for brands.
type BrandRepository struct {
	rs *rowstore.RowStore
}

func NewBrandRepository(rs *rowstore.RowStore) *BrandRepository {
	return &BrandRepository{rs: rs}
}

// List returns every brand in storage order.
func (r *BrandRepository) List(ctx context.Context) ([]types.Brand, error) {
	rows, err := r.rs.ReadAll(ctx, TableBrands)
	if err != nil {
		return nil, err
	}
	brands := make([]types.Brand, 0, len(rows))
	for _, row := range rows {
		brands = append(brands, rowToBrand(row))
	}
	return brands, nil
}

// GetByName returns the brand with the given name, matched
// case-insensitively.
func (r *BrandRepository) GetByName(ctx context.Context, name string) (types.Brand, error) {
	brands, err := r.List(ctx)
	if err != nil {
		return types.Brand{}, err
	}
	for _, b := range brands {
		if strings.EqualFold(b.Name, name) {
			return b, nil
		}
	}
	return types.Brand{}, ErrNotFound
}

// Create appends a new brand row, assigning its row identifier.
func (r *BrandRepository) Create(ctx context.Context, brand types.Brand) (types.Brand, error) {
	brand.RowID = uuid.NewString()
	if err := r.rs.Append(ctx, TableBrands, brandToRow(brand)); err != nil {
		return types.Brand{}, err
	}
	return brand, nil
}

// Delete removes the brand row addressed by its row identifier.
func (r *BrandRepository) Delete(ctx context.Context, rowID string) error {
	pos, err := positionOf(ctx, r.rs, TableBrands, rowID)
	if err != nil {
		return err
	}
	return r.rs.Delete(ctx, TableBrands, pos)
}

func brandToRow(b types.Brand) rowstore.Row {
	return rowstore.Row{
		"ID":          b.RowID,
		"Brand Name":  b.Name,
		"Description": b.Description,
	}
}

func rowToBrand(row rowstore.Row) types.Brand {
	return types.Brand{
		RowID:       row["ID"],
		Name:        row["Brand Name"],
		Description: row["Description"],
	}
}
