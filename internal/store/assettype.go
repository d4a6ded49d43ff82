package store

import (
	"context"
	"strings"

	"github.com/assettrack/apiserver/internal/rowstore"
	"github.com/assettrack/apiserver/types"
	"github.com/google/uuid"
)

// AssetTypeRepository handles persistence for asset types.
type AssetTypeRepository struct {
	rs *rowstore.RowStore
}

func NewAssetTypeRepository(rs *rowstore.RowStore) *AssetTypeRepository {
	return &AssetTypeRepository{rs: rs}
}

// List returns every asset type in storage order.
func (r *AssetTypeRepository) List(ctx context.Context) ([]types.AssetType, error) {
	rows, err := r.rs.ReadAll(ctx, TableAssetTypes)
	if err != nil {
		return nil, err
	}
	assetTypes := make([]types.AssetType, 0, len(rows))
	for _, row := range rows {
		assetTypes = append(assetTypes, rowToAssetType(row))
	}
	return assetTypes, nil
}

// GetByName returns the asset type with the given name, matched
// case-insensitively.
func (r *AssetTypeRepository) GetByName(ctx context.Context, name string) (types.AssetType, error) {
	assetTypes, err := r.List(ctx)
	if err != nil {
		return types.AssetType{}, err
	}
	for _, t := range assetTypes {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return types.AssetType{}, ErrNotFound
}

// Create appends a new asset type row, assigning its row identifier.
func (r *AssetTypeRepository) Create(ctx context.Context, assetType types.AssetType) (types.AssetType, error) {
	assetType.RowID = uuid.NewString()
	if err := r.rs.Append(ctx, TableAssetTypes, assetTypeToRow(assetType)); err != nil {
		return types.AssetType{}, err
	}
	return assetType, nil
}

// Delete removes the asset type row addressed by its row identifier.
func (r *AssetTypeRepository) Delete(ctx context.Context, rowID string) error {
	pos, err := positionOf(ctx, r.rs, TableAssetTypes, rowID)
	if err != nil {
		return err
	}
	return r.rs.Delete(ctx, TableAssetTypes, pos)
}

func assetTypeToRow(t types.AssetType) rowstore.Row {
	return rowstore.Row{
		"ID":          t.RowID,
		"Asset Type":  t.Name,
		"Description": t.Description,
	}
}

func rowToAssetType(row rowstore.Row) types.AssetType {
	return types.AssetType{
		RowID:       row["ID"],
		Name:        row["Asset Type"],
		Description: row["Description"],
	}
}
