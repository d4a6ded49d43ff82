package store

import (
	"context"
	"strings"
	"time"

	"github.com/assettrack/apiserver/internal/rowstore"
	"github.com/assettrack/apiserver/types"
	"github.com/google/uuid"
)

// AssetRepository handles persistence for assets.
type AssetRepository struct {
	rs *rowstore.RowStore
}

func NewAssetRepository(rs *rowstore.RowStore) *AssetRepository {
	return &AssetRepository{rs: rs}
}

// List returns every asset in storage order.
func (r *AssetRepository) List(ctx context.Context) ([]types.Asset, error) {
	rows, err := r.rs.ReadAll(ctx, TableAssets)
	if err != nil {
		return nil, err
	}
	assets := make([]types.Asset, 0, len(rows))
	for _, row := range rows {
		assets = append(assets, rowToAsset(row))
	}
	return assets, nil
}

// GetByCode returns the asset with the given asset code, matched
// case-insensitively.
func (r *AssetRepository) GetByCode(ctx context.Context, code string) (types.Asset, error) {
	assets, err := r.List(ctx)
	if err != nil {
		return types.Asset{}, err
	}
	for _, a := range assets {
		if strings.EqualFold(a.Code, code) {
			return a, nil
		}
	}
	return types.Asset{}, ErrNotFound
}

// Codes returns the set of asset codes currently in use, for collision
// avoidance when generating new codes.
func (r *AssetRepository) Codes(ctx context.Context) (map[string]bool, error) {
	assets, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	codes := make(map[string]bool, len(assets))
	for _, a := range assets {
		codes[a.Code] = true
	}
	return codes, nil
}

// Create appends a new asset row, assigning its row identifier and
// creation timestamp.
func (r *AssetRepository) Create(ctx context.Context, asset types.Asset) (types.Asset, error) {
	asset.RowID = uuid.NewString()
	asset.CreatedAt = time.Now()
	if err := r.rs.Append(ctx, TableAssets, assetToRow(asset)); err != nil {
		return types.Asset{}, err
	}
	return asset, nil
}

// Update overwrites the asset row addressed by its row identifier. The
// position lookup happens immediately before the write; there is no
// row-version check, so a concurrent change between read and write is
// lost (last writer wins).
func (r *AssetRepository) Update(ctx context.Context, asset types.Asset) error {
	pos, err := positionOf(ctx, r.rs, TableAssets, asset.RowID)
	if err != nil {
		return err
	}
	return r.rs.Update(ctx, TableAssets, pos, assetToRow(asset))
}

// Delete removes the asset row addressed by its row identifier.
func (r *AssetRepository) Delete(ctx context.Context, rowID string) error {
	pos, err := positionOf(ctx, r.rs, TableAssets, rowID)
	if err != nil {
		return err
	}
	return r.rs.Delete(ctx, TableAssets, pos)
}

func assetToRow(a types.Asset) rowstore.Row {
	return rowstore.Row{
		"ID":                a.RowID,
		"Asset Code":        a.Code,
		"Item Name":         a.ItemName,
		"Asset Category":    a.Category,
		"Asset Subcategory": a.Subcategory,
		"Brand":             a.Brand,
		"Asset Description": a.Description,
		"Amount":            formatFloat(a.Amount),
		"Location":          a.Location,
		"Date of Purchase":  formatDate(a.PurchaseDate),
		"Warranty":          a.Warranty,
		"Department":        a.Department,
		"Ownership":         a.Ownership,
		"Asset Status":      a.Status,
		"Image":             formatYesNo(a.HasImage),
		"Document":          formatYesNo(a.HasDocument),
		"Created At":        a.CreatedAt.Format(time.RFC3339),
	}
}

func rowToAsset(row rowstore.Row) types.Asset {
	return types.Asset{
		RowID:        row["ID"],
		Code:         row["Asset Code"],
		ItemName:     row["Item Name"],
		Category:     row["Asset Category"],
		Subcategory:  row["Asset Subcategory"],
		Brand:        row["Brand"],
		Description:  row["Asset Description"],
		Amount:       parseFloat(row["Amount"]),
		Location:     row["Location"],
		PurchaseDate: parseDate(row["Date of Purchase"]),
		Warranty:     row["Warranty"],
		Department:   row["Department"],
		Ownership:    row["Ownership"],
		Status:       defaultString(row["Asset Status"], "Active"),
		HasImage:     parseYesNo(row["Image"]),
		HasDocument:  parseYesNo(row["Document"]),
		CreatedAt:    parseTime(row["Created At"]),
	}
}
