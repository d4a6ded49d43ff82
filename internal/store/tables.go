package store

import (
	"context"

	"github.com/assettrack/apiserver/internal/rowstore"
)

// Logical table names, one spreadsheet tab each.
const (
	TableUsers         = "Users"
	TableLocations     = "Locations"
	TableCategories    = "Categories"
	TableSubcategories = "Subcategories"
	TableAssetTypes    = "AssetTypes"
	TableBrands        = "Brands"
	TableAssets        = "Assets"
	TableMovements     = "AssetMovements"
)

// colID is the synthetic row identifier column present on every table.
// Update and delete address rows through it; the identifier-to-position
// lookup happens immediately before the write so position shifts from
// earlier deletes cannot leak into callers.
const colID = "ID"

// TableHeaders lists the canonical header row of every table, used to
// bootstrap a fresh spreadsheet.
var TableHeaders = map[string][]string{
	TableUsers:         {"ID", "Username", "Password", "Role", "CreatedAt"},
	TableLocations:     {"ID", "Location Name", "Address", "Description"},
	TableCategories:    {"ID", "Category Name", "Category Code", "Description"},
	TableSubcategories: {"ID", "Category", "Subcategory Name", "Subcategory Code", "Description"},
	TableAssetTypes:    {"ID", "Asset Type", "Description"},
	TableBrands:        {"ID", "Brand Name", "Description"},
	TableAssets: {"ID", "Asset Code", "Item Name", "Asset Category", "Asset Subcategory",
		"Brand", "Asset Description", "Amount", "Location", "Date of Purchase", "Warranty",
		"Department", "Ownership", "Asset Status", "Image", "Document", "Created At"},
	TableMovements: {"ID", "Asset Code", "From Location", "To Location", "Reason", "Date",
		"Moved By", "Created At"},
}

// EnsureTables bootstraps every table's header row. Existing tables are
// left untouched.
func EnsureTables(ctx context.Context, rs *rowstore.RowStore) error {
	for table, header := range TableHeaders {
		if err := rs.EnsureHeader(ctx, table, header); err != nil {
			return err
		}
	}
	return nil
}

// positionOf resolves a synthetic row identifier to the row's current
// 1-based position. Returns ErrNotFound when no row carries the id.
func positionOf(ctx context.Context, rs *rowstore.RowStore, table, id string) (int, error) {
	pos, err := rs.Find(ctx, table, colID, id)
	if err != nil {
		return 0, err
	}
	if pos == rowstore.PositionNotFound {
		return 0, ErrNotFound
	}
	return pos, nil
}
