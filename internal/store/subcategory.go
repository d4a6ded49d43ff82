package store

import (
	"context"
	"strings"

	"github.com/assettrack/apiserver/internal/rowstore"
	"github.com/assettrack/apiserver/types"
	"github.com/google/uuid"
)

// SubcategoryRepository handles persistence for subcategories.
type SubcategoryRepository struct {
	rs *rowstore.RowStore
}

func NewSubcategoryRepository(rs *rowstore.RowStore) *SubcategoryRepository {
	return &SubcategoryRepository{rs: rs}
}

// List returns every subcategory in storage order.
func (r *SubcategoryRepository) List(ctx context.Context) ([]types.Subcategory, error) {
	rows, err := r.rs.ReadAll(ctx, TableSubcategories)
	if err != nil {
		return nil, err
	}
	subcategories := make([]types.Subcategory, 0, len(rows))
	for _, row := range rows {
		subcategories = append(subcategories, rowToSubcategory(row))
	}
	return subcategories, nil
}

// ListByCategory returns the subcategories under the named category.
func (r *SubcategoryRepository) ListByCategory(ctx context.Context, category string) ([]types.Subcategory, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]types.Subcategory, 0, len(all))
	for _, s := range all {
		if strings.EqualFold(s.Category, category) {
			matched = append(matched, s)
		}
	}
	return matched, nil
}

// Get returns the subcategory with the given name under the named
// category, both matched case-insensitively.
func (r *SubcategoryRepository) Get(ctx context.Context, category, name string) (types.Subcategory, error) {
	all, err := r.List(ctx)
	if err != nil {
		return types.Subcategory{}, err
	}
	for _, s := range all {
		if strings.EqualFold(s.Category, category) && strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return types.Subcategory{}, ErrNotFound
}

// Create appends a new subcategory row, assigning its row identifier.
func (r *SubcategoryRepository) Create(ctx context.Context, subcategory types.Subcategory) (types.Subcategory, error) {
	subcategory.RowID = uuid.NewString()
	if err := r.rs.Append(ctx, TableSubcategories, subcategoryToRow(subcategory)); err != nil {
		return types.Subcategory{}, err
	}
	return subcategory, nil
}

// Delete removes the subcategory row addressed by its row identifier.
func (r *SubcategoryRepository) Delete(ctx context.Context, rowID string) error {
	pos, err := positionOf(ctx, r.rs, TableSubcategories, rowID)
	if err != nil {
		return err
	}
	return r.rs.Delete(ctx, TableSubcategories, pos)
}

func subcategoryToRow(s types.Subcategory) rowstore.Row {
	return rowstore.Row{
		"ID":               s.RowID,
		"Category":         s.Category,
		"Subcategory Name": s.Name,
		"Subcategory Code": s.Code,
		"Description":      s.Description,
	}
}

func rowToSubcategory(row rowstore.Row) types.Subcategory {
	return types.Subcategory{
		RowID:       row["ID"],
		Category:    row["Category"],
		Name:        row["Subcategory Name"],
		Code:        row["Subcategory Code"],
		Description: row["Description"],
	}
}
