package store

import (
	"context"
	"strings"

	"github.com/assettrack/apiserver/internal/rowstore"
	"github.com/assettrack/apiserver/types"
	"github.com/google/uuid"
)

// CategoryRepository handles persistence for categories.
type CategoryRepository struct {
	rs *rowstore.RowStore
}

func NewCategoryRepository(rs *rowstore.RowStore) *CategoryRepository {
	return &CategoryRepository{rs: rs}
}

// List returns every category in storage order.
func (r *CategoryRepository) List(ctx context.Context) ([]types.Category, error) {
	rows, err := r.rs.ReadAll(ctx, TableCategories)
	if err != nil {
		return nil, err
	}
	categories := make([]types.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, rowToCategory(row))
	}
	return categories, nil
}

// GetByName returns the category with the given name, matched
// case-insensitively.
func (r *CategoryRepository) GetByName(ctx context.Context, name string) (types.Category, error) {
	categories, err := r.List(ctx)
	if err != nil {
		return types.Category{}, err
	}
	for _, c := range categories {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return types.Category{}, ErrNotFound
}

// Create appends a new category row, assigning its row identifier.
func (r *CategoryRepository) Create(ctx context.Context, category types.Category) (types.Category, error) {
	category.RowID = uuid.NewString()
	if err := r.rs.Append(ctx, TableCategories, categoryToRow(category)); err != nil {
		return types.Category{}, err
	}
	return category, nil
}

// Update overwrites the category row addressed by its row identifier.
func (r *CategoryRepository) Update(ctx context.Context, category types.Category) error {
	pos, err := positionOf(ctx, r.rs, TableCategories, category.RowID)
	if err != nil {
		return err
	}
	return r.rs.Update(ctx, TableCategories, pos, categoryToRow(category))
}

// Delete removes the category row addressed by its row identifier.
func (r *CategoryRepository) Delete(ctx context.Context, rowID string) error {
	pos, err := positionOf(ctx, r.rs, TableCategories, rowID)
	if err != nil {
		return err
	}
	return r.rs.Delete(ctx, TableCategories, pos)
}

func categoryToRow(c types.Category) rowstore.Row {
	return rowstore.Row{
		"ID":            c.RowID,
		"Category Name": c.Name,
		"Category Code": c.Code,
		"Description":   c.Description,
	}
}

func rowToCategory(row rowstore.Row) types.Category {
	return types.Category{
		RowID:       row["ID"],
		Name:        row["Category Name"],
		Code:        row["Category Code"],
		Description: row["Description"],
	}
}
