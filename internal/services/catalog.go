package services

import (
	"context"
	"errors"
	"strings"

	"github.com/assettrack/apiserver/internal/assetcode"
	"github.com/assettrack/apiserver/internal/store"
	"github.com/assettrack/apiserver/types"
)

// ErrNameRequired is returned when a catalog record is missing its name.
var ErrNameRequired = errors.New("name is required")

// LocationRepository defines persistence operations for locations.
type LocationRepository interface {
	List(ctx context.Context) ([]types.Location, error)
	GetByName(ctx context.Context, name string) (types.Location, error)
	Create(ctx context.Context, location types.Location) (types.Location, error)
	Update(ctx context.Context, location types.Location) error
	Delete(ctx context.Context, rowID string) error
}

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]types.Category, error)
	GetByName(ctx context.Context, name string) (types.Category, error)
	Create(ctx context.Context, category types.Category) (types.Category, error)
	Update(ctx context.Context, category types.Category) error
	Delete(ctx context.Context, rowID string) error
}

// SubcategoryRepository defines persistence operations for subcategories.
type SubcategoryRepository interface {
	List(ctx context.Context) ([]types.Subcategory, error)
	ListByCategory(ctx context.Context, category string) ([]types.Subcategory, error)
	Get(ctx context.Context, category, name string) (types.Subcategory, error)
	Create(ctx context.Context, subcategory types.Subcategory) (types.Subcategory, error)
	Delete(ctx context.Context, rowID string) error
}

// BrandRepository defines persistence operations for brands.
type BrandRepository interface {
	List(ctx context.Context) ([]types.Brand, error)
	GetByName(ctx context.Context, name string) (types.Brand, error)
	Create(ctx context.Context, brand types.Brand) (types.Brand, error)
	Delete(ctx context.Context, rowID string) error
}

// AssetTypeRepository defines persistence operations for asset types.
type AssetTypeRepository interface {
	List(ctx context.Context) ([]types.AssetType, error)
	GetByName(ctx context.Context, name string) (types.AssetType, error)
	Create(ctx context.Context, assetType types.AssetType) (types.AssetType, error)
	Delete(ctx context.Context, rowID string) error
}

// CatalogService manages the reference tables assets point into:
// locations, categories, subcategories, brands, and asset types.
type CatalogService struct {
	locations     LocationRepository
	categories    CategoryRepository
	subcategories SubcategoryRepository
	brands        BrandRepository
	assetTypes    AssetTypeRepository
}

func NewCatalogService(
	locations LocationRepository,
	categories CategoryRepository,
	subcategories SubcategoryRepository,
	brands BrandRepository,
	assetTypes AssetTypeRepository,
) *CatalogService {
	return &CatalogService{
		locations:     locations,
		categories:    categories,
		subcategories: subcategories,
		brands:        brands,
		assetTypes:    assetTypes,
	}
}

func (s *CatalogService) ListLocations(ctx context.Context) ([]types.Location, error) {
	return s.locations.List(ctx)
}

func (s *CatalogService) CreateLocation(ctx context.Context, location types.Location) (types.Location, error) {
	if strings.TrimSpace(location.Name) == "" {
		return types.Location{}, ErrNameRequired
	}
	if _, err := s.locations.GetByName(ctx, location.Name); err == nil {
		return types.Location{}, store.ErrDuplicate
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.Location{}, err
	}
	return s.locations.Create(ctx, location)
}

// UpdateLocation edits the location with the given name in place. The
// name itself is editable; assets referencing the old name keep it and
// dangle, matching the store's lack of referential integrity.
func (s *CatalogService) UpdateLocation(ctx context.Context, name string, location types.Location) (types.Location, error) {
	if strings.TrimSpace(location.Name) == "" {
		return types.Location{}, ErrNameRequired
	}
	current, err := s.locations.GetByName(ctx, name)
	if err != nil {
		return types.Location{}, err
	}
	location.RowID = current.RowID
	if err := s.locations.Update(ctx, location); err != nil {
		return types.Location{}, err
	}
	return location, nil
}

// DeleteLocation removes the location with the given name.
func (s *CatalogService) DeleteLocation(ctx context.Context, name string) error {
	location, err := s.locations.GetByName(ctx, name)
	if err != nil {
		return err
	}
	return s.locations.Delete(ctx, location.RowID)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]types.Category, error) {
	return s.categories.List(ctx)
}

// CreateCategory creates a category, defaulting a missing code to the
// first three letters of the name, uppercased.
func (s *CatalogService) CreateCategory(ctx context.Context, category types.Category) (types.Category, error) {
	if strings.TrimSpace(category.Name) == "" {
		return types.Category{}, ErrNameRequired
	}
	if _, err := s.categories.GetByName(ctx, category.Name); err == nil {
		return types.Category{}, store.ErrDuplicate
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.Category{}, err
	}
	if strings.TrimSpace(category.Code) == "" {
		category.Code = assetcode.DefaultCode(category.Name)
	}
	return s.categories.Create(ctx, category)
}

// UpdateCategory edits the category with the given name in place,
// defaulting a cleared code like CreateCategory does.
func (s *CatalogService) UpdateCategory(ctx context.Context, name string, category types.Category) (types.Category, error) {
	if strings.TrimSpace(category.Name) == "" {
		return types.Category{}, ErrNameRequired
	}
	current, err := s.categories.GetByName(ctx, name)
	if err != nil {
		return types.Category{}, err
	}
	category.RowID = current.RowID
	if strings.TrimSpace(category.Code) == "" {
		category.Code = assetcode.DefaultCode(category.Name)
	}
	if err := s.categories.Update(ctx, category); err != nil {
		return types.Category{}, err
	}
	return category, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, name string) error {
	category, err := s.categories.GetByName(ctx, name)
	if err != nil {
		return err
	}
	return s.categories.Delete(ctx, category.RowID)
}

func (s *CatalogService) ListSubcategories(ctx context.Context, category string) ([]types.Subcategory, error) {
	if category == "" {
		return s.subcategories.List(ctx)
	}
	return s.subcategories.ListByCategory(ctx, category)
}

// CreateSubcategory creates a subcategory under an existing category,
// defaulting a missing code like CreateCategory does.
func (s *CatalogService) CreateSubcategory(ctx context.Context, subcategory types.Subcategory) (types.Subcategory, error) {
	if strings.TrimSpace(subcategory.Name) == "" || strings.TrimSpace(subcategory.Category) == "" {
		return types.Subcategory{}, errors.New("category and subcategory name are required")
	}
	if _, err := s.categories.GetByName(ctx, subcategory.Category); err != nil {
		return types.Subcategory{}, err
	}
	if _, err := s.subcategories.Get(ctx, subcategory.Category, subcategory.Name); err == nil {
		return types.Subcategory{}, store.ErrDuplicate
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.Subcategory{}, err
	}
	if strings.TrimSpace(subcategory.Code) == "" {
		subcategory.Code = assetcode.DefaultCode(subcategory.Name)
	}
	return s.subcategories.Create(ctx, subcategory)
}

func (s *CatalogService) DeleteSubcategory(ctx context.Context, category, name string) error {
	subcategory, err := s.subcategories.Get(ctx, category, name)
	if err != nil {
		return err
	}
	return s.subcategories.Delete(ctx, subcategory.RowID)
}

func (s *CatalogService) ListBrands(ctx context.Context) ([]types.Brand, error) {
	return s.brands.List(ctx)
}

func (s *CatalogService) CreateBrand(ctx context.Context, brand types.Brand) (types.Brand, error) {
	if strings.TrimSpace(brand.Name) == "" {
		return types.Brand{}, ErrNameRequired
	}
	if _, err := s.brands.GetByName(ctx, brand.Name); err == nil {
		return types.Brand{}, store.ErrDuplicate
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.Brand{}, err
	}
	return s.brands.Create(ctx, brand)
}

func (s *CatalogService) DeleteBrand(ctx context.Context, name string) error {
	brand, err := s.brands.GetByName(ctx, name)
	if err != nil {
		return err
	}
	return s.brands.Delete(ctx, brand.RowID)
}

func (s *CatalogService) ListAssetTypes(ctx context.Context) ([]types.AssetType, error) {
	return s.assetTypes.List(ctx)
}

func (s *CatalogService) CreateAssetType(ctx context.Context, assetType types.AssetType) (types.AssetType, error) {
	if strings.TrimSpace(assetType.Name) == "" {
		return types.AssetType{}, ErrNameRequired
	}
	if _, err := s.assetTypes.GetByName(ctx, assetType.Name); err == nil {
		return types.AssetType{}, store.ErrDuplicate
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.AssetType{}, err
	}
	return s.assetTypes.Create(ctx, assetType)
}

func (s *CatalogService) DeleteAssetType(ctx context.Context, name string) error {
	assetType, err := s.assetTypes.GetByName(ctx, name)
	if err != nil {
		return err
	}
	return s.assetTypes.Delete(ctx, assetType.RowID)
}
