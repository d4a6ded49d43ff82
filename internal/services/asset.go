package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/assettrack/apiserver/internal/assetcode"
	"github.com/assettrack/apiserver/internal/events"
	"github.com/assettrack/apiserver/internal/metrics"
	"github.com/assettrack/apiserver/internal/store"
	"github.com/assettrack/apiserver/types"
)

// Validation failures surfaced by asset operations.
var (
	ErrMissingAssetFields = errors.New("item name, category, and location are required")
	ErrInvalidStatus      = errors.New("invalid asset status")
	ErrInvalidOwnership   = errors.New("invalid ownership")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrMissingDestination = errors.New("destination location is required")
)

// AssetRepository defines persistence operations for assets.
type AssetRepository interface {
	List(ctx context.Context) ([]types.Asset, error)
	GetByCode(ctx context.Context, code string) (types.Asset, error)
	Codes(ctx context.Context) (map[string]bool, error)
	Create(ctx context.Context, asset types.Asset) (types.Asset, error)
	Update(ctx context.Context, asset types.Asset) error
	Delete(ctx context.Context, rowID string) error
}

// MovementRepository defines persistence operations for movements.
type MovementRepository interface {
	List(ctx context.Context) ([]types.Movement, error)
	ListByAsset(ctx context.Context, assetCode string) ([]types.Movement, error)
	Create(ctx context.Context, movement types.Movement) (types.Movement, error)
}

// AssetService encapsulates asset lifecycle use-cases: creation with
// code generation, edits, search, and movements.
type AssetService struct {
	assets        AssetRepository
	movements     MovementRepository
	categories    CategoryRepository
	subcategories SubcategoryRepository
	publisher     *events.Publisher
}

func NewAssetService(
	assets AssetRepository,
	movements MovementRepository,
	categories CategoryRepository,
	subcategories SubcategoryRepository,
	publisher *events.Publisher,
) *AssetService {
	return &AssetService{
		assets:        assets,
		movements:     movements,
		categories:    categories,
		subcategories: subcategories,
		publisher:     publisher,
	}
}

// List returns every asset.
func (s *AssetService) List(ctx context.Context) ([]types.Asset, error) {
	return s.assets.List(ctx)
}

// GetByCode returns the asset with the given code.
func (s *AssetService) GetByCode(ctx context.Context, code string) (types.Asset, error) {
	return s.assets.GetByCode(ctx, code)
}

// Create validates the asset, generates its code from the category and
// subcategory short codes, and appends the row.
func (s *AssetService) Create(ctx context.Context, asset types.Asset, actor string) (types.Asset, error) {
	if err := validateAsset(asset); err != nil {
		return types.Asset{}, err
	}
	if asset.Status == "" {
		asset.Status = "Active"
	}

	categoryCode, subcategoryCode, err := s.resolveCodes(ctx, asset.Category, asset.Subcategory)
	if err != nil {
		return types.Asset{}, err
	}

	existing, err := s.assets.Codes(ctx)
	if err != nil {
		return types.Asset{}, err
	}
	asset.Code = assetcode.Generate(assetcode.DefaultPrefix, categoryCode, subcategoryCode, existing)

	created, err := s.assets.Create(ctx, asset)
	if err != nil {
		return types.Asset{}, err
	}

	metrics.RecordAssetOperation("create")
	s.publisher.Publish(ctx, events.Event{
		Kind:       events.AssetCreated,
		AssetCode:  created.Code,
		ToLocation: created.Location,
		Actor:      actor,
	})
	return created, nil
}

// Update edits an asset in place. The asset code is immutable; the
// stored record's code and row identity are preserved.
func (s *AssetService) Update(ctx context.Context, code string, asset types.Asset) (types.Asset, error) {
	if err := validateAsset(asset); err != nil {
		return types.Asset{}, err
	}

	current, err := s.assets.GetByCode(ctx, code)
	if err != nil {
		return types.Asset{}, err
	}

	asset.RowID = current.RowID
	asset.Code = current.Code
	asset.HasImage = current.HasImage
	asset.HasDocument = current.HasDocument
	asset.CreatedAt = current.CreatedAt

	if err := s.assets.Update(ctx, asset); err != nil {
		return types.Asset{}, err
	}
	metrics.RecordAssetOperation("update")
	return asset, nil
}

// Delete removes the asset with the given code.
func (s *AssetService) Delete(ctx context.Context, code, actor string) error {
	asset, err := s.assets.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if err := s.assets.Delete(ctx, asset.RowID); err != nil {
		return err
	}

	metrics.RecordAssetOperation("delete")
	s.publisher.Publish(ctx, events.Event{
		Kind:         events.AssetDeleted,
		AssetCode:    asset.Code,
		FromLocation: asset.Location,
		Actor:        actor,
	})
	return nil
}

// Move records a movement for the asset and updates its location
// field. The two writes form one logical unit here but are not
// isolated: the backing store has no transactions, so a concurrent
// change between them is lost. Substituting a store with conditional
// updates would not change this method's callers.
func (s *AssetService) Move(ctx context.Context, code, toLocation, reason, movedBy string, date time.Time) (types.Movement, error) {
	if strings.TrimSpace(toLocation) == "" {
		return types.Movement{}, ErrMissingDestination
	}
	if date.IsZero() {
		date = time.Now()
	}

	asset, err := s.assets.GetByCode(ctx, code)
	if err != nil {
		return types.Movement{}, err
	}

	movement, err := s.movements.Create(ctx, types.Movement{
		AssetCode:    asset.Code,
		FromLocation: asset.Location,
		ToLocation:   toLocation,
		Reason:       reason,
		Date:         date,
		MovedBy:      movedBy,
	})
	if err != nil {
		return types.Movement{}, err
	}

	asset.Location = toLocation
	if err := s.assets.Update(ctx, asset); err != nil {
		return types.Movement{}, err
	}

	metrics.RecordAssetOperation("move")
	s.publisher.Publish(ctx, events.Event{
		Kind:         events.AssetMoved,
		AssetCode:    asset.Code,
		FromLocation: movement.FromLocation,
		ToLocation:   movement.ToLocation,
		Actor:        movedBy,
	})
	return movement, nil
}

// Search returns assets whose code, item name, or description contains
// the term, case-insensitively. An empty term returns everything.
func (s *AssetService) Search(ctx context.Context, term string) ([]types.Asset, error) {
	assets, err := s.assets.List(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(term) == "" {
		return assets, nil
	}

	term = strings.ToLower(term)
	matched := make([]types.Asset, 0, len(assets))
	for _, a := range assets {
		if strings.Contains(strings.ToLower(a.Code), term) ||
			strings.Contains(strings.ToLower(a.ItemName), term) ||
			strings.Contains(strings.ToLower(a.Description), term) {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

// SetAttachmentFlag flips the asset's image or document flag after an
// attachment upload or removal.
func (s *AssetService) SetAttachmentFlag(ctx context.Context, code, kind string, present bool) error {
	asset, err := s.assets.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	switch kind {
	case "image":
		asset.HasImage = present
	case "document":
		asset.HasDocument = present
	default:
		return errors.New("unknown attachment kind")
	}
	return s.assets.Update(ctx, asset)
}

// ListMovements returns all recorded movements, optionally filtered by
// asset code.
func (s *AssetService) ListMovements(ctx context.Context, assetCode string) ([]types.Movement, error) {
	if assetCode == "" {
		return s.movements.List(ctx)
	}
	return s.movements.ListByAsset(ctx, assetCode)
}

// resolveCodes looks up the short codes for the asset's category and
// subcategory. A stored code wins; a stored record without a code falls
// back to the derived default. A missing subcategory yields an empty
// code, which switches code generation to the long timestamp form.
func (s *AssetService) resolveCodes(ctx context.Context, category, subcategory string) (string, string, error) {
	cat, err := s.categories.GetByName(ctx, category)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", "", fmt.Errorf("%w: %s", ErrUnknownCategory, category)
		}
		return "", "", err
	}
	categoryCode := cat.Code
	if categoryCode == "" {
		categoryCode = assetcode.DefaultCode(cat.Name)
	}

	if strings.TrimSpace(subcategory) == "" {
		return categoryCode, "", nil
	}

	sub, err := s.subcategories.Get(ctx, category, subcategory)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return categoryCode, "", nil
		}
		return "", "", err
	}
	subcategoryCode := sub.Code
	if subcategoryCode == "" {
		subcategoryCode = assetcode.DefaultCode(sub.Name)
	}
	return categoryCode, subcategoryCode, nil
}

func validateAsset(asset types.Asset) error {
	if strings.TrimSpace(asset.ItemName) == "" ||
		strings.TrimSpace(asset.Category) == "" ||
		strings.TrimSpace(asset.Location) == "" {
		return ErrMissingAssetFields
	}
	if asset.Status != "" && !types.ValidAssetStatus(asset.Status) {
		return ErrInvalidStatus
	}
	if !types.ValidOwnership(asset.Ownership) {
		return ErrInvalidOwnership
	}
	return nil
}
