package store

import (
	"context"
	"errors"
	"testing"

	"github.com/assettrack/apiserver/internal/rowstore"
	"github.com/assettrack/apiserver/types"
)

func newTestStore(t *testing.T) *rowstore.RowStore {
	t.Helper()
	rs := rowstore.New(rowstore.NewMemoryBackend())
	if err := EnsureTables(context.Background(), rs); err != nil {
		t.Fatalf("ensure tables: %v", err)
	}
	return rs
}

func TestUserCreateAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestStore(t))

	first, err := repo.Create(ctx, types.User{Username: "alice", PasswordHash: "h1"})
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	second, err := repo.Create(ctx, types.User{Username: "bob", PasswordHash: "h2"})
	if err != nil {
		t.Fatalf("create bob: %v", err)
	}

	if first.ID != 1 || second.ID != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", first.ID, second.ID)
	}
}

func TestUserGetByUsernameCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestStore(t))

	if _, err := repo.Create(ctx, types.User{Username: "Alice", PasswordHash: "h"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	user, err := repo.GetByUsername(ctx, "ALICE")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if user.Username != "Alice" {
		t.Fatalf("unexpected username %q", user.Username)
	}

	if _, err := repo.GetByUsername(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRoleDefaultsOnRead(t *testing.T) {
	ctx := context.Background()
	rs := newTestStore(t)

	// A row written without a role, as older deployments did.
	err := rs.Append(ctx, TableUsers, rowstore.Row{"ID": "1", "Username": "legacy", "Password": "h"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	user, err := NewUserRepository(rs).GetByUsername(ctx, "legacy")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if user.Role != types.RoleUser {
		t.Fatalf("expected default role %q, got %q", types.RoleUser, user.Role)
	}
}

func TestAssetRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewAssetRepository(newTestStore(t))

	created, err := repo.Create(ctx, types.Asset{
		Code:        "AST-ELE-LAP-123456-9999",
		ItemName:    "Dell XPS",
		Category:    "Electronics",
		Subcategory: "Laptops",
		Amount:      1299.99,
		Location:    "HQ",
		Status:      "Active",
		Ownership:   "Company",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.RowID == "" {
		t.Fatalf("expected a row id to be assigned")
	}
	if created.CreatedAt.IsZero() {
		t.Fatalf("expected creation timestamp to be set")
	}

	got, err := repo.GetByCode(ctx, "ast-ele-lap-123456-9999")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ItemName != "Dell XPS" || got.Amount != 1299.99 || got.Location != "HQ" {
		t.Fatalf("round trip lost data: %+v", got)
	}
	if got.RowID != created.RowID {
		t.Fatalf("row id changed across round trip")
	}
}

func TestAssetUpdateAddressesRowByID(t *testing.T) {
	ctx := context.Background()
	repo := NewAssetRepository(newTestStore(t))

	var assets []types.Asset
	for _, name := range []string{"first", "second", "third"} {
		a, err := repo.Create(ctx, types.Asset{Code: "AST-" + name, ItemName: name, Category: "C", Location: "HQ"})
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		assets = append(assets, a)
	}

	// Deleting an earlier row shifts positions; the identifier must
	// still address the right row.
	if err := repo.Delete(ctx, assets[0].RowID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	assets[2].ItemName = "third renamed"
	if err := repo.Update(ctx, assets[2]); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.GetByCode(ctx, "AST-third")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ItemName != "third renamed" {
		t.Fatalf("update hit the wrong row: %+v", got)
	}

	untouched, err := repo.GetByCode(ctx, "AST-second")
	if err != nil {
		t.Fatalf("get second: %v", err)
	}
	if untouched.ItemName != "second" {
		t.Fatalf("neighbor row changed: %+v", untouched)
	}
}

func TestAssetDeleteThenNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewAssetRepository(newTestStore(t))

	created, err := repo.Create(ctx, types.Asset{Code: "AST-GONE", ItemName: "x", Category: "C", Location: "HQ"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Delete(ctx, created.RowID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := repo.GetByCode(ctx, "AST-GONE"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, created.RowID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestAssetCodes(t *testing.T) {
	ctx := context.Background()
	repo := NewAssetRepository(newTestStore(t))

	for _, code := range []string{"AST-A", "AST-B"} {
		if _, err := repo.Create(ctx, types.Asset{Code: code, ItemName: "x", Category: "C", Location: "HQ"}); err != nil {
			t.Fatalf("create %s: %v", code, err)
		}
	}

	codes, err := repo.Codes(ctx)
	if err != nil {
		t.Fatalf("codes: %v", err)
	}
	if !codes["AST-A"] || !codes["AST-B"] || len(codes) != 2 {
		t.Fatalf("unexpected code set: %v", codes)
	}
}

func TestMovementListByAsset(t *testing.T) {
	ctx := context.Background()
	repo := NewMovementRepository(newTestStore(t))

	moves := []types.Movement{
		{AssetCode: "AST-A", FromLocation: "HQ", ToLocation: "Branch", MovedBy: "alice"},
		{AssetCode: "AST-B", FromLocation: "HQ", ToLocation: "Warehouse", MovedBy: "bob"},
		{AssetCode: "AST-A", FromLocation: "Branch", ToLocation: "HQ", MovedBy: "alice"},
	}
	for _, m := range moves {
		if _, err := repo.Create(ctx, m); err != nil {
			t.Fatalf("create movement: %v", err)
		}
	}

	got, err := repo.ListByAsset(ctx, "ast-a")
	if err != nil {
		t.Fatalf("list by asset: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 movements for AST-A, got %d", len(got))
	}
	if got[0].ToLocation != "Branch" || got[1].ToLocation != "HQ" {
		t.Fatalf("movements out of order: %+v", got)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 movements, got %d", len(all))
	}
}

func TestSubcategoryScopedLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewSubcategoryRepository(newTestStore(t))

	subs := []types.Subcategory{
		{Category: "Electronics", Name: "Laptops", Code: "LAP"},
		{Category: "Furniture", Name: "Chairs", Code: "CHA"},
		{Category: "Electronics", Name: "Phones", Code: "PHO"},
	}
	for _, s := range subs {
		if _, err := repo.Create(ctx, s); err != nil {
			t.Fatalf("create %s: %v", s.Name, err)
		}
	}

	scoped, err := repo.ListByCategory(ctx, "Electronics")
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(scoped) != 2 {
		t.Fatalf("expected 2 electronics subcategories, got %d", len(scoped))
	}

	got, err := repo.Get(ctx, "electronics", "laptops")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Code != "LAP" {
		t.Fatalf("unexpected subcategory: %+v", got)
	}

	if _, err := repo.Get(ctx, "Furniture", "Laptops"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound across categories, got %v", err)
	}
}

func TestLocationCreateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewLocationRepository(newTestStore(t))

	created, err := repo.Create(ctx, types.Location{Name: "HQ", Address: "1 Main St"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.RowID == "" {
		t.Fatalf("expected a row id to be assigned")
	}

	got, err := repo.GetByName(ctx, "hq")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Address != "1 Main St" {
		t.Fatalf("round trip lost data: %+v", got)
	}

	if err := repo.Delete(ctx, created.RowID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByName(ctx, "HQ"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
