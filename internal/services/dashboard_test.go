package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/assettrack/apiserver/internal/rowstore"
	"github.com/assettrack/apiserver/internal/store"
	"github.com/assettrack/apiserver/types"
)

func TestDashboardSummary(t *testing.T) {
	ctx := context.Background()
	rs := rowstore.New(rowstore.NewMemoryBackend())
	if err := store.EnsureTables(ctx, rs); err != nil {
		t.Fatalf("ensure tables: %v", err)
	}
	assetRepo := store.NewAssetRepository(rs)
	locationRepo := store.NewLocationRepository(rs)
	movementRepo := store.NewMovementRepository(rs)
	svc := NewDashboardService(assetRepo, locationRepo, movementRepo)

	for _, name := range []string{"HQ", "Branch"} {
		if _, err := locationRepo.Create(ctx, types.Location{Name: name}); err != nil {
			t.Fatalf("create location %s: %v", name, err)
		}
	}

	seed := []types.Asset{
		{Code: "AST-1", ItemName: "Laptop", Category: "Electronics", Location: "HQ", Status: "Active", Amount: 1000, Department: "IT"},
		{Code: "AST-2", ItemName: "Desk", Category: "Furniture", Location: "HQ", Status: "Inactive", Amount: 200, Department: "IT"},
		{Code: "AST-3", ItemName: "Chair", Category: "Furniture", Location: "Branch", Status: "Active", Amount: 150, Department: "HR"},
	}
	for _, a := range seed {
		if _, err := assetRepo.Create(ctx, a); err != nil {
			t.Fatalf("create asset %s: %v", a.Code, err)
		}
	}

	summary, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if summary.TotalAssets != 3 {
		t.Fatalf("total assets = %d", summary.TotalAssets)
	}
	// "Inactive" must not count as active.
	if summary.ActiveAssets != 2 {
		t.Fatalf("active assets = %d", summary.ActiveAssets)
	}
	if summary.TotalValue != 1350 {
		t.Fatalf("total value = %v", summary.TotalValue)
	}
	if summary.TotalLocations != 2 {
		t.Fatalf("total locations = %d", summary.TotalLocations)
	}
	if summary.ByStatus["Active"] != 2 || summary.ByStatus["Inactive"] != 1 {
		t.Fatalf("by status = %v", summary.ByStatus)
	}
	if summary.ByLocation["HQ"] != 2 || summary.ByLocation["Branch"] != 1 {
		t.Fatalf("by location = %v", summary.ByLocation)
	}
	if summary.ByCategory["Furniture"] != 2 {
		t.Fatalf("by category = %v", summary.ByCategory)
	}
	if summary.ValueByDepartment["IT"] != 1200 || summary.ValueByDepartment["HR"] != 150 {
		t.Fatalf("value by department = %v", summary.ValueByDepartment)
	}
}

func TestDashboardRecentMovementsCapped(t *testing.T) {
	ctx := context.Background()
	rs := rowstore.New(rowstore.NewMemoryBackend())
	if err := store.EnsureTables(ctx, rs); err != nil {
		t.Fatalf("ensure tables: %v", err)
	}
	movementRepo := store.NewMovementRepository(rs)
	svc := NewDashboardService(store.NewAssetRepository(rs), store.NewLocationRepository(rs), movementRepo)

	for i := 0; i < 13; i++ {
		_, err := movementRepo.Create(ctx, types.Movement{
			AssetCode:  fmt.Sprintf("AST-%d", i),
			ToLocation: "HQ",
		})
		if err != nil {
			t.Fatalf("create movement %d: %v", i, err)
		}
	}

	summary, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(summary.RecentMovements) != 10 {
		t.Fatalf("expected 10 recent movements, got %d", len(summary.RecentMovements))
	}
	// The newest movements survive the cap.
	last := summary.RecentMovements[len(summary.RecentMovements)-1]
	if last.AssetCode != "AST-12" {
		t.Fatalf("unexpected newest movement %+v", last)
	}
}
