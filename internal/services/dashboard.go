package services

import (
	"context"
	"strings"

	"github.com/assettrack/apiserver/types"
)

const recentMovementLimit = 10

// DashboardSummary aggregates inventory statistics for the dashboard.
type DashboardSummary struct {
	TotalAssets       int                `json:"total_assets"`
	ActiveAssets      int                `json:"active_assets"`
	TotalValue        float64            `json:"total_value"`
	TotalLocations    int                `json:"total_locations"`
	ByStatus          map[string]int     `json:"by_status"`
	ByLocation        map[string]int     `json:"by_location"`
	ByCategory        map[string]int     `json:"by_category"`
	ValueByDepartment map[string]float64 `json:"value_by_department"`
	RecentMovements   []types.Movement   `json:"recent_movements"`
}

// DashboardService computes inventory statistics from full-table reads.
type DashboardService struct {
	assets    AssetRepository
	locations LocationRepository
	movements MovementRepository
}

func NewDashboardService(assets AssetRepository, locations LocationRepository, movements MovementRepository) *DashboardService {
	return &DashboardService{
		assets:    assets,
		locations: locations,
		movements: movements,
	}
}

// Summary builds the dashboard aggregates.
func (s *DashboardService) Summary(ctx context.Context) (DashboardSummary, error) {
	assets, err := s.assets.List(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}
	locations, err := s.locations.List(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}
	movements, err := s.movements.List(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}

	summary := DashboardSummary{
		TotalAssets:       len(assets),
		TotalLocations:    len(locations),
		ByStatus:          make(map[string]int),
		ByLocation:        make(map[string]int),
		ByCategory:        make(map[string]int),
		ValueByDepartment: make(map[string]float64),
	}

	for _, a := range assets {
		if strings.Contains(strings.ToLower(a.Status), "active") && !strings.Contains(strings.ToLower(a.Status), "inactive") {
			summary.ActiveAssets++
		}
		summary.TotalValue += a.Amount
		if a.Status != "" {
			summary.ByStatus[a.Status]++
		}
		if a.Location != "" {
			summary.ByLocation[a.Location]++
		}
		if a.Category != "" {
			summary.ByCategory[a.Category]++
		}
		if a.Department != "" {
			summary.ValueByDepartment[a.Department] += a.Amount
		}
	}

	start := len(movements) - recentMovementLimit
	if start < 0 {
		start = 0
	}
	summary.RecentMovements = movements[start:]

	return summary, nil
}
