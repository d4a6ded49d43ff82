package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/assettrack/apiserver/internal/rowstore"
	"github.com/assettrack/apiserver/internal/services"
	"github.com/assettrack/apiserver/internal/store"
	"github.com/assettrack/apiserver/types"
	"github.com/go-chi/chi/v5"
)

const testJWTSecret = "test-secret"

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	rs := rowstore.New(rowstore.NewMemoryBackend())
	if err := store.EnsureTables(context.Background(), rs); err != nil {
		t.Fatalf("ensure tables: %v", err)
	}

	locationRepo := store.NewLocationRepository(rs)
	categoryRepo := store.NewCategoryRepository(rs)
	subcategoryRepo := store.NewSubcategoryRepository(rs)
	brandRepo := store.NewBrandRepository(rs)
	assetTypeRepo := store.NewAssetTypeRepository(rs)
	assetRepo := store.NewAssetRepository(rs)
	movementRepo := store.NewMovementRepository(rs)

	userService := services.NewUserService(store.NewUserRepository(rs))
	catalogService := services.NewCatalogService(locationRepo, categoryRepo, subcategoryRepo, brandRepo, assetTypeRepo)
	assetService := services.NewAssetService(assetRepo, movementRepo, categoryRepo, subcategoryRepo, nil)
	dashboardService := services.NewDashboardService(assetRepo, locationRepo, movementRepo)

	authMiddleware := RequireAuth(testJWTSecret)
	adminOnly := RequireAdmin(userService)

	catalogHandler := NewCatalogHandler(catalogService)
	assetHandler := NewAssetHandler(assetService, nil)
	movementHandler := NewMovementHandler(assetService)
	dashboardHandler := NewDashboardHandler(dashboardService)

	router := chi.NewRouter()
	router.Get("/healthz", Healthz)
	router.Route("/auth", func(r chi.Router) {
		AuthRouter(r, userService, testJWTSecret)
	})
	router.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Route("/locations", func(r chi.Router) {
			LocationsRouter(r, catalogHandler, adminOnly)
		})
		r.Route("/categories", func(r chi.Router) {
			CategoriesRouter(r, catalogHandler, adminOnly)
		})
		r.Route("/subcategories", func(r chi.Router) {
			SubcategoriesRouter(r, catalogHandler, adminOnly)
		})
		r.Route("/brands", func(r chi.Router) {
			BrandsRouter(r, catalogHandler, adminOnly)
		})
		r.Route("/asset-types", func(r chi.Router) {
			AssetTypesRouter(r, catalogHandler, adminOnly)
		})
		r.Route("/assets", func(r chi.Router) {
			AssetRouter(r, assetHandler, adminOnly)
		})
		r.Route("/movements", func(r chi.Router) {
			MovementsRouter(r, movementHandler)
		})
		r.Route("/dashboard", func(r chi.Router) {
			DashboardRouter(r, dashboardHandler)
		})
	})
	return router
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func registerAndLogin(t *testing.T, router http.Handler, username, role string) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"username": username,
		"password": "secret1",
		"role":     role,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d: %s", username, rec.Code, rec.Body.String())
	}

	var parsed AuthResponse
	if err := json.NewDecoder(rec.Body).Decode(&parsed); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	if parsed.Token == "" {
		t.Fatalf("register returned no token")
	}
	return parsed.Token
}

func TestAuthFlow(t *testing.T) {
	router := newTestRouter(t)

	token := registerAndLogin(t, router, "alice", "")

	rec := doJSON(t, router, http.MethodGet, "/auth/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: status %d: %s", rec.Code, rec.Body.String())
	}
	var me types.User
	if err := json.NewDecoder(rec.Body).Decode(&me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.Username != "alice" {
		t.Fatalf("unexpected user %+v", me)
	}

	rec = doJSON(t, router, http.MethodGet, "/auth/me", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/auth/me", "not-a-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "ALICE",
		"password": "secret1",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate username, got %d", rec.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/locations", "/assets", "/dashboard", "/movements"} {
		rec := doJSON(t, router, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401 without token, got %d", path, rec.Code)
		}
	}
}

func TestAdminGatedDeletes(t *testing.T) {
	router := newTestRouter(t)

	admin := registerAndLogin(t, router, "root", types.RoleAdmin)
	user := registerAndLogin(t, router, "bob", "")

	rec := doJSON(t, router, http.MethodPost, "/locations", user, types.Location{Name: "HQ"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create location: status %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodDelete, "/locations/HQ", user, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin delete, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodDelete, "/locations/HQ", admin, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for admin delete, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodDelete, "/locations/HQ", admin, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for repeat delete, got %d", rec.Code)
	}
}

func TestAssetLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "root", types.RoleAdmin)

	seed := []struct {
		path string
		body any
	}{
		{"/categories", types.Category{Name: "Electronics", Code: "ELE"}},
		{"/subcategories", types.Subcategory{Category: "Electronics", Name: "Laptops", Code: "LAP"}},
		{"/locations", types.Location{Name: "HQ"}},
		{"/locations", types.Location{Name: "Branch"}},
		{"/brands", types.Brand{Name: "Dell"}},
	}
	for _, s := range seed {
		rec := doJSON(t, router, http.MethodPost, s.path, token, s.body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed %s: status %d: %s", s.path, rec.Code, rec.Body.String())
		}
	}

	rec := doJSON(t, router, http.MethodPost, "/assets", token, types.Asset{
		ItemName:    "Dell XPS",
		Category:    "Electronics",
		Subcategory: "Laptops",
		Brand:       "Dell",
		Location:    "HQ",
		Amount:      1299.99,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create asset: status %d: %s", rec.Code, rec.Body.String())
	}
	var created types.Asset
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode asset: %v", err)
	}
	if !strings.HasPrefix(created.Code, "AST-ELE-LAP-") {
		t.Fatalf("unexpected asset code %q", created.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/assets/"+created.Code, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get asset: status %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/assets/search?q=dell", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("search: status %d", rec.Code)
	}
	var found []types.Asset
	if err := json.NewDecoder(rec.Body).Decode(&found); err != nil {
		t.Fatalf("decode search: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected one search hit, got %d", len(found))
	}

	rec = doJSON(t, router, http.MethodPost, "/assets/"+created.Code+"/move", token, MoveRequest{
		ToLocation: "Branch",
		Reason:     "office move",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("move: status %d: %s", rec.Code, rec.Body.String())
	}
	var movement types.Movement
	if err := json.NewDecoder(rec.Body).Decode(&movement); err != nil {
		t.Fatalf("decode movement: %v", err)
	}
	if movement.FromLocation != "HQ" || movement.ToLocation != "Branch" {
		t.Fatalf("unexpected movement %+v", movement)
	}
	if movement.MovedBy != "root" {
		t.Fatalf("expected mover to default to the caller, got %q", movement.MovedBy)
	}

	rec = doJSON(t, router, http.MethodGet, "/assets/"+created.Code, token, nil)
	var moved types.Asset
	if err := json.NewDecoder(rec.Body).Decode(&moved); err != nil {
		t.Fatalf("decode moved asset: %v", err)
	}
	if moved.Location != "Branch" {
		t.Fatalf("asset location not updated, got %q", moved.Location)
	}

	rec = doJSON(t, router, http.MethodGet, "/movements?asset="+created.Code, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list movements: status %d", rec.Code)
	}
	var movements []types.Movement
	if err := json.NewDecoder(rec.Body).Decode(&movements); err != nil {
		t.Fatalf("decode movements: %v", err)
	}
	if len(movements) != 1 {
		t.Fatalf("expected exactly one movement, got %d", len(movements))
	}

	rec = doJSON(t, router, http.MethodGet, "/assets/"+created.Code+"/barcode.png", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("barcode: status %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("barcode content type %q", ct)
	}

	rec = doJSON(t, router, http.MethodDelete, "/assets/"+created.Code, token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, router, http.MethodGet, "/assets/"+created.Code, token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestAssetValidationOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "alice", "")

	rec := doJSON(t, router, http.MethodPost, "/assets", token, types.Asset{ItemName: "No Category"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/assets", token, types.Asset{
		ItemName: "x", Category: "Nope", Location: "HQ",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown category, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/assets/AST-MISSING/move", token, MoveRequest{ToLocation: "HQ"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 moving a missing asset, got %d", rec.Code)
	}
}

func TestAttachmentsUnavailableWithoutStorage(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "alice", "")

	for _, method := range []string{http.MethodPost, http.MethodGet, http.MethodDelete} {
		rec := doJSON(t, router, method, "/assets/AST-X/attachments/image", token, nil)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: expected 503 without object storage, got %d", method, rec.Code)
		}
	}
}

func TestDashboardOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "alice", "")

	rec := doJSON(t, router, http.MethodGet, "/dashboard", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard: status %d: %s", rec.Code, rec.Body.String())
	}
	var summary services.DashboardSummary
	if err := json.NewDecoder(rec.Body).Decode(&summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.TotalAssets != 0 {
		t.Fatalf("expected empty inventory, got %d assets", summary.TotalAssets)
	}
}

func TestSubcategoryFilterOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "alice", "")

	rec := doJSON(t, router, http.MethodPost, "/categories", token, types.Category{Name: "Electronics"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category: status %d", rec.Code)
	}
	for _, name := range []string{"Laptops", "Phones"} {
		rec = doJSON(t, router, http.MethodPost, "/subcategories", token, types.Subcategory{Category: "Electronics", Name: name})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create subcategory %s: status %d: %s", name, rec.Code, rec.Body.String())
		}
	}
	rec = doJSON(t, router, http.MethodPost, "/subcategories", token, types.Subcategory{Category: "Missing", Name: "X"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing parent category, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/subcategories?category=Electronics", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list subcategories: status %d", rec.Code)
	}
	var subs []types.Subcategory
	if err := json.NewDecoder(rec.Body).Decode(&subs); err != nil {
		t.Fatalf("decode subcategories: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 subcategories, got %d", len(subs))
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz: status %d", rec.Code)
	}
}
