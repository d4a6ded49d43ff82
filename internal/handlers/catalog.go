package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/assettrack/apiserver/internal/services"
	"github.com/assettrack/apiserver/internal/store"
	"github.com/assettrack/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// CatalogHandler serves the reference tables: locations, categories,
// subcategories, brands, and asset types.
type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// LocationsRouter registers location routes on the given router.
func LocationsRouter(r chi.Router, handler *CatalogHandler, adminOnly func(http.Handler) http.Handler) {
	r.Get("/", handler.ListLocations)
	r.Post("/", handler.CreateLocation)
	r.Put("/{name}", handler.UpdateLocation)
	r.With(adminOnly).Delete("/{name}", handler.DeleteLocation)
}

// CategoriesRouter registers category routes on the given router.
func CategoriesRouter(r chi.Router, handler *CatalogHandler, adminOnly func(http.Handler) http.Handler) {
	r.Get("/", handler.ListCategories)
	r.Post("/", handler.CreateCategory)
	r.Put("/{name}", handler.UpdateCategory)
	r.With(adminOnly).Delete("/{name}", handler.DeleteCategory)
}

// SubcategoriesRouter registers subcategory routes on the given router.
func SubcategoriesRouter(r chi.Router, handler *CatalogHandler, adminOnly func(http.Handler) http.Handler) {
	r.Get("/", handler.ListSubcategories)
	r.Post("/", handler.CreateSubcategory)
	r.With(adminOnly).Delete("/{category}/{name}", handler.DeleteSubcategory)
}

// BrandsRouter registers brand routes on the given router.
func BrandsRouter(r chi.Router, handler *CatalogHandler, adminOnly func(http.Handler) http.Handler) {
	r.Get("/", handler.ListBrands)
	r.Post("/", handler.CreateBrand)
	r.With(adminOnly).Delete("/{name}", handler.DeleteBrand)
}

// AssetTypesRouter registers asset type routes on the given router.
func AssetTypesRouter(r chi.Router, handler *CatalogHandler, adminOnly func(http.Handler) http.Handler) {
	r.Get("/", handler.ListAssetTypes)
	r.Post("/", handler.CreateAssetType)
	r.With(adminOnly).Delete("/{name}", handler.DeleteAssetType)
}

func (h *CatalogHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.catalogService.ListLocations(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list locations")
		return
	}
	writeJSON(w, http.StatusOK, locations)
}

func (h *CatalogHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var location types.Location
	if err := json.NewDecoder(r.Body).Decode(&location); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	created, err := h.catalogService.CreateLocation(r.Context(), location)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNameRequired):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrDuplicate):
			writeError(w, http.StatusConflict, "location already exists")
		default:
			writeError(w, http.StatusInternalServerError, "failed to create location")
		}
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *CatalogHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	var location types.Location
	if err := json.NewDecoder(r.Body).Decode(&location); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	updated, err := h.catalogService.UpdateLocation(r.Context(), chi.URLParam(r, "name"), location)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "location not found")
		case errors.Is(err, services.ErrNameRequired):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to update location")
		}
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *CatalogHandler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	h.deleteByName(w, r, "location", func(name string) error {
		return h.catalogService.DeleteLocation(r.Context(), name)
	})
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ListCategories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var category types.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	created, err := h.catalogService.CreateCategory(r.Context(), category)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNameRequired):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrDuplicate):
			writeError(w, http.StatusConflict, "category already exists")
		default:
			writeError(w, http.StatusInternalServerError, "failed to create category")
		}
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var category types.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	updated, err := h.catalogService.UpdateCategory(r.Context(), chi.URLParam(r, "name"), category)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "category not found")
		case errors.Is(err, services.ErrNameRequired):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to update category")
		}
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	h.deleteByName(w, r, "category", func(name string) error {
		return h.catalogService.DeleteCategory(r.Context(), name)
	})
}

func (h *CatalogHandler) ListSubcategories(w http.ResponseWriter, r *http.Request) {
	subcategories, err := h.catalogService.ListSubcategories(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list subcategories")
		return
	}
	writeJSON(w, http.StatusOK, subcategories)
}

func (h *CatalogHandler) CreateSubcategory(w http.ResponseWriter, r *http.Request) {
	var subcategory types.Subcategory
	if err := json.NewDecoder(r.Body).Decode(&subcategory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	created, err := h.catalogService.CreateSubcategory(r.Context(), subcategory)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusBadRequest, "category not found")
		case errors.Is(err, services.ErrNameRequired):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrDuplicate):
			writeError(w, http.StatusConflict, "subcategory already exists")
		default:
			writeError(w, http.StatusInternalServerError, "failed to create subcategory")
		}
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *CatalogHandler) DeleteSubcategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	name := chi.URLParam(r, "name")

	if err := h.catalogService.DeleteSubcategory(r.Context(), category, name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "subcategory not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete subcategory")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.catalogService.ListBrands(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list brands")
		return
	}
	writeJSON(w, http.StatusOK, brands)
}

func (h *CatalogHandler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var brand types.Brand
	if err := json.NewDecoder(r.Body).Decode(&brand); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	created, err := h.catalogService.CreateBrand(r.Context(), brand)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNameRequired):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrDuplicate):
			writeError(w, http.StatusConflict, "brand already exists")
		default:
			writeError(w, http.StatusInternalServerError, "failed to create brand")
		}
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *CatalogHandler) DeleteBrand(w http.ResponseWriter, r *http.Request) {
	h.deleteByName(w, r, "brand", func(name string) error {
		return h.catalogService.DeleteBrand(r.Context(), name)
	})
}

func (h *CatalogHandler) ListAssetTypes(w http.ResponseWriter, r *http.Request) {
	assetTypes, err := h.catalogService.ListAssetTypes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list asset types")
		return
	}
	writeJSON(w, http.StatusOK, assetTypes)
}

func (h *CatalogHandler) CreateAssetType(w http.ResponseWriter, r *http.Request) {
	var assetType types.AssetType
	if err := json.NewDecoder(r.Body).Decode(&assetType); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	created, err := h.catalogService.CreateAssetType(r.Context(), assetType)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNameRequired):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrDuplicate):
			writeError(w, http.StatusConflict, "asset type already exists")
		default:
			writeError(w, http.StatusInternalServerError, "failed to create asset type")
		}
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *CatalogHandler) DeleteAssetType(w http.ResponseWriter, r *http.Request) {
	h.deleteByName(w, r, "asset type", func(name string) error {
		return h.catalogService.DeleteAssetType(r.Context(), name)
	})
}

func (h *CatalogHandler) deleteByName(w http.ResponseWriter, r *http.Request, entity string, delete func(name string) error) {
	name := chi.URLParam(r, "name")
	if err := delete(name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, entity+" not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete "+entity)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
