package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/assettrack/apiserver/internal/barcode"
	"github.com/assettrack/apiserver/internal/services"
	"github.com/assettrack/apiserver/internal/storage"
	"github.com/assettrack/apiserver/internal/store"
	"github.com/assettrack/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// maxAttachmentSize bounds multipart uploads at 16 MiB.
const maxAttachmentSize = 16 << 20

// AssetHandler serves asset CRUD, search, movements, barcodes, and
// attachments. The attachments store is nil when no object storage is
// configured; attachment routes then return 503.
type AssetHandler struct {
	assetService *services.AssetService
	attachments  *storage.Attachments
}

func NewAssetHandler(assetService *services.AssetService, attachments *storage.Attachments) *AssetHandler {
	return &AssetHandler{assetService: assetService, attachments: attachments}
}

// AssetRouter registers asset routes on the given router.
func AssetRouter(r chi.Router, handler *AssetHandler, adminOnly func(http.Handler) http.Handler) {
	r.Get("/", handler.List)
	r.Post("/", handler.Create)
	r.Get("/search", handler.Search)
	r.Get("/{code}", handler.Get)
	r.Put("/{code}", handler.Update)
	r.With(adminOnly).Delete("/{code}", handler.Delete)
	r.Post("/{code}/move", handler.Move)
	r.Get("/{code}/movements", handler.Movements)
	r.Get("/{code}/barcode.png", handler.Barcode)
	r.Get("/{code}/label.png", handler.Label)
	r.Post("/{code}/attachments/{kind}", handler.UploadAttachment)
	r.Get("/{code}/attachments/{kind}", handler.DownloadAttachment)
	r.Delete("/{code}/attachments/{kind}", handler.DeleteAttachment)
}

func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	assets, err := h.assetService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list assets")
		return
	}
	writeJSON(w, http.StatusOK, assets)
}

func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	username, err := usernameFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var asset types.Asset
	if err := json.NewDecoder(r.Body).Decode(&asset); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	created, err := h.assetService.Create(r.Context(), asset, username)
	if err != nil {
		writeAssetError(w, err, "failed to create asset")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	asset, err := h.assetService.GetByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "asset not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load asset")
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	var asset types.Asset
	if err := json.NewDecoder(r.Body).Decode(&asset); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	updated, err := h.assetService.Update(r.Context(), chi.URLParam(r, "code"), asset)
	if err != nil {
		writeAssetError(w, err, "failed to update asset")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username, err := usernameFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	code := chi.URLParam(r, "code")
	if err := h.assetService.Delete(r.Context(), code, username); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "asset not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete asset")
		return
	}

	// Attachments are deleted opportunistically; a failure leaves an
	// orphaned object but never blocks the asset delete.
	if h.attachments != nil {
		_ = h.attachments.Remove(r.Context(), code, storage.KindImage)
		_ = h.attachments.Remove(r.Context(), code, storage.KindDocument)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AssetHandler) Search(w http.ResponseWriter, r *http.Request) {
	assets, err := h.assetService.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to search assets")
		return
	}
	writeJSON(w, http.StatusOK, assets)
}

func (h *AssetHandler) Move(w http.ResponseWriter, r *http.Request) {
	username, err := usernameFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	movedBy := req.MovedBy
	if movedBy == "" {
		movedBy = username
	}

	movement, err := h.assetService.Move(r.Context(), chi.URLParam(r, "code"), req.ToLocation, req.Reason, movedBy, date)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "asset not found")
		case errors.Is(err, services.ErrMissingDestination):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to move asset")
		}
		return
	}
	writeJSON(w, http.StatusCreated, movement)
}

func (h *AssetHandler) Movements(w http.ResponseWriter, r *http.Request) {
	movements, err := h.assetService.ListMovements(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list movements")
		return
	}
	writeJSON(w, http.StatusOK, movements)
}

// Barcode renders the asset's code as a Code 128 PNG.
func (h *AssetHandler) Barcode(w http.ResponseWriter, r *http.Request) {
	asset, err := h.assetService.GetByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "asset not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load asset")
		return
	}

	png, err := barcode.PNG(asset.Code)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render barcode")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// Label renders a printable label: barcode plus item name and location.
func (h *AssetHandler) Label(w http.ResponseWriter, r *http.Request) {
	asset, err := h.assetService.GetByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "asset not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load asset")
		return
	}

	png, err := barcode.Label(asset.Code, asset.ItemName, asset.Location)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render label")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *AssetHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	if h.attachments == nil {
		writeError(w, http.StatusServiceUnavailable, "object storage not configured")
		return
	}

	code := chi.URLParam(r, "code")
	kind, ok := attachmentKind(chi.URLParam(r, "kind"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown attachment kind")
		return
	}

	if _, err := h.assetService.GetByCode(r.Context(), code); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "asset not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load asset")
		return
	}

	if err := r.ParseMultipartForm(maxAttachmentSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := h.attachments.Store(r.Context(), code, kind, file, header.Size, contentType); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store attachment")
		return
	}
	if err := h.assetService.SetAttachmentFlag(r.Context(), code, kind, true); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update asset")
		return
	}
	writeJSON(w, http.StatusCreated, AttachmentResponse{AssetCode: code, Kind: kind, Size: header.Size})
}

func (h *AssetHandler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	if h.attachments == nil {
		writeError(w, http.StatusServiceUnavailable, "object storage not configured")
		return
	}

	code := chi.URLParam(r, "code")
	kind, ok := attachmentKind(chi.URLParam(r, "kind"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown attachment kind")
		return
	}

	reader, err := h.attachments.Open(r.Context(), code, kind)
	if err != nil {
		writeError(w, http.StatusNotFound, "attachment not found")
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, reader)
}

func (h *AssetHandler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	if h.attachments == nil {
		writeError(w, http.StatusServiceUnavailable, "object storage not configured")
		return
	}

	code := chi.URLParam(r, "code")
	kind, ok := attachmentKind(chi.URLParam(r, "kind"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown attachment kind")
		return
	}

	if err := h.attachments.Remove(r.Context(), code, kind); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete attachment")
		return
	}
	if err := h.assetService.SetAttachmentFlag(r.Context(), code, kind, false); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "asset not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update asset")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type MoveRequest struct {
	ToLocation string `json:"to_location"`
	Reason     string `json:"reason"`
	MovedBy    string `json:"moved_by"`
	Date       string `json:"date"`
}

type AttachmentResponse struct {
	AssetCode string `json:"asset_code"`
	Kind      string `json:"kind"`
	Size      int64  `json:"size"`
}

func attachmentKind(kind string) (string, bool) {
	switch kind {
	case storage.KindImage, storage.KindDocument:
		return kind, true
	}
	return "", false
}

func writeAssetError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "asset not found")
	case errors.Is(err, services.ErrMissingAssetFields),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidOwnership),
		errors.Is(err, services.ErrUnknownCategory):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
