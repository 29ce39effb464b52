package handlers

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"tavolo-order-service/internal/domain"
	"tavolo-order-service/internal/utils"
	"tavolo-order-service/pkg/response"
)

type productRequest struct {
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Category  string  `json:"category"`
	Available *bool   `json:"available"`
}

func (h *Handler) PublicListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.ListProducts(r.Context())
	if err != nil {
		h.Logger.Error("products list failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list products")
		return
	}

	available := make([]domain.Product, 0, len(products))
	for _, product := range products {
		if product.Available {
			available = append(available, product)
		}
	}
	response.Success(w, available)
}

func (h *Handler) AdminListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.ListProducts(r.Context())
	if err != nil {
		h.Logger.Error("products list failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list products")
		return
	}
	response.Success(w, products)
}

func (h *Handler) AdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" || req.Price < 0 {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Name and a non-negative price are required")
		return
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}
	product := domain.Product{
		ID:        utils.NewID("prd"),
		Name:      strings.TrimSpace(req.Name),
		Price:     req.Price,
		Category:  strings.TrimSpace(req.Category),
		Available: available,
		CreatedAt: time.Now(),
	}
	if err := h.Store.CreateProduct(r.Context(), product); err != nil {
		writeStoreError(w, err)
		return
	}
	h.recordChanged(r.Context(), "product", "created", product.ID)

	response.Created(w, product)
}

func (h *Handler) AdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	existing, err := h.Store.GetProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	var req productRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Name) != "" {
		existing.Name = strings.TrimSpace(req.Name)
	}
	if req.Price > 0 {
		existing.Price = req.Price
	}
	if strings.TrimSpace(req.Category) != "" {
		existing.Category = strings.TrimSpace(req.Category)
	}
	if req.Available != nil {
		existing.Available = *req.Available
	}

	if err := h.Store.UpdateProduct(r.Context(), *existing); err != nil {
		writeStoreError(w, err)
		return
	}
	h.recordChanged(r.Context(), "product", "updated", existing.ID)

	response.Success(w, existing)
}

func (h *Handler) AdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	product, err := h.Store.GetProduct(r.Context(), productID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if err := h.Store.DeleteProduct(r.Context(), productID); err != nil {
		writeStoreError(w, err)
		return
	}
	if h.Media != nil && product.ImageURL != "" {
		if err := h.Media.DeleteURL(r.Context(), product.ImageURL); err != nil {
			h.Logger.Warn("product image cleanup failed", zapError(err))
		}
	}
	h.recordChanged(r.Context(), "product", "deleted", productID)

	response.Success(w, map[string]any{"deleted": true})
}

const productImageMaxSide = 1200

func (h *Handler) AdminUploadProductImage(w http.ResponseWriter, r *http.Request) {
	if h.Media == nil {
		response.Error(w, http.StatusServiceUnavailable, "MEDIA_DISABLED", "Object store is not configured")
		return
	}

	product, err := h.Store.GetProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.Config.MaxFileSizeBytes)
	if err := r.ParseMultipartForm(h.Config.MaxFileSizeBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Image upload too large or malformed")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "image file field required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Could not read upload")
		return
	}
	if !utils.ValidateImageContentType(utils.DetectContentType(data)) {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unsupported image format")
		return
	}

	encoded, err := utils.EncodeProductImage(data, productImageMaxSide, 85)
	if err != nil {
		h.Logger.Warn("image encode failed", zapError(err))
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Could not decode image")
		return
	}

	key := "products/" + product.ID + "/" + utils.NewID("img") + ".jpg"
	publicURL, err := h.Media.PutObject(r.Context(), key, encoded, "image/jpeg")
	if err != nil {
		h.Logger.Error("image upload failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Image upload failed")
		return
	}

	previous := product.ImageURL
	product.ImageURL = publicURL
	if err := h.Store.UpdateProduct(r.Context(), *product); err != nil {
		writeStoreError(w, err)
		return
	}
	if previous != "" {
		if err := h.Media.DeleteURL(r.Context(), previous); err != nil {
			h.Logger.Warn("previous image cleanup failed", zapError(err))
		}
	}
	h.recordChanged(r.Context(), "product", "updated", product.ID)

	response.Success(w, product)
}
