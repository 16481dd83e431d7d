package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackofish/market/internal/catalog/domain"
	"github.com/jackofish/market/internal/catalog/repository"
	catalogservice "github.com/jackofish/market/internal/catalog/service"
)

// AdminCatalogHandler is the back-office CRUD surface for products and
// categories. Requests arrive pre-authenticated through the admin
// middleware.
type AdminCatalogHandler struct {
	catalog *catalogservice.CatalogService
}

func NewAdminCatalogHandler(catalog *catalogservice.CatalogService) *AdminCatalogHandler {
	return &AdminCatalogHandler{catalog: catalog}
}

type productRequest struct {
	CategoryID        string      `json:"categoryId"`
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	Price             *float64    `json:"price"`
	SalePrice         *float64    `json:"salePrice"`
	Image             string      `json:"image"`
	InStock           *bool       `json:"inStock"`
	Unit              domain.Unit `json:"unit"`
	HasCuttingOptions bool        `json:"hasCuttingOptions"`
	CuttingStyles     []string    `json:"cuttingStyles"`
	Featured          bool        `json:"featured"`
	SortOrder         int         `json:"order"`
	IsActive          *bool       `json:"isActive"`
}

func (req *productRequest) toProduct() *domain.Product {
	p := &domain.Product{
		CategoryID:        req.CategoryID,
		Name:              req.Name,
		Description:       req.Description,
		SalePrice:         req.SalePrice,
		Image:             req.Image,
		InStock:           true,
		Unit:              req.Unit,
		HasCuttingOptions: req.HasCuttingOptions,
		CuttingStyles:     req.CuttingStyles,
		Featured:          req.Featured,
		SortOrder:         req.SortOrder,
		IsActive:          true,
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.InStock != nil {
		p.InStock = *req.InStock
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	return p
}

func (h *AdminCatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := repository.ProductFilter{
		IncludeHidden: true,
		CategoryID:    r.URL.Query().Get("categoryId"),
	}
	products, err := h.catalog.ListProducts(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "שגיאה בטעינת המוצרים")
		return
	}
	respondJSON(w, http.StatusOK, productList(products))
}

func (h *AdminCatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "המוצר לא נמצא")
			return
		}
		respondError(w, http.StatusInternalServerError, "שגיאה בטעינת המוצר")
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *AdminCatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "בקשה לא תקינה")
		return
	}
	if req.CategoryID == "" || req.Name == "" || req.Price == nil {
		respondError(w, http.StatusBadRequest, "חובה למלא שם, קטגוריה ומחיר")
		return
	}

	product := req.toProduct()
	if err := h.catalog.CreateProduct(r.Context(), product); err != nil {
		h.respondProductError(w, err, "שגיאה ביצירת המוצר")
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

func (h *AdminCatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "בקשה לא תקינה")
		return
	}
	if req.CategoryID == "" || req.Name == "" || req.Price == nil {
		respondError(w, http.StatusBadRequest, "חובה למלא שם, קטגוריה ומחיר")
		return
	}

	product := req.toProduct()
	product.ID = chi.URLParam(r, "id")
	if err := h.catalog.UpdateProduct(r.Context(), product); err != nil {
		h.respondProductError(w, err, "שגיאה בעדכון המוצר")
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *AdminCatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "המוצר לא נמצא")
			return
		}
		respondError(w, http.StatusInternalServerError, "שגיאה במחיקת המוצר")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *AdminCatalogHandler) respondProductError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "המוצר לא נמצא")
	case errors.Is(err, repository.ErrCategoryNotFound):
		respondError(w, http.StatusBadRequest, "הקטגוריה לא נמצאה")
	case errors.Is(err, repository.ErrSlugTaken):
		respondError(w, http.StatusBadRequest, "מוצר עם שם זה כבר קיים")
	default:
		respondError(w, http.StatusInternalServerError, fallback)
	}
}

type categoryRequest struct {
	Name      string `json:"name"`
	Image     string `json:"image"`
	SortOrder int    `json:"order"`
	IsActive  *bool  `json:"isActive"`
}

func (req *categoryRequest) toCategory() *domain.Category {
	c := &domain.Category{
		Name:      req.Name,
		Image:     req.Image,
		SortOrder: req.SortOrder,
		IsActive:  true,
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	return c
}

func (h *AdminCatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context(), true)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "שגיאה בטעינת הקטגוריות")
		return
	}
	if categories == nil {
		categories = []*domain.Category{}
	}
	respondJSON(w, http.StatusOK, categories)
}

func (h *AdminCatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.catalog.GetCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			respondError(w, http.StatusNotFound, "הקטגוריה לא נמצאה")
			return
		}
		respondError(w, http.StatusInternalServerError, "שגיאה בטעינת הקטגוריה")
		return
	}
	respondJSON(w, http.StatusOK, category)
}

func (h *AdminCatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "בקשה לא תקינה")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "שם הקטגוריה נדרש")
		return
	}

	category := req.toCategory()
	if err := h.catalog.CreateCategory(r.Context(), category); err != nil {
		h.respondCategoryError(w, err, "שגיאה ביצירת הקטגוריה")
		return
	}
	respondJSON(w, http.StatusCreated, category)
}

func (h *AdminCatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "בקשה לא תקינה")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "שם הקטגוריה נדרש")
		return
	}

	category := req.toCategory()
	category.ID = chi.URLParam(r, "id")
	if err := h.catalog.UpdateCategory(r.Context(), category); err != nil {
		h.respondCategoryError(w, err, "שגיאה בעדכון הקטגוריה")
		return
	}
	respondJSON(w, http.StatusOK, category)
}

func (h *AdminCatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	err := h.catalog.DeleteCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCategoryNotFound):
			respondError(w, http.StatusNotFound, "הקטגוריה לא נמצאה")
		case errors.Is(err, repository.ErrCategoryInUse):
			respondError(w, http.StatusBadRequest, "לא ניתן למחוק קטגוריה שמכילה מוצרים")
		default:
			respondError(w, http.StatusInternalServerError, "שגיאה במחיקת הקטגוריה")
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *AdminCatalogHandler) respondCategoryError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrCategoryNotFound):
		respondError(w, http.StatusNotFound, "הקטגוריה לא נמצאה")
	case errors.Is(err, repository.ErrSlugTaken):
		respondError(w, http.StatusBadRequest, "קטגוריה עם שם זה כבר קיימת")
	default:
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
