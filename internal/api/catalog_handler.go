package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackofish/market/internal/catalog/domain"
	"github.com/jackofish/market/internal/catalog/repository"
	catalogservice "github.com/jackofish/market/internal/catalog/service"
)

const defaultProductLimit = 200

type CatalogHandler struct {
	catalog *catalogservice.CatalogService
}

func NewCatalogHandler(catalog *catalogservice.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := repository.ProductFilter{
		FeaturedOnly: r.URL.Query().Get("featured") == "true",
		CategorySlug: r.URL.Query().Get("category"),
		Limit:        defaultProductLimit,
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}

	products, err := h.catalog.ListProducts(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "שגיאה בטעינת המוצרים")
		return
	}
	respondJSON(w, http.StatusOK, productList(products))
}

func (h *CatalogHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondJSON(w, http.StatusOK, []*domain.Product{})
		return
	}

	products, err := h.catalog.SearchProducts(r.Context(), query, 20)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "שגיאה בטעינת המוצרים")
		return
	}
	respondJSON(w, http.StatusOK, productList(products))
}

func (h *CatalogHandler) GetProductBySlug(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProductBySlug(r.Context(), chi.URLParam(r, "slug"))
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

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context(), false)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "שגיאה בטעינת הקטגוריות")
		return
	}
	if categories == nil {
		categories = []*domain.Category{}
	}
	respondJSON(w, http.StatusOK, categories)
}

func productList(products []*domain.Product) []*domain.Product {
	if products == nil {
		return []*domain.Product{}
	}
	return products
}
