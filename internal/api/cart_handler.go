package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	cartservice "github.com/jackofish/market/internal/cart/service"
	catalogrepo "github.com/jackofish/market/internal/catalog/repository"
	catalogservice "github.com/jackofish/market/internal/catalog/service"
)

type CartHandler struct {
	cart    *cartservice.CartService
	catalog *catalogservice.CatalogService
}

func NewCartHandler(cart *cartservice.CartService, catalog *catalogservice.CatalogService) *CartHandler {
	return &CartHandler{cart: cart, catalog: catalog}
}

type addItemRequest struct {
	ProductID    string  `json:"productId"`
	CuttingStyle *string `json:"cuttingStyle"`
	Quantity     int     `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	snapshot := h.cart.Get(r.Context(), cartSessionFromContext(r.Context()))
	respondJSON(w, http.StatusOK, snapshot)
}

// AddItem resolves the product through the catalog (effective price, frozen
// at this moment) and hands the engine the finished item data.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "בקשה לא תקינה")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "מזהה מוצר נדרש")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1 // quantity defaults to 1 when omitted
	}

	item, err := h.catalog.ResolveLineItem(r.Context(), req.ProductID, req.CuttingStyle)
	if err != nil {
		switch {
		case errors.Is(err, catalogrepo.ErrProductNotFound):
			respondError(w, http.StatusNotFound, "המוצר לא נמצא")
		case errors.Is(err, catalogservice.ErrProductUnavailable),
			errors.Is(err, catalogservice.ErrInvalidCuttingStyle):
			respondError(w, http.StatusBadRequest, "המוצר אינו זמין")
		default:
			respondError(w, http.StatusInternalServerError, "שגיאה בהוספה לסל")
		}
		return
	}

	snapshot := h.cart.AddItem(r.Context(), cartSessionFromContext(r.Context()), item, req.Quantity)
	respondJSON(w, http.StatusCreated, snapshot)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "id")

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "בקשה לא תקינה")
		return
	}

	snapshot := h.cart.UpdateQuantity(r.Context(), cartSessionFromContext(r.Context()), lineID, req.Quantity)
	respondJSON(w, http.StatusOK, snapshot)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "id")
	snapshot := h.cart.RemoveItem(r.Context(), cartSessionFromContext(r.Context()), lineID)
	respondJSON(w, http.StatusOK, snapshot)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	snapshot := h.cart.Clear(r.Context(), cartSessionFromContext(r.Context()))
	respondJSON(w, http.StatusOK, snapshot)
}
