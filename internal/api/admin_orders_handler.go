package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackofish/market/internal/orders/domain"
	"github.com/jackofish/market/internal/orders/repository"
	ordersservice "github.com/jackofish/market/internal/orders/service"
)

type AdminOrdersHandler struct {
	orders *ordersservice.OrderService
}

func NewAdminOrdersHandler(orders *ordersservice.OrderService) *AdminOrdersHandler {
	return &AdminOrdersHandler{orders: orders}
}

func (h *AdminOrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	status := domain.OrderStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		respondError(w, http.StatusBadRequest, "סטטוס לא תקין")
		return
	}

	orders, err := h.orders.ListOrders(r.Context(), status)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "שגיאה בטעינת ההזמנות")
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *AdminOrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "ההזמנה לא נמצאה")
			return
		}
		respondError(w, http.StatusInternalServerError, "שגיאה בטעינת ההזמנה")
		return
	}
	respondJSON(w, http.StatusOK, order)
}

type updateStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func (h *AdminOrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "בקשה לא תקינה")
		return
	}
	if !req.Status.Valid() {
		respondError(w, http.StatusBadRequest, "סטטוס לא תקין")
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "ההזמנה לא נמצאה")
			return
		}
		respondError(w, http.StatusInternalServerError, "שגיאה בעדכון ההזמנה")
		return
	}
	if admin := adminFromContext(r.Context()); admin != nil {
		log.Printf("order %s status set to %s by %s", order.ID, order.Status, admin.Email)
	}
	respondJSON(w, http.StatusOK, order)
}

// CancelOrder is the admin delete. Orders stay on record as CANCELLED.
func (h *AdminOrdersHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Cancel(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "ההזמנה לא נמצאה")
			return
		}
		respondError(w, http.StatusInternalServerError, "שגיאה בעדכון ההזמנה")
		return
	}
	if admin := adminFromContext(r.Context()); admin != nil {
		log.Printf("order %s cancelled by %s", chi.URLParam(r, "id"), admin.Email)
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
