package api

import (
	"encoding/json"
	"errors"
	"net/http"

	cartservice "github.com/jackofish/market/internal/cart/service"
	ordersdomain "github.com/jackofish/market/internal/orders/domain"
	ordersservice "github.com/jackofish/market/internal/orders/service"
)

type CheckoutHandler struct {
	cart   *cartservice.CartService
	orders *ordersservice.OrderService
}

func NewCheckoutHandler(cart *cartservice.CartService, orders *ordersservice.OrderService) *CheckoutHandler {
	return &CheckoutHandler{cart: cart, orders: orders}
}

type checkoutRequest struct {
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	CustomerEmail string `json:"customerEmail"`
	Address       string `json:"address"`
	City          string `json:"city"`
	Notes         string `json:"notes"`
}

type checkoutResponse struct {
	Success     bool   `json:"success"`
	OrderNumber string `json:"orderNumber"`
	OrderID     string `json:"orderId"`
}

// Submit turns the session cart into an order. The cart is cleared only
// after the order service reports success; any failure leaves it untouched
// so the customer can retry.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "בקשה לא תקינה")
		return
	}

	sessionID := cartSessionFromContext(r.Context())
	snapshot := h.cart.Get(r.Context(), sessionID)

	items := make([]ordersdomain.OrderItem, len(snapshot.Items))
	for i, line := range snapshot.Items {
		items[i] = ordersdomain.OrderItem{
			ProductID:    line.ProductID,
			ProductName:  line.Name,
			Quantity:     line.Quantity,
			UnitPrice:    line.Price,
			TotalPrice:   line.Price * float64(line.Quantity),
			CuttingStyle: line.CuttingStyle,
		}
	}

	order, err := h.orders.Submit(r.Context(), &ordersservice.SubmitRequest{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Address:       req.Address,
		City:          req.City,
		Notes:         req.Notes,
		Items:         items,
	})
	if err != nil {
		respondError(w, submitStatus(err), submitMessage(err))
		return
	}

	h.cart.Clear(r.Context(), sessionID)
	respondJSON(w, http.StatusCreated, checkoutResponse{
		Success:     true,
		OrderNumber: order.OrderNumber,
		OrderID:     order.ID,
	})
}

func submitStatus(err error) int {
	switch {
	case errors.Is(err, ordersservice.ErrNameRequired),
		errors.Is(err, ordersservice.ErrPhoneRequired),
		errors.Is(err, ordersservice.ErrAddressRequired),
		errors.Is(err, ordersservice.ErrCityRequired),
		errors.Is(err, ordersservice.ErrEmptyOrder):
		return http.StatusBadRequest
	case errors.Is(err, ordersservice.ErrProductGone):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func submitMessage(err error) string {
	switch {
	case errors.Is(err, ordersservice.ErrNameRequired):
		return "שם מלא נדרש"
	case errors.Is(err, ordersservice.ErrPhoneRequired):
		return "מספר טלפון נדרש"
	case errors.Is(err, ordersservice.ErrAddressRequired):
		return "כתובת נדרשת"
	case errors.Is(err, ordersservice.ErrCityRequired):
		return "עיר נדרשת"
	case errors.Is(err, ordersservice.ErrEmptyOrder):
		return "נדרש לפחות מוצר אחד"
	case errors.Is(err, ordersservice.ErrProductGone):
		return "המוצר לא נמצא"
	default:
		return "שגיאה בשליחת ההזמנה"
	}
}
