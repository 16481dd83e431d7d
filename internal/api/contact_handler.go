package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackofish/market/internal/contact"
)

type ContactHandler struct {
	contact *contact.Service
}

func NewContactHandler(svc *contact.Service) *ContactHandler {
	return &ContactHandler{contact: svc}
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var msg contact.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		respondError(w, http.StatusBadRequest, "בקשה לא תקינה")
		return
	}

	id, err := h.contact.Submit(r.Context(), &msg)
	if err != nil {
		switch {
		case errors.Is(err, contact.ErrNameRequired):
			respondError(w, http.StatusBadRequest, "שם מלא נדרש")
		case errors.Is(err, contact.ErrPhoneRequired):
			respondError(w, http.StatusBadRequest, "מספר טלפון נדרש")
		case errors.Is(err, contact.ErrPhoneInvalid):
			respondError(w, http.StatusBadRequest, "מספר טלפון לא תקין")
		case errors.Is(err, contact.ErrMessageRequired):
			respondError(w, http.StatusBadRequest, "הודעה נדרשת")
		case errors.Is(err, contact.ErrEmailInvalid):
			respondError(w, http.StatusBadRequest, "כתובת אימייל לא תקינה")
		default:
			respondError(w, http.StatusInternalServerError, "שגיאה בשליחת ההודעה")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "id": id})
}
