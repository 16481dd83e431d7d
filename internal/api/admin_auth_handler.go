package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jackofish/market/internal/admin/auth"
)

type AdminAuthHandler struct {
	auth *auth.Service
}

func NewAdminAuthHandler(svc *auth.Service) *AdminAuthHandler {
	return &AdminAuthHandler{auth: svc}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AdminAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "בקשה לא תקינה")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "יש למלא אימייל וסיסמה")
		return
	}

	token, admin, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "אימייל או סיסמה שגויים")
			return
		}
		respondError(w, http.StatusInternalServerError, "שגיאה בשרת")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     adminTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int((24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"admin":   admin,
	})
}

func (h *AdminAuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(adminTokenCookie); err == nil {
		if err := h.auth.Logout(r.Context(), c.Value); err != nil {
			respondError(w, http.StatusInternalServerError, "שגיאה בשרת")
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     adminTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
