package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lagoon/bookings/internal/http/middleware"
	"github.com/lagoon/bookings/internal/http/response"
	"github.com/lagoon/bookings/pkg/auth"
)

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON format")
		return
	}

	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// Logout is a client-side token drop; the endpoint exists so the dashboard
// has a uniform API surface.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

type updateRoleReq struct {
	Role string `json:"role"`
}

// UpdateAdminRole assigns a role to another admin. The service re-verifies
// the caller's stored role; the token alone is not trusted for this.
func (h *Handlers) UpdateAdminRole(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)
	if claims == nil {
		response.Unauthorized(w, "authentication required")
		return
	}

	adminID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid admin ID")
		return
	}

	var req updateRoleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON format")
		return
	}

	role, ok := auth.ParseRole(req.Role)
	if !ok {
		response.BadRequest(w, "invalid role")
		return
	}

	if err := h.auth.UpdateRole(r.Context(), claims.Sub, adminID, role); err != nil {
		response.WriteDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
