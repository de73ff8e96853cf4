package http

import (
	"net/http"

	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// GetMe godoc
// @Summary      Gets the authenticated user
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401
// @Router       /users/me [get]
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		respondError(w, r, domain.ErrAuthenticationRequired)
		return
	}

	user, err := h.service.GetByID(r.Context(), uid)
	if err != nil {
		respondError(w, r, err)
		return
	}
	JSONResponse(w, http.StatusOK, user)
}

// ListUsers godoc
// @Summary      Lists users
// @Tags         admin
// @Produce      json
// @Param        search  query  string  false  "Matches email or name"
// @Param        role    query  string  false  "ADMIN or USER"
// @Success      200  {array}  domain.User
// @Router       /admin/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context(), ports.UserFilter{
		Search: r.URL.Query().Get("search"),
		Role:   domain.Role(r.URL.Query().Get("role")),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	JSONResponse(w, http.StatusOK, users)
}
