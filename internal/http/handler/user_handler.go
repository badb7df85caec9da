package handler

import (
	"net/http"

	"github.com/sandeepkv93/edumeet-backend/internal/http/response"
	"github.com/sandeepkv93/edumeet-backend/internal/service"
)

type UserHandler struct {
	accounts service.AccountServiceInterface
}

func NewUserHandler(accounts service.AccountServiceInterface) *UserHandler {
	return &UserHandler{accounts: accounts}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	u, err := h.accounts.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "failed to load profile")
		return
	}
	response.JSON(w, r, http.StatusOK, u)
}
