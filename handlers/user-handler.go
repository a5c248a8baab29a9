package handlers

import (
	"net/http"

	"github.com/shii2003/TaskManagementApp/models"
	"github.com/shii2003/TaskManagementApp/services"
)

type UserHandler struct {
	UserService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{UserService: userService}
}

// GetUsers returns the redacted user directory (name and email only) that the
// client's assignee picker reads.
func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.GetUsers(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, models.SuccessResponse("Users fetched successfully", users))
}
