package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shii2003/TaskManagementApp/apperrors"
	"github.com/shii2003/TaskManagementApp/models"
	"github.com/shii2003/TaskManagementApp/services"
	"github.com/shii2003/TaskManagementApp/utils"
)

type AuthHandler struct {
	UserService *services.UserService
}

func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{UserService: userService}
}

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req *RegisterRequest) validate() error {
	if err := utils.ValidateName(req.Name); err != nil {
		return err
	}
	if err := utils.ValidateEmail(req.Email); err != nil {
		return err
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		return err
	}
	if req.Password != req.ConfirmPassword {
		return fmt.Errorf("passwords do not match")
	}
	return nil
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apperrors.BadRequest("Invalid request data"))
		return
	}

	if err := req.validate(); err != nil {
		WriteError(w, apperrors.BadRequest(err.Error()))
		return
	}

	result, err := h.UserService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, models.SuccessResponse("User registered successfully", result))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apperrors.BadRequest("Invalid request data"))
		return
	}

	if err := utils.ValidateEmail(req.Email); err != nil {
		WriteError(w, apperrors.BadRequest(err.Error()))
		return
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		WriteError(w, apperrors.BadRequest(err.Error()))
		return
	}

	result, err := h.UserService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, models.SuccessResponse("Login successful", result))
}
