package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"angeles-backend/internal/domains/user/model"
	"angeles-backend/internal/domains/user/service"
	"angeles-backend/internal/shared/apperror"
	"angeles-backend/internal/shared/response"
	"angeles-backend/internal/shared/utils"
)

// UserHandler handles HTTP requests for identities.
// Stateless, holds only dependencies.
type UserHandler struct {
	service service.Service
}

func NewUserHandler(service service.Service) *UserHandler {
	return &UserHandler{service: service}
}

// ========================================
// AUTHENTICATION ENDPOINTS
// ========================================

// Register handles POST /identities
func (h *UserHandler) Register(c *gin.Context) {
	// STEP 1: PARSE REQUEST BODY
	var req model.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	// STEP 2: CALL SERVICE LAYER
	resp, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	// STEP 3: SUCCESS RESPONSE
	c.Header("Location", "/api/v1/identities/"+resp.ID.String())
	response.Success(c, http.StatusCreated, "User registered successfully", resp)
}

// Login handles POST /identities/login
func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Login successful", resp)
}

// ========================================
// PROFILE ENDPOINTS
// ========================================

// ListUsers handles GET /identities
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", users)
}

// GetUser handles GET /identities/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", user)
}

// UpdateUser handles PUT /identities/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req model.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.service.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "User updated successfully", user)
}

// DeleteUser handles DELETE /identities/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "User removed successfully", nil)
}

// ========================================
// HELPERS
// ========================================

func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, apperror.Validation("body: invalid JSON request body"))
		return false
	}
	return true
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id := utils.ParseStringToUUID(c.Param("id"))
	if id == uuid.Nil {
		response.Error(c, apperror.Validation("id: must be a valid UUID"))
		return uuid.Nil, false
	}
	return id, true
}
