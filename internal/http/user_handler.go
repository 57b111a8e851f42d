package http

import (
	nethttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulsefeed-app/backend/internal/lib"
	"github.com/pulsefeed-app/backend/internal/middleware"
	"github.com/pulsefeed-app/backend/internal/services"
)

type UserHandler struct {
	users services.UserService
	log   *zap.Logger
}

func NewUserHandler(users services.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		users: users,
		log:   log,
	}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Age      *int   `json:"age"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateUserRequest struct {
	Name     string `json:"name"`
	Age      *int   `json:"age"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Avatar   string `json:"avatar"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var request registerRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), services.RegisterInput{
		Name:     request.Name,
		Age:      request.Age,
		Email:    request.Email,
		Password: request.Password,
	})
	if err != nil {
		if !lib.IsClientError(err) {
			h.log.Error("error registering user", zap.Error(err))
		}
		writeError(c, err)
		return
	}

	c.JSON(nethttp.StatusCreated, user)
}

func (h *UserHandler) Login(c *gin.Context) {
	var request loginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Login(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		if !lib.IsClientError(err) {
			h.log.Error("error logging in user", zap.Error(err))
		}
		writeError(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, user)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		if !lib.IsClientError(err) {
			h.log.Error("error loading user", zap.Error(err))
		}
		writeError(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, user)
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		h.log.Error("error listing users", zap.Error(err))
		writeError(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, users)
}

// Update applies a partial profile update. Callers may only update their own
// profile; the path id must match the token subject.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.ownResource(c)
	if !ok {
		return
	}

	var request updateUserRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.users.UpdateUser(c.Request.Context(), id, services.UpdateUserInput{
		Name:     request.Name,
		Age:      request.Age,
		Email:    request.Email,
		Password: request.Password,
		Avatar:   request.Avatar,
	})
	if err != nil {
		if !lib.IsClientError(err) {
			h.log.Error("error updating user", zap.Error(err))
		}
		writeError(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, gin.H{"success": true})
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := h.ownResource(c)
	if !ok {
		return
	}

	if err := h.users.DeleteUser(c.Request.Context(), id); err != nil {
		if !lib.IsClientError(err) {
			h.log.Error("error deleting user", zap.Error(err))
		}
		writeError(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, gin.H{"success": true})
}

func (h *UserHandler) ownResource(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid user id"})
		return uuid.Nil, false
	}

	caller, err := middleware.GetUserUUID(c)
	if err != nil || caller != id {
		c.JSON(nethttp.StatusForbidden, gin.H{"error": "cannot modify another user"})
		return uuid.Nil, false
	}

	return id, true
}
