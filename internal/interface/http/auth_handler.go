package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/adisatriyo/inventory-api/internal/application"
	"github.com/adisatriyo/inventory-api/pkg/response"
	"github.com/adisatriyo/inventory-api/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register POST /register
// The response is a projection of the stored record; the password hash never
// leaves the process.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErrors(c, validation.Messages(err))
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrUsernameTaken) {
			response.Message(c, http.StatusBadRequest, "Username already exists")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.JSON(c, http.StatusCreated, gin.H{
		"id":        u.ID,
		"username":  u.Username,
		"createdAt": u.CreatedAt,
		"updatedAt": u.UpdatedAt,
	})
}

// Login POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErrors(c, validation.Messages(err))
		return
	}

	token, _, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Message(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"token": token})
}
