// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/api"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/interfaces/http/middleware"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/pkg/auth"
)

// AuthHandler bridges the view layer's auth actions to the backend and
// keeps the local session in step with the results.
type AuthHandler struct {
	backend *api.Client
	session *auth.Session
	log     *logrus.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(backend *api.Client, session *auth.Session, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{backend: backend, session: session, log: log}
}

// RegisterRequest is the customer sign-up body. The password pair is
// checked locally; only the canonical fields go to the backend.
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	FullName        string `json:"fullName" binding:"required"`
	Phone           string `json:"phone"`
}

// RegisterProducerRequest adds the storefront fields to sign-up.
type RegisterProducerRequest struct {
	RegisterRequest
	Location    string `json:"location"`
	Specialty   string `json:"specialty"`
	Description string `json:"description"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindRegistration(c, &req, &req) {
		return
	}

	resp, err := h.backend.RegisterUser(c.Request.Context(), api.RegisterUserRequest{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		writeBackendError(c, err)
		return
	}
	h.establishSession(c, resp)
}

// RegisterProducer handles POST /auth/register/producer
func (h *AuthHandler) RegisterProducer(c *gin.Context) {
	var req RegisterProducerRequest
	if !bindRegistration(c, &req, &req.RegisterRequest) {
		return
	}

	resp, err := h.backend.RegisterProducer(c.Request.Context(), api.RegisterProducerRequest{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		Phone:       req.Phone,
		Location:    req.Location,
		Specialty:   req.Specialty,
		Description: req.Description,
	})
	if err != nil {
		writeBackendError(c, err)
		return
	}
	h.establishSession(c, resp)
}

// bindRegistration decodes and validates a sign-up body without
// touching the network. Returns false after writing the response when
// the body is invalid.
func bindRegistration(c *gin.Context, body interface{}, common *RegisterRequest) bool {
	if err := c.ShouldBindJSON(body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return false
	}
	if common.Password != common.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Passwords do not match",
		})
		return false
	}
	return true
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var creds api.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.backend.Login(c.Request.Context(), creds)
	if err != nil {
		writeBackendError(c, err)
		return
	}
	h.establishSession(c, resp)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.session.SignOut(); err != nil {
		h.log.WithError(err).Warn("failed to clear session")
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Signed out",
	})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, _ := middleware.GetUserFromContext(c)
	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

func (h *AuthHandler) establishSession(c *gin.Context, resp *api.AuthResponse) {
	if err := h.session.SignIn(resp.Token, resp.User); err != nil {
		h.log.WithError(err).Warn("failed to persist session")
	}
	c.JSON(http.StatusOK, gin.H{
		"user": resp.User,
	})
}

// writeBackendError maps backend API errors onto the facade response,
// preserving the backend's status code when it sent one.
func writeBackendError(c *gin.Context, err error) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{
			"error": apiErr.Message,
		})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{
		"error": "Marketplace backend unavailable",
	})
}
