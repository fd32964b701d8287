package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/chataubeskydy/booking-backend/internal/config"
	"github.com/chataubeskydy/booking-backend/pkg/jwt"
)

// AdminAuthHandler handles admin authentication. The guesthouse has one
// admin credential, checked against a bcrypt hash from configuration.
type AdminAuthHandler struct {
	cfg        config.AdminConfig
	jwtService *jwt.Service
	jwtExpiry  time.Duration
	logger     *logrus.Logger
}

// NewAdminAuthHandler creates a new admin auth handler
func NewAdminAuthHandler(cfg config.AdminConfig, jwtService *jwt.Service, jwtExpiry time.Duration, logger *logrus.Logger) *AdminAuthHandler {
	return &AdminAuthHandler{
		cfg:        cfg,
		jwtService: jwtService,
		jwtExpiry:  jwtExpiry,
		logger:     logger,
	}
}

type adminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/v1/admin/login
func (h *AdminAuthHandler) Login(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: "Password is required"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.cfg.PasswordHash), []byte(req.Password)); err != nil {
		h.logger.WithField("ip", c.ClientIP()).Warn("Admin login failed")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "Invalid credentials"})
		return
	}

	token, err := h.jwtService.GenerateAccessToken("admin")
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate admin token")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Message: "Something went wrong"})
		return
	}

	h.logger.WithField("ip", c.ClientIP()).Info("Admin login successful")
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int(h.jwtExpiry.Seconds()),
	})
}
