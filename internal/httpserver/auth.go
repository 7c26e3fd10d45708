package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
	customersvc "storefront/internal/service/customer"
)

const sessionCookie = "storefront_session"

type authHandlers struct {
	svc    customerService
	logger *logrus.Logger
}

type customerResponse struct {
	Customer *domain.Customer `json:"customer"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *authHandlers) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(sessionCookie, token, int(h.svc.SessionTTL().Seconds()), "/", "", false, true)
}

func (h *authHandlers) register(c *gin.Context) {
	var req customersvc.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	customer, token, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusCreated, customerResponse{Customer: customer})
}

func (h *authHandlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}

	customer, token, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, customersvc.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.logger.WithError(err).Error("login")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, customerResponse{Customer: customer})
}

func (h *authHandlers) logout(c *gin.Context) {
	token, _ := c.Cookie(sessionCookie)
	if err := h.svc.Logout(c.Request.Context(), token); err != nil {
		h.logger.WithError(err).Warn("logout")
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

func (h *authHandlers) me(c *gin.Context) {
	token, err := c.Cookie(sessionCookie)
	if err != nil || token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	customer, err := h.svc.BySession(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, customersvc.ErrInvalidSession) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		h.logger.WithError(err).Error("session lookup")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session lookup failed"})
		return
	}
	c.JSON(http.StatusOK, customerResponse{Customer: customer})
}
