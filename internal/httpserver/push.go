package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type pushHandlers struct {
	svc    pushService
	logger *logrus.Logger
}

type pushRegisterRequest struct {
	Token string  `json:"token"`
	Email *string `json:"email"`
}

func (h *pushHandlers) register(c *gin.Context) {
	var req pushRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
		return
	}

	if err := h.svc.Register(c.Request.Context(), req.Token, req.Email); err != nil {
		h.logger.WithError(err).Error("store push token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store token"})
		return
	}
	c.Status(http.StatusNoContent)
}
