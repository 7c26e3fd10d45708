package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
	"storefront/internal/storefront"
)

type cartHandlers struct {
	registry *cartsvc.Registry
	logger   *logrus.Logger
}

// cartResponse always carries the last good snapshot where one exists so
// the UI can keep rendering it next to the error message.
type cartResponse struct {
	Cart  *domain.Cart `json:"cart"`
	Error string       `json:"error,omitempty"`
}

func (h *cartHandlers) engine(c *gin.Context) *cartsvc.Engine {
	return h.registry.For(deviceKey(c))
}

func (h *cartHandlers) get(c *gin.Context) {
	eng := h.engine(c)
	cart, err := eng.Resolve(c.Request.Context())
	h.respond(c, eng, cart, err)
}

func (h *cartHandlers) refresh(c *gin.Context) {
	eng := h.engine(c)
	cart, err := eng.Refresh(c.Request.Context())
	h.respond(c, eng, cart, err)
}

type addLineRequest struct {
	MerchandiseID string `json:"merchandiseId" binding:"required"`
	Quantity      *int   `json:"quantity"`
}

func (h *cartHandlers) addLine(c *gin.Context) {
	var req addLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "merchandiseId required"})
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be at least 1"})
		return
	}

	eng := h.engine(c)
	cart, err := eng.AddLine(c.Request.Context(), req.MerchandiseID, quantity)
	h.respond(c, eng, cart, err)
}

type updateLineRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *cartHandlers) updateLine(c *gin.Context) {
	var req updateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity required"})
		return
	}

	// The quantity is forwarded as-is; the remote API decides what a zero
	// or negative value means.
	eng := h.engine(c)
	cart, err := eng.UpdateLineQuantity(c.Request.Context(), c.Param("lineID"), *req.Quantity)
	h.respond(c, eng, cart, err)
}

func (h *cartHandlers) removeLine(c *gin.Context) {
	eng := h.engine(c)
	cart, err := eng.RemoveLine(c.Request.Context(), c.Param("lineID"))
	h.respond(c, eng, cart, err)
}

func (h *cartHandlers) clear(c *gin.Context) {
	eng := h.engine(c)
	cart, err := eng.Clear(c.Request.Context())
	h.respond(c, eng, cart, err)
}

func (h *cartHandlers) respond(c *gin.Context, eng *cartsvc.Engine, cart *domain.Cart, err error) {
	if err == nil {
		c.JSON(http.StatusOK, cartResponse{Cart: cart})
		return
	}

	status := http.StatusBadGateway
	var apiErr *storefront.APIError
	switch {
	case errors.As(err, &apiErr):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNoCart):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	}

	c.JSON(status, cartResponse{Cart: eng.Snapshot(), Error: err.Error()})
}
