package payments

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Link(c *gin.Context) {
	userID, _ := c.Get("user_id")

	url, err := h.service.LinkAccount(c.Request.Context(), userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"onboarding_url": url})
}

func (h *Handler) Status(c *gin.Context) {
	userID, _ := c.Get("user_id")

	status, err := h.service.Status(c.Request.Context(), userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, status)
}
