package page

import (
	defError "errors"
	"net/http"
	"strconv"

	"invoicing-crm/internal/domain"
	"invoicing-crm/internal/errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	repository Repository
}

func NewHandler(repository Repository) *Handler {
	return &Handler{repository: repository}
}

type PageRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=255"`
	Icon    string `json:"icon" binding:"max=50"`
	Content string `json:"content"`
	Pinned  bool   `json:"pinned"`
}

func (h *Handler) Create(c *gin.Context) {
	var form PageRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	page := &domain.Page{
		Title:   form.Title,
		Icon:    form.Icon,
		Content: form.Content,
		Pinned:  form.Pinned,
	}
	if err := h.repository.Create(c.Request.Context(), userID.(uint64), page); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, page)
}

func (h *Handler) List(c *gin.Context) {
	userID, _ := c.Get("user_id")

	pages, err := h.repository.ListByUserID(c.Request.Context(), userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": pages})
}

func (h *Handler) Show(c *gin.Context) {
	pageID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid page id", err))
		return
	}

	userID, _ := c.Get("user_id")

	page, err := h.repository.FindByID(c.Request.Context(), pageID, userID.(uint64))
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			c.Error(errors.NotFound("Page not found", err))
			return
		}
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *Handler) Update(c *gin.Context) {
	pageID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid page id", err))
		return
	}

	var form PageRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	page, err := h.repository.FindByID(c.Request.Context(), pageID, userID.(uint64))
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			c.Error(errors.NotFound("Page not found", err))
			return
		}
		c.Error(err)
		return
	}

	page.Title = form.Title
	page.Icon = form.Icon
	page.Content = form.Content
	page.Pinned = form.Pinned

	if err := h.repository.Update(c.Request.Context(), page); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *Handler) Delete(c *gin.Context) {
	pageID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid page id", err))
		return
	}

	userID, _ := c.Get("user_id")

	if err := h.repository.Delete(c.Request.Context(), pageID, userID.(uint64)); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
