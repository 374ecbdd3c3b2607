package customer

import (
	"net/http"

	"invoicing-crm/internal/domain"
	"invoicing-crm/internal/errors"
	"invoicing-crm/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type CustomerRequest struct {
	Name    string   `json:"name" binding:"required,min=1,max=255"`
	Company string   `json:"company" binding:"max=255"`
	Email   string   `json:"email" binding:"omitempty,email"`
	Phone   string   `json:"phone" binding:"max=50"`
	Address string   `json:"address"`
	Tags    []string `json:"tags"`
	Notes   string   `json:"notes"`
}

func (r *CustomerRequest) toDomain() *domain.Customer {
	return &domain.Customer{
		Name:    r.Name,
		Company: r.Company,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
		Tags:    r.Tags,
		Notes:   r.Notes,
	}
}

func (h *Handler) Create(c *gin.Context) {
	var form CustomerRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	customer := form.toDomain()
	if err := h.service.CreateCustomer(c.Request.Context(), userID.(uint64), customer); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, customer)
}

func (h *Handler) List(c *gin.Context) {
	userID, _ := c.Get("user_id")

	page, pageSize := utils.GetPaginationParams(c)
	result, err := h.service.ListCustomers(c.Request.Context(), userID.(uint64), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) Show(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.BadRequest("Invalid customer id", err))
		return
	}

	userID, _ := c.Get("user_id")

	customer, err := h.service.GetCustomer(c.Request.Context(), customerID, userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

func (h *Handler) Update(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.BadRequest("Invalid customer id", err))
		return
	}

	var form CustomerRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	customer, err := h.service.UpdateCustomer(c.Request.Context(), customerID, userID.(uint64), form.toDomain())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

func (h *Handler) Delete(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.BadRequest("Invalid customer id", err))
		return
	}

	userID, _ := c.Get("user_id")

	if err := h.service.DeleteCustomer(c.Request.Context(), customerID, userID.(uint64)); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ShowActivity(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.BadRequest("Invalid customer id", err))
		return
	}

	userID, _ := c.Get("user_id")

	feed, err := h.service.GetActivityFeed(c.Request.Context(), customerID, userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": feed})
}
