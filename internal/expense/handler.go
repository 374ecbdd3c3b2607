package expense

import (
	"net/http"
	"strconv"
	"time"

	"invoicing-crm/internal/domain"
	"invoicing-crm/internal/errors"
	"invoicing-crm/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type ExpenseRequest struct {
	Description string  `json:"description" binding:"required"`
	Category    string  `json:"category" binding:"max=100"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Date        string  `json:"date" binding:"required,datetime=2006-01-02"`
}

func (r *ExpenseRequest) toDomain() *domain.Expense {
	date, _ := time.Parse("2006-01-02", r.Date)
	return &domain.Expense{
		Description: r.Description,
		Category:    r.Category,
		Amount:      decimal.NewFromFloat(r.Amount),
		Date:        date,
	}
}

func (h *Handler) Create(c *gin.Context) {
	var form ExpenseRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	expense := form.toDomain()
	if err := h.service.CreateExpense(c.Request.Context(), userID.(uint64), expense); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, expense)
}

func (h *Handler) List(c *gin.Context) {
	userID, _ := c.Get("user_id")

	page, pageSize := utils.GetPaginationParams(c)
	result, err := h.service.ListExpenses(c.Request.Context(), userID.(uint64), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) Update(c *gin.Context) {
	expenseID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid expense id", err))
		return
	}

	var form ExpenseRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	expense, err := h.service.UpdateExpense(c.Request.Context(), expenseID, userID.(uint64), form.toDomain())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, expense)
}

func (h *Handler) Delete(c *gin.Context) {
	expenseID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid expense id", err))
		return
	}

	userID, _ := c.Get("user_id")

	if err := h.service.DeleteExpense(c.Request.Context(), expenseID, userID.(uint64)); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
