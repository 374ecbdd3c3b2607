package document

import (
	"fmt"
	"net/http"
	"time"

	"invoicing-crm/internal/domain"
	"invoicing-crm/internal/errors"
	"invoicing-crm/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type ItemRequest struct {
	Description string  `json:"description" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required,min=1"`
	UnitPrice   float64 `json:"unit_price" binding:"min=0"`
}

type RecurrenceRequest struct {
	Frequency string `json:"frequency" binding:"required,oneof=daily weekly monthly yearly"`
	EndDate   string `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

type DocumentRequest struct {
	Type       string             `json:"type" binding:"required,oneof=invoice quote"`
	CustomerID *string            `json:"customer_id"`
	Items      []ItemRequest      `json:"items" binding:"required,min=1,dive"`
	IssueDate  string             `json:"issue_date" binding:"omitempty,datetime=2006-01-02"`
	DueDate    string             `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Notes      string             `json:"notes"`
	TemplateID string             `json:"template_id"`
	TaxRate    float64            `json:"tax_rate" binding:"min=0,max=100"`
	Recurrence *RecurrenceRequest `json:"recurrence"`
}

func (r *DocumentRequest) toDomain() (*domain.Document, error) {
	doc := &domain.Document{
		Type:       domain.DocumentType(r.Type),
		Notes:      r.Notes,
		TemplateID: r.TemplateID,
		TaxRate:    decimal.NewFromFloat(r.TaxRate),
	}

	if r.CustomerID != nil && *r.CustomerID != "" {
		id, err := uuid.Parse(*r.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("invalid customer_id: %w", err)
		}
		doc.CustomerID = &id
	}

	for _, item := range r.Items {
		doc.Items = append(doc.Items, domain.DocumentItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   decimal.NewFromFloat(item.UnitPrice),
		})
	}

	if r.IssueDate != "" {
		issueDate, err := time.Parse("2006-01-02", r.IssueDate)
		if err != nil {
			return nil, fmt.Errorf("invalid issue_date: %w", err)
		}
		doc.IssueDate = issueDate
	}
	if r.DueDate != "" {
		dueDate, err := time.Parse("2006-01-02", r.DueDate)
		if err != nil {
			return nil, fmt.Errorf("invalid due_date: %w", err)
		}
		doc.DueDate = dueDate
	}

	if r.Recurrence != nil {
		recurrence := &domain.Recurrence{
			Frequency: domain.Frequency(r.Recurrence.Frequency),
		}
		if r.Recurrence.EndDate != "" {
			endDate, err := time.Parse("2006-01-02", r.Recurrence.EndDate)
			if err != nil {
				return nil, fmt.Errorf("invalid recurrence end_date: %w", err)
			}
			recurrence.EndDate = &endDate
		}
		doc.Recurrence = recurrence
	}

	return doc, nil
}

func (h *Handler) Create(c *gin.Context) {
	var form DocumentRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	doc, err := form.toDomain()
	if err != nil {
		c.Error(errors.UnprocessableEntity(err.Error(), err))
		return
	}

	userID, _ := c.Get("user_id")

	if err := h.service.CreateDocument(c.Request.Context(), userID.(uint64), doc); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}

func (h *Handler) List(c *gin.Context) {
	userID, _ := c.Get("user_id")

	filter := ListFilter{
		Type:   domain.DocumentType(c.Query("type")),
		Status: domain.DocumentStatus(c.Query("status")),
	}
	switch c.Query("archived") {
	case "true":
		archived := true
		filter.Archived = &archived
	case "", "false":
		archived := false
		filter.Archived = &archived
	case "any":
		// no archived filter
	}

	page, pageSize := utils.GetPaginationParams(c)
	result, err := h.service.ListDocuments(c.Request.Context(), userID.(uint64), filter, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) Show(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.BadRequest("Invalid document id", err))
		return
	}

	userID, _ := c.Get("user_id")

	doc, err := h.service.GetDocument(c.Request.Context(), docID, userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *Handler) Update(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.BadRequest("Invalid document id", err))
		return
	}

	var form DocumentRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	input, err := form.toDomain()
	if err != nil {
		c.Error(errors.UnprocessableEntity(err.Error(), err))
		return
	}

	userID, _ := c.Get("user_id")

	doc, err := h.service.UpdateDocument(c.Request.Context(), docID, userID.(uint64), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft sent paid overdue"`
}

func (h *Handler) ChangeStatus(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.BadRequest("Invalid document id", err))
		return
	}

	var form ChangeStatusRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	doc, err := h.service.ChangeStatus(c.Request.Context(), docID, userID.(uint64), domain.DocumentStatus(form.Status))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *Handler) Archive(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.BadRequest("Invalid document id", err))
		return
	}

	userID, _ := c.Get("user_id")

	if err := h.service.ArchiveDocument(c.Request.Context(), docID, userID.(uint64)); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) Delete(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.BadRequest("Invalid document id", err))
		return
	}

	userID, _ := c.Get("user_id")

	if err := h.service.DeleteDocument(c.Request.Context(), docID, userID.(uint64)); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DownloadPDF streams the rendered document.
func (h *Handler) DownloadPDF(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.BadRequest("Invalid document id", err))
		return
	}

	userID, _ := c.Get("user_id")

	filename, content, err := h.service.RenderDocumentPDF(c.Request.Context(), docID, userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", content)
}

func (h *Handler) Send(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.BadRequest("Invalid document id", err))
		return
	}

	userID, _ := c.Get("user_id")

	doc, err := h.service.SendDocument(c.Request.Context(), docID, userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, doc)
}
