package calendar

import (
	defError "errors"
	"net/http"
	"strconv"
	"time"

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

type EventRequest struct {
	Title    string `json:"title" binding:"required,min=1,max=255"`
	StartsAt string `json:"starts_at" binding:"required"`
	EndsAt   string `json:"ends_at" binding:"required"`
	AllDay   bool   `json:"all_day"`
	Color    string `json:"color" binding:"max=20"`
	Notes    string `json:"notes"`
}

func (r *EventRequest) toDomain() (*domain.CalendarEvent, error) {
	startsAt, err := time.Parse(time.RFC3339, r.StartsAt)
	if err != nil {
		return nil, errors.UnprocessableEntity("Invalid starts_at", err)
	}
	endsAt, err := time.Parse(time.RFC3339, r.EndsAt)
	if err != nil {
		return nil, errors.UnprocessableEntity("Invalid ends_at", err)
	}
	if endsAt.Before(startsAt) {
		return nil, errors.UnprocessableEntity("Event ends before it starts", nil)
	}
	return &domain.CalendarEvent{
		Title:    r.Title,
		StartsAt: startsAt,
		EndsAt:   endsAt,
		AllDay:   r.AllDay,
		Color:    r.Color,
		Notes:    r.Notes,
	}, nil
}

func (h *Handler) Create(c *gin.Context) {
	var form EventRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	event, err := form.toDomain()
	if err != nil {
		c.Error(err)
		return
	}

	userID, _ := c.Get("user_id")

	if err := h.repository.Create(c.Request.Context(), userID.(uint64), event); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// List returns events for a month window, defaulting to the current month.
func (h *Handler) List(c *gin.Context) {
	userID, _ := c.Get("user_id")

	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if fromParam := c.Query("from"); fromParam != "" {
		parsed, err := time.Parse("2006-01-02", fromParam)
		if err != nil {
			c.Error(errors.BadRequest("Invalid from date", err))
			return
		}
		from = parsed
	}
	to := from.AddDate(0, 1, 0)
	if toParam := c.Query("to"); toParam != "" {
		parsed, err := time.Parse("2006-01-02", toParam)
		if err != nil {
			c.Error(errors.BadRequest("Invalid to date", err))
			return
		}
		to = parsed
	}

	events, err := h.repository.ListByRange(c.Request.Context(), userID.(uint64), from, to)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": events})
}

func (h *Handler) Update(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid event id", err))
		return
	}

	var form EventRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	input, err := form.toDomain()
	if err != nil {
		c.Error(err)
		return
	}

	userID, _ := c.Get("user_id")

	event, err := h.repository.FindByID(c.Request.Context(), eventID, userID.(uint64))
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			c.Error(errors.NotFound("Event not found", err))
			return
		}
		c.Error(err)
		return
	}

	event.Title = input.Title
	event.StartsAt = input.StartsAt
	event.EndsAt = input.EndsAt
	event.AllDay = input.AllDay
	event.Color = input.Color
	event.Notes = input.Notes

	if err := h.repository.Update(c.Request.Context(), event); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *Handler) Delete(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid event id", err))
		return
	}

	userID, _ := c.Get("user_id")

	if err := h.repository.Delete(c.Request.Context(), eventID, userID.(uint64)); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
