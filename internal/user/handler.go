package user

import (
	"net/http"

	"invoicing-crm/internal/auth"
	"invoicing-crm/internal/domain"
	"invoicing-crm/internal/errors"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	jwt     *auth.JWT
}

func NewHandler(service Service, jwt *auth.JWT) *Handler {
	return &Handler{service: service, jwt: jwt}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SafeUser represents a user without sensitive information
type SafeUser struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toSafeUser(u *domain.User) SafeUser {
	return SafeUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

func (h *Handler) Register(c *gin.Context) {
	var form RegisterRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	user := &domain.User{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
	}

	if err := h.service.Register(c.Request.Context(), user); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, toSafeUser(user))
}

func (h *Handler) Login(c *gin.Context) {
	var form LoginRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	user, err := h.service.Login(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		c.Error(err)
		return
	}

	token, err := h.jwt.Generate(user.ID, user.TokenVersion)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  toSafeUser(user),
	})
}

func (h *Handler) Logout(c *gin.Context) {
	userID, _ := c.Get("user_id")

	if err := h.service.Logout(c.Request.Context(), userID.(uint64)); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) GetProfile(c *gin.Context) {
	userID, _ := c.Get("user_id")

	profile, err := h.service.GetProfile(c.Request.Context(), userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

type UpdateProfileRequest struct {
	CompanyName string `json:"company_name" binding:"max=255"`
	Address     string `json:"address"`
	Email       string `json:"email" binding:"omitempty,email"`
	Phone       string `json:"phone" binding:"max=50"`
	TaxID       string `json:"tax_id" binding:"max=100"`
	LogoURL     string `json:"logo_url"`
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var form UpdateProfileRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	profile, err := h.service.UpdateProfile(c.Request.Context(), userID.(uint64), &domain.Profile{
		CompanyName: form.CompanyName,
		Address:     form.Address,
		Email:       form.Email,
		Phone:       form.Phone,
		TaxID:       form.TaxID,
		LogoURL:     form.LogoURL,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
