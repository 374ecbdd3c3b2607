package document

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"invoicing-crm/internal/domain"
	"invoicing-crm/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// mock implementation of the Service interface
type MockService struct {
	mock.Mock
}

func (m *MockService) CreateDocument(ctx context.Context, userID uint64, document *domain.Document) error {
	args := m.Called(ctx, userID, document)
	return args.Error(0)
}

func (m *MockService) GetDocument(ctx context.Context, id uuid.UUID, userID uint64) (*domain.Document, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockService) ListDocuments(ctx context.Context, userID uint64, filter ListFilter, page, pageSize int) (*PaginatedDocuments, error) {
	args := m.Called(ctx, userID, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PaginatedDocuments), args.Error(1)
}

func (m *MockService) UpdateDocument(ctx context.Context, id uuid.UUID, userID uint64, input *domain.Document) (*domain.Document, error) {
	args := m.Called(ctx, id, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockService) ChangeStatus(ctx context.Context, id uuid.UUID, userID uint64, status domain.DocumentStatus) (*domain.Document, error) {
	args := m.Called(ctx, id, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockService) ArchiveDocument(ctx context.Context, id uuid.UUID, userID uint64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockService) DeleteDocument(ctx context.Context, id uuid.UUID, userID uint64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockService) RenderDocumentPDF(ctx context.Context, id uuid.UUID, userID uint64) (string, []byte, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).([]byte), args.Error(2)
}

func (m *MockService) SendDocument(ctx context.Context, id uuid.UUID, userID uint64) (*domain.Document, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	return router
}

func asUser(userID uint64, handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		handler(c)
	}
}

func TestCreateDocument_Success(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter()

	mockService.On("CreateDocument", mock.Anything, uint64(1), mock.MatchedBy(func(doc *domain.Document) bool {
		return doc.Type == domain.DocumentTypeInvoice && len(doc.Items) == 1
	})).Return(nil).Run(func(args mock.Arguments) {
		doc := args.Get(2).(*domain.Document)
		doc.ID = uuid.New()
		doc.Number = "INV-0001"
	})

	router.POST("/documents", asUser(1, handler.Create))

	payload := DocumentRequest{
		Type: "invoice",
		Items: []ItemRequest{
			{Description: "Consulting", Quantity: 2, UnitPrice: 50},
		},
		TaxRate: 10,
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", "/documents", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestCreateDocument_MissingItems(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter()

	router.POST("/documents", asUser(1, handler.Create))

	body, _ := json.Marshal(gin.H{"type": "invoice"})
	req := httptest.NewRequest("POST", "/documents", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	// 422 for validation errors (missing items)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	mockService.AssertNotCalled(t, "CreateDocument", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateDocument_InvalidRecurrenceFrequency(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter()

	router.POST("/documents", asUser(1, handler.Create))

	body, _ := json.Marshal(gin.H{
		"type":       "invoice",
		"items":      []gin.H{{"description": "Consulting", "quantity": 1, "unit_price": 50}},
		"recurrence": gin.H{"frequency": "fortnightly"},
	})
	req := httptest.NewRequest("POST", "/documents", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestListDocuments_WithPagination(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter()

	archived := false
	result := &PaginatedDocuments{
		Data: []domain.Document{{Number: "INV-0001"}},
		Meta: Meta{CurrentPage: 2, TotalPage: 3, Total: 25, PerPage: 15},
	}
	mockService.On("ListDocuments", mock.Anything, uint64(1),
		ListFilter{Archived: &archived}, 2, 15).Return(result, nil)

	router.GET("/documents", asUser(1, handler.List))

	req := httptest.NewRequest("GET", "/documents?page=2&per_page=15", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestChangeStatus_Success(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter()

	docID := uuid.New()
	doc := &domain.Document{ID: docID, Number: "INV-0001", Status: domain.DocumentStatusPaid}
	mockService.On("ChangeStatus", mock.Anything, docID, uint64(1), domain.DocumentStatusPaid).
		Return(doc, nil)

	router.POST("/documents/:id/status", asUser(1, handler.ChangeStatus))

	body, _ := json.Marshal(ChangeStatusRequest{Status: "paid"})
	req := httptest.NewRequest("POST", "/documents/"+docID.String()+"/status", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestDownloadPDF_SetsHeaders(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter()

	docID := uuid.New()
	mockService.On("RenderDocumentPDF", mock.Anything, docID, uint64(1)).
		Return("INV-0001.pdf", []byte("%PDF-1.4"), nil)

	router.GET("/documents/:id/pdf", asUser(1, handler.DownloadPDF))

	req := httptest.NewRequest("GET", "/documents/"+docID.String()+"/pdf", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "INV-0001.pdf")
	assert.Equal(t, "%PDF-1.4", w.Body.String())
}

func TestDeleteDocument_InvalidID(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter()

	router.DELETE("/documents/:id", asUser(1, handler.Delete))

	req := httptest.NewRequest("DELETE", "/documents/not-a-uuid", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "DeleteDocument", mock.Anything, mock.Anything, mock.Anything)
}
