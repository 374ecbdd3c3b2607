package recurring

import (
	"context"
	defError "errors"
	"strings"
	"testing"
	"time"

	"invoicing-crm/internal/domain"
	"invoicing-crm/internal/mail"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListRecurring(ctx context.Context) ([]domain.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockStore) Create(ctx context.Context, userID uint64, document *domain.Document) error {
	args := m.Called(ctx, userID, document)
	return args.Error(0)
}

type MockCompany struct {
	mock.Mock
}

func (m *MockCompany) CompanyInfo(ctx context.Context, userID uint64) (domain.CompanyInfo, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.CompanyInfo), args.Error(1)
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(doc *domain.Document, company domain.CompanyInfo) ([]byte, error) {
	args := m.Called(doc, company)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(msg mail.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

var runnerToday = time.Date(2026, time.August, 15, 6, 0, 0, 0, time.UTC)

func newTestRunner(store *MockStore, company *MockCompany, renderer *MockRenderer, notifier *MockNotifier) *Runner {
	runner := NewRunner(store, company, renderer, notifier, zerolog.Nop())
	// advance the clock per call so generated numbers stay distinct
	calls := 0
	runner.now = func() time.Time {
		calls++
		return runnerToday.Add(time.Duration(calls) * time.Millisecond)
	}
	return runner
}

func dueMonthlyDocument(number string, email string) domain.Document {
	customerID := uuid.New()
	return domain.Document{
		ID:         uuid.New(),
		UserID:     1,
		Number:     number,
		CustomerID: &customerID,
		Customer: &domain.Customer{
			ID:    customerID,
			Name:  "Acme Ltd",
			Email: email,
		},
		Items: []domain.DocumentItem{
			{Description: "Hosting", Quantity: 1, UnitPrice: decimal.NewFromInt(100)},
		},
		IssueDate:  time.Date(2026, time.May, 15, 0, 0, 0, 0, time.UTC),
		Type:       domain.DocumentTypeInvoice,
		Status:     domain.DocumentStatusSent,
		TaxRate:    decimal.NewFromInt(10),
		Recurrence: &domain.Recurrence{Frequency: domain.FrequencyMonthly},
	}
}

func TestRun_GeneratesAndSendsDueInvoice(t *testing.T) {
	store := new(MockStore)
	company := new(MockCompany)
	renderer := new(MockRenderer)
	notifier := new(MockNotifier)
	runner := newTestRunner(store, company, renderer, notifier)

	doc := dueMonthlyDocument("INV-0001", "billing@acme.test")
	store.On("ListRecurring", mock.Anything).Return([]domain.Document{doc}, nil)

	var createdNumber string
	store.On("Create", mock.Anything, uint64(1), mock.AnythingOfType("*domain.Document")).
		Return(nil).
		Run(func(args mock.Arguments) {
			clone := args.Get(2).(*domain.Document)
			createdNumber = clone.Number
		})

	company.On("CompanyInfo", mock.Anything, uint64(1)).
		Return(domain.CompanyInfo{Name: "My Studio"}, nil)
	renderer.On("Render", mock.Anything, mock.Anything).Return([]byte("%PDF"), nil)
	notifier.On("Send", mock.MatchedBy(func(msg mail.Message) bool {
		return msg.To == "billing@acme.test" && msg.Attachment != nil
	})).Return(nil)

	summary, err := runner.Run(context.Background())

	assert.NoError(t, err)
	assert.Contains(t, summary, createdNumber)
	assert.Contains(t, summary, "1 recurring invoice")
	store.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestRun_SkipsDocumentIssuedToday(t *testing.T) {
	store := new(MockStore)
	company := new(MockCompany)
	renderer := new(MockRenderer)
	notifier := new(MockNotifier)
	runner := newTestRunner(store, company, renderer, notifier)

	doc := dueMonthlyDocument("INV-0001", "billing@acme.test")
	doc.IssueDate = time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC)
	store.On("ListRecurring", mock.Anything).Return([]domain.Document{doc}, nil)

	summary, err := runner.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "No recurring invoices due today", summary)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_SkipsDocumentWithoutCustomer(t *testing.T) {
	store := new(MockStore)
	company := new(MockCompany)
	renderer := new(MockRenderer)
	notifier := new(MockNotifier)
	runner := newTestRunner(store, company, renderer, notifier)

	orphan := dueMonthlyDocument("INV-0001", "")
	orphan.Customer = nil
	orphan.CustomerID = nil
	healthy := dueMonthlyDocument("INV-0002", "billing@acme.test")

	store.On("ListRecurring", mock.Anything).Return([]domain.Document{orphan, healthy}, nil)
	store.On("Create", mock.Anything, uint64(1), mock.AnythingOfType("*domain.Document")).Return(nil)
	company.On("CompanyInfo", mock.Anything, uint64(1)).
		Return(domain.CompanyInfo{Name: "My Studio"}, nil)
	renderer.On("Render", mock.Anything, mock.Anything).Return([]byte("%PDF"), nil)
	notifier.On("Send", mock.Anything).Return(nil)

	summary, err := runner.Run(context.Background())

	assert.NoError(t, err)
	assert.Contains(t, summary, "1 recurring invoice")
	store.AssertNumberOfCalls(t, "Create", 1)
}

// A send failure for one document must not stop the others; only the
// successful ones show up in the summary.
func TestRun_NotifierFailureIsPerDocument(t *testing.T) {
	store := new(MockStore)
	company := new(MockCompany)
	renderer := new(MockRenderer)
	notifier := new(MockNotifier)
	runner := newTestRunner(store, company, renderer, notifier)

	docA := dueMonthlyDocument("INV-000A", "a@acme.test")
	docB := dueMonthlyDocument("INV-000B", "b@acme.test")
	store.On("ListRecurring", mock.Anything).Return([]domain.Document{docA, docB}, nil)

	var created []*domain.Document
	store.On("Create", mock.Anything, uint64(1), mock.AnythingOfType("*domain.Document")).
		Return(nil).
		Run(func(args mock.Arguments) {
			created = append(created, args.Get(2).(*domain.Document))
		})
	company.On("CompanyInfo", mock.Anything, uint64(1)).
		Return(domain.CompanyInfo{Name: "My Studio"}, nil)
	renderer.On("Render", mock.Anything, mock.Anything).Return([]byte("%PDF"), nil)

	notifier.On("Send", mock.MatchedBy(func(msg mail.Message) bool {
		return msg.To == "a@acme.test"
	})).Return(defError.New("smtp timeout"))
	notifier.On("Send", mock.MatchedBy(func(msg mail.Message) bool {
		return msg.To == "b@acme.test"
	})).Return(nil)

	summary, err := runner.Run(context.Background())

	assert.NoError(t, err)
	assert.Len(t, created, 2)
	notifier.AssertNumberOfCalls(t, "Send", 2)
	assert.Equal(t, 1, strings.Count(summary, "INV-"))
	assert.Contains(t, summary, created[1].Number)
}

func TestRun_InsertFailureIsPerDocument(t *testing.T) {
	store := new(MockStore)
	company := new(MockCompany)
	renderer := new(MockRenderer)
	notifier := new(MockNotifier)
	runner := newTestRunner(store, company, renderer, notifier)

	docA := dueMonthlyDocument("INV-000A", "a@acme.test")
	docB := dueMonthlyDocument("INV-000B", "b@acme.test")
	store.On("ListRecurring", mock.Anything).Return([]domain.Document{docA, docB}, nil)

	store.On("Create", mock.Anything, uint64(1), mock.AnythingOfType("*domain.Document")).
		Return(defError.New("duplicate key")).Once()
	store.On("Create", mock.Anything, uint64(1), mock.AnythingOfType("*domain.Document")).
		Return(nil).Once()
	company.On("CompanyInfo", mock.Anything, uint64(1)).
		Return(domain.CompanyInfo{Name: "My Studio"}, nil)
	renderer.On("Render", mock.Anything, mock.Anything).Return([]byte("%PDF"), nil)
	notifier.On("Send", mock.Anything).Return(nil)

	summary, err := runner.Run(context.Background())

	assert.NoError(t, err)
	assert.Contains(t, summary, "1 recurring invoice")
	notifier.AssertNumberOfCalls(t, "Send", 1)
}

func TestRun_FetchFailureAbortsRun(t *testing.T) {
	store := new(MockStore)
	company := new(MockCompany)
	renderer := new(MockRenderer)
	notifier := new(MockNotifier)
	runner := newTestRunner(store, company, renderer, notifier)

	store.On("ListRecurring", mock.Anything).Return(nil, defError.New("db down"))

	_, err := runner.Run(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "fetch recurring documents")
}
