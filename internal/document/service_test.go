package document

import (
	"context"
	defError "errors"
	"testing"
	"time"

	"invoicing-crm/internal/domain"
	"invoicing-crm/internal/errors"
	"invoicing-crm/internal/mail"
	"invoicing-crm/internal/worker"
	"invoicing-crm/redis"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, userID uint64, document *domain.Document) error {
	args := m.Called(ctx, userID, document)
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID, userID uint64) (*domain.Document, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockRepository) ListByUserID(ctx context.Context, userID uint64, filter ListFilter, page, pageSize int) ([]domain.Document, Meta, error) {
	args := m.Called(ctx, userID, filter, page, pageSize)
	return args.Get(0).([]domain.Document), args.Get(1).(Meta), args.Error(2)
}

func (m *MockRepository) Update(ctx context.Context, document *domain.Document) error {
	args := m.Called(ctx, document)
	return args.Error(0)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id uuid.UUID, userID uint64, status domain.DocumentStatus) error {
	args := m.Called(ctx, id, userID, status)
	return args.Error(0)
}

func (m *MockRepository) SetArchived(ctx context.Context, id uuid.UUID, userID uint64, archived bool) error {
	args := m.Called(ctx, id, userID, archived)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID, userID uint64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockRepository) CountByUserAndType(ctx context.Context, userID uint64, docType domain.DocumentType) (int64, error) {
	args := m.Called(ctx, userID, docType)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) ListRecurring(ctx context.Context) ([]domain.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
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

type MockActivity struct {
	mock.Mock
}

func (m *MockActivity) RecordActivity(ctx context.Context, customerID uuid.UUID, kind, summary string) error {
	args := m.Called(ctx, customerID, kind, summary)
	return args.Error(0)
}

type serviceFixture struct {
	repo     *MockRepository
	company  *MockCompany
	renderer *MockRenderer
	notifier *MockNotifier
	activity *MockActivity
	pool     *worker.Pool
	service  Service
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		repo:     new(MockRepository),
		company:  new(MockCompany),
		renderer: new(MockRenderer),
		notifier: new(MockNotifier),
		activity: new(MockActivity),
		pool:     worker.NewPool(1, zerolog.Nop()),
	}
	f.service = NewService(
		f.repo, f.company, f.renderer, f.notifier, f.activity,
		f.pool, redis.NewNoop(), zerolog.Nop(),
	)
	return f
}

func storedDocument(status domain.DocumentStatus) *domain.Document {
	return &domain.Document{
		ID:        uuid.New(),
		UserID:    1,
		Number:    "INV-0001",
		Type:      domain.DocumentTypeInvoice,
		Status:    status,
		IssueDate: time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC),
		Items: []domain.DocumentItem{
			{Description: "Consulting", Quantity: 1, UnitPrice: decimal.NewFromInt(100)},
		},
	}
}

func TestChangeStatus_Transitions(t *testing.T) {
	cases := []struct {
		name    string
		from    domain.DocumentStatus
		to      domain.DocumentStatus
		allowed bool
	}{
		{"draft to sent", domain.DocumentStatusDraft, domain.DocumentStatusSent, true},
		{"sent to paid", domain.DocumentStatusSent, domain.DocumentStatusPaid, true},
		{"sent to overdue", domain.DocumentStatusSent, domain.DocumentStatusOverdue, true},
		{"overdue to paid", domain.DocumentStatusOverdue, domain.DocumentStatusPaid, true},
		{"draft to paid", domain.DocumentStatusDraft, domain.DocumentStatusPaid, false},
		{"paid to draft", domain.DocumentStatusPaid, domain.DocumentStatusDraft, false},
		{"paid to sent", domain.DocumentStatusPaid, domain.DocumentStatusSent, false},
		{"sent to draft", domain.DocumentStatusSent, domain.DocumentStatusDraft, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newServiceFixture()
			defer f.pool.Shutdown()

			doc := storedDocument(tc.from)
			f.repo.On("FindByID", mock.Anything, doc.ID, uint64(1)).Return(doc, nil)
			if tc.allowed {
				f.repo.On("UpdateStatus", mock.Anything, doc.ID, uint64(1), tc.to).Return(nil)
			}

			result, err := f.service.ChangeStatus(context.Background(), doc.ID, 1, tc.to)

			if tc.allowed {
				assert.NoError(t, err)
				assert.Equal(t, tc.to, result.Status)
			} else {
				assert.Error(t, err)
				var apiErr *errors.APIError
				assert.ErrorAs(t, err, &apiErr)
				assert.Equal(t, 422, apiErr.Status)
				f.repo.AssertNotCalled(t, "UpdateStatus",
					mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestCreateDocument_AssignsNumberAndTotals(t *testing.T) {
	f := newServiceFixture()
	defer f.pool.Shutdown()

	f.repo.On("CountByUserAndType", mock.Anything, uint64(1), domain.DocumentTypeInvoice).
		Return(int64(6), nil)
	f.repo.On("Create", mock.Anything, uint64(1), mock.AnythingOfType("*domain.Document")).
		Return(nil)

	doc := &domain.Document{
		Type: domain.DocumentTypeInvoice,
		Items: []domain.DocumentItem{
			{Description: "Hosting", Quantity: 2, UnitPrice: decimal.NewFromInt(50)},
		},
		TaxRate: decimal.NewFromInt(20),
	}
	err := f.service.CreateDocument(context.Background(), 1, doc)

	assert.NoError(t, err)
	assert.Equal(t, "INV-0007", doc.Number)
	assert.Equal(t, domain.DocumentStatusDraft, doc.Status)
	assert.Equal(t, "100.00", doc.Subtotal.StringFixed(2))
	assert.Equal(t, "120.00", doc.Total.StringFixed(2))
	assert.Equal(t, doc.IssueDate.AddDate(0, 0, 30), doc.DueDate)
}

func TestSendDocument_NoCustomerEmail(t *testing.T) {
	f := newServiceFixture()
	defer f.pool.Shutdown()

	doc := storedDocument(domain.DocumentStatusDraft)
	doc.Customer = &domain.Customer{Name: "Acme Ltd"} // no email on record
	f.repo.On("FindByID", mock.Anything, doc.ID, uint64(1)).Return(doc, nil)

	_, err := f.service.SendDocument(context.Background(), doc.ID, 1)

	assert.Error(t, err)
	var apiErr *errors.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 422, apiErr.Status)
	f.notifier.AssertNotCalled(t, "Send", mock.Anything)
}

func TestSendDocument_MarksDraftSent(t *testing.T) {
	f := newServiceFixture()
	defer f.pool.Shutdown()

	doc := storedDocument(domain.DocumentStatusDraft)
	doc.Customer = &domain.Customer{Name: "Acme Ltd", Email: "billing@acme.test"}
	f.repo.On("FindByID", mock.Anything, doc.ID, uint64(1)).Return(doc, nil)
	f.company.On("CompanyInfo", mock.Anything, uint64(1)).
		Return(domain.CompanyInfo{Name: "My Studio"}, nil)
	f.renderer.On("Render", doc, mock.Anything).Return([]byte("%PDF"), nil)
	f.notifier.On("Send", mock.MatchedBy(func(msg mail.Message) bool {
		return msg.To == "billing@acme.test" && msg.Attachment != nil
	})).Return(nil)
	f.repo.On("UpdateStatus", mock.Anything, doc.ID, uint64(1), domain.DocumentStatusSent).
		Return(nil)

	result, err := f.service.SendDocument(context.Background(), doc.ID, 1)

	assert.NoError(t, err)
	assert.Equal(t, domain.DocumentStatusSent, result.Status)
	f.notifier.AssertExpectations(t)
}

func TestSendDocument_NotifierFailure(t *testing.T) {
	f := newServiceFixture()
	defer f.pool.Shutdown()

	doc := storedDocument(domain.DocumentStatusDraft)
	doc.Customer = &domain.Customer{Name: "Acme Ltd", Email: "billing@acme.test"}
	f.repo.On("FindByID", mock.Anything, doc.ID, uint64(1)).Return(doc, nil)
	f.company.On("CompanyInfo", mock.Anything, uint64(1)).
		Return(domain.CompanyInfo{Name: "My Studio"}, nil)
	f.renderer.On("Render", doc, mock.Anything).Return([]byte("%PDF"), nil)
	f.notifier.On("Send", mock.Anything).Return(defError.New("smtp timeout"))

	_, err := f.service.SendDocument(context.Background(), doc.ID, 1)

	assert.Error(t, err)
	// the document stays draft when delivery fails
	f.repo.AssertNotCalled(t, "UpdateStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
