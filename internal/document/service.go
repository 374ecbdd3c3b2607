package document

import (
	"context"
	defError "errors"
	"fmt"
	"time"

	"invoicing-crm/internal/domain"
	"invoicing-crm/internal/errors"
	"invoicing-crm/internal/mail"
	"invoicing-crm/internal/pdf"
	"invoicing-crm/internal/worker"
	"invoicing-crm/redis"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type Service interface {
	CreateDocument(ctx context.Context, userID uint64, document *domain.Document) error
	GetDocument(ctx context.Context, id uuid.UUID, userID uint64) (*domain.Document, error)
	ListDocuments(ctx context.Context, userID uint64, filter ListFilter, page, pageSize int) (*PaginatedDocuments, error)
	UpdateDocument(ctx context.Context, id uuid.UUID, userID uint64, input *domain.Document) (*domain.Document, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, userID uint64, status domain.DocumentStatus) (*domain.Document, error)
	ArchiveDocument(ctx context.Context, id uuid.UUID, userID uint64) error
	DeleteDocument(ctx context.Context, id uuid.UUID, userID uint64) error
	RenderDocumentPDF(ctx context.Context, id uuid.UUID, userID uint64) (string, []byte, error)
	SendDocument(ctx context.Context, id uuid.UUID, userID uint64) (*domain.Document, error)
}

type CompanyProvider interface {
	CompanyInfo(ctx context.Context, userID uint64) (domain.CompanyInfo, error)
}

type Renderer interface {
	Render(doc *domain.Document, company domain.CompanyInfo) ([]byte, error)
}

type Notifier interface {
	Send(msg mail.Message) error
}

type ActivityRecorder interface {
	RecordActivity(ctx context.Context, customerID uuid.UUID, kind, summary string) error
}

// allowed status transitions, keyed by current status
var statusTransitions = map[domain.DocumentStatus][]domain.DocumentStatus{
	domain.DocumentStatusDraft:   {domain.DocumentStatusSent},
	domain.DocumentStatusSent:    {domain.DocumentStatusPaid, domain.DocumentStatusOverdue},
	domain.DocumentStatusOverdue: {domain.DocumentStatusPaid},
}

type DefaultService struct {
	repository Repository
	company    CompanyProvider
	renderer   Renderer
	notifier   Notifier
	activity   ActivityRecorder
	pool       *worker.Pool
	cache      *redis.Cache
	log        zerolog.Logger
}

func NewService(
	repository Repository,
	company CompanyProvider,
	renderer Renderer,
	notifier Notifier,
	activity ActivityRecorder,
	pool *worker.Pool,
	cache *redis.Cache,
	log zerolog.Logger,
) Service {
	return &DefaultService{
		repository: repository,
		company:    company,
		renderer:   renderer,
		notifier:   notifier,
		activity:   activity,
		pool:       pool,
		cache:      cache,
		log:        log,
	}
}

func (s *DefaultService) CreateDocument(ctx context.Context, userID uint64, document *domain.Document) error {
	if document.Status == "" {
		document.Status = domain.DocumentStatusDraft
	}
	if document.IssueDate.IsZero() {
		document.IssueDate = time.Now().UTC().Truncate(24 * time.Hour)
	}
	if document.DueDate.IsZero() {
		document.DueDate = document.IssueDate.AddDate(0, 0, 30)
	}
	if document.Number == "" {
		number, err := s.nextNumber(ctx, userID, document.Type)
		if err != nil {
			return err
		}
		document.Number = number
	}
	document.RecomputeTotals()

	err := s.repository.Create(ctx, userID, document)
	if err != nil {
		if defError.Is(err, gorm.ErrDuplicatedKey) {
			return errors.Conflict("Document number already in use", err)
		}
		return err
	}
	s.cache.IncrementVersion(ctx, versionKey(userID))

	if document.CustomerID != nil {
		s.recordActivityAsync(*document.CustomerID, "document_created",
			fmt.Sprintf("%s %s created", document.Type, document.Number))
	}

	return nil
}

// nextNumber produces a sequential editor-facing number like INV-0007. The
// recurring job uses its own timestamp-based numbering.
func (s *DefaultService) nextNumber(ctx context.Context, userID uint64, docType domain.DocumentType) (string, error) {
	count, err := s.repository.CountByUserAndType(ctx, userID, docType)
	if err != nil {
		return "", err
	}
	prefix := "INV"
	if docType == domain.DocumentTypeQuote {
		prefix = "QUO"
	}
	return fmt.Sprintf("%s-%04d", prefix, count+1), nil
}

func (s *DefaultService) GetDocument(ctx context.Context, id uuid.UUID, userID uint64) (*domain.Document, error) {
	doc, err := s.repository.FindByID(ctx, id, userID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Document not found", err)
		}
		return nil, err
	}
	return doc, nil
}

type PaginatedDocuments struct {
	Data []domain.Document `json:"data"`
	Meta Meta              `json:"meta"`
}

func (s *DefaultService) ListDocuments(ctx context.Context, userID uint64, filter ListFilter, page, pageSize int) (*PaginatedDocuments, error) {
	v := s.cache.GetVersion(ctx, versionKey(userID))
	archived := "any"
	if filter.Archived != nil {
		archived = fmt.Sprintf("%t", *filter.Archived)
	}
	cacheKey := fmt.Sprintf("docs:u:%d:v:%d:t:%s:s:%s:a:%s:p:%d:ps:%d",
		userID, v, filter.Type, filter.Status, archived, page, pageSize)

	var result PaginatedDocuments
	found, _ := s.cache.Get(ctx, cacheKey, &result)
	if found {
		return &result, nil
	}

	documents, meta, err := s.repository.ListByUserID(ctx, userID, filter, page, pageSize)
	if err != nil {
		return nil, err
	}
	result = PaginatedDocuments{Data: documents, Meta: meta}
	go s.cache.Set(context.Background(), cacheKey, result, 24*time.Hour)

	return &result, nil
}

func (s *DefaultService) UpdateDocument(ctx context.Context, id uuid.UUID, userID uint64, input *domain.Document) (*domain.Document, error) {
	doc, err := s.GetDocument(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	doc.CustomerID = input.CustomerID
	doc.Customer = nil
	doc.Items = input.Items
	doc.IssueDate = input.IssueDate
	doc.DueDate = input.DueDate
	doc.Notes = input.Notes
	doc.TemplateID = input.TemplateID
	doc.TaxRate = input.TaxRate
	doc.Recurrence = input.Recurrence
	doc.RecomputeTotals()

	if err := s.repository.Update(ctx, doc); err != nil {
		return nil, err
	}
	s.cache.IncrementVersion(ctx, versionKey(userID))

	return doc, nil
}

func (s *DefaultService) ChangeStatus(ctx context.Context, id uuid.UUID, userID uint64, status domain.DocumentStatus) (*domain.Document, error) {
	doc, err := s.GetDocument(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if !transitionAllowed(doc.Status, status) {
		return nil, errors.UnprocessableEntity(
			fmt.Sprintf("Can't move document from %s to %s", doc.Status, status), nil)
	}

	if err := s.repository.UpdateStatus(ctx, id, userID, status); err != nil {
		return nil, err
	}
	doc.Status = status
	s.cache.IncrementVersion(ctx, versionKey(userID))

	if doc.CustomerID != nil {
		s.recordActivityAsync(*doc.CustomerID, "status_changed",
			fmt.Sprintf("%s %s marked %s", doc.Type, doc.Number, status))
	}

	return doc, nil
}

func transitionAllowed(from, to domain.DocumentStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s *DefaultService) ArchiveDocument(ctx context.Context, id uuid.UUID, userID uint64) error {
	if err := s.repository.SetArchived(ctx, id, userID, true); err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return errors.NotFound("Document not found", err)
		}
		return err
	}
	s.cache.IncrementVersion(ctx, versionKey(userID))
	return nil
}

func (s *DefaultService) DeleteDocument(ctx context.Context, id uuid.UUID, userID uint64) error {
	if _, err := s.GetDocument(ctx, id, userID); err != nil {
		return err
	}
	if err := s.repository.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.cache.IncrementVersion(ctx, versionKey(userID))
	return nil
}

func (s *DefaultService) RenderDocumentPDF(ctx context.Context, id uuid.UUID, userID uint64) (string, []byte, error) {
	doc, err := s.GetDocument(ctx, id, userID)
	if err != nil {
		return "", nil, err
	}

	company, err := s.company.CompanyInfo(ctx, userID)
	if err != nil {
		return "", nil, err
	}

	content, err := s.renderer.Render(doc, company)
	if err != nil {
		return "", nil, err
	}

	return pdf.Filename(doc), content, nil
}

// SendDocument renders the document and emails it to the customer on record.
// A draft moves to sent on success.
func (s *DefaultService) SendDocument(ctx context.Context, id uuid.UUID, userID uint64) (*domain.Document, error) {
	doc, err := s.GetDocument(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if doc.Customer == nil || doc.Customer.Email == "" {
		return nil, errors.UnprocessableEntity("Document has no customer email to send to", nil)
	}

	company, err := s.company.CompanyInfo(ctx, userID)
	if err != nil {
		return nil, err
	}

	content, err := s.renderer.Render(doc, company)
	if err != nil {
		return nil, err
	}

	msg := mail.Message{
		To:         doc.Customer.Email,
		Subject:    fmt.Sprintf("%s %s from %s", titleFor(doc.Type), doc.Number, company.Name),
		Body:       emailBody(doc, company),
		Attachment: mail.EncodeAttachment(pdf.Filename(doc), content),
	}
	if err := s.notifier.Send(msg); err != nil {
		return nil, errors.New(502, "Failed to send email", err)
	}

	if doc.Status == domain.DocumentStatusDraft {
		if err := s.repository.UpdateStatus(ctx, id, userID, domain.DocumentStatusSent); err != nil {
			s.log.Error().Err(err).Str("number", doc.Number).Msg("sent but failed to mark document sent")
		} else {
			doc.Status = domain.DocumentStatusSent
		}
		s.cache.IncrementVersion(ctx, versionKey(userID))
	}

	if doc.CustomerID != nil {
		s.recordActivityAsync(*doc.CustomerID, "document_sent",
			fmt.Sprintf("%s %s sent to %s", doc.Type, doc.Number, doc.Customer.Email))
	}

	return doc, nil
}

func titleFor(docType domain.DocumentType) string {
	if docType == domain.DocumentTypeQuote {
		return "Quote"
	}
	return "Invoice"
}

func emailBody(doc *domain.Document, company domain.CompanyInfo) string {
	return fmt.Sprintf(
		"Hello %s,\n\nPlease find attached %s %s for %s, due on %s.\n\nBest regards,\n%s",
		doc.Customer.Name,
		titleFor(doc.Type),
		doc.Number,
		doc.Total.StringFixed(2),
		doc.DueDate.Format("02 Jan 2006"),
		company.Name,
	)
}

func (s *DefaultService) recordActivityAsync(customerID uuid.UUID, kind, summary string) {
	s.pool.Submit(func(ctx context.Context) error {
		return s.activity.RecordActivity(ctx, customerID, kind, summary)
	})
}

func versionKey(userID uint64) string {
	return fmt.Sprintf("user:%d:docs:version", userID)
}
