package recurring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"invoicing-crm/internal/domain"
	"invoicing-crm/internal/mail"
	"invoicing-crm/internal/pdf"

	"github.com/rs/zerolog"
)

type DocumentStore interface {
	ListRecurring(ctx context.Context) ([]domain.Document, error)
	Create(ctx context.Context, userID uint64, document *domain.Document) error
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

// Runner regenerates and emails recurring invoices. Documents are processed
// strictly sequentially; a failure at any stage skips that document and the
// loop moves on. Only the initial fetch aborts the whole run. The same-day
// guard in the scanner is the only protection against duplicate firing;
// overlapping invocations are not guarded against.
type Runner struct {
	store    DocumentStore
	company  CompanyProvider
	renderer Renderer
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time
}

func NewRunner(
	store DocumentStore,
	company CompanyProvider,
	renderer Renderer,
	notifier Notifier,
	log zerolog.Logger,
) *Runner {
	return &Runner{
		store:    store,
		company:  company,
		renderer: renderer,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Run executes one batch and returns a human-readable summary of the invoice
// numbers that were generated and sent.
func (r *Runner) Run(ctx context.Context) (string, error) {
	documents, err := r.store.ListRecurring(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch recurring documents: %w", err)
	}

	today := r.now().UTC()
	var sent []string

	for i := range documents {
		doc := &documents[i]

		if !qualifiesToday(doc, today) {
			continue
		}

		if doc.Customer == nil {
			r.log.Warn().
				Str("number", doc.Number).
				Msg("recurring document has no customer, skipping")
			continue
		}

		clone := cloneForRecurrence(doc, today, r.now())

		if err := r.store.Create(ctx, doc.UserID, clone); err != nil {
			r.log.Error().Err(err).
				Str("source", doc.Number).
				Str("number", clone.Number).
				Msg("failed to insert cloned invoice, skipping")
			continue
		}
		clone.Customer = doc.Customer

		company, err := r.company.CompanyInfo(ctx, doc.UserID)
		if err != nil {
			r.log.Error().Err(err).
				Str("number", clone.Number).
				Msg("failed to load company profile, skipping send")
			continue
		}

		content, err := r.renderer.Render(clone, company)
		if err != nil {
			r.log.Error().Err(err).
				Str("number", clone.Number).
				Msg("failed to render invoice PDF, skipping send")
			continue
		}

		if doc.Customer.Email == "" {
			r.log.Warn().
				Str("number", clone.Number).
				Msg("customer has no email address, skipping send")
			continue
		}

		msg := mail.Message{
			To:      doc.Customer.Email,
			Subject: fmt.Sprintf("Invoice %s from %s", clone.Number, company.Name),
			Body: fmt.Sprintf(
				"Hello %s,\n\nPlease find attached invoice %s, due on %s.\n\nBest regards,\n%s",
				doc.Customer.Name,
				clone.Number,
				clone.DueDate.Format("02 Jan 2006"),
				company.Name,
			),
			Attachment: mail.EncodeAttachment(pdf.Filename(clone), content),
		}
		if err := r.notifier.Send(msg); err != nil {
			r.log.Error().Err(err).
				Str("number", clone.Number).
				Str("to", doc.Customer.Email).
				Msg("failed to send invoice email")
			continue
		}

		r.log.Info().
			Str("source", doc.Number).
			Str("number", clone.Number).
			Msg("recurring invoice generated and sent")
		sent = append(sent, clone.Number)
	}

	if len(sent) == 0 {
		return "No recurring invoices due today", nil
	}
	return fmt.Sprintf("Generated and sent %d recurring invoice(s): %s",
		len(sent), strings.Join(sent, ", ")), nil
}
