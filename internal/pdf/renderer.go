package pdf

import (
	"bytes"

	"invoicing-crm/internal/domain"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog"
)

// DefaultTemplateID is the layout used when a document references a
// template this build does not know.
const DefaultTemplateID = "modern"

type layoutFunc func(pdf *gofpdf.Fpdf, doc *domain.Document, company domain.CompanyInfo)

// Each layout is deterministic and stateless: fixed margins, fixed fonts and
// colors, a word-wrapped notes block and a single-pass item table. Content
// that overflows the page is not re-paginated.
var layouts = map[string]layoutFunc{
	"modern":  layoutModern,
	"classic": layoutClassic,
	"minimal": layoutMinimal,
}

type Renderer struct {
	log zerolog.Logger
}

func NewRenderer(log zerolog.Logger) *Renderer {
	return &Renderer{log: log}
}

// Render draws the document with the layout selected by its template id,
// falling back to the modern layout for unknown ids.
func (r *Renderer) Render(doc *domain.Document, company domain.CompanyInfo) ([]byte, error) {
	layout, ok := layouts[doc.TemplateID]
	if !ok {
		r.log.Warn().
			Str("template_id", doc.TemplateID).
			Str("number", doc.Number).
			Msg("unknown template id, falling back to modern layout")
		layout = layouts[DefaultTemplateID]
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	layout(pdf, doc, company)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename returns the download filename for a rendered document.
func Filename(doc *domain.Document) string {
	return doc.Number + ".pdf"
}
