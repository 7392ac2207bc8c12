package artifact

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/johnquangdev/meeting-analyzer/internal/domain/entities"
	"github.com/johnquangdev/meeting-analyzer/pkg/config"
)

const (
	pdfFamily     = "Helvetica"
	pdfUTF8Family = "body"
	pdfLineHeight = 6.0
)

var markupEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeMarkup escapes text before it is embedded in document markup
func EscapeMarkup(s string) string {
	return markupEscaper.Replace(s)
}

// ErrUnsupportedText is returned when text cannot be drawn with the core font
var ErrUnsupportedText = errors.New("text not representable in cp1252; configure ARTIFACT_FONT_PATH")

// PDFRenderer lays documents out with fpdf. Without a font path the core
// Helvetica font is used and text is translated to cp1252; documents with
// characters outside cp1252 are rejected.
type PDFRenderer struct {
	fontPath     string
	boldFontPath string
}

// NewPDFRenderer creates the rich renderer
func NewPDFRenderer(cfg *config.ArtifactConfig) *PDFRenderer {
	r := &PDFRenderer{}
	if cfg != nil {
		r.fontPath = cfg.FontPath
		r.boldFontPath = cfg.BoldFontPath
	}
	return r
}

func (r *PDFRenderer) Format() entities.ArtifactFormat { return entities.ArtifactFormatPDF }

// Render builds the markup for doc and writes it to a PDF
func (r *PDFRenderer) Render(doc Document) ([]byte, error) {
	if r.fontPath == "" {
		if err := checkCP1252(doc); err != nil {
			return nil, err
		}
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(doc.Heading(), true)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	family := pdfFamily
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	if r.fontPath != "" {
		family = pdfUTF8Family
		bold := r.boldFontPath
		if bold == "" {
			bold = r.fontPath
		}
		pdf.AddUTF8Font(family, "", r.fontPath)
		pdf.AddUTF8Font(family, "B", bold)
		translate = func(s string) string { return s }
	}
	if pdf.Err() {
		return nil, fmt.Errorf("load font: %w", pdf.Error())
	}

	pdf.AddPage()
	w := &markupWriter{pdf: pdf, family: family, translate: translate}
	w.write(documentMarkup(doc))

	if pdf.Err() {
		return nil, pdf.Error()
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// documentMarkup renders doc as the small tag set understood by markupWriter
func documentMarkup(doc Document) string {
	var sb strings.Builder
	sb.WriteString("<h1>")
	sb.WriteString(EscapeMarkup(doc.Heading()))
	sb.WriteString("</h1>")

	for _, s := range doc.Sections {
		if s.Heading != "" {
			sb.WriteString("<h2>")
			sb.WriteString(EscapeMarkup(s.Heading))
			sb.WriteString("</h2>")
		}
		if s.Bullets {
			for _, line := range strings.Split(s.Body, "\n") {
				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				line = stripBullet(line)
				sb.WriteString(EscapeMarkup("• " + line))
				sb.WriteString("<br>")
			}
			continue
		}
		for _, para := range strings.Split(s.Body, "\n\n") {
			if strings.TrimSpace(para) == "" {
				continue
			}
			sb.WriteString("<p>")
			sb.WriteString(strings.ReplaceAll(EscapeMarkup(para), "\n", "<br>"))
			sb.WriteString("</p>")
		}
	}
	return sb.String()
}

// checkCP1252 fails when any text of doc would be lost by the core font
func checkCP1252(doc Document) error {
	texts := []string{doc.Heading()}
	for _, s := range doc.Sections {
		texts = append(texts, s.Heading, s.Body)
	}
	enc := charmap.Windows1252.NewEncoder()
	for _, t := range texts {
		if _, err := enc.String(t); err != nil {
			return fmt.Errorf("%w: %v", ErrUnsupportedText, err)
		}
	}
	return nil
}

// stripBullet removes at most one leading list marker
func stripBullet(line string) string {
	for _, marker := range []string{"•", "-", "*"} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(strings.TrimPrefix(line, marker))
		}
	}
	return line
}

type markupWriter struct {
	pdf       *fpdf.Fpdf
	family    string
	translate func(string) string
}

func (w *markupWriter) write(markup string) {
	w.pdf.SetFont(w.family, "", 11)
	for _, seg := range fpdf.HTMLBasicTokenize(markup) {
		switch seg.Cat {
		case 'T':
			w.pdf.Write(pdfLineHeight, w.translate(html.UnescapeString(seg.Str)))
		case 'O':
			switch seg.Str {
			case "h1":
				w.pdf.SetFont(w.family, "B", 16)
			case "h2":
				w.pdf.Ln(pdfLineHeight)
				w.pdf.SetFont(w.family, "B", 13)
			case "b":
				w.pdf.SetFont(w.family, "B", 11)
			case "br":
				w.pdf.Ln(pdfLineHeight)
			}
		case 'C':
			switch seg.Str {
			case "h1", "h2":
				w.pdf.Ln(pdfLineHeight * 1.5)
				w.pdf.SetFont(w.family, "", 11)
			case "b":
				w.pdf.SetFont(w.family, "", 11)
			case "p":
				w.pdf.Ln(pdfLineHeight * 1.5)
			}
		}
	}
}
