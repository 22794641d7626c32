// Package parsers picks the parser of a document by its extension, its declared
// content type or its detected MIME type, in that order.
package parsers

import (
	"context"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/Laisky/errors/v2"

	"github.com/bububa/text-chunker/components/document"
	"github.com/bububa/text-chunker/components/document/parsers/docx"
	"github.com/bububa/text-chunker/components/document/parsers/html"
	"github.com/bububa/text-chunker/components/document/parsers/markdown"
	"github.com/bububa/text-chunker/components/document/parsers/pdf"
	"github.com/bububa/text-chunker/components/document/parsers/pptx"
	"github.com/bububa/text-chunker/components/document/parsers/xlsx"
)

// ErrUnsupported is returned when no parser handles a document
var ErrUnsupported = errors.New("unsupported document format")

const (
	MIMEText     = "text/plain"
	MIMEHTML     = "text/html"
	MIMEMarkdown = "text/markdown"
	MIMEPDF      = "application/pdf"
	MIMEDocx     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEXlsx     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMEPptx     = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
)

type Registry struct {
	byMIME map[string]document.Parser
	byExt  map[string]document.Parser
}

func NewRegistry() *Registry {
	return &Registry{
		byMIME: make(map[string]document.Parser),
		byExt:  make(map[string]document.Parser),
	}
}

type Options struct {
	pdfPassword  string
	xlsxPassword string
}

type Option func(*Options)

func WithPDFPassword(password string) Option {
	return func(o *Options) {
		o.pdfPassword = password
	}
}

func WithXlsxPassword(password string) Option {
	return func(o *Options) {
		o.xlsxPassword = password
	}
}

// Default returns a registry knowing plain text, html, markdown, pdf, docx, xlsx and pptx
func Default(opts ...Option) *Registry {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	var (
		textParser     = new(document.TextParser)
		htmlParser     = html.NewParser()
		markdownParser = markdown.NewParser()
		pdfParser      = pdf.NewParser(pdf.WithPassword(o.pdfPassword))
		docxParser     = new(docx.Parser)
		xlsxParser     = xlsx.NewParser(xlsx.WithPassword(o.xlsxPassword))
		pptxParser     = pptx.NewParser()
	)
	r := NewRegistry()
	r.Register(MIMEText, textParser, ".txt", ".text", ".log", ".csv")
	r.Register(MIMEHTML, htmlParser, ".html", ".htm", ".xhtml")
	r.Register(MIMEMarkdown, markdownParser, ".md", ".markdown")
	r.Register(MIMEPDF, pdfParser, ".pdf")
	r.Register(MIMEDocx, docxParser, ".docx")
	r.Register(MIMEXlsx, xlsxParser, ".xlsx")
	r.Register(MIMEPptx, pptxParser, ".pptx")
	return r
}

// Register binds a parser to a MIME type and to file extensions
func (r *Registry) Register(mimeType string, parser document.Parser, exts ...string) {
	if mimeType != "" {
		r.byMIME[mimeType] = parser
	}
	for _, ext := range exts {
		r.byExt[strings.ToLower(ext)] = parser
	}
}

// ParserFor finds the parser for doc
func (r *Registry) ParserFor(doc *document.Document) (document.Parser, error) {
	if ext := extension(doc.Name()); ext != "" {
		if p, ok := r.byExt[ext]; ok {
			return p, nil
		}
	}
	if ct := doc.Meta["content_type"]; ct != "" {
		if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
			if p, ok := r.byMIME[mediaType]; ok {
				return p, nil
			}
		}
	}
	mtype := doc.MIME()
	for m := mtype; m != nil; m = m.Parent() {
		for k, p := range r.byMIME {
			if m.Is(k) {
				return p, nil
			}
		}
	}
	return nil, errors.Wrapf(ErrUnsupported, "%s (%s)", doc.Name(), mtype.String())
}

// Parse finds the parser for doc and returns the text of the document
func (r *Registry) Parse(ctx context.Context, doc *document.Document) (string, error) {
	p, err := r.ParserFor(doc)
	if err != nil {
		return "", err
	}
	return document.ParseDocument(ctx, doc, p)
}

// extension returns the lower case extension of a file name, a key or the path of an url
func extension(name string) string {
	if u, err := url.Parse(name); err == nil && u.Scheme != "" {
		name = u.Path
	}
	return strings.ToLower(path.Ext(name))
}
