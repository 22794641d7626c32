package markdown

import (
	"bytes"
	"context"
	"io"
	"strings"

	"gitlab.com/golang-commonmark/markdown"

	"github.com/bububa/text-chunker/components/document"
)

// Parser strips markdown syntax and writes the plain text, one block per line.
// Code blocks are kept verbatim, table cells are separated by tabs.
type Parser struct {
	md *markdown.Markdown
}

var _ document.Parser = (*Parser)(nil)

func NewParser() *Parser {
	return &Parser{
		md: markdown.New(markdown.Tables(true)),
	}
}

func (p *Parser) Parse(ctx context.Context, reader *bytes.Reader, writer io.Writer) error {
	src, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	md := p.md
	if md == nil {
		md = markdown.New(markdown.Tables(true))
	}
	buf := new(strings.Builder)
	for _, tok := range md.Parse(src) {
		switch t := tok.(type) {
		case *markdown.Inline:
			writeInline(buf, t.Children)
		case *markdown.ParagraphClose, *markdown.HeadingClose, *markdown.TrClose:
			buf.WriteByte('\n')
		case *markdown.TdClose, *markdown.ThClose:
			buf.WriteByte('\t')
		case *markdown.CodeBlock:
			buf.WriteString(t.Content)
		case *markdown.Fence:
			buf.WriteString(t.Content)
		}
	}
	_, err = io.WriteString(writer, buf.String())
	return err
}

func writeInline(buf *strings.Builder, tokens []markdown.Token) {
	for _, tok := range tokens {
		switch t := tok.(type) {
		case *markdown.Text:
			buf.WriteString(t.Content)
		case *markdown.CodeInline:
			buf.WriteString(t.Content)
		case *markdown.Softbreak:
			buf.WriteByte(' ')
		case *markdown.Hardbreak:
			buf.WriteByte('\n')
		case *markdown.Image:
			writeInline(buf, t.Tokens)
		}
	}
}
