package docx

import (
	"bytes"
	"context"
	"io"

	"github.com/Laisky/errors/v2"
	"github.com/fumiama/go-docx"

	"github.com/bububa/text-chunker/components/document"
)

// Parser is a parser which parse docx to text, body items are separated by a blank line
type Parser struct{}

var _ document.Parser = (*Parser)(nil)

func (p *Parser) Parse(ctx context.Context, reader *bytes.Reader, writer io.Writer) error {
	doc, err := docx.Parse(reader, reader.Size())
	if err != nil {
		return errors.Wrap(err, "open docx")
	}

	var written bool
	for _, it := range doc.Document.Body.Items {
		var content string
		switch t := it.(type) {
		case *docx.Paragraph:
			content = t.String()
		case *docx.Table:
			content = t.String()
		default:
			continue
		}
		if content == "" {
			continue
		}
		if written {
			if _, err := writer.Write([]byte{'\n', '\n'}); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(writer, content); err != nil {
			return err
		}
		written = true
	}
	return nil
}
