package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/Laisky/errors/v2"
	"github.com/ledongthuc/pdf"

	"github.com/bububa/text-chunker/components/document"
)

// Parser is a parser which parse PDF content to text, one line per text row
type Parser struct {
	password string
}

var _ document.Parser = (*Parser)(nil)

type Option func(*Parser)

func WithPassword(password string) Option {
	return func(p *Parser) {
		p.password = password
	}
}

func NewParser(opts ...Option) *Parser {
	ret := new(Parser)
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Parse try to parse a pdf content from a bytes.Reader and write to an io.Writer
func (p *Parser) Parse(ctx context.Context, reader *bytes.Reader, writer io.Writer) error {
	var (
		r    *pdf.Reader
		err  error
		size = reader.Size()
	)
	if p.password != "" {
		r, err = pdf.NewReaderEncrypted(reader, size, func() string {
			return p.password
		})
	} else {
		r, err = pdf.NewReader(reader, size)
	}
	if err != nil {
		return errors.Wrap(err, "open pdf")
	}

	var written bool
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return errors.Wrapf(err, "read text of page %d", pageIndex)
		}
		for _, row := range rows {
			if written {
				if _, err := writer.Write([]byte{'\n'}); err != nil {
					return err
				}
			}
			for _, word := range row.Content {
				if _, err := io.WriteString(writer, word.S); err != nil {
					return err
				}
			}
			written = true
		}
	}
	return nil
}
