package document

import (
	"bytes"
	"context"
	"io"
	"strings"
	"unicode"

	"github.com/Laisky/errors/v2"
)

// Parser turns the raw content of a document into text
type Parser interface {
	Parse(context.Context, *bytes.Reader, io.Writer) error
}

// TextParser passes plain text through unchanged
type TextParser struct{}

var _ Parser = (*TextParser)(nil)

func (p TextParser) Parse(ctx context.Context, reader *bytes.Reader, writer io.Writer) error {
	_, err := io.Copy(writer, reader)
	return err
}

// ParseDocument runs parser over the content of doc and returns the text
func ParseDocument(ctx context.Context, doc *Document, parser Parser) (string, error) {
	buf := new(strings.Builder)
	if err := parser.Parse(ctx, doc.Reader(), buf); err != nil {
		return "", errors.Wrapf(err, "parse document %q", doc.Name())
	}
	return buf.String(), nil
}

// StripUnprintable removes control and other non printable characters, newlines and tabs are kept
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || unicode.IsPrint(r) {
			return r
		}
		return -1
	}, s)
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"#", `\#`,
	"[", `\[`,
	"]", `\]`,
)

// EscapeMarkdown escapes the characters which would change a markdown table cell
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
