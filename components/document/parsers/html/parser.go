package html

import (
	"bytes"
	"context"
	"io"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/Laisky/errors/v2"
	"github.com/PuerkitoBio/goquery"

	"github.com/bububa/text-chunker/components/document"
)

var (
	noiseTags         = []string{"script", "style", "noscript", "nav", "header", "footer"}
	contentCandidates = []string{
		"main",
		"#content, #main",
		".content, .main",
		"article",
		"body",
	}
	reBlankLines = regexp.MustCompile(`\r?\n{2,}`)
)

// Parser is a parser which extracts the main content of a html page and converts it to markdown
type Parser struct {
	opts []converter.ConvertOptionFunc
}

var _ document.Parser = (*Parser)(nil)

func NewParser(opts ...converter.ConvertOptionFunc) *Parser {
	return &Parser{
		opts: opts,
	}
}

// Parse try to parse a html content from a bytes.Reader into a markdown content then write to an io.Writer
func (h *Parser) Parse(ctx context.Context, reader *bytes.Reader, writer io.Writer) error {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return errors.Wrap(err, "read html")
	}
	mainContent := extractMainContent(doc)
	markdown, err := htmltomarkdown.ConvertString(mainContent, h.opts...)
	if err != nil {
		return errors.Wrap(err, "convert html to markdown")
	}
	_, err = io.WriteString(writer, cleanMarkdownContent(markdown))
	return err
}

// extractMainContent picks the first content container found, falling back to the whole page
func extractMainContent(doc *goquery.Document) string {
	for _, tag := range noiseTags {
		doc.Find(tag).Remove()
	}
	for _, selector := range contentCandidates {
		sel := doc.Find(selector)
		if sel.Length() > 0 {
			if txt, err := sel.First().Html(); err == nil {
				return txt
			}
		}
	}
	mainContent, _ := doc.Html()
	return mainContent
}

// cleanMarkdownContent collapses blank lines and trailing spaces, the result ends with a single newline
func cleanMarkdownContent(content string) string {
	content = reBlankLines.ReplaceAllString(content, "\n\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	content = strings.TrimSpace(strings.Join(lines, "\n"))
	if content == "" {
		return ""
	}
	return content + "\n"
}
