package pptx

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/Laisky/errors/v2"
	qxml "github.com/dgrr/quickxml"

	"github.com/bububa/text-chunker/components/document"
)

var re_SLIDE = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// Parser extracts the texts of a presentation slide by slide.
// Every paragraph ends with a newline, table cells are joined by tabs.
// Use NewParser, the zero value has no separators.
type Parser struct {
	slideSep    string
	tableColSep string
}

var _ document.Parser = (*Parser)(nil)

type Option func(*Parser)

// WithSlideSep sets the text written after each slide. Default is "\n".
func WithSlideSep(sep string) Option {
	return func(p *Parser) {
		p.slideSep = sep
	}
}

// WithTableColSep sets table column separator. Default is "\t".
func WithTableColSep(sep string) Option {
	return func(p *Parser) {
		p.tableColSep = sep
	}
}

func NewParser(opts ...Option) *Parser {
	ret := &Parser{
		slideSep:    "\n",
		tableColSep: "\t",
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (p *Parser) Parse(ctx context.Context, reader *bytes.Reader, writer io.Writer) error {
	zipReader, err := zip.NewReader(reader, reader.Size())
	if err != nil {
		return errors.Wrap(err, "open pptx")
	}
	slides := make(map[int]*zip.File)
	for _, file := range zipReader.File {
		matches := re_SLIDE.FindStringSubmatch(file.Name)
		if len(matches) < 2 {
			continue
		}
		i, err := strconv.Atoi(matches[1])
		if err != nil {
			continue
		}
		slides[i] = file
	}
	nums := make([]int, 0, len(slides))
	for i := range slides {
		nums = append(nums, i)
	}
	slices.Sort(nums)
	for _, i := range nums {
		if err := ctx.Err(); err != nil {
			return err
		}
		texts, err := p.parseSlide(slides[i])
		if err != nil {
			return errors.Wrapf(err, "parse slide %d", i)
		}
		if texts == "" {
			continue
		}
		if _, err := io.WriteString(writer, texts+p.slideSep); err != nil {
			return err
		}
	}
	return nil
}

// parseSlide walks the slide xml, writing a:t runs and breaking lines at the end of
// a:p paragraphs. Inside a:tbl tables cells are separated by tableColSep and rows by newlines.
func (p *Parser) parseSlide(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var (
		texts   = new(strings.Builder)
		line    = new(strings.Builder)
		phrase  string
		inTable int
	)
	flush := func() {
		if strings.TrimSpace(line.String()) != "" {
			texts.WriteString(line.String())
			texts.WriteByte('\n')
		}
		line.Reset()
	}
	r := qxml.NewReader(rc)

NEXT:
	for r.Next() {
		switch e := r.Element().(type) {
		case *qxml.StartElement:
			switch e.Name() {
			case "a:t":
				r.AssignNext(&phrase)
				if !r.Next() {
					break NEXT
				}
				line.WriteString(phrase)
				phrase = ""
			case "a:tbl":
				inTable++
			}
		case *qxml.EndElement:
			switch e.Name() {
			case "a:p":
				if inTable == 0 {
					flush()
				}
			case "a:tc":
				line.WriteString(p.tableColSep)
			case "a:tr":
				flush()
			case "a:tbl":
				inTable--
			}
		}
	}
	if err := r.Error(); err != nil && !errors.Is(err, io.EOF) {
		return "", errors.Wrapf(err, "read %s", f.Name)
	}
	flush()
	return texts.String(), nil
}
