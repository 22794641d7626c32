package xlsx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/xuri/excelize/v2"

	"github.com/bububa/text-chunker/components/document"
)

// Parser renders every sheet of a workbook as a markdown table headed by the sheet name.
// A table ends with a newline so the chunker can cut between rows.
type Parser struct {
	password string
}

var _ document.Parser = (*Parser)(nil)

type Option func(*Parser)

func WithPassword(passwd string) Option {
	return func(p *Parser) {
		p.password = passwd
	}
}

func NewParser(opts ...Option) *Parser {
	ret := new(Parser)
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (p *Parser) Parse(ctx context.Context, reader *bytes.Reader, writer io.Writer) error {
	opts := make([]excelize.Options, 0, 1)
	if p.password != "" {
		opts = append(opts, excelize.Options{Password: p.password})
	}
	doc, err := excelize.OpenReader(reader, opts...)
	if err != nil {
		return errors.Wrap(err, "open xlsx")
	}
	defer doc.Close()
	for _, sheet := range doc.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return err
		}
		table, err := p.renderSheet(doc, sheet)
		if err != nil {
			return errors.Wrapf(err, "render sheet %q", sheet)
		}
		if _, err := io.WriteString(writer, table); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) renderSheet(doc *excelize.File, sheet string) (string, error) {
	rows, err := doc.Rows(sheet)
	if err != nil {
		return "", err
	}
	defer rows.Close()
	buf := new(strings.Builder)
	var totalRows int
	for rowIdx := 0; rows.Next(); rowIdx++ {
		row, err := rows.Columns()
		if err != nil {
			return "", err
		}
		if len(row) == 0 {
			continue
		}
		if totalRows == 0 {
			fmt.Fprintf(buf, "# %s\n\n", sheet)
		}
		buf.WriteString("| ")
		for colIdx, cellValue := range row {
			if colIdx > 0 {
				buf.WriteString(" | ")
			}
			buf.WriteString(formatCell(doc, sheet, colIdx+1, rowIdx+1, cellValue))
		}
		buf.WriteString(" |\n")
		totalRows++
		if totalRows == 1 {
			buf.WriteString("|")
			buf.WriteString(strings.Repeat(" --- |", len(row)))
			buf.WriteString("\n")
		}
	}
	if err := rows.Error(); err != nil {
		return "", err
	}
	if totalRows > 0 {
		buf.WriteString("\n")
	}
	return buf.String(), nil
}

// formatCell escapes the value and carries its font style and hyperlink over to markdown
func formatCell(doc *excelize.File, sheet string, col int, row int, value string) string {
	value = strings.TrimSpace(document.EscapeMarkdown(document.StripUnprintable(value)))
	value = strings.ReplaceAll(value, "\n", " ")
	if value == "" {
		return value
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return value
	}
	if styleID, err := doc.GetCellStyle(sheet, cell); err == nil {
		if style, err := doc.GetStyle(styleID); err == nil && style.Font != nil {
			switch {
			case style.Font.Bold:
				value = fmt.Sprintf("**%s**", value)
			case style.Font.Strike:
				value = fmt.Sprintf("~~%s~~", value)
			case style.Font.Italic:
				value = fmt.Sprintf("*%s*", value)
			}
		}
	}
	if _, target, _ := doc.GetCellHyperLink(sheet, cell); target != "" {
		value = fmt.Sprintf("[%s](%s)", value, target)
	}
	return value
}
