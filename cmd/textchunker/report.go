package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/Laisky/errors/v2"
	"github.com/google/uuid"
	"github.com/rs/xid"
	"gopkg.in/yaml.v3"

	"github.com/bububa/text-chunker/components/splitter"
)

// Report is the structured output of a run
type Report struct {
	RunID      string        `json:"run_id" yaml:"run_id"`
	Mode       string        `json:"mode" yaml:"mode"`
	Source     string        `json:"source" yaml:"source"`
	MaxLen     int           `json:"maxlen,omitempty" yaml:"maxlen,omitempty"`
	Tokens     string        `json:"tokens,omitempty" yaml:"tokens,omitempty"`
	Length     int           `json:"length" yaml:"length"`
	Chunks     []ChunkReport `json:"chunks,omitempty" yaml:"chunks,omitempty"`
	Paragraphs []string      `json:"paragraphs,omitempty" yaml:"paragraphs,omitempty"`
	Sentences  []string      `json:"sentences,omitempty" yaml:"sentences,omitempty"`
}

type ChunkReport struct {
	ID         string            `json:"id" yaml:"id"`
	Index      int               `json:"index" yaml:"index"`
	Start      int               `json:"start" yaml:"start"`
	End        int               `json:"end" yaml:"end"`
	Length     int               `json:"length" yaml:"length"`
	Cumulative int               `json:"cumulative" yaml:"cumulative"`
	Boundary   splitter.Boundary `json:"boundary" yaml:"boundary"`
	Tokens     int               `json:"tokens" yaml:"tokens"`
	Text       string            `json:"text" yaml:"text"`
}

const (
	ModeChunks     = "chunks"
	ModeParagraphs = "paragraphs"
	ModeSentences  = "sentences"
)

func newReport(mode string, source string, text string) *Report {
	return &Report{
		RunID:  xid.New().String(),
		Mode:   mode,
		Source: source,
		Length: utf8.RuneCountInString(text),
	}
}

func (r *Report) AddChunk(c splitter.Chunk) {
	var cum int
	if n := len(r.Chunks); n > 0 {
		cum = r.Chunks[n-1].Cumulative
	}
	r.Chunks = append(r.Chunks, ChunkReport{
		ID:         chunkID(r.Source, c),
		Index:      c.Index,
		Start:      c.Start,
		End:        c.End,
		Length:     c.Runes,
		Cumulative: cum + c.Runes,
		Boundary:   c.Boundary,
		Tokens:     c.TokenSize,
		Text:       c.Text,
	})
}

// chunkID is stable across runs for the same source, position and text
func chunkID(source string, c splitter.Chunk) string {
	buf := make([]byte, 0, len(source)+len(c.Text)+16)
	buf = append(buf, source...)
	buf = append(buf, '#')
	buf = strconv.AppendInt(buf, int64(c.Index), 10)
	buf = append(buf, '\n')
	buf = append(buf, c.Text...)
	return uuid.NewSHA1(uuid.NameSpaceOID, buf).String()
}

// Write renders the report in format
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		return enc.Close()
	case FormatText:
		return r.writeText(w)
	}
	return errors.Errorf("unknown format %q", format)
}

// writeText prints every chunk followed by its index, length and the cumulative length,
// then the length of the whole text. Listing modes print one item per line.
func (r *Report) writeText(w io.Writer) error {
	switch r.Mode {
	case ModeParagraphs:
		return writeLines(w, r.Paragraphs)
	case ModeSentences:
		return writeLines(w, r.Sentences)
	}
	for _, c := range r.Chunks {
		if _, err := fmt.Fprintf(w, "%s\n%d %d %d\n==========\n", c.Text, c.Index, c.Length, c.Cumulative); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, r.Length)
	return err
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
