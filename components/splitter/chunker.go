package splitter

import (
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"
)

// TextSplitter is implemented by splitters which can be plugged into an embedding
// pipeline: the pipeline splits a document into texts and budgets them by tokens.
type TextSplitter interface {
	SplitText(string) []string
	TokenCount(txt string) int
}

// sentenceMarkers are searched independently, the rightmost match across all of them wins.
var sentenceMarkers = [...]string{". ", "? ", "! "}

// Chunker divides a text into chunks no longer than maxLen characters, preferring to
// cut at a newline, then after sentence ending punctuation, then at a space, before
// falling back to a cut in the middle of a word.
//
// A Chunker holds no per call state and may be shared.
type Chunker struct {
	Options
	maxLen int
}

var _ TextSplitter = (*Chunker)(nil)

// NewChunker creates a Chunker which emits chunks of at most maxLen characters.
// maxLen must be positive, otherwise ErrInvalidConfiguration is returned.
func NewChunker(maxLen int, opts ...Option) (*Chunker, error) {
	if maxLen <= 0 {
		return nil, fmt.Errorf("%w: maxlen must be a positive integer, got %d", ErrInvalidConfiguration, maxLen)
	}
	ret := &Chunker{maxLen: maxLen}
	for _, opt := range opts {
		opt(&ret.Options)
	}
	if ret.tokenCounter == nil {
		ret.tokenCounter = new(RunesTokenCounter)
	}
	return ret, nil
}

// MaxLen returns the maximum chunk length in characters.
func (c *Chunker) MaxLen() int {
	return c.maxLen
}

// Chunk returns a lazy sequence of chunks of text. Concatenating the chunks in order
// reproduces text exactly. A text no longer than MaxLen, the empty text included,
// yields exactly one chunk.
//
// The sequence is computed on demand, breaking out of the range loop stops the work.
func (c *Chunker) Chunk(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		c.scan(text, func(start, end int, _ Boundary) bool {
			return yield(text[start:end])
		})
	}
}

// Chunks is like Chunk but yields every chunk with its position in text, the boundary
// it was cut at and its size according to the configured TokenCounter.
func (c *Chunker) Chunks(text string) iter.Seq[Chunk] {
	return func(yield func(Chunk) bool) {
		var idx int
		c.scan(text, func(start, end int, boundary Boundary) bool {
			txt := text[start:end]
			chunk := Chunk{
				Text:      txt,
				Index:     idx,
				Start:     start,
				End:       end,
				Runes:     utf8.RuneCountInString(txt),
				Boundary:  boundary,
				TokenSize: c.TokenCounter().Count(txt),
			}
			idx++
			return yield(chunk)
		})
	}
}

// SplitText collects all the chunks of txt.
func (c *Chunker) SplitText(txt string) []string {
	ret := make([]string, 0, len(txt)/c.maxLen+1)
	for chunk := range c.Chunk(txt) {
		ret = append(ret, chunk)
	}
	return ret
}

// TokenCount counts txt with the configured TokenCounter.
func (c *Chunker) TokenCount(txt string) int {
	return c.TokenCounter().Count(txt)
}

// scan walks text and reports every chunk as a byte range [start, end) until yield
// returns false or the remainder fits into a single chunk.
func (c *Chunker) scan(text string, yield func(start, end int, boundary Boundary) bool) {
	var offset int
	for {
		remaining := text[offset:]
		width, more := window(remaining, c.maxLen)
		if !more {
			yield(offset, len(text), FinalBoundary)
			return
		}
		end, boundary := cut(remaining[:width])
		if !yield(offset, offset+end, boundary) {
			return
		}
		offset += end
	}
}

// window returns the byte length of the first n characters of s and whether s holds
// more than n characters.
func window(s string, n int) (int, bool) {
	var i, count int
	for i < len(s) {
		if count == n {
			return i, true
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return i, false
}

// cut picks the split point inside win and returns the byte length of the chunk,
// the boundary character included.
func cut(win string) (int, Boundary) {
	// split paragraphs
	if idx := strings.LastIndexByte(win, '\n'); idx >= 0 {
		return idx + 1, ParagraphBoundary
	}
	// a paragraph is longer than the window: split sentences
	best := -1
	for _, marker := range sentenceMarkers {
		if idx := strings.LastIndex(win, marker); idx > best {
			best = idx
		}
	}
	if best >= 0 {
		// the marker's trailing space ends the chunk
		return best + 2, SentenceBoundary
	}
	// a sentence is longer than the window: split words
	if idx := strings.LastIndexByte(win, ' '); idx >= 0 {
		return idx + 1, WordBoundary
	}
	// a word is longer than the window: force split at its last character
	return len(win), ForcedBoundary
}
