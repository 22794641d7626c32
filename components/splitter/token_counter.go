package splitter

import (
	"fmt"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/graphemes"
	"github.com/clipperhouse/uax29/words"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter defines the interface for counting tokens in a string.
// This abstraction allows for different tokenization strategies (e.g., words, subwords).
type TokenCounter interface {
	// Count returns the number of tokens in the given text according to the
	// implementation's tokenization strategy.
	Count(text string) int
}

// RunesTokenCounter counts characters, the unit chunks are measured in.
type RunesTokenCounter struct{}

func (c RunesTokenCounter) Count(text string) int {
	return utf8.RuneCountInString(text)
}

// GraphemesTokenCounter counts user perceived characters, a letter followed by
// combining marks or an emoji sequence is a single token.
type GraphemesTokenCounter struct{}

func (c GraphemesTokenCounter) Count(text string) int {
	return len(graphemes.SegmentAll([]byte(text)))
}

// WordsTokenCounter counts word like segments, spaces and punctuation are skipped.
type WordsTokenCounter struct{}

func (c WordsTokenCounter) Count(text string) int {
	var n int
	for _, seg := range words.SegmentAll([]byte(text)) {
		if isWordlike(seg) {
			n++
		}
	}
	return n
}

// SentencesTokenCounter counts the sentences Sentences yields.
type SentencesTokenCounter struct{}

func (c SentencesTokenCounter) Count(text string) int {
	var n int
	for range Sentences(text) {
		n++
	}
	return n
}

// TikTokenCounter provides accurate token counting using the tiktoken library,
// which implements the tokenization schemes used by OpenAI models.
type TikTokenCounter struct {
	tke *tiktoken.Tiktoken
}

// NewTikTokenCounter creates a new TikTokenCounter using the specified encoding.
// Common encodings include:
// - "cl100k_base" (GPT-4, ChatGPT)
// - "p50k_base" (GPT-3)
// - "r50k_base" (Codex)
func NewTikTokenCounter(encoding string) (*TikTokenCounter, error) {
	tke, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to get encoding: %w", err)
	}
	return &TikTokenCounter{tke: tke}, nil
}

// Count returns the exact number of tokens in the text according to the
// specified tiktoken encoding.
func (ttc *TikTokenCounter) Count(text string) int {
	return len(ttc.tke.Encode(text, nil, nil))
}
