package splitter

import "fmt"

// Boundary tells which rule decided where a chunk ends.
type Boundary int

const (
	// FinalBoundary marks the remainder of the text, emitted whole
	FinalBoundary Boundary = iota
	// ParagraphBoundary chunk ends with a newline
	ParagraphBoundary
	// SentenceBoundary chunk ends with ". ", "? " or "! "
	SentenceBoundary
	// WordBoundary chunk ends with a space
	WordBoundary
	// ForcedBoundary chunk was cut in the middle of a word
	ForcedBoundary
)

func (b Boundary) String() string {
	switch b {
	case ParagraphBoundary:
		return "paragraph"
	case SentenceBoundary:
		return "sentence"
	case WordBoundary:
		return "word"
	case ForcedBoundary:
		return "forced"
	default:
		return "final"
	}
}

// MarshalText renders the boundary by name in json and yaml reports.
func (b Boundary) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText parses a boundary name as written by MarshalText.
func (b *Boundary) UnmarshalText(text []byte) error {
	switch string(text) {
	case "final":
		*b = FinalBoundary
	case "paragraph":
		*b = ParagraphBoundary
	case "sentence":
		*b = SentenceBoundary
	case "word":
		*b = WordBoundary
	case "forced":
		*b = ForcedBoundary
	default:
		return fmt.Errorf("unknown boundary %q", text)
	}
	return nil
}

// Chunk represents a piece of text with associated metadata for tracking its position
// and size within the original document.
type Chunk struct {
	// Text contains the actual content of the chunk
	Text string
	// Index is the position of the chunk in emission order
	Index int
	// Start is the byte offset of the chunk in the original text
	Start int
	// End is the byte offset right after the chunk (exclusive)
	End int
	// Runes is the length of the chunk in characters
	Runes int
	// Boundary is the rule which ended the chunk
	Boundary Boundary
	// TokenSize represents the number of tokens in this chunk
	TokenSize int
}
