package splitter

import (
	"bytes"
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/sentences"
	"github.com/clipperhouse/uax29/words"
)

// Paragraphs yields the lines of text, empty lines are skipped.
// Besides "\n" and "\r\n", every Unicode line separator ends a line.
func Paragraphs(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		s := text
		for len(s) > 0 {
			end := strings.IndexFunc(s, isLineBreak)
			if end < 0 {
				yield(s)
				return
			}
			r, size := utf8.DecodeRuneInString(s[end:])
			next := end + size
			if r == '\r' && next < len(s) && s[next] == '\n' {
				next++
			}
			if end > 0 && !yield(s[:end]) {
				return
			}
			s = s[next:]
		}
	}
}

// Sentences yields the sentences of text found by Unicode text segmentation (UAX #29).
// Sentences are trimmed, blank ones are skipped.
func Sentences(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		segmenter := sentences.NewSegmenter([]byte(text))
		for segmenter.Next() {
			sentence := strings.TrimSpace(string(segmenter.Bytes()))
			if sentence == "" {
				continue
			}
			if !yield(sentence) {
				return
			}
		}
	}
}

// Words yields the words of text found by Unicode text segmentation (UAX #29).
// Segments without any letter or digit, like spaces and punctuation, are skipped.
func Words(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		segmenter := words.NewSegmenter([]byte(text))
		for segmenter.Next() {
			if !isWordlike(segmenter.Bytes()) {
				continue
			}
			if !yield(string(segmenter.Bytes())) {
				return
			}
		}
	}
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', 0x1c, 0x1d, 0x1e, 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}

func isWordlike(seg []byte) bool {
	return bytes.IndexFunc(seg, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsNumber(r)
	}) >= 0
}
