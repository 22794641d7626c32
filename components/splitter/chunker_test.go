package splitter

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNewChunker(t *testing.T) {
	for _, maxLen := range []int{0, -1, -1500} {
		chunker, err := NewChunker(maxLen)
		if !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("maxlen %d, want ErrInvalidConfiguration, got %v", maxLen, err)
		}
		if chunker != nil {
			t.Errorf("maxlen %d, want nil chunker", maxLen)
		}
	}
	chunker, err := NewChunker(1)
	if err != nil {
		t.Fatal(err)
	}
	if chunker.MaxLen() != 1 {
		t.Errorf("invalid maxlen, want 1, got %d", chunker.MaxLen())
	}
	if _, ok := chunker.TokenCounter().(*RunesTokenCounter); !ok {
		t.Errorf("invalid default token counter, got %T", chunker.TokenCounter())
	}
}

func TestChunk(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxLen     int
		wantChunks []string
	}{
		{
			name:       "short text",
			input:      "short text",
			maxLen:     100,
			wantChunks: []string{"short text"},
		},
		{
			name:       "exactly maxlen",
			input:      "abcd",
			maxLen:     4,
			wantChunks: []string{"abcd"},
		},
		{
			name:       "empty text",
			input:      "",
			maxLen:     5,
			wantChunks: []string{""},
		},
		{
			name:       "paragraph split",
			input:      strings.Repeat("x", 500) + "\n" + strings.Repeat("y", 600),
			maxLen:     1000,
			wantChunks: []string{strings.Repeat("x", 500) + "\n", strings.Repeat("y", 600)},
		},
		{
			name:       "newline wins over later sentence end",
			input:      "ab\ncd. ef gh",
			maxLen:     10,
			wantChunks: []string{"ab\n", "cd. ef gh"},
		},
		{
			name:       "sentence split",
			input:      "Hello world. This is fine. And more words here",
			maxLen:     20,
			wantChunks: []string{"Hello world. ", "This is fine. ", "And more words here"},
		},
		{
			name:       "rightmost marker across marks",
			input:      "Why? Yes! No. Maybe so",
			maxLen:     15,
			wantChunks: []string{"Why? Yes! No. ", "Maybe so"},
		},
		{
			name:       "question mark is rightmost",
			input:      "No. Yes! Why? abc def",
			maxLen:     16,
			wantChunks: []string{"No. Yes! Why? ", "abc def"},
		},
		{
			name:       "word split",
			input:      "one two three four",
			maxLen:     10,
			wantChunks: []string{"one two ", "three four"},
		},
		{
			name:       "marker crossing the window edge",
			input:      "abc. def",
			maxLen:     4,
			wantChunks: []string{"abc.", " def"},
		},
		{
			name:       "forced split",
			input:      "abcdefghij",
			maxLen:     4,
			wantChunks: []string{"abcd", "efgh", "ij"},
		},
		{
			name:       "maxlen one",
			input:      "ab c",
			maxLen:     1,
			wantChunks: []string{"a", "b", " ", "c"},
		},
		{
			name:       "leading newline",
			input:      "\nabc",
			maxLen:     2,
			wantChunks: []string{"\n", "ab", "c"},
		},
		{
			name:       "multibyte word split",
			input:      "héllo wörld",
			maxLen:     6,
			wantChunks: []string{"héllo ", "wörld"},
		},
		{
			name:       "multibyte forced split",
			input:      "日本語テキスト",
			maxLen:     3,
			wantChunks: []string{"日本語", "テキス", "ト"},
		},
		{
			name:       "invalid utf-8 bytes count as one character each",
			input:      "a\xff\xfeb c\xe6\x97d",
			maxLen:     3,
			wantChunks: []string{"a\xff\xfe", "b ", "c\xe6\x97", "d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunker, err := NewChunker(tt.maxLen)
			if err != nil {
				t.Fatal(err)
			}
			var got []string
			for chunk := range chunker.Chunk(tt.input) {
				got = append(got, chunk)
			}
			t.Logf("%q", got)
			if len(tt.wantChunks) != len(got) {
				t.Errorf("invalid chunks, want %d, got %d", len(tt.wantChunks), len(got))
				return
			}
			for i, want := range tt.wantChunks {
				if got[i] != want {
					t.Errorf("invalid chunk:%d, want %q, got %q", i, want, got[i])
				}
			}
		})
	}
}

func TestChunks(t *testing.T) {
	chunker, err := NewChunker(20, WithTokenCounter(new(WordsTokenCounter)))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := chunker.TokenCounter().(*WordsTokenCounter); !ok {
		t.Errorf("invalid token counter, got %T", chunker.TokenCounter())
	}
	input := "Hello world. This is fine. And more words here"
	want := []Chunk{
		{Text: "Hello world. ", Index: 0, Start: 0, End: 13, Runes: 13, Boundary: SentenceBoundary, TokenSize: 2},
		{Text: "This is fine. ", Index: 1, Start: 13, End: 27, Runes: 14, Boundary: SentenceBoundary, TokenSize: 3},
		{Text: "And more words here", Index: 2, Start: 27, End: 46, Runes: 19, Boundary: FinalBoundary, TokenSize: 4},
	}
	var got []Chunk
	for chunk := range chunker.Chunks(input) {
		got = append(got, chunk)
	}
	if len(got) != len(want) {
		t.Fatalf("invalid chunks, want %d, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("invalid chunk:%d, want %+v, got %+v", i, want[i], got[i])
		}
		if input[got[i].Start:got[i].End] != got[i].Text {
			t.Errorf("invalid offsets for chunk:%d", i)
		}
	}
}

func TestChunksBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   []Boundary
	}{
		{name: "paragraph", input: "ab\ncdef", maxLen: 4, want: []Boundary{ParagraphBoundary, FinalBoundary}},
		{name: "word", input: "ab cdef", maxLen: 4, want: []Boundary{WordBoundary, FinalBoundary}},
		{name: "forced", input: "abcdefg", maxLen: 4, want: []Boundary{ForcedBoundary, FinalBoundary}},
		{name: "sentence", input: "a. bcdef", maxLen: 4, want: []Boundary{SentenceBoundary, ForcedBoundary, FinalBoundary}},
		{name: "single", input: "abc", maxLen: 4, want: []Boundary{FinalBoundary}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunker, err := NewChunker(tt.maxLen)
			if err != nil {
				t.Fatal(err)
			}
			var got []Boundary
			for chunk := range chunker.Chunks(tt.input) {
				got = append(got, chunk.Boundary)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("invalid boundaries, want %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("invalid boundary:%d, want %s, got %s", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestChunkProperties(t *testing.T) {
	alphabet := strings.Split("a|b|c|d|e|f|g|h| |.|?|!|\n|é|日|\xff|\xe6\x97", "|")
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 300; i++ {
		var sb strings.Builder
		for n := rnd.Intn(400); n > 0; n-- {
			sb.WriteString(alphabet[rnd.Intn(len(alphabet))])
		}
		input := sb.String()
		maxLen := rnd.Intn(40) + 1
		chunker, err := NewChunker(maxLen)
		if err != nil {
			t.Fatal(err)
		}
		chunks := chunker.SplitText(input)
		if len(chunks) == 0 {
			t.Fatalf("no chunk for %q", input)
		}
		if joined := strings.Join(chunks, ""); joined != input {
			t.Fatalf("reconstruction failed, maxlen:%d, want %q, got %q", maxLen, input, joined)
		}
		for idx, chunk := range chunks {
			if n := utf8.RuneCountInString(chunk); n > maxLen {
				t.Fatalf("chunk:%d exceeds maxlen %d with %d characters", idx, maxLen, n)
			}
			if idx < len(chunks)-1 && chunk == "" {
				t.Fatalf("empty chunk:%d before the end", idx)
			}
		}
		again := chunker.SplitText(input)
		if strings.Join(again, "\x00") != strings.Join(chunks, "\x00") {
			t.Fatalf("chunking is not deterministic for %q", input)
		}
	}
}

func TestChunkStopEarly(t *testing.T) {
	chunker, err := NewChunker(3)
	if err != nil {
		t.Fatal(err)
	}
	seq := chunker.Chunk("abcdefghijkl")
	var got []string
	for chunk := range seq {
		got = append(got, chunk)
		if len(got) == 2 {
			break
		}
	}
	if strings.Join(got, ",") != "abc,def" {
		t.Errorf("invalid chunks, got %q", got)
	}
	// the sequence can be ranged over again from the start
	var all []string
	for chunk := range seq {
		all = append(all, chunk)
	}
	if len(all) != 4 {
		t.Errorf("invalid chunks, want 4, got %d", len(all))
	}
}

func TestSplitText(t *testing.T) {
	var splitter TextSplitter
	chunker, err := NewChunker(10)
	if err != nil {
		t.Fatal(err)
	}
	splitter = chunker
	got := splitter.SplitText("one two three four")
	if strings.Join(got, "|") != "one two |three four" {
		t.Errorf("invalid chunks, got %q", got)
	}
	if n := splitter.TokenCount("héllo"); n != 5 {
		t.Errorf("invalid token count, want 5, got %d", n)
	}
}
