package docx

import (
	"bytes"
	"context"
	"testing"

	"github.com/fumiama/go-docx"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	w := docx.New().WithDefaultTheme()
	w.AddParagraph().AddText("First paragraph.")
	w.AddParagraph()
	w.AddParagraph().AddText("Second paragraph.")
	var src bytes.Buffer
	_, err := w.WriteTo(&src)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, new(Parser).Parse(context.Background(), bytes.NewReader(src.Bytes()), &buf))
	require.Equal(t, "First paragraph.\n\nSecond paragraph.", buf.String())
}

func TestParseInvalid(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, new(Parser).Parse(context.Background(), bytes.NewReader([]byte("not a docx")), &buf))
}
