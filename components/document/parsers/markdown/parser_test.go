package markdown

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	src := "# Title\n\nSome *emphasis* text\nwith `code`.\n\n```\ncode line\n```\n"
	var buf bytes.Buffer
	require.NoError(t, NewParser().Parse(context.Background(), bytes.NewReader([]byte(src)), &buf))
	require.Equal(t, "Title\nSome emphasis text with code.\ncode line\n", buf.String())
}

func TestParseZeroValue(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, new(Parser).Parse(context.Background(), bytes.NewReader([]byte("plain")), &buf))
	require.Equal(t, "plain\n", buf.String())
}
