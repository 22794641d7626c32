package pptx

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const slideTpl = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree>%s</p:spTree></p:cSld></p:sld>`

func shape(paragraphs ...string) string {
	var b strings.Builder
	b.WriteString("<p:sp><p:txBody>")
	for _, para := range paragraphs {
		b.WriteString("<a:p>")
		for _, run := range strings.Split(para, "|") {
			b.WriteString("<a:r><a:t>" + run + "</a:t></a:r>")
		}
		b.WriteString("</a:p>")
	}
	b.WriteString("</p:txBody></p:sp>")
	return b.String()
}

func table(rows ...[]string) string {
	var b strings.Builder
	b.WriteString("<p:graphicFrame><a:graphic><a:graphicData><a:tbl>")
	for _, row := range rows {
		b.WriteString("<a:tr>")
		for _, cell := range row {
			b.WriteString("<a:tc><a:txBody><a:p><a:r><a:t>" + cell + "</a:t></a:r></a:p></a:txBody></a:tc>")
		}
		b.WriteString("</a:tr>")
	}
	b.WriteString("</a:tbl></a:graphicData></a:graphic></p:graphicFrame>")
	return b.String()
}

func buildPresentation(t *testing.T, slides map[string]string) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range slides {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(strings.Replace(slideTpl, "%s", body, 1)))
		require.NoError(t, err)
	}
	w, err := zw.Create("ppt/presentation.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<p:presentation/>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return bytes.NewReader(buf.Bytes())
}

func TestParse(t *testing.T) {
	reader := buildPresentation(t, map[string]string{
		"ppt/slides/slide10.xml": shape("Closing"),
		"ppt/slides/slide2.xml":  shape("Agenda") + table([]string{"Name", "Qty"}, []string{"apple", "3"}),
		"ppt/slides/slide1.xml":  shape("Hello|World", "Second"),
	})
	var buf bytes.Buffer
	require.NoError(t, NewParser().Parse(context.Background(), reader, &buf))
	got := buf.String()

	require.Contains(t, got, "HelloWorld\nSecond\n")
	require.Contains(t, got, "Agenda\n")
	require.Contains(t, got, "Name\tQty\t\n")
	require.Contains(t, got, "apple\t3\t\n")

	first := strings.Index(got, "HelloWorld")
	agenda := strings.Index(got, "Agenda")
	closing := strings.Index(got, "Closing")
	require.Less(t, first, agenda)
	require.Less(t, agenda, closing)
}

func TestParseSeparators(t *testing.T) {
	reader := buildPresentation(t, map[string]string{
		"ppt/slides/slide1.xml": shape("One"),
		"ppt/slides/slide2.xml": table([]string{"a", "b"}),
	})
	var buf bytes.Buffer
	p := NewParser(WithSlideSep("---\n"), WithTableColSep(" | "))
	require.NoError(t, p.Parse(context.Background(), reader, &buf))
	require.Equal(t, "One\n---\na | b | \n---\n", buf.String())
}

func TestParseInvalid(t *testing.T) {
	var buf bytes.Buffer
	err := NewParser().Parse(context.Background(), bytes.NewReader([]byte("not a zip")), &buf)
	require.Error(t, err)
}

func TestParseCorruptSlide(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.CreateHeader(&zip.FileHeader{Name: "ppt/slides/slide1.xml", Method: zip.Store})
	require.NoError(t, err)
	_, err = w.Write([]byte(strings.Replace(slideTpl, "%s", shape("Hello"), 1)))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	// the stored slide no longer matches its checksum
	content := bytes.Replace(buf.Bytes(), []byte("Hello"), []byte("Hellp"), 1)
	var out bytes.Buffer
	err = NewParser().Parse(context.Background(), bytes.NewReader(content), &out)
	require.ErrorIs(t, err, zip.ErrChecksum)
	require.Empty(t, out.String())
}
