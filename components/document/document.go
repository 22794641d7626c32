package document

import (
	"bytes"
	"context"
	"strconv"

	"github.com/Laisky/errors/v2"
	"github.com/gabriel-vasile/mimetype"
)

var ErrReading = errors.New("document is reading")

type ReadStatus = int32

const (
	Unread ReadStatus = iota
	Reading
	ReadCompleted
)

// Source loads a document from where it lives
type Source interface {
	Load(ctx context.Context) (*Document, error)
}

// Document is a document container with metadata
type Document struct {
	buffer *bytes.Buffer
	Meta   map[string]string
}

// NewDocument wraps content, meta may be nil
func NewDocument(content []byte, meta map[string]string) *Document {
	if meta == nil {
		meta = make(map[string]string, 2)
	}
	meta["size"] = strconv.Itoa(len(content))
	return &Document{
		buffer: bytes.NewBuffer(content),
		Meta:   meta,
	}
}

func (d *Document) Reader() *bytes.Reader {
	return bytes.NewReader(d.buffer.Bytes())
}

func (d *Document) Text() string {
	return d.buffer.String()
}

func (d *Document) Size() int {
	return d.buffer.Len()
}

// DetectMIME detects the media type of data from its leading bytes
func DetectMIME(data []byte) *mimetype.MIME {
	return mimetype.Detect(data)
}

// MIME detects the media type of the content, the document is left untouched
func (d *Document) MIME() *mimetype.MIME {
	return DetectMIME(d.buffer.Bytes())
}

// Name returns the best known name of the document, used to guess its format by extension
func (d *Document) Name() string {
	for _, k := range []string{"filename", "key", "url"} {
		if v := d.Meta[k]; v != "" {
			return v
		}
	}
	return ""
}
