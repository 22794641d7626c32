package document

import (
	"context"
	"io"
	"os"
	"strconv"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
)

// File is a document on the local file system
type File struct {
	path   string
	logger *zap.Logger
}

var _ Source = (*File)(nil)

type FileOption func(*File)

func WithFileLogger(logger *zap.Logger) FileOption {
	return func(f *File) {
		f.logger = logger
	}
}

func NewFile(fname string, opts ...FileOption) (*File, error) {
	fileInfo, err := os.Stat(fname)
	if err != nil {
		return nil, errors.Wrapf(err, "stat file %q", fname)
	}
	if fileInfo.IsDir() {
		return nil, errors.Errorf("FileDocument could not be a directory: %q", fname)
	}
	ret := &File{path: fname}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = zap.NewNop()
	}
	return ret, nil
}

func (f *File) Load(ctx context.Context) (*Document, error) {
	fp, err := os.Open(f.path)
	if err != nil {
		return nil, errors.Wrapf(err, "open file %q", f.path)
	}
	defer fp.Close()
	fileInfo, err := fp.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "stat file %q", f.path)
	}
	content, err := io.ReadAll(fp)
	if err != nil {
		return nil, errors.Wrapf(err, "read file %q", f.path)
	}
	f.logger.Debug("file loaded",
		zap.String("path", f.path),
		zap.Int("bytes", len(content)))
	return NewDocument(content, map[string]string{
		"source":   "file",
		"filename": fileInfo.Name(),
		"modtime":  strconv.FormatInt(fileInfo.ModTime().Unix(), 10),
	}), nil
}
