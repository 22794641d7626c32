package document

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"go.uber.org/atomic"
)

// Http is a document served over http, the body is downloaded once and kept
type Http struct {
	status *atomic.Int32
	mu     sync.Mutex
	doc    *Document
	HttpConfig
}

var _ Source = (*Http)(nil)

type HttpConfig struct {
	client  *http.Client
	link    string
	method  string
	header  http.Header
	payload io.Reader
	logger  *zap.Logger
}

type HttpOption func(*HttpConfig)

func WithHttpMethod(method string) HttpOption {
	return func(h *HttpConfig) {
		h.method = method
	}
}

func WithHttpURL(link string) HttpOption {
	return func(h *HttpConfig) {
		h.link = link
	}
}

func WithHttpHeader(key, value string) HttpOption {
	return func(h *HttpConfig) {
		if h.header == nil {
			h.header = make(http.Header)
		}
		h.header.Add(key, value)
	}
}

func WithPayload(payload io.Reader) HttpOption {
	return func(h *HttpConfig) {
		h.payload = payload
	}
}

func WithHttpClient(client *http.Client) HttpOption {
	return func(h *HttpConfig) {
		h.client = client
	}
}

func WithHttpLogger(logger *zap.Logger) HttpOption {
	return func(h *HttpConfig) {
		h.logger = logger
	}
}

func NewHttp(opts ...HttpOption) (*Http, error) {
	var cfg HttpConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.link == "" {
		return nil, errors.New("http document requires an url")
	}
	if cfg.method == "" {
		cfg.method = http.MethodGet
	}
	if cfg.client == nil {
		cfg.client = http.DefaultClient
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	return &Http{
		status:     atomic.NewInt32(Unread),
		HttpConfig: cfg,
	}, nil
}

func (h *Http) ReadStatus() ReadStatus {
	return h.status.Load()
}

// Load downloads the document on first call and returns the cached copy afterwards.
// It returns ErrReading while another Load is downloading.
func (h *Http) Load(ctx context.Context) (*Document, error) {
	if h.ReadStatus() == ReadCompleted {
		return h.cached(), nil
	}
	if !h.status.CompareAndSwap(Unread, Reading) {
		if h.ReadStatus() == ReadCompleted {
			return h.cached(), nil
		}
		return nil, ErrReading
	}
	doc, err := h.download(ctx)
	if err != nil {
		h.status.Store(Unread)
		return nil, err
	}
	h.mu.Lock()
	h.doc = doc
	h.mu.Unlock()
	h.status.Store(ReadCompleted)
	return doc, nil
}

func (h *Http) cached() *Document {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.doc
}

func (h *Http) download(ctx context.Context) (*Document, error) {
	httpReq, err := http.NewRequestWithContext(ctx, h.method, h.link, h.payload)
	if err != nil {
		return nil, errors.Wrapf(err, "new request %q", h.link)
	}
	for k, values := range h.header {
		for _, v := range values {
			httpReq.Header.Add(k, v)
		}
	}
	httpResp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %q", h.method, h.link)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode < http.StatusOK || httpResp.StatusCode >= http.StatusMultipleChoices {
		return nil, errors.Errorf("%s %q: unexpected status %s", h.method, h.link, httpResp.Status)
	}
	content, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read body of %q", h.link)
	}
	h.logger.Debug("http document downloaded",
		zap.String("url", h.link),
		zap.Int("status", httpResp.StatusCode),
		zap.Int("bytes", len(content)))
	meta := map[string]string{
		"source": "http",
		"url":    h.link,
		"method": h.method,
		"status": strconv.Itoa(httpResp.StatusCode),
	}
	if ct := httpResp.Header.Get("Content-Type"); ct != "" {
		meta["content_type"] = ct
	}
	return NewDocument(content, meta), nil
}
