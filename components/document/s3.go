package document

import (
	"context"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the part of *s3.Client used to fetch objects
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var _ S3API = (*s3.Client)(nil)

// S3 is a document stored as an object in a bucket
type S3 struct {
	bucket string
	key    string
	client S3API
	logger *zap.Logger
}

var _ Source = (*S3)(nil)

type S3Option func(*S3)

func WithS3Bucket(bucket string) S3Option {
	return func(s *S3) {
		s.bucket = bucket
	}
}

func WithS3Key(key string) S3Option {
	return func(s *S3) {
		s.key = key
	}
}

func WithS3Client(clt S3API) S3Option {
	return func(s *S3) {
		s.client = clt
	}
}

func WithS3Logger(logger *zap.Logger) S3Option {
	return func(s *S3) {
		s.logger = logger
	}
}

// NewS3 creates a new S3 document source.
func NewS3(opts ...S3Option) (*S3, error) {
	ret := new(S3)
	for _, opt := range opts {
		opt(ret)
	}
	if ret.client == nil {
		return nil, errors.New("s3 document requires a client")
	}
	if ret.bucket == "" || ret.key == "" {
		return nil, errors.Errorf("s3 document requires bucket and key, got bucket=%q key=%q", ret.bucket, ret.key)
	}
	if ret.logger == nil {
		ret.logger = zap.NewNop()
	}
	return ret, nil
}

// ParseS3URI splits an uri like s3://bucket/path/to/key
func ParseS3URI(uri string) (bucket string, key string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", errors.Wrapf(err, "parse s3 uri %q", uri)
	}
	if u.Scheme != "s3" {
		return "", "", errors.Errorf("not a s3 uri: %q", uri)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", errors.Errorf("s3 uri requires bucket and key: %q", uri)
	}
	return bucket, key, nil
}

func (s *S3) Load(ctx context.Context) (*Document, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get object s3://%s/%s", s.bucket, s.key)
	}
	defer resp.Body.Close()
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read object s3://%s/%s", s.bucket, s.key)
	}
	s.logger.Debug("s3 document downloaded",
		zap.String("bucket", s.bucket),
		zap.String("key", s.key),
		zap.Int("bytes", len(content)))
	meta := map[string]string{
		"source": "s3",
		"bucket": s.bucket,
		"key":    s.key,
	}
	if ct := aws.ToString(resp.ContentType); ct != "" {
		meta["content_type"] = ct
	}
	if resp.LastModified != nil {
		meta["modtime"] = strconv.FormatInt(resp.LastModified.Unix(), 10)
	}
	return NewDocument(content, meta), nil
}
