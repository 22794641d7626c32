package main

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/bububa/text-chunker/components/document"
)

const defaultS3Region = "us-east-1"

// stdinSource reads the document from the standard input when the target is "-"
type stdinSource struct {
	r io.Reader
}

func (s stdinSource) Load(ctx context.Context) (*document.Document, error) {
	content, err := io.ReadAll(s.r)
	if err != nil {
		return nil, errors.Wrap(err, "read stdin")
	}
	return document.NewDocument(content, map[string]string{"source": "stdin"}), nil
}

// newSource picks the document source of target: "-", an http(s) url, an s3 uri or a local path
func newSource(ctx context.Context, target string, cfg Config, stdin io.Reader, logger *zap.Logger) (document.Source, error) {
	switch {
	case target == "-":
		return stdinSource{r: stdin}, nil
	case strings.HasPrefix(target, "http://"), strings.HasPrefix(target, "https://"):
		return document.NewHttp(
			document.WithHttpURL(target),
			document.WithHttpClient(&http.Client{Timeout: cfg.Timeout}),
			document.WithHttpLogger(logger),
		)
	case strings.HasPrefix(target, "s3://"):
		bucket, key, err := document.ParseS3URI(target)
		if err != nil {
			return nil, err
		}
		clt, err := newS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return document.NewS3(
			document.WithS3Bucket(bucket),
			document.WithS3Key(key),
			document.WithS3Client(clt),
			document.WithS3Logger(logger),
		)
	default:
		return document.NewFile(target, document.WithFileLogger(logger))
	}
}

// newS3Client resolves region and credentials through the default AWS chain
// (environment, shared config and credentials files, SSO, instance roles).
// Anonymous requests are only sent when cfg.Anonymous is set.
func newS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.Anonymous {
		opts = append(opts, config.WithCredentialsProvider(aws.AnonymousCredentials{}))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}
	if awsCfg.Region == "" {
		awsCfg.Region = defaultS3Region
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	}), nil
}
