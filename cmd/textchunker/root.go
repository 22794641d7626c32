package main

import (
	"context"
	"io"
	"slices"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bububa/text-chunker/components/document"
	"github.com/bububa/text-chunker/components/document/parsers"
	"github.com/bububa/text-chunker/components/splitter"
)

func newRootCmd() *cobra.Command {
	var (
		cfg        = defaultConfig()
		configFile string
	)
	cmd := &cobra.Command{
		Use:   "textchunker [flags] <path|url|s3://bucket/key|->",
		Short: "Split a document into chunks of at most maxlen characters",
		Long: `textchunker reads a local file, an http(s) url, an s3 object or the standard input,
extracts its text and splits it into chunks no longer than --maxlen characters.
A chunk ends at the last line break of its window, else after the last sentence end,
else after the last space, else exactly at --maxlen characters.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				fileCfg, err := loadConfig(configFile)
				if err != nil {
					return err
				}
				overrideChanged(cmd.Flags(), &fileCfg, cfg)
				cfg = fileCfg
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger, err := newLogger(cfg.Verbose)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			r := &runner{
				cfg:    cfg,
				logger: logger,
				in:     cmd.InOrStdin(),
				out:    cmd.OutOrStdout(),
			}
			return r.run(cmd.Context(), args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configFile, "config", "c", "", "yaml config file, flags set explicitly override its values")
	flags.IntVarP(&cfg.MaxLen, "maxlen", "m", cfg.MaxLen, "maximum length of a chunk in characters")
	flags.BoolVar(&cfg.Raw, "raw", cfg.Raw, "chunk the content as is, without extracting text by format")
	flags.StringVarP(&cfg.Format, "format", "f", cfg.Format, "output format: text, json or yaml")
	flags.StringVar(&cfg.Tokens, "tokens", cfg.Tokens, "token counter of the report: runes, graphemes, words, sentences or tiktoken")
	flags.StringVar(&cfg.Encoding, "encoding", cfg.Encoding, "tiktoken encoding used by --tokens tiktoken")
	flags.BoolVar(&cfg.Paragraphs, "paragraphs", cfg.Paragraphs, "list the non-empty lines of the text instead of chunks")
	flags.BoolVar(&cfg.Sentences, "sentences", cfg.Sentences, "list the sentences of the text instead of chunks")
	flags.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "timeout of http downloads")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "log at debug level")
	flags.StringVar(&cfg.S3.Region, "s3-region", cfg.S3.Region, "s3 region, defaults to the AWS shared config or $AWS_REGION")
	flags.StringVar(&cfg.S3.Endpoint, "s3-endpoint", cfg.S3.Endpoint, "s3 compatible endpoint url")
	flags.BoolVar(&cfg.S3.PathStyle, "s3-path-style", cfg.S3.PathStyle, "address s3 buckets by path instead of host")
	flags.BoolVar(&cfg.S3.Anonymous, "s3-anonymous", cfg.S3.Anonymous, "send unsigned s3 requests, for public buckets")
	flags.StringVar(&cfg.Passwords.PDF, "pdf-password", cfg.Passwords.PDF, "password of encrypted pdf documents")
	flags.StringVar(&cfg.Passwords.Xlsx, "xlsx-password", cfg.Passwords.Xlsx, "password of encrypted xlsx workbooks")
	cmd.MarkFlagsMutuallyExclusive("paragraphs", "sentences")
	return cmd
}

// overrideChanged copies the values of the flags set on the command line from src to dst
func overrideChanged(flags *pflag.FlagSet, dst *Config, src Config) {
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "maxlen":
			dst.MaxLen = src.MaxLen
		case "raw":
			dst.Raw = src.Raw
		case "format":
			dst.Format = src.Format
		case "tokens":
			dst.Tokens = src.Tokens
		case "encoding":
			dst.Encoding = src.Encoding
		case "paragraphs":
			dst.Paragraphs = src.Paragraphs
		case "sentences":
			dst.Sentences = src.Sentences
		case "timeout":
			dst.Timeout = src.Timeout
		case "verbose":
			dst.Verbose = src.Verbose
		case "s3-region":
			dst.S3.Region = src.S3.Region
		case "s3-endpoint":
			dst.S3.Endpoint = src.S3.Endpoint
		case "s3-path-style":
			dst.S3.PathStyle = src.S3.PathStyle
		case "s3-anonymous":
			dst.S3.Anonymous = src.S3.Anonymous
		case "pdf-password":
			dst.Passwords.PDF = src.Passwords.PDF
		case "xlsx-password":
			dst.Passwords.Xlsx = src.Passwords.Xlsx
		}
	})
}

type runner struct {
	cfg    Config
	logger *zap.Logger
	in     io.Reader
	out    io.Writer
}

func (r *runner) run(ctx context.Context, target string) error {
	src, err := newSource(ctx, target, r.cfg, r.in, r.logger)
	if err != nil {
		return err
	}
	doc, err := src.Load(ctx)
	if err != nil {
		return errors.Wrapf(err, "load %q", target)
	}
	text, err := r.extract(ctx, doc)
	if err != nil {
		return errors.Wrapf(err, "extract text of %q", target)
	}
	r.logger.Debug("document loaded",
		zap.String("target", target),
		zap.Int("bytes", doc.Size()),
		zap.Int("text_bytes", len(text)))

	var report *Report
	switch {
	case r.cfg.Paragraphs:
		report = newReport(ModeParagraphs, target, text)
		report.Paragraphs = slices.Collect(splitter.Paragraphs(text))
	case r.cfg.Sentences:
		report = newReport(ModeSentences, target, text)
		report.Sentences = slices.Collect(splitter.Sentences(text))
	default:
		if report, err = r.chunk(target, text); err != nil {
			return err
		}
	}
	return report.Write(r.out, r.cfg.Format)
}

func (r *runner) extract(ctx context.Context, doc *document.Document) (string, error) {
	if r.cfg.Raw {
		return doc.Text(), nil
	}
	registry := parsers.Default(
		parsers.WithPDFPassword(r.cfg.Passwords.PDF),
		parsers.WithXlsxPassword(r.cfg.Passwords.Xlsx),
	)
	return registry.Parse(ctx, doc)
}

func (r *runner) chunk(target string, text string) (*Report, error) {
	counter, err := newTokenCounter(r.cfg.Tokens, r.cfg.Encoding)
	if err != nil {
		return nil, err
	}
	chunker, err := splitter.NewChunker(r.cfg.MaxLen, splitter.WithTokenCounter(counter))
	if err != nil {
		return nil, err
	}
	report := newReport(ModeChunks, target, text)
	report.MaxLen = chunker.MaxLen()
	report.Tokens = r.cfg.Tokens
	for c := range chunker.Chunks(text) {
		report.AddChunk(c)
	}
	r.logger.Debug("text chunked",
		zap.String("run_id", report.RunID),
		zap.Int("chunks", len(report.Chunks)),
		zap.Int("length", report.Length))
	return report, nil
}

func newTokenCounter(name string, encoding string) (splitter.TokenCounter, error) {
	switch name {
	case TokensRunes, "":
		return new(splitter.RunesTokenCounter), nil
	case TokensGraphemes:
		return new(splitter.GraphemesTokenCounter), nil
	case TokensWords:
		return new(splitter.WordsTokenCounter), nil
	case TokensSentences:
		return new(splitter.SentencesTokenCounter), nil
	case TokensTikToken:
		return splitter.NewTikTokenCounter(encoding)
	}
	return nil, errors.Errorf("unknown token counter %q", name)
}
