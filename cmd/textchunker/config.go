package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

const (
	TokensRunes     = "runes"
	TokensGraphemes = "graphemes"
	TokensWords     = "words"
	TokensSentences = "sentences"
	TokensTikToken  = "tiktoken"
)

// DefaultMaxLen is the chunk length used when neither a flag nor the config file sets one
const DefaultMaxLen = 1500

// Config holds every setting of a run. It is read from a yaml file, then flags set on the
// command line override the file values.
type Config struct {
	MaxLen     int           `yaml:"maxlen" validate:"gt=0"`
	Raw        bool          `yaml:"raw"`
	Format     string        `yaml:"format" validate:"oneof=text json yaml"`
	Tokens     string        `yaml:"tokens" validate:"oneof=runes graphemes words sentences tiktoken"`
	Encoding   string        `yaml:"encoding" validate:"omitempty,tiktoken_encoding"`
	Paragraphs bool          `yaml:"paragraphs"`
	Sentences  bool          `yaml:"sentences" validate:"excluded_if=Paragraphs true"`
	Timeout    time.Duration `yaml:"timeout" validate:"gte=0"`
	Verbose    bool          `yaml:"verbose"`
	S3         S3Config      `yaml:"s3"`
	Passwords  Passwords     `yaml:"passwords"`
}

type S3Config struct {
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint" validate:"omitempty,url"`
	PathStyle bool   `yaml:"path_style"`
	Anonymous bool   `yaml:"anonymous"`
}

// Passwords of encrypted documents
type Passwords struct {
	PDF  string `yaml:"pdf"`
	Xlsx string `yaml:"xlsx"`
}

func defaultConfig() Config {
	return Config{
		MaxLen:   DefaultMaxLen,
		Format:   FormatText,
		Tokens:   TokensRunes,
		Encoding: "cl100k_base",
		Timeout:  30 * time.Second,
	}
}

// loadConfig reads a yaml config file over the defaults
func loadConfig(fpath string) (Config, error) {
	cfg := defaultConfig()
	content, err := os.ReadFile(fpath)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %q", fpath)
	}
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "decode config %q", fpath)
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("tiktoken_encoding", validEncoding); err != nil {
		panic(err)
	}
	return v
}

// validEncoding accepts the encodings tiktoken-go knows about
func validEncoding(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "cl100k_base", "p50k_base", "p50k_edit", "r50k_base", "o200k_base":
		return true
	}
	return false
}

// Validate checks cfg, all violations are reported in a single error
func (cfg Config) Validate() error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validate config")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: %q does not satisfy %s", fe.Namespace(), fmt.Sprint(fe.Value()), tagString(fe)))
	}
	return errors.Errorf("invalid configuration:\n - %s", strings.Join(msgs, "\n - "))
}

func tagString(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}
