package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"

	"github.com/dgallion1/docchunk/internal/annotate"
	"github.com/dgallion1/docchunk/internal/chunker"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8090" validate:"required,numeric"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn warning error"`

	// Auth. Empty disables bearer auth.
	APIKey string `env:"DOCCHUNK_API_KEY"`

	// Worker pool
	WorkerCount       int `env:"WORKER_COUNT" envDefault:"4" validate:"gte=1"`
	MaxQueueSize      int `env:"MAX_QUEUE_SIZE" envDefault:"100" validate:"gte=1"`
	MaxConcurrentDocs int `env:"MAX_CONCURRENT_DOCS" envDefault:"4" validate:"gte=1"`

	// Upload limits
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"52428800" validate:"gte=1"` // 50MB

	// Chunking defaults
	DefaultMethod        string  `env:"DEFAULT_METHOD" envDefault:"paragraph"`
	DefaultMaxParagraphs int     `env:"DEFAULT_MAX_PARAGRAPHS" envDefault:"5"`
	DefaultMaxTokens     int     `env:"DEFAULT_MAX_TOKENS" envDefault:"500"`
	DefaultSimilarity    float64 `env:"DEFAULT_SIMILARITY" envDefault:"0.3"`
	DefaultMaxKeywords   int     `env:"DEFAULT_MAX_KEYWORDS" envDefault:"10" validate:"gte=0,lte=100"`

	// Job state
	JobTTL time.Duration `env:"JOB_TTL" envDefault:"1h" validate:"gt=0"`

	// PDF
	PDFFallbackPdftotext bool `env:"PDF_FALLBACK_PDFTOTEXT" envDefault:"true"`

	// Sentence and word segmentation backend.
	Tokenizer string `env:"TOKENIZER" envDefault:"prose" validate:"oneof=prose regex"`
}

// Load reads configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// LoadFrom reads configuration from the given variables instead of the
// process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

var validate = validator.New()

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.Chunking().Validate(); err != nil {
		return fmt.Errorf("invalid chunking defaults: %w", err)
	}
	return nil
}

// Chunking returns the default chunking configuration.
func (c Config) Chunking() chunker.Config {
	return chunker.Config{
		Method:              chunker.Method(c.DefaultMethod),
		MaxParagraphs:       c.DefaultMaxParagraphs,
		MaxTokens:           c.DefaultMaxTokens,
		SimilarityThreshold: c.DefaultSimilarity,
	}
}

// Annotation returns the default header options. Keyword extraction is
// enabled when DefaultMaxKeywords is positive.
func (c Config) Annotation() annotate.Options {
	return annotate.Options{
		Keywords:    c.DefaultMaxKeywords > 0,
		MaxKeywords: c.DefaultMaxKeywords,
	}
}
