package chunker

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dgallion1/docchunk/internal/similarity"
	"github.com/dgallion1/docchunk/internal/tokenize"
)

// Method selects a chunking strategy.
type Method string

const (
	MethodParagraph  Method = "paragraph"
	MethodToken      Method = "token"
	MethodStructure  Method = "structure"
	MethodSimilarity Method = "similarity"
)

// Separators used to render chunks back to text.
const (
	ParagraphSeparator = "\n\n"
	SentenceSeparator  = " "
)

// Config controls chunking behavior. Only the fields relevant to Method are
// read.
type Config struct {
	Method              Method  `json:"method" validate:"oneof=paragraph token structure similarity"`
	MaxParagraphs       int     `json:"max_paragraphs,omitempty" validate:"gte=0,lte=10000"`
	MaxTokens           int     `json:"max_tokens,omitempty" validate:"gte=0"`
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty" validate:"gte=0,lte=1"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Method:              MethodParagraph,
		MaxParagraphs:       5,
		MaxTokens:           500,
		SimilarityThreshold: 0.3,
	}
}

var validate = validator.New()

// Validate checks field ranges and the budget required by the method.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid chunking config: %w", err)
	}
	switch c.Method {
	case MethodParagraph:
		if c.MaxParagraphs < 1 {
			return fmt.Errorf("invalid chunking config: max_paragraphs must be at least 1")
		}
	default:
		if c.MaxTokens < 1 {
			return fmt.Errorf("invalid chunking config: max_tokens must be at least 1")
		}
	}
	return nil
}

// Describe returns the human-readable method description used in chunk
// metadata headers.
func (c Config) Describe() string {
	switch c.Method {
	case MethodParagraph:
		return fmt.Sprintf("Smart Paragraph (%d max paragraphs per chunk)", c.MaxParagraphs)
	case MethodSimilarity:
		return fmt.Sprintf("Semantic (~%d tokens per chunk, similarity: %s)",
			c.MaxTokens, strconv.FormatFloat(c.SimilarityThreshold, 'f', -1, 64))
	case MethodStructure:
		return fmt.Sprintf("Structure-based (~%d tokens per chunk)", c.MaxTokens)
	default:
		return fmt.Sprintf("Token-based (~%d tokens per chunk)", c.MaxTokens)
	}
}

// Chunker splits normalized document text into ordered chunks. It keeps no
// state between calls and is safe for concurrent use.
type Chunker struct {
	tok    *tokenize.Adapter
	scorer similarity.Scorer
	log    *slog.Logger
}

// New creates a Chunker. A nil scorer makes similarity chunking fall back to
// token-budget chunking.
func New(tok *tokenize.Adapter, scorer similarity.Scorer, log *slog.Logger) *Chunker {
	if log == nil {
		log = slog.Default()
	}
	if tok == nil {
		tok = tokenize.NewDefault(log)
	}
	return &Chunker{
		tok:    tok,
		scorer: scorer,
		log:    log.With("component", "chunker"),
	}
}

// NewDefault creates a Chunker with the prose tokenizer and TF-IDF scoring.
func NewDefault(log *slog.Logger) *Chunker {
	return New(tokenize.NewDefault(log), similarity.NewTFIDF(), log)
}

// Tokenizer returns the adapter used for sentence and token accounting.
func (c *Chunker) Tokenizer() *tokenize.Adapter {
	return c.tok
}

// Chunk applies the strategy selected by cfg. It always returns at least one
// chunk.
func (c *Chunker) Chunk(text string, cfg Config) []string {
	switch cfg.Method {
	case MethodParagraph:
		return c.ByParagraphs(text, cfg.MaxParagraphs)
	case MethodSimilarity:
		return c.BySimilarity(text, cfg.MaxTokens, cfg.SimilarityThreshold)
	case MethodStructure:
		return c.ByStructure(text, cfg.MaxTokens)
	default:
		return c.ByTokens(text, cfg.MaxTokens)
	}
}

// Paragraph is one blank-line-delimited unit of a document.
type Paragraph struct {
	Text    string
	Heading bool
	Index   int
}

// headingMarker is an ATX heading prefix: one to six '#' then whitespace.
// Paragraph flags and section boundaries both use it.
const headingMarker = `#{1,6}\s`

var (
	headingPrefix = regexp.MustCompile(`^` + headingMarker)
	headingLine   = regexp.MustCompile(`(?m)^` + headingMarker)
)

// SplitParagraphs splits text on blank-line separators, dropping paragraphs
// that are empty after trimming.
func SplitParagraphs(text string) []Paragraph {
	var paragraphs []Paragraph
	for _, p := range strings.Split(text, ParagraphSeparator) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		paragraphs = append(paragraphs, Paragraph{
			Text:    p,
			Heading: headingPrefix.MatchString(p),
			Index:   len(paragraphs),
		})
	}
	return paragraphs
}

func joinParagraphs(paragraphs []Paragraph) string {
	texts := make([]string, len(paragraphs))
	for i, p := range paragraphs {
		texts[i] = p.Text
	}
	return strings.Join(texts, ParagraphSeparator)
}
