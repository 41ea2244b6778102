package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docchunk/internal/annotate"
	"github.com/dgallion1/docchunk/internal/chunker"
	"github.com/dgallion1/docchunk/internal/config"
	"github.com/dgallion1/docchunk/internal/logger"
	"github.com/dgallion1/docchunk/internal/parser"
	"github.com/dgallion1/docchunk/internal/pipeline"
	"github.com/dgallion1/docchunk/internal/similarity"
	"github.com/dgallion1/docchunk/internal/tokenize"
)

// mergedFileName is written to --out when --merge is set.
const mergedFileName = "merged_document.md"

type chunkFlags struct {
	method        string
	maxParagraphs int
	maxTokens     int
	similarity    float64
	keywords      bool
	maxKeywords   int
	noMetadata    bool
	noChunking    bool
	merge         bool
	out           string
	tokenizer     string
	pdftotext     bool
}

func chunkCmd() *cobra.Command {
	// Flag defaults follow the service environment so the CLI and the API
	// agree unless told otherwise.
	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		cfg, _ = config.LoadFrom(map[string]string{})
	}
	defaults := cfg.Annotation()

	var f chunkFlags
	cmd := &cobra.Command{
		Use:   "chunk [files...]",
		Short: "Chunk one or more documents",
		Long: "Parse each file, split it into chunks and prefix every chunk with a metadata header.\n" +
			"Without --out the merged document is printed to stdout.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgErr != nil {
				return fmt.Errorf("load config: %w", cfgErr)
			}
			return runChunk(cmd, args, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.method, "method", "m", cfg.DefaultMethod, "Chunking method (paragraph, token, structure, similarity)")
	flags.IntVar(&f.maxParagraphs, "max-paragraphs", cfg.DefaultMaxParagraphs, "Paragraphs per chunk for the paragraph method")
	flags.IntVar(&f.maxTokens, "max-tokens", cfg.DefaultMaxTokens, "Token budget per chunk")
	flags.Float64Var(&f.similarity, "similarity", cfg.DefaultSimilarity, "Similarity threshold in [0,1] for the similarity method")
	flags.BoolVar(&f.keywords, "keywords", defaults.Keywords, "Add a KEYWORDS line to chunk headers")
	flags.IntVar(&f.maxKeywords, "max-keywords", defaults.MaxKeywords, "Keywords per chunk")
	flags.BoolVar(&f.noMetadata, "no-metadata", false, "Omit chunk headers")
	flags.BoolVar(&f.noChunking, "no-chunking", false, "Pass documents through whole")
	flags.BoolVar(&f.merge, "merge", false, "Also write "+mergedFileName+" when --out is set")
	flags.StringVarP(&f.out, "out", "o", "", "Directory for per-file outputs")
	flags.StringVar(&f.tokenizer, "tokenizer", cfg.Tokenizer, "Sentence segmenter (prose, regex)")
	flags.BoolVar(&f.pdftotext, "pdftotext", cfg.PDFFallbackPdftotext, "Retry PDFs with pdftotext when no text is found")

	return cmd
}

func (f chunkFlags) options() pipeline.Options {
	return pipeline.Options{
		Chunking: !f.noChunking,
		Config: chunker.Config{
			Method:              chunker.Method(f.method),
			MaxParagraphs:       f.maxParagraphs,
			MaxTokens:           f.maxTokens,
			SimilarityThreshold: f.similarity,
		},
		Metadata: !f.noMetadata,
		Annotate: annotate.Options{Keywords: f.keywords, MaxKeywords: f.maxKeywords},
	}
}

func runChunk(cmd *cobra.Command, args []string, f chunkFlags) error {
	level, _ := cmd.Flags().GetString("log-level")
	log := logger.NewWithWriter(cmd.ErrOrStderr(), level)

	opts := f.options()
	if err := opts.Validate(); err != nil {
		return err
	}

	ch := chunker.New(tokenize.ForName(f.tokenizer, log), similarity.NewTFIDF(), log)
	proc := pipeline.NewProcessor(ch, parser.Options{PDFFallbackPdftotext: f.pdftotext}, 4, log)

	var docs []pipeline.Document
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn("skipping file", "path", path, "error", err)
			continue
		}
		doc, err := proc.Parse(pipeline.File{Name: filepath.Base(path), Data: data})
		if err != nil {
			log.Warn("skipping file", "path", path, "error", err)
			continue
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return errors.New("no documents could be read")
	}

	res, err := proc.Process(cmd.Context(), docs, opts)
	if err != nil {
		return err
	}

	if f.out == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), res.Merged)
		return err
	}

	if err := os.MkdirAll(f.out, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, o := range res.Outputs {
		if err := os.WriteFile(filepath.Join(f.out, o.Name), []byte(o.Content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", o.Name, err)
		}
		log.Info("wrote output", "file", o.Name, "chunks", o.Chunks)
	}
	if f.merge {
		if err := os.WriteFile(filepath.Join(f.out, mergedFileName), []byte(res.Merged), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", mergedFileName, err)
		}
	}
	return nil
}
