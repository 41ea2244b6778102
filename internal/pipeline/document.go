package pipeline

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docchunk/internal/annotate"
	"github.com/dgallion1/docchunk/internal/chunker"
	"github.com/dgallion1/docchunk/internal/config"
)

// File is a raw uploaded document.
type File struct {
	Name string
	Data []byte
}

// Document is normalized text ready for chunking. Name is the source
// identifier printed in metadata headers.
type Document struct {
	Name string
	Text string
}

// Options controls how a batch of documents is rendered.
type Options struct {
	// Chunking disabled passes each document through whole.
	Chunking bool             `json:"chunking"`
	Config   chunker.Config   `json:"config"`
	Metadata bool             `json:"metadata"`
	Annotate annotate.Options `json:"annotate"`
}

// OptionsFromConfig returns the service defaults: chunking and metadata on.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Chunking: true,
		Config:   cfg.Chunking(),
		Metadata: true,
		Annotate: cfg.Annotation(),
	}
}

func (o Options) Validate() error {
	if !o.Chunking {
		return nil
	}
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if o.Annotate.MaxKeywords < 0 {
		return fmt.Errorf("invalid options: max_keywords must not be negative")
	}
	return nil
}

// Output is the rendered result for one document.
type Output struct {
	Name        string `json:"name"`
	Source      string `json:"source"`
	Content     string `json:"-"`
	Chunks      int    `json:"chunks"`
	Bytes       int    `json:"bytes"`
	ContentHash string `json:"content_hash"`
}

// Result holds per-document outputs in submission order and their merged
// view.
type Result struct {
	Outputs []Output `json:"outputs"`
	Merged  string   `json:"-"`
}

// Lookup returns the output with the given file name.
func (r Result) Lookup(name string) (Output, bool) {
	for _, o := range r.Outputs {
		if o.Name == name {
			return o, true
		}
	}
	return Output{}, false
}

// OutputName maps a source file name to its Markdown output name.
func OutputName(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".md"
}

// uniqueNames assigns output names, suffixing repeats with -2, -3, ...
func uniqueNames(sources []string) []string {
	names := make([]string, len(sources))
	seen := make(map[string]int)
	for i, src := range sources {
		name := OutputName(src)
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s-%d.md", strings.TrimSuffix(name, ".md"), n)
		}
		names[i] = name
	}
	return names
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
