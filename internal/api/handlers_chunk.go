package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/docchunk/internal/annotate"
	"github.com/dgallion1/docchunk/internal/chunker"
	"github.com/dgallion1/docchunk/internal/pipeline"
)

// chunkRequest is the body of POST /api/chunk. Absent fields keep the
// server defaults.
type chunkRequest struct {
	Source      string         `json:"source" validate:"required,max=512"`
	Text        string         `json:"text"`
	Chunking    bool           `json:"chunking"`
	Config      chunker.Config `json:"config"`
	Metadata    bool           `json:"metadata"`
	Keywords    bool           `json:"keywords"`
	MaxKeywords int            `json:"max_keywords" validate:"gte=0,lte=100"`
}

type chunkResponse struct {
	Source string   `json:"source"`
	Method string   `json:"method,omitempty"`
	Chunks []string `json:"chunks"`
	Merged string   `json:"merged"`
}

func (s *Server) defaultOptions() pipeline.Options {
	return pipeline.OptionsFromConfig(s.cfg)
}

func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	def := s.defaultOptions()
	req := chunkRequest{
		Source:      "document",
		Chunking:    def.Chunking,
		Config:      def.Config,
		Metadata:    def.Metadata,
		Keywords:    def.Annotate.Keywords,
		MaxKeywords: def.Annotate.MaxKeywords,
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		jsonError(w, "invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	opts := pipeline.Options{
		Chunking: req.Chunking,
		Config:   req.Config,
		Metadata: req.Metadata,
		Annotate: annotate.Options{Keywords: req.Keywords, MaxKeywords: req.MaxKeywords},
	}
	if err := opts.Validate(); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc := pipeline.Document{Name: req.Source, Text: req.Text}
	chunks := s.orchestrator.Processor().Chunks(doc, opts)

	resp := chunkResponse{
		Source: req.Source,
		Chunks: chunks,
		Merged: annotate.JoinChunks(chunks),
	}
	if opts.Chunking {
		resp.Method = opts.Config.Describe()
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
