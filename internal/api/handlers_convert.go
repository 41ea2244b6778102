package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/docchunk/internal/chunker"
	"github.com/dgallion1/docchunk/internal/parser"
	"github.com/dgallion1/docchunk/internal/pipeline"
)

// maxBatchFiles caps the number of files accepted by one convert request.
const maxBatchFiles = 20

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*maxBatchFiles+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	opts, err := s.formOptions(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}
	if len(headers) > maxBatchFiles {
		jsonError(w, fmt.Sprintf("too many files (max %d)", maxBatchFiles), http.StatusBadRequest)
		return
	}

	var files []pipeline.File
	var rejected []map[string]string
	for _, fh := range headers {
		filename := sanitizeFilename(fh.Filename)
		if !parser.IsSupportedExtension(filename) {
			rejected = append(rejected, map[string]string{
				"filename": filename,
				"error":    fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)),
			})
			continue
		}

		f, err := fh.Open()
		if err != nil {
			rejected = append(rejected, map[string]string{"filename": filename, "error": "failed to open file"})
			continue
		}
		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil || int64(len(data)) > s.cfg.MaxUploadBytes {
			rejected = append(rejected, map[string]string{"filename": filename, "error": "file too large or read error"})
			continue
		}
		files = append(files, pipeline.File{Name: filename, Data: data})
	}

	if len(files) == 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"error": "no acceptable files", "rejected": rejected})
		return
	}

	job := pipeline.NewJob(files, opts)
	if err := s.orchestrator.Submit(job); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, pipeline.ErrQueueFull) {
			code = http.StatusServiceUnavailable
		}
		jsonError(w, err.Error(), code)
		return
	}

	if rejected == nil {
		rejected = []map[string]string{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"files":    job.Files,
		"rejected": rejected,
		"poll_url": fmt.Sprintf("/api/jobs/%s", job.ID),
	})
}

// formOptions reads chunking options from form fields, falling back to the
// server defaults for absent fields.
func (s *Server) formOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.defaultOptions()

	if v := r.FormValue("method"); v != "" {
		opts.Config.Method = chunker.Method(strings.ToLower(v))
	}
	ints := []struct {
		field string
		dst   *int
	}{
		{"max_paragraphs", &opts.Config.MaxParagraphs},
		{"max_tokens", &opts.Config.MaxTokens},
		{"max_keywords", &opts.Annotate.MaxKeywords},
	}
	for _, f := range ints {
		if v := r.FormValue(f.field); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return opts, fmt.Errorf("invalid %s: %q", f.field, v)
			}
			*f.dst = n
		}
	}
	if v := r.FormValue("similarity"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, fmt.Errorf("invalid similarity: %q", v)
		}
		opts.Config.SimilarityThreshold = t
	}
	bools := []struct {
		field string
		dst   *bool
	}{
		{"chunking", &opts.Chunking},
		{"metadata", &opts.Metadata},
		{"keywords", &opts.Annotate.Keywords},
	}
	for _, f := range bools {
		if v := r.FormValue(f.field); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, fmt.Errorf("invalid %s: %q", f.field, v)
			}
			*f.dst = b
		}
	}

	if err := s.validate.Struct(opts.Annotate); err != nil {
		return opts, fmt.Errorf("invalid options: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
