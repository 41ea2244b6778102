package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/docchunk/internal/pipeline"
)

func (s *Server) jobFromRequest(w http.ResponseWriter, r *http.Request) *pipeline.Job {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
	}
	return job
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job := s.jobFromRequest(w, r)
	if job == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

// finishedJob returns the job when its outputs are ready to download.
func (s *Server) finishedJob(w http.ResponseWriter, r *http.Request) *pipeline.Job {
	job := s.jobFromRequest(w, r)
	if job == nil {
		return nil
	}
	snap := job.Snapshot()
	switch snap.Status {
	case pipeline.StatusCompleted, pipeline.StatusPartial:
		return job
	case pipeline.StatusFailed:
		jsonError(w, "job failed", http.StatusConflict)
	default:
		jsonError(w, "job not finished: "+string(snap.Status), http.StatusConflict)
	}
	return nil
}

func (s *Server) handleJobMerged(w http.ResponseWriter, r *http.Request) {
	job := s.finishedJob(w, r)
	if job == nil {
		return
	}
	writeMarkdown(w, "merged_document.md", job.Result().Merged)
}

func (s *Server) handleJobFile(w http.ResponseWriter, r *http.Request) {
	job := s.finishedJob(w, r)
	if job == nil {
		return
	}
	name := chi.URLParam(r, "name")
	out, ok := job.Result().Lookup(name)
	if !ok {
		jsonError(w, "file not found in job", http.StatusNotFound)
		return
	}
	writeMarkdown(w, out.Name, out.Content)
}

func writeMarkdown(w http.ResponseWriter, filename, content string) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write([]byte(content))
}
