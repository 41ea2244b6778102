package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/docchunk/internal/chunker"
	"github.com/dgallion1/docchunk/internal/pipeline"
)

type statsResponse struct {
	Rendering  pipeline.StatsSnapshot `json:"rendering"`
	QueueDepth int                    `json:"queue_depth"`
	Jobs       int                    `json:"jobs"`
	Workers    int                    `json:"workers"`
	Defaults   chunker.Config         `json:"defaults"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statsResponse{
		Rendering:  s.orchestrator.Processor().Stats().Snapshot(),
		QueueDepth: s.orchestrator.QueueDepth(),
		Jobs:       s.orchestrator.JobCount(),
		Workers:    s.cfg.WorkerCount,
		Defaults:   s.cfg.Chunking(),
	})
}
