package pipeline

import (
	"context"
	"fmt"
	"log/slog"
)

// Worker processes a single conversion job.
type Worker struct {
	proc *Processor
	log  *slog.Logger
}

func NewWorker(proc *Processor, log *slog.Logger) *Worker {
	return &Worker{proc: proc, log: log}
}

// Process parses every file of the job, then chunks and merges the ones that
// parsed. Files that fail to parse are reported and skipped.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	files := job.RawFiles()
	var docs []Document
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			job.AddError(fmt.Sprintf("cancelled: %s", err))
			job.SetStatus(StatusFailed, "parsing")
			return
		}
		doc, err := w.proc.Parse(f)
		if err != nil {
			log.Error("parse failed", "file", f.Name, "error", err)
			job.AddError(fmt.Sprintf("%s: %s", f.Name, err))
			continue
		}
		job.IncrFilesParsed()
		docs = append(docs, doc)
	}

	if len(docs) == 0 {
		log.Warn("no parsable files")
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	// Phase 2: Chunk, annotate and merge.
	job.SetStatus(StatusChunking, "chunking")
	result, err := w.proc.Process(ctx, docs, job.Options)
	if err != nil {
		log.Error("processing failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "chunking")
		return
	}
	job.SetResult(result)
	log.Info("job complete", "documents", len(result.Outputs), "failed", len(files)-len(docs))

	if len(docs) < len(files) {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}
