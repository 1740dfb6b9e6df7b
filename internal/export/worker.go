package export

import (
	"context"
	"log/slog"
	"time"
)

// runExport is swapped out by tests.
var runExport = Run

// Worker runs export jobs.
type Worker struct {
	stats *Stats
	log   *slog.Logger
	opts  Options
}

func NewWorker(stats *Stats, log *slog.Logger, opts Options) *Worker {
	return &Worker{stats: stats, log: log, opts: opts}
}

// Process runs one export and records its outcome on the job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "session_id", job.SessionID)
	start := time.Now()

	opts := w.opts
	if opts.Name == "" {
		opts.Name = "pdfmark-" + job.ID
	}

	out, err := runExport(ctx, job.Data(), job.Highlights(), opts, log, job.SetStatus)
	elapsed := time.Since(start)
	w.stats.Record(elapsed, err != nil)

	if err != nil {
		log.Error("export failed",
			"error", err,
			"error_kind", KindOf(err),
			"duration_ms", elapsed.Milliseconds(),
		)
		job.Fail(err)
		return
	}

	log.Info("export complete",
		"highlights", out.Result.Highlights,
		"annotations", out.Result.Total(),
		"bytes", len(out.PDF),
		"duration_ms", elapsed.Milliseconds(),
	)
	job.Complete(out)
}
