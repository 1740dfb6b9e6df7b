package export

import (
	"sync"
	"time"

	"github.com/dgallion1/pdfmark/internal/highlight"
	"github.com/dgallion1/pdfmark/internal/transform"
)

// JobStatus represents the state of an export job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusLoading    JobStatus = "loading"
	StatusAnnotating JobStatus = "annotating"
	StatusWriting    JobStatus = "writing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Job tracks a single export. The highlight list and document bytes are
// captured at submit time.
type Job struct {
	mu sync.Mutex

	ID        string
	SessionID string
	Filename  string

	Status    JobStatus
	Result    transform.Result
	CreatedAt time.Time
	UpdatedAt time.Time

	// Internal: not serialized.
	data       []byte
	highlights []highlight.Highlight
	output     []byte
	err        error
	done       chan struct{}
}

// NewJob snapshots highlights and data into a queued job.
func NewJob(sessionID, filename string, data []byte, highlights []highlight.Highlight) *Job {
	now := time.Now()
	return &Job{
		ID:         highlight.NewID(),
		SessionID:  sessionID,
		Filename:   filename,
		Status:     StatusQueued,
		CreatedAt:  now,
		UpdatedAt:  now,
		data:       data,
		highlights: append([]highlight.Highlight(nil), highlights...),
		done:       make(chan struct{}),
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.UpdatedAt = time.Now()
}

// Complete stores the exported bytes and releases waiters.
func (j *Job) Complete(out Output) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.finishedLocked() {
		return
	}
	j.Status = StatusCompleted
	j.Result = out.Result
	j.output = out.PDF
	j.data = nil
	j.UpdatedAt = time.Now()
	close(j.done)
}

// Fail records err and releases waiters.
func (j *Job) Fail(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.finishedLocked() {
		return
	}
	j.Status = StatusFailed
	j.err = err
	j.data = nil
	j.UpdatedAt = time.Now()
	close(j.done)
}

func (j *Job) finishedLocked() bool {
	select {
	case <-j.done:
		return true
	default:
		return false
	}
}

// Done is closed once the job completes or fails.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Output returns the exported PDF, or the failure. It is only meaningful after
// Done is closed.
func (j *Job) Output() ([]byte, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.output, j.err
}

// Highlights returns the captured highlight list.
func (j *Job) Highlights() []highlight.Highlight {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.highlights
}

// Data returns the captured document bytes.
func (j *Job) Data() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.data
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID         string           `json:"job_id"`
	SessionID  string           `json:"session_id"`
	Status     JobStatus        `json:"status"`
	Highlights int              `json:"highlights"`
	Result     transform.Result `json:"result"`
	Error      string           `json:"error,omitempty"`
	ErrorKind  ErrorKind        `json:"error_kind,omitempty"`
	OutputSize int              `json:"output_bytes"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	snap := JobSnapshot{
		ID:         j.ID,
		SessionID:  j.SessionID,
		Status:     j.Status,
		Highlights: len(j.highlights),
		Result:     j.Result,
		OutputSize: len(j.output),
		CreatedAt:  j.CreatedAt,
		UpdatedAt:  j.UpdatedAt,
	}
	if j.err != nil {
		snap.Error = j.err.Error()
		snap.ErrorKind = KindOf(j.err)
	}
	return snap
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
		}
	}
}
