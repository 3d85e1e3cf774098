package handler

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yumyai/pangtable/pkg/pipeline"
)

// AlignJobStatus represents the lifecycle of an align request.
type AlignJobStatus string

const (
	AlignJobQueued    AlignJobStatus = "queued"
	AlignJobRunning   AlignJobStatus = "running"
	AlignJobCompleted AlignJobStatus = "completed"
	AlignJobFailed    AlignJobStatus = "failed"
)

// AlignJob keeps track of one resolution run.
type AlignJob struct {
	ID        string
	Mode      string
	Status    AlignJobStatus
	Result    *pipeline.Result
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AlignJobManager stores align job states indexed by job ID.
type AlignJobManager struct {
	mu   sync.RWMutex
	jobs map[string]*AlignJob
}

func NewAlignJobManager() *AlignJobManager {
	return &AlignJobManager{
		jobs: make(map[string]*AlignJob),
	}
}

// NewJob registers a queued job.
func (m *AlignJobManager) NewJob(mode string) *AlignJob {
	now := time.Now()
	job := &AlignJob{
		ID:        uuid.NewString(),
		Mode:      mode,
		Status:    AlignJobQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()
	return job
}

func (m *AlignJobManager) SetRunning(jobID string) {
	m.updateJob(jobID, func(job *AlignJob) {
		job.Status = AlignJobRunning
	})
}

// CompleteJob stores the result and marks the job complete.
func (m *AlignJobManager) CompleteJob(jobID string, result *pipeline.Result) {
	m.updateJob(jobID, func(job *AlignJob) {
		job.Status = AlignJobCompleted
		job.Result = result
	})
}

// FailJob records a failure and attaches a user-facing error message.
func (m *AlignJobManager) FailJob(jobID string, err error) {
	m.updateJob(jobID, func(job *AlignJob) {
		job.Status = AlignJobFailed
		job.Error = err.Error()
	})
}

// GetJob returns a copy of the job, safe to read while the job runs.
func (m *AlignJobManager) GetJob(jobID string) (AlignJob, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return AlignJob{}, false
	}
	return *job, true
}

func (m *AlignJobManager) updateJob(jobID string, update func(job *AlignJob)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return
	}

	update(job)
	job.UpdatedAt = time.Now()
}
