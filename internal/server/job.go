// Package server exposes cascade training as a long-running background job
// over HTTP, for the case where training takes minutes to hours (spec §5):
// a job manager tracks state and progress, a worker runs the stage-training
// loop, and clients poll a status endpoint or subscribe to an SSE stream.
package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobState is the lifecycle state of a training job.
type JobState string

const (
	StatePending   JobState = "pending"
	StateRunning   JobState = "running"
	StateCompleted JobState = "completed"
	StateFailed    JobState = "failed"
	StateCancelled JobState = "cancelled"
)

// TrainingConfig describes one cascade training run: where the training
// images live relative to BaseDir, how many samples to draw, and which
// stage-training mode to use (spec §4.6.2's layout vs target-FPR modes).
type TrainingConfig struct {
	BaseDir        string `json:"baseDir"`
	NPos           int    `json:"nPos"`
	NNeg           int    `json:"nNeg"`
	Mode           string `json:"mode"`
	Stages         int    `json:"stages"`
	RoundsPerStage int    `json:"roundsPerStage"`
	Seed           int64  `json:"seed"`
}

// Job is one cascade training run tracked by the server.
type Job struct {
	ID                string         `json:"id"`
	State             JobState       `json:"state"`
	Config            TrainingConfig `json:"config"`
	Stage             int            `json:"stage"`
	Round             int            `json:"round"`
	DetectionRate     float64        `json:"detectionRate"`
	FalsePositiveRate float64        `json:"falsePositiveRate"`
	StagesTrained     int            `json:"stagesTrained"`
	StartTime         time.Time      `json:"startTime"`
	EndTime           *time.Time     `json:"endTime,omitempty"`
	Error             string         `json:"error,omitempty"`
}

// JobManager tracks the set of jobs the server knows about, guarding them
// with a single mutex since updates are infrequent relative to reads.
type JobManager struct {
	mu          sync.RWMutex
	jobs        map[string]*Job
	broadcaster *EventBroadcaster
}

// NewJobManager returns an empty JobManager.
func NewJobManager() *JobManager {
	return &JobManager{
		jobs:        make(map[string]*Job),
		broadcaster: NewEventBroadcaster(),
	}
}

// CreateJob registers a new pending job with the given configuration.
func (jm *JobManager) CreateJob(config TrainingConfig) *Job {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job := &Job{
		ID:        uuid.New().String(),
		State:     StatePending,
		Config:    config,
		StartTime: time.Now(),
	}
	jm.jobs[job.ID] = job
	return job
}

// GetJob retrieves a job by ID.
func (jm *JobManager) GetJob(id string) (*Job, bool) {
	jm.mu.RLock()
	defer jm.mu.RUnlock()
	job, ok := jm.jobs[id]
	return job, ok
}

// ListJobs returns every known job.
func (jm *JobManager) ListJobs() []*Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()
	jobs := make([]*Job, 0, len(jm.jobs))
	for _, job := range jm.jobs {
		jobs = append(jobs, job)
	}
	return jobs
}

// UpdateJob atomically mutates the job with the given ID.
func (jm *JobManager) UpdateJob(id string, updateFn func(*Job)) error {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	job, ok := jm.jobs[id]
	if !ok {
		return fmt.Errorf("job not found: %s", id)
	}
	updateFn(job)
	return nil
}

// GetRunningJobs returns every job currently in StateRunning.
func (jm *JobManager) GetRunningJobs() []*Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()
	running := make([]*Job, 0)
	for _, job := range jm.jobs {
		if job.State == StateRunning {
			running = append(running, job)
		}
	}
	return running
}
