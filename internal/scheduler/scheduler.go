// Package scheduler runs background maintenance jobs on cron schedules.
package scheduler

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aristath/folioview/internal/events"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// ErrJobNotFound is returned when running a job name that was never registered
var ErrJobNotFound = errors.New("job not found")

// Job represents a scheduled job
type Job interface {
	Run() error
	Name() string
}

// JobStatus describes a registered job and its last run
type JobStatus struct {
	Name         string    `json:"name"`
	Schedule     string    `json:"schedule"`
	LastRun      time.Time `json:"last_run,omitempty"`
	LastDuration string    `json:"last_duration,omitempty"`
	LastError    string    `json:"last_error,omitempty"`
	NextRun      time.Time `json:"next_run,omitempty"`
}

type registeredJob struct {
	job      Job
	schedule string
	entryID  cron.EntryID
	status   JobStatus
}

// Scheduler manages background jobs
type Scheduler struct {
	cron         *cron.Cron
	eventManager *events.Manager
	log          zerolog.Logger

	mu   sync.Mutex
	jobs map[string]*registeredJob
}

// New creates a new scheduler. eventManager may be nil.
func New(eventManager *events.Manager, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:         cron.New(cron.WithSeconds()),
		eventManager: eventManager,
		log:          log.With().Str("component", "scheduler").Logger(),
		jobs:         make(map[string]*registeredJob),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

// AddJob registers a new job with cron schedule
// Schedule examples:
//   - "0 */5 * * * *"      - Every 5 minutes
//   - "@hourly"            - Every hour
//   - "0 0 3 * * *"        - 3 AM daily
//   - "@every 30s"         - Every 30 seconds
func (s *Scheduler) AddJob(schedule string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.Name()]; exists {
		return fmt.Errorf("job %s is already registered", job.Name())
	}

	entryID, err := s.cron.AddFunc(schedule, func() {
		_ = s.execute(job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", job.Name(), err)
	}

	s.jobs[job.Name()] = &registeredJob{
		job:      job,
		schedule: schedule,
		entryID:  entryID,
		status:   JobStatus{Name: job.Name(), Schedule: schedule},
	}

	s.log.Info().
		Str("schedule", schedule).
		Str("job", job.Name()).
		Msg("Job registered")

	return nil
}

// RunNow executes a job immediately (outside schedule)
func (s *Scheduler) RunNow(job Job) error {
	s.log.Info().Str("job", job.Name()).Msg("Running job immediately")
	return s.execute(job)
}

// RunByName executes a registered job immediately
func (s *Scheduler) RunByName(name string) error {
	s.mu.Lock()
	rj, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return s.RunNow(rj.job)
}

// Statuses returns the status of every registered job, sorted by name
func (s *Scheduler) Statuses() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobStatus, 0, len(s.jobs))
	for _, rj := range s.jobs {
		status := rj.status
		if entry := s.cron.Entry(rj.entryID); entry.Valid() {
			status.NextRun = entry.Next
		}
		out = append(out, status)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Scheduler) execute(job Job) error {
	s.log.Debug().Str("job", job.Name()).Msg("Running job")

	start := time.Now()
	err := job.Run()
	duration := time.Since(start)

	data := &events.JobCompletedData{Job: job.Name(), Duration: duration.String()}
	if err != nil {
		data.Error = err.Error()
		s.log.Error().
			Err(err).
			Str("job", job.Name()).
			Msg("Job failed")
	} else {
		s.log.Debug().Str("job", job.Name()).Dur("duration", duration).Msg("Job completed")
	}

	s.mu.Lock()
	if rj, ok := s.jobs[job.Name()]; ok {
		rj.status.LastRun = start
		rj.status.LastDuration = duration.String()
		rj.status.LastError = data.Error
	}
	s.mu.Unlock()

	if s.eventManager != nil {
		s.eventManager.EmitTyped("scheduler", data)
		if err != nil {
			s.eventManager.EmitError("scheduler", err, map[string]interface{}{"job": job.Name()})
		}
	}
	return err
}
