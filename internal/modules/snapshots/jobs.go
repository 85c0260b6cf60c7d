package snapshots

import (
	"github.com/rs/zerolog"
)

// CaptureJob runs the periodic snapshot capture. Scheduled hourly by
// default.
type CaptureJob struct {
	service *Service
	log     zerolog.Logger
}

// NewCaptureJob creates a new snapshot capture job
func NewCaptureJob(service *Service, log zerolog.Logger) *CaptureJob {
	return &CaptureJob{
		service: service,
		log:     log.With().Str("job", "snapshot_capture").Logger(),
	}
}

// Run captures one snapshot per catalog scenario.
func (j *CaptureJob) Run() error {
	_, _, err := j.service.CaptureAll()
	return err
}

// Name returns the job name for scheduling and logging.
func (j *CaptureJob) Name() string {
	return "snapshot_capture"
}

// PruneJob removes snapshots older than the retention window. Scheduled
// daily.
type PruneJob struct {
	service       *Service
	retentionDays int
	log           zerolog.Logger
}

// NewPruneJob creates a new snapshot prune job
func NewPruneJob(service *Service, retentionDays int, log zerolog.Logger) *PruneJob {
	return &PruneJob{
		service:       service,
		retentionDays: retentionDays,
		log:           log.With().Str("job", "snapshot_prune").Logger(),
	}
}

// Run deletes snapshots past retention.
func (j *PruneJob) Run() error {
	_, err := j.service.Prune(j.retentionDays)
	return err
}

// Name returns the job name for scheduling and logging.
func (j *PruneJob) Name() string {
	return "snapshot_prune"
}
