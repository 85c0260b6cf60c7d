package archive

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// uploadTimeout bounds one archive cycle. Uploads normally take seconds;
// a stuck connection should not pin the scheduler slot for hours.
const uploadTimeout = 30 * time.Minute

// Job runs the archive upload plus rotation on a schedule.
type Job struct {
	service       *Service
	retentionDays int
	log           zerolog.Logger
}

// NewJob creates a new archive job
func NewJob(service *Service, retentionDays int, log zerolog.Logger) *Job {
	return &Job{
		service:       service,
		retentionDays: retentionDays,
		log:           log.With().Str("job", "archive_upload").Logger(),
	}
}

// Run creates and uploads one archive, then rotates old ones.
func (j *Job) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
	defer cancel()

	if _, err := j.service.CreateAndUploadArchive(ctx); err != nil {
		return err
	}

	if _, err := j.service.RotateOldArchives(ctx, j.retentionDays); err != nil {
		// The archive itself is safely stored; rotation can catch up on
		// the next run.
		j.log.Warn().Err(err).Msg("Archive rotation failed")
	}

	return nil
}

// Name returns the job name for scheduling and logging.
func (j *Job) Name() string {
	return "archive_upload"
}
