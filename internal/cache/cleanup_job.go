package cache

import (
	"github.com/rs/zerolog"
)

// CleanupJob reaps expired cache rows. Readers never see expired entries,
// so this exists purely to keep the cache database from growing without
// bound. Scheduled hourly.
type CleanupJob struct {
	store *Store
	log   zerolog.Logger
}

// NewCleanupJob creates a new cache cleanup job
func NewCleanupJob(store *Store, log zerolog.Logger) *CleanupJob {
	return &CleanupJob{
		store: store,
		log:   log.With().Str("job", "cache_cleanup").Logger(),
	}
}

// Run deletes expired cache entries.
func (j *CleanupJob) Run() error {
	deleted, err := j.store.PurgeExpired()
	if err != nil {
		return err
	}

	if deleted > 0 {
		j.log.Info().Int64("deleted", deleted).Msg("Purged expired cache entries")
	}

	return nil
}

// Name returns the job name for scheduling and logging.
func (j *CleanupJob) Name() string {
	return "cache_cleanup"
}
