package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/lattice/internal/database"
)

// healthCheckTimeout bounds the integrity check per database.
const healthCheckTimeout = 2 * time.Minute

// MaintenanceJob keeps the SQLite databases healthy: a full integrity
// check plus a truncating WAL checkpoint per database. Scheduled daily.
type MaintenanceJob struct {
	databases []*database.DB
	log       zerolog.Logger
}

// NewMaintenanceJob creates a new database maintenance job
func NewMaintenanceJob(databases []*database.DB, log zerolog.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		databases: databases,
		log:       log.With().Str("job", "database_maintenance").Logger(),
	}
}

// Run checks and checkpoints every database. A failure on one database
// does not stop maintenance of the others; the last error is returned.
func (j *MaintenanceJob) Run() error {
	var lastErr error

	for _, db := range j.databases {
		ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
		err := db.HealthCheck(ctx)
		cancel()
		if err != nil {
			j.log.Error().Err(err).Str("database", db.Name()).Msg("Database health check failed")
			lastErr = err
			continue
		}

		if err := db.WALCheckpoint("TRUNCATE"); err != nil {
			j.log.Error().Err(err).Str("database", db.Name()).Msg("WAL checkpoint failed")
			lastErr = err
			continue
		}

		j.log.Debug().Str("database", db.Name()).Msg("Database maintenance completed")
	}

	return lastErr
}

// Name returns the job name for scheduling and logging.
func (j *MaintenanceJob) Name() string {
	return "database_maintenance"
}
