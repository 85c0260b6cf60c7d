package di

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/aristath/lattice/internal/archive"
	"github.com/aristath/lattice/internal/cache"
	"github.com/aristath/lattice/internal/config"
	"github.com/aristath/lattice/internal/database"
	"github.com/aristath/lattice/internal/events"
	"github.com/aristath/lattice/internal/modules/comparison"
	"github.com/aristath/lattice/internal/modules/reports"
	"github.com/aristath/lattice/internal/modules/scenarios"
	"github.com/aristath/lattice/internal/modules/snapshots"
	"github.com/aristath/lattice/internal/modules/sweep"
	"github.com/aristath/lattice/internal/scheduler"
)

// Fixed schedules for housekeeping jobs. User-facing schedules (snapshot
// capture, archive upload) come from configuration instead.
const (
	snapshotPruneSchedule = "0 30 3 * * *" // daily at 03:30
	maintenanceSchedule   = "0 0 4 * * *"  // daily at 04:00
	cacheCleanupSchedule  = "0 15 * * * *" // hourly at :15
)

// Wire constructs the full application container from configuration.
// On error, anything already opened is closed before returning.
func Wire(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Log:    log,
		Jobs:   make(map[string]scheduler.Job),
	}

	if err := wireDatabases(c, cfg); err != nil {
		_ = c.Close()
		return nil, err
	}

	c.EventBus = events.NewBus(log)
	c.ComparisonEngine = comparison.NewEngine()

	wireServices(c, cfg, log)

	if err := wireJobs(ctx, c, cfg, log); err != nil {
		_ = c.Close()
		return nil, err
	}

	return c, nil
}

// wireDatabases opens and migrates both databases
func wireDatabases(c *Container, cfg *config.Config) error {
	latticeDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "lattice.db"),
		Profile: database.ProfileStandard,
		Name:    "lattice",
	})
	if err != nil {
		return fmt.Errorf("failed to open lattice database: %w", err)
	}
	c.LatticeDB = latticeDB

	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "cache.db"),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}
	c.CacheDB = cacheDB

	for _, db := range c.Databases() {
		if err := db.Migrate(); err != nil {
			return fmt.Errorf("failed to migrate %s database: %w", db.Name(), err)
		}
	}

	return nil
}

// wireServices constructs repositories and services in dependency order
func wireServices(c *Container, cfg *config.Config, log zerolog.Logger) {
	c.ReportRepo = reports.NewRepository(c.LatticeDB.Conn(), log)
	c.ReportService = reports.NewService(
		c.ReportRepo,
		reports.NewAssembler(),
		c.ComparisonEngine,
		c.EventBus,
		filepath.Join(cfg.DataDir, "reports"),
		log,
	)

	c.ScenarioRepo = scenarios.NewRepository(c.LatticeDB.Conn(), log)
	c.ScenarioService = scenarios.NewService(
		c.ScenarioRepo,
		c.ReportService,
		c.ComparisonEngine,
		c.EventBus,
		log,
	)

	c.SnapshotStore = snapshots.NewStore(c.CacheDB.Conn(), log)
	c.SnapshotService = snapshots.NewService(
		c.SnapshotStore,
		c.ScenarioService,
		c.EventBus,
		log,
	)

	c.CacheStore = cache.NewStore(c.CacheDB.Conn(), log)
	c.SweepService = sweep.NewService(c.CacheStore, log)
}

// wireJobs registers background jobs with the scheduler. The scheduler is
// created here but started by the caller.
func wireJobs(ctx context.Context, c *Container, cfg *config.Config, log zerolog.Logger) error {
	c.Scheduler = scheduler.New(log)

	captureJob := snapshots.NewCaptureJob(c.SnapshotService, log)
	if err := c.Scheduler.AddJob(cfg.Snapshot.Cron, captureJob); err != nil {
		return fmt.Errorf("failed to schedule snapshot capture: %w", err)
	}
	c.Jobs[captureJob.Name()] = captureJob

	pruneJob := snapshots.NewPruneJob(c.SnapshotService, cfg.Snapshot.RetentionDays, log)
	if err := c.Scheduler.AddJob(snapshotPruneSchedule, pruneJob); err != nil {
		return fmt.Errorf("failed to schedule snapshot prune: %w", err)
	}
	c.Jobs[pruneJob.Name()] = pruneJob

	maintenanceJob := scheduler.NewMaintenanceJob(c.Databases(), log)
	if err := c.Scheduler.AddJob(maintenanceSchedule, maintenanceJob); err != nil {
		return fmt.Errorf("failed to schedule database maintenance: %w", err)
	}
	c.Jobs[maintenanceJob.Name()] = maintenanceJob

	cleanupJob := cache.NewCleanupJob(c.CacheStore, log)
	if err := c.Scheduler.AddJob(cacheCleanupSchedule, cleanupJob); err != nil {
		return fmt.Errorf("failed to schedule cache cleanup: %w", err)
	}
	c.Jobs[cleanupJob.Name()] = cleanupJob

	if cfg.Archive.Enabled() {
		client, err := archive.NewClient(ctx, cfg.Archive)
		if err != nil {
			return fmt.Errorf("failed to create archive client: %w", err)
		}

		c.ArchiveService = archive.NewService(client, c.Databases(), cfg.DataDir, c.EventBus, log)

		archiveJob := archive.NewJob(c.ArchiveService, cfg.Archive.RetentionDays, log)
		if err := c.Scheduler.AddJob(cfg.Archive.Cron, archiveJob); err != nil {
			return fmt.Errorf("failed to schedule archive upload: %w", err)
		}
		c.Jobs[archiveJob.Name()] = archiveJob
	} else {
		log.Info().Msg("Archiving disabled, no bucket configured")
	}

	return nil
}
