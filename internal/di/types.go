// Package di wires the application's services, repositories and jobs
// into a single container. Construction order follows dependency order;
// Close tears down in reverse.
package di

import (
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

// Container holds all wired application components
type Container struct {
	Config *config.Config
	Log    zerolog.Logger

	// Databases
	LatticeDB *database.DB
	CacheDB   *database.DB

	// Event bus
	EventBus *events.Bus

	// Estimation
	ComparisonEngine *comparison.Engine

	// Reports
	ReportRepo    *reports.Repository
	ReportService *reports.Service

	// Scenarios
	ScenarioRepo    *scenarios.Repository
	ScenarioService *scenarios.Service

	// Snapshots
	SnapshotStore   *snapshots.Store
	SnapshotService *snapshots.Service

	// TTL cache
	CacheStore *cache.Store

	// Sweeps
	SweepService *sweep.Service

	// Archive (nil when no bucket is configured)
	ArchiveService *archive.Service

	// Background jobs
	Scheduler *scheduler.Scheduler
	Jobs      map[string]scheduler.Job
}

// Databases returns every open database, durable first
func (c *Container) Databases() []*database.DB {
	return []*database.DB{c.LatticeDB, c.CacheDB}
}

// Close releases all container resources in reverse construction order
func (c *Container) Close() error {
	var lastErr error

	if c.CacheDB != nil {
		if err := c.CacheDB.Close(); err != nil {
			c.Log.Error().Err(err).Msg("Failed to close cache database")
			lastErr = err
		}
	}
	if c.LatticeDB != nil {
		if err := c.LatticeDB.Close(); err != nil {
			c.Log.Error().Err(err).Msg("Failed to close lattice database")
			lastErr = err
		}
	}

	return lastErr
}
