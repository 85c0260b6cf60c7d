package scenarios

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/lattice/internal/modules/analog"
	"github.com/aristath/lattice/internal/modules/digital"
)

// testSchema mirrors the scenarios table from the lattice schema.
const testSchema = `
CREATE TABLE scenarios (
    id             TEXT PRIMARY KEY,
    name           TEXT NOT NULL UNIQUE,
    description    TEXT NOT NULL DEFAULT '',
    analog_config  TEXT NOT NULL,
    digital_config TEXT NOT NULL,
    created_at     INTEGER NOT NULL,
    updated_at     INTEGER NOT NULL
);
`

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	return db
}

func testScenario(id, name string) Scenario {
	now := time.Now().UTC().Truncate(time.Second)
	multiplier := 2.0

	return Scenario{
		ID:          id,
		Name:        name,
		Description: "baseline feasibility check",
		Analog: analog.Config{
			CircuitWidth:         5,
			QubitT1Times:         []float64{100, 100, 90, 110, 100},
			MaxRuntimeMultiplier: &multiplier,
		},
		Digital: digital.Config{
			LogicalQubits:     10,
			TargetRuntime:     1000.0,
			PhysicalErrorRate: 1e-3,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestRepositoryCreateAndGet(t *testing.T) {
	repo := NewRepository(setupTestDB(t), zerolog.New(nil).Level(zerolog.Disabled))

	stored := testScenario("scn-1", "baseline")
	require.NoError(t, repo.Create(stored))

	got, err := repo.GetByID("scn-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, stored.ID, got.ID)
	assert.Equal(t, "baseline", got.Name)
	assert.Equal(t, stored.Analog, got.Analog, "analog config should survive the JSON round trip")
	assert.Equal(t, stored.Digital, got.Digital)
	assert.Equal(t, stored.CreatedAt, got.CreatedAt)
}

func TestRepositoryGetMissing(t *testing.T) {
	repo := NewRepository(setupTestDB(t), zerolog.New(nil).Level(zerolog.Disabled))

	got, err := repo.GetByID("nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepositoryGetByName(t *testing.T) {
	repo := NewRepository(setupTestDB(t), zerolog.New(nil).Level(zerolog.Disabled))

	require.NoError(t, repo.Create(testScenario("scn-1", "baseline")))

	got, err := repo.GetByName("baseline")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "scn-1", got.ID)

	missing, err := repo.GetByName("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepositoryUniqueName(t *testing.T) {
	repo := NewRepository(setupTestDB(t), zerolog.New(nil).Level(zerolog.Disabled))

	require.NoError(t, repo.Create(testScenario("scn-1", "baseline")))

	err := repo.Create(testScenario("scn-2", "baseline"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestRepositoryUpdate(t *testing.T) {
	repo := NewRepository(setupTestDB(t), zerolog.New(nil).Level(zerolog.Disabled))

	stored := testScenario("scn-1", "baseline")
	require.NoError(t, repo.Create(stored))

	stored.Name = "baseline v2"
	stored.Digital.LogicalQubits = 20
	stored.UpdatedAt = stored.UpdatedAt.Add(time.Minute)

	updated, err := repo.Update(stored)
	require.NoError(t, err)
	assert.True(t, updated)

	got, err := repo.GetByID("scn-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "baseline v2", got.Name)
	assert.Equal(t, 20, got.Digital.LogicalQubits)

	missing := testScenario("scn-404", "ghost")
	updated, err = repo.Update(missing)
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestRepositoryListOrdersByName(t *testing.T) {
	repo := NewRepository(setupTestDB(t), zerolog.New(nil).Level(zerolog.Disabled))

	require.NoError(t, repo.Create(testScenario("scn-1", "zeta")))
	require.NoError(t, repo.Create(testScenario("scn-2", "alpha")))

	list, err := repo.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "zeta", list[1].Name)
}

func TestRepositoryDelete(t *testing.T) {
	repo := NewRepository(setupTestDB(t), zerolog.New(nil).Level(zerolog.Disabled))

	require.NoError(t, repo.Create(testScenario("scn-1", "baseline")))

	deleted, err := repo.Delete("scn-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete("scn-1")
	require.NoError(t, err)
	assert.False(t, deleted, "second delete should report not found")
}

func TestRepositoryCount(t *testing.T) {
	repo := NewRepository(setupTestDB(t), zerolog.New(nil).Level(zerolog.Disabled))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, repo.Create(testScenario("scn-1", "one")))
	require.NoError(t, repo.Create(testScenario("scn-2", "two")))

	count, err = repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
