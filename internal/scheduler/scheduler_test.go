package scheduler

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name string
	runs int
	err  error
}

func (j *countingJob) Run() error {
	j.runs++
	return j.err
}

func (j *countingJob) Name() string { return j.name }

func testScheduler() *Scheduler {
	return New(zerolog.New(nil).Level(zerolog.Disabled))
}

func TestAddJob(t *testing.T) {
	s := testScheduler()

	err := s.AddJob("0 0 3 * * *", &countingJob{name: "nightly"})
	assert.NoError(t, err)

	err = s.AddJob("@every 30s", &countingJob{name: "periodic"})
	assert.NoError(t, err)
}

func TestAddJobInvalidSchedule(t *testing.T) {
	s := testScheduler()

	// Five-field specs are rejected; schedules carry a seconds field.
	err := s.AddJob("0 3 * * *", &countingJob{name: "nightly"})
	assert.Error(t, err)

	err = s.AddJob("not a schedule", &countingJob{name: "broken"})
	assert.Error(t, err)
}

func TestRunNow(t *testing.T) {
	s := testScheduler()

	job := &countingJob{name: "manual"}
	require.NoError(t, s.RunNow(job))
	assert.Equal(t, 1, job.runs)

	failing := &countingJob{name: "failing", err: errors.New("boom")}
	err := s.RunNow(failing)
	assert.EqualError(t, err, "boom")
	assert.Equal(t, 1, failing.runs)
}

func TestStartStop(t *testing.T) {
	s := testScheduler()
	require.NoError(t, s.AddJob("@every 1h", &countingJob{name: "idle"}))

	s.Start()
	s.Stop()
}
