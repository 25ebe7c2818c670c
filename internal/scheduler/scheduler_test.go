package scheduler

import (
	"errors"
	"testing"

	"github.com/aristath/folioview/internal/events"
	testingpkg "github.com/aristath/folioview/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJob struct {
	name string
	err  error
	runs int
}

func (j *fakeJob) Run() error {
	j.runs++
	return j.err
}

func (j *fakeJob) Name() string { return j.name }

func TestScheduler_AddJob(t *testing.T) {
	s := New(nil, zerolog.Nop())

	require.NoError(t, s.AddJob("0 */15 * * * *", &fakeJob{name: "cleanup"}))
	require.NoError(t, s.AddJob("@every 1m", &fakeJob{name: "wal"}))

	err := s.AddJob("@every 1m", &fakeJob{name: "wal"})
	assert.Error(t, err, "duplicate names are rejected")

	err = s.AddJob("whenever", &fakeJob{name: "broken"})
	assert.Error(t, err)

	statuses := s.Statuses()
	require.Len(t, statuses, 2)
	assert.Equal(t, "cleanup", statuses[0].Name)
	assert.Equal(t, "wal", statuses[1].Name)
}

func TestScheduler_RunNowRecordsStatusAndEmits(t *testing.T) {
	bus := events.NewBus(zerolog.Nop())
	ch, unsub := bus.Channel(4, events.JobCompleted)
	defer unsub()

	s := New(events.NewManager(bus, zerolog.Nop()), zerolog.Nop())
	ok := &fakeJob{name: "ok"}
	failing := &fakeJob{name: "failing", err: errors.New("disk full")}
	require.NoError(t, s.AddJob("@every 1h", ok))
	require.NoError(t, s.AddJob("@every 1h", failing))

	require.NoError(t, s.RunNow(ok))
	assert.EqualError(t, s.RunNow(failing), "disk full")
	assert.Equal(t, 1, ok.runs)
	assert.Equal(t, 1, failing.runs)

	statuses := s.Statuses()
	require.Len(t, statuses, 2)
	assert.Equal(t, "failing", statuses[0].Name)
	assert.Equal(t, "disk full", statuses[0].LastError)
	assert.False(t, statuses[1].LastRun.IsZero())
	assert.Empty(t, statuses[1].LastError)

	require.Len(t, ch, 2)
	first := <-ch
	assert.Equal(t, "ok", first.Data["job"])
	second := <-ch
	assert.Equal(t, "disk full", second.Data["error"])
}

func TestScheduler_FailingJobEmitsError(t *testing.T) {
	bus := events.NewBus(zerolog.Nop())
	ch, unsub := bus.Channel(4, events.ErrorOccurred)
	defer unsub()

	s := New(events.NewManager(bus, zerolog.Nop()), zerolog.Nop())
	ok := &fakeJob{name: "ok"}
	failing := &fakeJob{name: "views_cleanup", err: errors.New("database is locked")}
	require.NoError(t, s.AddJob("@every 1h", ok))
	require.NoError(t, s.AddJob("@every 1h", failing))

	require.NoError(t, s.RunNow(ok))
	require.Error(t, s.RunByName("views_cleanup"))

	require.Len(t, ch, 1)
	event := <-ch
	assert.Equal(t, events.ErrorOccurred, event.Type)
	assert.Equal(t, "scheduler", event.Module)
	assert.Equal(t, "database is locked", event.Data["error"])
	jobContext, found := event.Data["context"].(map[string]interface{})
	require.True(t, found)
	assert.Equal(t, "views_cleanup", jobContext["job"])
}

func TestScheduler_RunByName(t *testing.T) {
	s := New(nil, zerolog.Nop())
	job := &fakeJob{name: "views_cleanup"}
	require.NoError(t, s.AddJob("@every 1h", job))

	require.NoError(t, s.RunByName("views_cleanup"))
	assert.Equal(t, 1, job.runs)

	assert.ErrorIs(t, s.RunByName("nope"), ErrJobNotFound)
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(nil, zerolog.Nop())
	require.NoError(t, s.AddJob("@every 1h", &fakeJob{name: "idle"}))

	s.Start()
	statuses := s.Statuses()
	require.Len(t, statuses, 1)
	assert.False(t, statuses[0].NextRun.IsZero())
	s.Stop()
}

func TestCheckWALCheckpointsJob(t *testing.T) {
	portfolioDB, cleanupPortfolio := testingpkg.NewTestDB(t, "portfolio")
	defer cleanupPortfolio()
	cacheDB, cleanupCache := testingpkg.NewTestDB(t, "cache")
	defer cleanupCache()

	job := NewCheckWALCheckpointsJob(zerolog.Nop(), portfolioDB, nil, cacheDB)
	assert.Equal(t, "check_wal_checkpoints", job.Name())
	require.Len(t, job.databases, 2)
	assert.Equal(t, "cache", job.databases[0].Name())

	assert.NoError(t, job.Run())
}
