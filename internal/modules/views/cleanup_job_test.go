package views

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupJobName(t *testing.T) {
	job := NewCleanupJob(nil, zerolog.Nop())
	assert.Equal(t, "views_cleanup", job.Name())
}

func TestCleanupJobRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	now := time.Now().Unix()
	insertView(t, db, "expired", now-10)
	insertView(t, db, "fresh", now+3600)

	repo := NewRepository(db, zerolog.Nop())
	job := NewCleanupJob(repo, zerolog.Nop())
	require.NoError(t, job.Run())

	n, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := repo.Get("fresh")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestCleanupJobRunEmptyTable(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	job := NewCleanupJob(NewRepository(db, zerolog.Nop()), zerolog.Nop())
	assert.NoError(t, job.Run())
}

func TestCleanupJobRunClosedDB(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Close())

	job := NewCleanupJob(NewRepository(db, zerolog.Nop()), zerolog.Nop())
	assert.Error(t, job.Run())
}
