package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/stock-ledger-backend/internal/testutil"
)

type countingJob struct {
	runs atomic.Int32
	err  error
}

func (j *countingJob) Run() error {
	j.runs.Add(1)
	return j.err
}

func (j *countingJob) Name() string { return "counting" }

func TestScheduler_AddJob(t *testing.T) {
	s := New(zerolog.Nop())

	require.NoError(t, s.AddJob("@hourly", &countingJob{}))
	require.NoError(t, s.AddJob("0 30 2 * * *", &countingJob{}))
	assert.Error(t, s.AddJob("not a schedule", &countingJob{}))
	assert.Error(t, s.AddJob("0 30 2 * *", &countingJob{}), "five-field schedules lack the seconds field")
}

func TestScheduler_RunsOnSchedule(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{err: errors.New("keeps failing")}

	require.NoError(t, s.AddJob("@every 1s", job))
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return job.runs.Load() >= 2 }, 5*time.Second, 50*time.Millisecond,
		"a failing job must keep being scheduled")
}

func TestScheduler_RunNow(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{err: errors.New("boom")}

	err := s.RunNow(job)

	assert.EqualError(t, err, "boom")
	assert.Equal(t, int32(1), job.runs.Load())
}

type fakePurger struct {
	deleted int64
	err     error
	called  bool
}

func (p *fakePurger) PurgeExpiredRevocations(ctx context.Context) (int64, error) {
	p.called = true
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("expected a deadline")
	}
	return p.deleted, p.err
}

func TestTokenCleanupJob(t *testing.T) {
	t.Run("purges with a bounded context", func(t *testing.T) {
		purger := &fakePurger{deleted: 3}
		job := NewTokenCleanupJob(purger, zerolog.Nop())

		require.NoError(t, job.Run())
		assert.True(t, purger.called)
		assert.Equal(t, "token_cleanup", job.Name())
	})

	t.Run("returns store errors", func(t *testing.T) {
		job := NewTokenCleanupJob(&fakePurger{err: errors.New("locked")}, zerolog.Nop())
		assert.Error(t, job.Run())
	})

	t.Run("deletes expired revocations end to end", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		user := testutil.NewUser().Build(t, db)
		_, err := db.Exec(`INSERT INTO revoked_token (jti, user_id, expires_at) VALUES (?, ?, ?), (?, ?, ?)`,
			testutil.MakeID(), user.ID, "2000-01-01T00:00:00.000000Z",
			testutil.MakeID(), user.ID, "2999-01-01T00:00:00.000000Z",
		)
		require.NoError(t, err)

		job := NewTokenCleanupJob(testutil.NewTestAuthService(t, db), zerolog.Nop())

		require.NoError(t, job.Run())
		testutil.AssertRowCount(t, db, "revoked_token", 1)
	})
}

func TestMaintenanceJob(t *testing.T) {
	db := testutil.SetupTestDB(t)
	job := NewMaintenanceJob(db, zerolog.Nop())

	assert.Equal(t, "database_maintenance", job.Name())
	assert.NoError(t, job.Run())

	db.Close()
	assert.Error(t, job.Run())
}

type fakeBackuper struct {
	location string
	err      error
}

func (b fakeBackuper) Run(context.Context) (string, error) {
	return b.location, b.err
}

func TestBackupJob(t *testing.T) {
	ok := NewBackupJob(fakeBackuper{location: "s3://bucket/stock-ledger/x.db"}, zerolog.Nop())
	assert.Equal(t, "database_backup", ok.Name())
	assert.NoError(t, ok.Run())

	failing := NewBackupJob(fakeBackuper{err: errors.New("access denied")}, zerolog.Nop())
	assert.EqualError(t, failing.Run(), "access denied")
}
