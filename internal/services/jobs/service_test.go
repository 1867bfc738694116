package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voxlate/dubber-api/internal/database"
	"github.com/voxlate/dubber-api/internal/models"
)

func newTestService(t *testing.T) (Service, *database.DB) {
	t.Helper()
	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.AutoMigrate(&models.Job{}))
	return NewService(NewRepository(db.DB)), db
}

func TestEnqueueJob(t *testing.T) {
	svc, _ := newTestService(t)

	job, err := svc.EnqueueJob(context.Background(), models.JobTypeDubbingGeneration, models.JobPayload{"timeline_id": uint(1)})
	require.NoError(t, err)

	assert.NotZero(t, job.ID)
	assert.Equal(t, models.JobStatusPending, job.Status)
	assert.Equal(t, models.JobTypeDubbingGeneration, job.Type)

	loaded, err := svc.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	id, ok := loaded.GetPayloadUint("timeline_id")
	assert.True(t, ok)
	assert.Equal(t, uint(1), id)
}

func TestEnqueueUniqueJobDedupes(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	payload := models.JobPayload{"timeline_id": uint(7)}

	first, err := svc.EnqueueUniqueJob(ctx, models.JobTypeAudioSeparation, payload, "timeline_id")
	require.NoError(t, err)

	second, err := svc.EnqueueUniqueJob(ctx, models.JobTypeAudioSeparation, payload, "timeline_id")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "a pending job for the same timeline is reused")

	// A different timeline gets its own job
	other, err := svc.EnqueueUniqueJob(ctx, models.JobTypeAudioSeparation, models.JobPayload{"timeline_id": uint(8)}, "timeline_id")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)

	// A different job type for the same timeline gets its own job too
	dubbing, err := svc.EnqueueUniqueJob(ctx, models.JobTypeDubbingGeneration, payload, "timeline_id")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, dubbing.ID)
}

func TestEnqueueUniqueJobAfterTerminal(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	payload := models.JobPayload{"timeline_id": uint(7)}

	first, err := svc.EnqueueUniqueJob(ctx, models.JobTypeDubbingGeneration, payload, "timeline_id")
	require.NoError(t, err)

	claimed, err := svc.ClaimNextJob(ctx, "worker-1", []models.JobType{models.JobTypeDubbingGeneration})
	require.NoError(t, err)
	require.NoError(t, svc.CompleteJob(ctx, claimed.ID, models.JobResult{"output": "/out/dubbed.mp4"}))

	second, err := svc.EnqueueUniqueJob(ctx, models.JobTypeDubbingGeneration, payload, "timeline_id")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID, "terminal jobs never block a fresh enqueue")
}

func TestEnqueueUniqueJobIgnoresOrphanedProcessing(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	payload := models.JobPayload{"timeline_id": uint(7)}

	// A claimed job left behind by a crashed process stays processing
	// forever; nothing will ever complete it.
	orphan, err := svc.EnqueueUniqueJob(ctx, models.JobTypeDubbingGeneration, payload, "timeline_id")
	require.NoError(t, err)
	claimed, err := svc.ClaimNextJob(ctx, "worker-1", []models.JobType{models.JobTypeDubbingGeneration})
	require.NoError(t, err)
	require.Equal(t, orphan.ID, claimed.ID)
	require.Equal(t, models.JobStatusProcessing, claimed.Status)

	// A re-trigger must get a fresh pending job, not the orphan, or the
	// timeline could never be dubbed again until cleanup retention.
	fresh, err := svc.EnqueueUniqueJob(ctx, models.JobTypeDubbingGeneration, payload, "timeline_id")
	require.NoError(t, err)
	assert.NotEqual(t, orphan.ID, fresh.ID)
	assert.Equal(t, models.JobStatusPending, fresh.Status)

	reclaimed, err := svc.ClaimNextJob(ctx, "worker-2", []models.JobType{models.JobTypeDubbingGeneration})
	require.NoError(t, err)
	assert.Equal(t, fresh.ID, reclaimed.ID)
}

func TestEnqueueUniqueJobMissingKey(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.EnqueueUniqueJob(context.Background(), models.JobTypeDubbingGeneration, models.JobPayload{}, "timeline_id")
	assert.Error(t, err)
}

func TestClaimNextJob(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.EnqueueJob(ctx, models.JobTypeAudioSeparation, models.JobPayload{"timeline_id": uint(1)})
	require.NoError(t, err)
	_, err = svc.EnqueueJob(ctx, models.JobTypeDubbingGeneration, models.JobPayload{"timeline_id": uint(2)})
	require.NoError(t, err)

	claimed, err := svc.ClaimNextJob(ctx, "worker-1", []models.JobType{models.JobTypeAudioSeparation})
	require.NoError(t, err)
	assert.Equal(t, first.ID, claimed.ID)
	assert.Equal(t, models.JobStatusProcessing, claimed.Status)
	assert.Equal(t, "worker-1", claimed.WorkerID)
	assert.NotNil(t, claimed.StartedAt)

	// The claimed job cannot be claimed again
	_, err = svc.ClaimNextJob(ctx, "worker-2", []models.JobType{models.JobTypeAudioSeparation})
	assert.ErrorIs(t, err, ErrNoJobsAvailable)
}

func TestClaimNextJobNonePending(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ClaimNextJob(context.Background(), "worker-1", nil)
	assert.ErrorIs(t, err, ErrNoJobsAvailable)
}

func TestUpdateProgress(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	job, err := svc.EnqueueJob(ctx, models.JobTypeDubbingGeneration, models.JobPayload{"timeline_id": uint(1)})
	require.NoError(t, err)

	// Progress only applies to processing jobs
	assert.ErrorIs(t, svc.UpdateProgress(ctx, job.ID, 50), ErrJobNotFound)

	claimed, err := svc.ClaimNextJob(ctx, "worker-1", nil)
	require.NoError(t, err)
	require.NoError(t, svc.UpdateProgress(ctx, claimed.ID, 70))

	loaded, err := svc.GetJob(ctx, claimed.ID)
	require.NoError(t, err)
	assert.Equal(t, 70, loaded.Progress)
}

func TestCompleteJob(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	job, err := svc.EnqueueJob(ctx, models.JobTypeDubbingGeneration, models.JobPayload{"timeline_id": uint(1)})
	require.NoError(t, err)
	require.NoError(t, svc.CompleteJob(ctx, job.ID, models.JobResult{"output_video": "/out/dubbed.mp4"}))

	loaded, err := svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, loaded.Status)
	assert.Equal(t, 100, loaded.Progress)
	assert.NotNil(t, loaded.CompletedAt)
	assert.Equal(t, "/out/dubbed.mp4", loaded.Result["output_video"])
	assert.True(t, loaded.IsTerminal())
}

func TestFailJobWithDetails(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	job, err := svc.EnqueueJob(ctx, models.JobTypeDubbingGeneration, models.JobPayload{"timeline_id": uint(1)})
	require.NoError(t, err)

	require.NoError(t, svc.FailJobWithDetails(ctx, job.ID,
		models.ErrorTypeSynthesis, "ENGINE_UNAVAILABLE", "voice clone engine unreachable", "dial tcp: connection refused"))

	loaded, err := svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, loaded.Status)
	assert.Equal(t, "voice clone engine unreachable", loaded.Error)
	assert.Equal(t, string(models.ErrorTypeSynthesis), loaded.ErrorType)
	assert.Equal(t, "ENGINE_UNAVAILABLE", loaded.ErrorCode)
	assert.Equal(t, "dial tcp: connection refused", loaded.ErrorDetails)
	assert.True(t, loaded.IsTerminal())
}

func TestFailJob(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	job, err := svc.EnqueueJob(ctx, models.JobTypeAudioSeparation, models.JobPayload{"timeline_id": uint(1)})
	require.NoError(t, err)
	require.NoError(t, svc.FailJob(ctx, job.ID, errors.New("separation engine returned 500")))

	loaded, err := svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, loaded.Status)
	assert.Equal(t, "separation engine returned 500", loaded.Error)
}

func TestGetJobForTimeline(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	job, err := svc.EnqueueJob(ctx, models.JobTypeAudioSeparation, models.JobPayload{"timeline_id": uint(3)})
	require.NoError(t, err)

	found, err := svc.GetJobForTimeline(ctx, models.JobTypeAudioSeparation, 3)
	require.NoError(t, err)
	assert.Equal(t, job.ID, found.ID)

	_, err = svc.GetJobForTimeline(ctx, models.JobTypeAudioSeparation, 99)
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestGetJobNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetJob(context.Background(), 999)
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestCleanupOldJobs(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	old, err := svc.EnqueueJob(ctx, models.JobTypeDubbingGeneration, models.JobPayload{"timeline_id": uint(1)})
	require.NoError(t, err)
	require.NoError(t, svc.CompleteJob(ctx, old.ID, nil))

	pending, err := svc.EnqueueJob(ctx, models.JobTypeDubbingGeneration, models.JobPayload{"timeline_id": uint(2)})
	require.NoError(t, err)

	// Nothing is old enough yet
	deleted, err := svc.CleanupOldJobs(ctx, 7)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	_, err = svc.CleanupOldJobs(ctx, 0)
	assert.Error(t, err, "retention must be positive")

	// Backdate the completed job past the retention window
	backdated := time.Now().AddDate(0, 0, -8)
	require.NoError(t, db.DB.Model(&models.Job{}).
		Where("id = ?", old.ID).
		Update("created_at", backdated).Error)

	deleted, err = svc.CleanupOldJobs(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = svc.GetJob(ctx, old.ID)
	assert.ErrorIs(t, err, ErrJobNotFound)
	_, err = svc.GetJob(ctx, pending.ID)
	require.NoError(t, err, "non-terminal jobs survive cleanup regardless of age")
}
