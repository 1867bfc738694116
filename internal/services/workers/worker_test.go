package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voxlate/dubber-api/internal/models"
	"github.com/voxlate/dubber-api/internal/services/jobs"
	"github.com/voxlate/dubber-api/internal/services/status"
)

// claimStubJobService scripts the claim outcome; no other Service
// method is reached when the claim does not yield a job
type claimStubJobService struct {
	jobs.Service
	claimErr error
}

func (s *claimStubJobService) ClaimNextJob(ctx context.Context, workerID string, jobTypes []models.JobType) (*models.Job, error) {
	return nil, s.claimErr
}

func TestProcessNextJobClaimErrors(t *testing.T) {
	processor := NewDubbingProcessor(newJobService(t), &stubOrchestrator{}, status.NewStore())

	// An empty queue is the normal idle case and must stay silent
	idle := NewWorker("worker-1", &claimStubJobService{claimErr: jobs.ErrNoJobsAvailable}, time.Second)
	idle.RegisterProcessor(processor)
	assert.NoError(t, idle.processNextJob(context.Background()))

	// Any other claim failure surfaces so the run loop logs it
	broken := NewWorker("worker-1", &claimStubJobService{claimErr: errors.New("database is locked")}, time.Second)
	broken.RegisterProcessor(processor)
	err := broken.processNextJob(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
}

func TestProcessNextJobNoProcessors(t *testing.T) {
	w := NewWorker("worker-1", newJobService(t), time.Second)
	assert.Error(t, w.processNextJob(context.Background()))
}
