package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/voxlate/dubber-api/internal/models"
)

type service struct {
	repo Repository
}

// NewService creates a new job service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) EnqueueJob(ctx context.Context, jobType models.JobType, payload models.JobPayload) (*models.Job, error) {
	job := &models.Job{
		Type:    jobType,
		Status:  models.JobStatusPending,
		Payload: payload,
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("creating job: %w", err)
	}
	log.Printf("[DEBUG] Enqueued %s job ID %d", jobType, job.ID)
	return job, nil
}

func (s *service) EnqueueUniqueJob(ctx context.Context, jobType models.JobType, payload models.JobPayload, uniqueKey string) (*models.Job, error) {
	uniqueValue, ok := payload[uniqueKey]
	if !ok {
		return nil, fmt.Errorf("unique key %s not found in payload", uniqueKey)
	}

	// Only an unclaimed pending job satisfies uniqueness. A processing
	// row may be an orphan from a crashed process; reusing it would mean
	// nothing ever picks the work up again, since workers only claim
	// pending rows.
	existing, err := s.repo.GetJobByTypeAndPayload(ctx, jobType, uniqueKey, fmt.Sprintf("%v", uniqueValue))
	if err == nil && existing != nil && existing.Status == models.JobStatusPending {
		log.Printf("[DEBUG] Job already exists for %s with %s=%v (ID: %d, Status: %s)",
			jobType, uniqueKey, uniqueValue, existing.ID, existing.Status)
		return existing, nil
	}

	return s.EnqueueJob(ctx, jobType, payload)
}

func (s *service) GetJob(ctx context.Context, jobID uint) (*models.Job, error) {
	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, ErrJobNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("getting job: %w", err)
	}
	return job, nil
}

func (s *service) GetJobForTimeline(ctx context.Context, jobType models.JobType, timelineID uint) (*models.Job, error) {
	job, err := s.repo.GetJobByTypeAndPayload(ctx, jobType, "timeline_id", fmt.Sprintf("%d", timelineID))
	if err != nil {
		if errors.Is(err, ErrJobNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("getting job for timeline: %w", err)
	}
	return job, nil
}

func (s *service) ClaimNextJob(ctx context.Context, workerID string, jobTypes []models.JobType) (*models.Job, error) {
	job, err := s.repo.ClaimNextJob(ctx, workerID, jobTypes)
	if err != nil {
		if errors.Is(err, ErrNoJobsAvailable) {
			return nil, err
		}
		return nil, fmt.Errorf("claiming job: %w", err)
	}
	log.Printf("[DEBUG] Worker %s claimed %s job ID %d", workerID, job.Type, job.ID)
	return job, nil
}

func (s *service) UpdateProgress(ctx context.Context, jobID uint, progress int) error {
	if err := s.repo.UpdateJobProgress(ctx, jobID, progress); err != nil {
		if errors.Is(err, ErrJobNotFound) {
			return err
		}
		return fmt.Errorf("updating job progress: %w", err)
	}
	return nil
}

func (s *service) CompleteJob(ctx context.Context, jobID uint, result models.JobResult) error {
	if err := s.repo.CompleteJob(ctx, jobID, result); err != nil {
		if errors.Is(err, ErrJobNotFound) {
			return err
		}
		return fmt.Errorf("completing job: %w", err)
	}
	log.Printf("[DEBUG] Job %d completed successfully", jobID)
	return nil
}

func (s *service) FailJob(ctx context.Context, jobID uint, err error) error {
	errorMsg := err.Error()
	if err := s.repo.FailJob(ctx, jobID, errorMsg); err != nil {
		if errors.Is(err, ErrJobNotFound) {
			return err
		}
		return fmt.Errorf("failing job: %w", err)
	}
	log.Printf("[ERROR] Job %d failed: %s", jobID, errorMsg)
	return nil
}

func (s *service) FailJobWithDetails(ctx context.Context, jobID uint, errorType models.JobErrorType, errorCode, errorMsg, errorDetails string) error {
	if err := s.repo.FailJobWithDetails(ctx, jobID, errorType, errorCode, errorMsg, errorDetails); err != nil {
		if errors.Is(err, ErrJobNotFound) {
			return err
		}
		return fmt.Errorf("failing job with details: %w", err)
	}
	log.Printf("[ERROR] Job %d failed with %s error %q: %s", jobID, errorType, errorCode, errorMsg)
	return nil
}

func (s *service) CleanupOldJobs(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, fmt.Errorf("retention days must be positive")
	}
	cutoffTime := time.Now().AddDate(0, 0, -retentionDays)
	deleted, err := s.repo.DeleteOldJobs(ctx, cutoffTime)
	if err != nil {
		return 0, fmt.Errorf("cleaning up old jobs: %w", err)
	}
	if deleted > 0 {
		log.Printf("[DEBUG] Deleted %d old jobs (older than %d days)", deleted, retentionDays)
	}
	return deleted, nil
}
