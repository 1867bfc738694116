package workers

import (
	"context"
	"fmt"
	"log"

	"github.com/voxlate/dubber-api/internal/models"
	"github.com/voxlate/dubber-api/internal/services/dubbing"
	"github.com/voxlate/dubber-api/internal/services/jobs"
)

// SeparationProcessor drives standalone stem-separation jobs
type SeparationProcessor struct {
	jobService   jobs.Service
	orchestrator dubbing.Orchestrator
}

// NewSeparationProcessor creates a new separation processor
func NewSeparationProcessor(jobService jobs.Service, orchestrator dubbing.Orchestrator) *SeparationProcessor {
	return &SeparationProcessor{
		jobService:   jobService,
		orchestrator: orchestrator,
	}
}

// CanProcess returns true if this processor can handle the job type
func (p *SeparationProcessor) CanProcess(jobType models.JobType) bool {
	return jobType == models.JobTypeAudioSeparation
}

// ProcessJob runs separation for the job's timeline
func (p *SeparationProcessor) ProcessJob(ctx context.Context, job *models.Job) error {
	if !p.CanProcess(job.Type) {
		return fmt.Errorf("unsupported job type: %s", job.Type)
	}

	timelineID, ok := job.GetPayloadUint("timeline_id")
	if !ok {
		return models.NewSeparationError("invalid_payload", "timeline_id not found in payload", "", nil)
	}

	log.Printf("Processing audio separation job %d for timeline %d", job.ID, timelineID)

	if err := p.orchestrator.RunSeparation(ctx, timelineID); err != nil {
		return models.NewSeparationError("separation_failed",
			fmt.Sprintf("audio separation failed for timeline %d", timelineID),
			err.Error(), err)
	}

	if err := p.jobService.CompleteJob(ctx, job.ID, models.JobResult{"timeline_id": timelineID}); err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}
	return nil
}
