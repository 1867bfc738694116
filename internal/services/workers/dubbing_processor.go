package workers

import (
	"context"
	"fmt"
	"log"

	"github.com/voxlate/dubber-api/internal/models"
	"github.com/voxlate/dubber-api/internal/services/dubbing"
	"github.com/voxlate/dubber-api/internal/services/jobs"
	"github.com/voxlate/dubber-api/internal/services/status"
)

// DubbingProcessor drives full dubbing pipeline jobs. It is a thin
// bridge: the orchestrator owns the stage sequencing and the shared
// status record; the processor only mirrors coarse progress onto the
// job row.
type DubbingProcessor struct {
	jobService   jobs.Service
	orchestrator dubbing.Orchestrator
	statuses     status.Store
}

// NewDubbingProcessor creates a new dubbing pipeline processor
func NewDubbingProcessor(jobService jobs.Service, orchestrator dubbing.Orchestrator, statuses status.Store) *DubbingProcessor {
	return &DubbingProcessor{
		jobService:   jobService,
		orchestrator: orchestrator,
		statuses:     statuses,
	}
}

// CanProcess returns true if this processor can handle the job type
func (p *DubbingProcessor) CanProcess(jobType models.JobType) bool {
	return jobType == models.JobTypeDubbingGeneration
}

// ProcessJob runs the dubbing pipeline for the job's timeline
func (p *DubbingProcessor) ProcessJob(ctx context.Context, job *models.Job) error {
	if !p.CanProcess(job.Type) {
		return fmt.Errorf("unsupported job type: %s", job.Type)
	}

	timelineID, ok := job.GetPayloadUint("timeline_id")
	if !ok {
		return models.NewSynthesisError("invalid_payload", "timeline_id not found in payload", "", nil)
	}

	log.Printf("Processing dubbing generation job %d for timeline %d", job.ID, timelineID)

	if err := p.orchestrator.Run(ctx, timelineID); err != nil {
		return models.NewSynthesisError("pipeline_failed",
			fmt.Sprintf("dubbing pipeline failed for timeline %d", timelineID),
			err.Error(), err)
	}

	result := models.JobResult{"timeline_id": timelineID}
	if st, ok := p.statuses.GetDubbing(timelineID); ok {
		result["dubbed_segment_count"] = st.DubbedSegmentCount
		result["total_segment_count"] = st.TotalSegmentCount
	}

	if err := p.jobService.CompleteJob(ctx, job.ID, result); err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}
	return nil
}
