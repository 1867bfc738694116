// Package cleanup prunes the server's accumulating state: staged
// source-video downloads left in the temp directory and finished job
// rows past their retention window.
package cleanup

import (
	"context"
	"log"
	"time"

	"github.com/voxlate/dubber-api/internal/services/jobs"
	"github.com/voxlate/dubber-api/pkg/download"
)

// Service handles periodic cleanup of temp files and old jobs
type Service struct {
	jobService      jobs.Service
	tempDir         string
	maxTempAge      time.Duration
	jobRetention    int
	cleanupInterval time.Duration
	cancel          context.CancelFunc
}

// NewService creates a new cleanup service. jobRetention is in days; a
// zero or negative value disables job pruning.
func NewService(jobService jobs.Service, tempDir string, maxTempAge time.Duration, jobRetention int, cleanupInterval time.Duration) *Service {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Hour
	}
	return &Service{
		jobService:      jobService,
		tempDir:         tempDir,
		maxTempAge:      maxTempAge,
		jobRetention:    jobRetention,
		cleanupInterval: cleanupInterval,
	}
}

// Start begins the cleanup service
func (s *Service) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	// Run initial cleanup
	s.cleanup(ctx)

	go func() {
		ticker := time.NewTicker(s.cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.cleanup(ctx)
			case <-ctx.Done():
				log.Println("[INFO] Cleanup service stopped")
				return
			}
		}
	}()

	log.Printf("[INFO] Cleanup service started (interval: %v, temp max age: %v, job retention: %d days)",
		s.cleanupInterval, s.maxTempAge, s.jobRetention)
}

// Stop stops the cleanup service
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Service) cleanup(ctx context.Context) {
	if s.tempDir != "" && s.maxTempAge > 0 {
		if err := download.CleanupOldTempFiles(s.tempDir, s.maxTempAge); err != nil {
			log.Printf("[ERROR] Temp file cleanup failed: %v", err)
		}
	}

	if s.jobService != nil && s.jobRetention > 0 {
		removed, err := s.jobService.CleanupOldJobs(ctx, s.jobRetention)
		if err != nil {
			log.Printf("[ERROR] Job cleanup failed: %v", err)
		} else if removed > 0 {
			log.Printf("[DEBUG] Removed %d old jobs", removed)
		}
	}
}
