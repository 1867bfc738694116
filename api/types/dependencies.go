package types

import (
	"github.com/voxlate/dubber-api/internal/database"
	"github.com/voxlate/dubber-api/internal/services/artifacts"
	"github.com/voxlate/dubber-api/internal/services/dubbing"
	"github.com/voxlate/dubber-api/internal/services/dubconfig"
	"github.com/voxlate/dubber-api/internal/services/jobs"
	"github.com/voxlate/dubber-api/internal/services/speakers"
	"github.com/voxlate/dubber-api/internal/services/status"
	"github.com/voxlate/dubber-api/internal/services/timelines"
	"github.com/voxlate/dubber-api/internal/services/workers"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB              *database.DB
	TimelineService timelines.Service
	ConfigService   dubconfig.Service
	SpeakerService  speakers.Service
	StatusStore     status.Store
	Orchestrator    dubbing.Orchestrator
	JobService      jobs.Service
	WorkerPool      *workers.WorkerPool
	Artifacts       artifacts.Store
}
