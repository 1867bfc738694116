package api

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/voxlate/dubber-api/api/dubbing"
	"github.com/voxlate/dubber-api/api/health"
	"github.com/voxlate/dubber-api/api/jobs"
	"github.com/voxlate/dubber-api/api/timelines"
	"github.com/voxlate/dubber-api/api/types"
	"github.com/voxlate/dubber-api/api/version"
	_ "github.com/voxlate/dubber-api/docs/swagger"
	"github.com/voxlate/dubber-api/internal/assembler"
	"github.com/voxlate/dubber-api/internal/services/artifacts"
	dubbingService "github.com/voxlate/dubber-api/internal/services/dubbing"
	"github.com/voxlate/dubber-api/internal/services/dubconfig"
	jobsService "github.com/voxlate/dubber-api/internal/services/jobs"
	"github.com/voxlate/dubber-api/internal/services/separation"
	"github.com/voxlate/dubber-api/internal/services/speakers"
	"github.com/voxlate/dubber-api/internal/services/status"
	timelinesService "github.com/voxlate/dubber-api/internal/services/timelines"
	"github.com/voxlate/dubber-api/internal/services/voiceclone"
	"github.com/voxlate/dubber-api/pkg/config"
	"github.com/voxlate/dubber-api/pkg/ffmpeg"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	// Register public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	// Register Swagger documentation route
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(301, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup 404 handler
	engine.NoRoute(NotFoundHandler())

	// API v1 routes
	v1 := engine.Group("/api/v1")

	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if deps == nil {
		deps = &types.Dependencies{}
	}

	if deps.DB == nil || deps.DB.DB == nil {
		return fmt.Errorf("database is required")
	}

	if err := initializeServices(deps, cfg); err != nil {
		return err
	}

	// Timeline review and dubbing routes share one general rate limit;
	// trigger endpoints are cheap (they only enqueue) so no extra tier
	rps := 10
	if cfg.RateLimiting.RequestsPerMinute > 0 {
		rps = cfg.RateLimiting.RequestsPerMinute / 60
		if rps < 1 {
			rps = 1
		}
	}

	timelineGroup := v1.Group("/timelines")
	if cfg.RateLimiting.Enabled {
		timelineGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, rps, rps*2))
	}
	timelines.RegisterRoutes(timelineGroup, deps)
	dubbing.RegisterRoutes(timelineGroup, deps)

	jobGroup := v1.Group("/jobs")
	if cfg.RateLimiting.Enabled {
		jobGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, rps, rps*2))
	}
	jobs.RegisterRoutes(jobGroup, deps)

	return nil
}

// initializeServices fills in any dependencies the caller has not set.
// Tests inject fakes through deps; production wiring lands here.
func initializeServices(deps *types.Dependencies, cfg *config.Config) error {
	db := deps.DB.DB

	if deps.TimelineService == nil {
		deps.TimelineService = timelinesService.NewService(timelinesService.NewRepository(db))
	}
	if deps.ConfigService == nil {
		deps.ConfigService = dubconfig.NewService(dubconfig.NewRepository(db))
	}
	if deps.SpeakerService == nil {
		deps.SpeakerService = speakers.NewService(speakers.NewRepository(db))
	}
	if deps.JobService == nil {
		deps.JobService = jobsService.NewService(jobsService.NewRepository(db))
	}
	if deps.StatusStore == nil {
		deps.StatusStore = status.NewStore()
	}
	if deps.Artifacts == nil {
		store, err := artifacts.NewFilesystemStore(cfg.Storage.ArtifactsDir)
		if err != nil {
			return fmt.Errorf("failed to initialize artifact store: %w", err)
		}
		deps.Artifacts = store
	}

	if deps.Orchestrator == nil {
		ff := ffmpeg.New(cfg.Processing.FFmpegPath, cfg.Processing.FFprobePath, cfg.Processing.FFmpegTimeout)
		builder := assembler.New(cfg.Processing.FFmpegPath, nil)

		deps.Orchestrator = dubbingService.NewOrchestrator(dubbingService.Deps{
			Timelines: deps.TimelineService,
			Speakers:  deps.SpeakerService,
			Configs:   deps.ConfigService,
			Statuses:  deps.StatusStore,
			Separator: separation.NewClient(separation.Config{
				BaseURL:   cfg.Separation.BaseURL,
				UserAgent: cfg.Separation.UserAgent,
				Timeout:   cfg.Separation.Timeout,
			}),
			Cloner: voiceclone.NewClient(voiceclone.Config{
				BaseURL:   cfg.VoiceClone.BaseURL,
				UserAgent: cfg.VoiceClone.UserAgent,
				Timeout:   cfg.VoiceClone.Timeout,
			}),
			Extractor: ff,
			Builder:   builder,
			Artifacts: deps.Artifacts,
		})
	}

	return nil
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(404, gin.H{
			"status":  "error",
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
