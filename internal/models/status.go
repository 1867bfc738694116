package models

// SeparationState is the lifecycle of the stem-separation step
type SeparationState string

const (
	SeparationPending    SeparationState = "pending"
	SeparationProcessing SeparationState = "processing"
	SeparationCompleted  SeparationState = "completed"
	SeparationFailed     SeparationState = "failed"
)

// SeparationStatus tracks one timeline's vocal/bgm/sfx separation.
// Ephemeral: lives in the status store for the process's uptime and is
// overwritten on every re-trigger.
type SeparationStatus struct {
	Status     SeparationState `json:"status"`
	VocalsPath string          `json:"vocals_path,omitempty"`
	BgmPath    string          `json:"bgm_path,omitempty"`
	SfxPath    string          `json:"sfx_path,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// DubbingStage is one step of the dubbing pipeline state machine
type DubbingStage string

const (
	DubbingPending           DubbingStage = "pending"
	DubbingSeparating        DubbingStage = "separating"
	DubbingExtractingSamples DubbingStage = "extracting_samples"
	DubbingSynthesizing      DubbingStage = "synthesizing"
	DubbingMixing            DubbingStage = "mixing"
	DubbingCompleted         DubbingStage = "completed"
	DubbingFailed            DubbingStage = "failed"
)

// InProgress returns true while a pipeline run holds the timeline
func (s DubbingStage) InProgress() bool {
	switch s {
	case DubbingSeparating, DubbingExtractingSamples, DubbingSynthesizing, DubbingMixing:
		return true
	}
	return false
}

// Terminal returns true once the pipeline has finished or failed
func (s DubbingStage) Terminal() bool {
	return s == DubbingCompleted || s == DubbingFailed
}

// DubbingStatus tracks one timeline's pipeline run. Like
// SeparationStatus it is ephemeral and keyed by timeline id; it is not
// persisted with the timeline.
type DubbingStatus struct {
	Status             DubbingStage `json:"status"`
	Progress           int          `json:"progress"`
	CurrentStep        string       `json:"current_step,omitempty"`
	DubbedSegmentCount int          `json:"dubbed_segment_count"`
	TotalSegmentCount  int          `json:"total_segment_count"`
	Error              string       `json:"error,omitempty"`
}
