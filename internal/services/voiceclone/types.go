package voiceclone

// TimeRange is one span of the vocals track where a speaker talks
type TimeRange struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// SegmentInput describes one segment to synthesize in a batch call
type SegmentInput struct {
	SegmentID int     `json:"segment_id"`
	Text      string  `json:"text"`
	Speaker   string  `json:"speaker"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
}

// SegmentResult is the engine's per-segment outcome. DubbedPath is
// empty when the segment could not be synthesized; that is not an
// error at the batch level.
type SegmentResult struct {
	SegmentID  int     `json:"segment_id"`
	DubbedPath string  `json:"dubbed_path"`
	Duration   float64 `json:"duration"`
	Error      string  `json:"error"`
}

// SynthesisResult is the outcome of a single synthesize call
type SynthesisResult struct {
	Path     string
	Duration float64
}

type extractSampleRequest struct {
	VocalsPath string      `json:"vocals_path"`
	SpeakerID  string      `json:"speaker_id"`
	Ranges     []TimeRange `json:"ranges"`
	OutputDir  string      `json:"output_dir"`
}

type extractSampleResponse struct {
	Status     string `json:"status"`
	SamplePath string `json:"sample_path"`
	Message    string `json:"message"`
}

type synthesizeRequest struct {
	Text           string  `json:"text"`
	SamplePath     string  `json:"sample_path"`
	TargetDuration float64 `json:"target_duration"`
	OutputPath     string  `json:"output_path"`
	Language       string  `json:"language"`
}

type synthesizeResponse struct {
	Status   string  `json:"status"`
	Path     string  `json:"path"`
	Duration float64 `json:"duration"`
	Message  string  `json:"message"`
}

type dubSegmentsRequest struct {
	Segments       []SegmentInput    `json:"segments"`
	SpeakerSamples map[string]string `json:"speaker_samples"`
	OutputDir      string            `json:"output_dir"`
	Language       string            `json:"language"`
}

type dubSegmentsResponse struct {
	Status  string          `json:"status"`
	Results []SegmentResult `json:"results"`
	Message string          `json:"message"`
}
