package types

// CreateTimelineRequest is the payload for importing a new timeline
type CreateTimelineRequest struct {
	Title           string                 `json:"title"`
	SourceVideoPath string                 `json:"source_video_path"`
	SourceLanguage  string                 `json:"source_language"`
	SourceDuration  float64                `json:"source_duration"`
	Segments        []CreateSegmentRequest `json:"segments" binding:"required"`
}

// CreateSegmentRequest is one segment of an imported timeline
type CreateSegmentRequest struct {
	ID             *int    `json:"id"`
	Start          float64 `json:"start"`
	End            float64 `json:"end"`
	SourceText     string  `json:"source_text"`
	TranslatedText string  `json:"translated_text"`
	Speaker        string  `json:"speaker"`
	State          string  `json:"state"`
}

// UpdateSegmentRequest carries a partial segment update; absent fields
// are left untouched
type UpdateSegmentRequest struct {
	State          *string  `json:"state"`
	TrimStart      *float64 `json:"trim_start"`
	TrimEnd        *float64 `json:"trim_end"`
	SourceText     *string  `json:"source_text"`
	TranslatedText *string  `json:"translated_text"`
}

// BatchUpdateSegmentsRequest applies one state to many segments
type BatchUpdateSegmentsRequest struct {
	SegmentIDs []int  `json:"segment_ids" binding:"required"`
	State      string `json:"state" binding:"required"`
}

// DropRangeRequest drops every segment ending at or before (or
// starting at or after) the cutoff
type DropRangeRequest struct {
	Cutoff float64 `json:"cutoff"`
}

// SplitSegmentRequest splits one segment at character positions in its
// source and translated texts
type SplitSegmentRequest struct {
	SourceSplitIndex     int `json:"source_split_index" binding:"required"`
	TranslatedSplitIndex int `json:"translated_split_index" binding:"required"`
}

// UpdateConfigRequest carries a partial dubbing-config update
type UpdateConfigRequest struct {
	TargetLanguage *string  `json:"target_language"`
	BgmVolume      *float64 `json:"bgm_volume"`
	SfxVolume      *float64 `json:"sfx_volume"`
	VocalVolume    *float64 `json:"vocal_volume"`
	KeepBgm        *bool    `json:"keep_bgm"`
	KeepSfx        *bool    `json:"keep_sfx"`
}

// UpdateSpeakerRequest carries a partial speaker-registry update
type UpdateSpeakerRequest struct {
	DisplayName *string `json:"display_name"`
	Enabled     *bool   `json:"enabled"`
}

// PreviewSegmentRequest auditions one segment, optionally overriding
// its translated text
type PreviewSegmentRequest struct {
	Text string `json:"text"`
}
