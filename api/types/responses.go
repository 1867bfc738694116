package types

// Status constants for API responses
const (
	StatusOK         = "ok"
	StatusError      = "error"
	StatusProcessing = "processing"
	StatusQueued     = "queued"
)

// BaseResponse contains fields common to all API responses
type BaseResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// TriggerResponse for pipeline trigger endpoints. Queued carries the
// background job id so callers can poll /jobs/{id} as well as the
// timeline's status endpoint.
type TriggerResponse struct {
	BaseResponse
	JobID uint `json:"job_id,omitempty"`
}

// BatchUpdateResponse reports how many segments a bulk review
// operation touched
type BatchUpdateResponse struct {
	BaseResponse
	UpdatedCount int64 `json:"updated_count"`
}
