package dto

// LogSessionRequest is the payload for persisting a completed practice
// session. The owning user is always resolved server-side from the JWT, so
// the body carries no user identifier.
type LogSessionRequest struct {
	ModuleType string                 `json:"module_type" validate:"required"`
	TaskName   *string                `json:"task_name"`
	Scores     map[string]interface{} `json:"scores"`
	UserInput  map[string]interface{} `json:"user_input" validate:"required"`
	AIFeedback string                 `json:"ai_feedback" validate:"required"`
}
