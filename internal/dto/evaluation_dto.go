package dto

import "encoding/json"

// CodeReviewRequest is the payload for the code review practice module.
// UserReview is only required for the reviewer role; the service enforces that.
type CodeReviewRequest struct {
	Role         string `json:"role" validate:"required"`
	CodeToReview string `json:"codeToReview" validate:"required"`
	UserReview   string `json:"userReview"`
}

// InterviewRequest is the payload for the interview practice module. Role is
// the job title the candidate is interviewing for, free text.
type InterviewRequest struct {
	Role     string `json:"role" validate:"required"`
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

// PairProgrammingRequest is the payload for the pair programming module.
// Task and Code are required for the driver role, Instruction for navigator.
type PairProgrammingRequest struct {
	Role        string `json:"role" validate:"required"`
	Task        string `json:"task"`
	Code        string `json:"code"`
	Instruction string `json:"instruction"`
}

// StandupRequest is the payload for the daily stand-up module.
type StandupRequest struct {
	Yesterday string `json:"yesterday" validate:"required"`
	Today     string `json:"today" validate:"required"`
	Blockers  string `json:"blockers"`
}

// WritingRequest is the payload for the technical writing module.
type WritingRequest struct {
	WritingType string `json:"writingType" validate:"required"`
	UserContent string `json:"userContent" validate:"required"`
}

// TextKeyGeneratedCode marks the pair programming navigator variant, whose
// text field on the wire is "generatedCode" rather than "feedback".
const TextKeyGeneratedCode = "generatedCode"

// EvaluationResult is a scored evaluation produced by the AI model. Scores
// holds the module's metric set, every value clamped to [0,100]. TextKey
// names the variant's wire text field; the matching Feedback or
// GeneratedCode field is populated, even when the text is empty.
type EvaluationResult struct {
	Module        string
	Role          string
	Scores        map[string]int
	TextKey       string
	Feedback      string
	GeneratedCode string
}

// MarshalJSON emits the flat evaluation object consumed by the UI: metric
// keys at the top level next to the text key.
func (r EvaluationResult) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(r.Scores)+1)
	for name, score := range r.Scores {
		flat[name] = score
	}
	if r.TextKey == TextKeyGeneratedCode {
		flat[TextKeyGeneratedCode] = r.GeneratedCode
	} else {
		flat["feedback"] = r.Feedback
	}
	return json.Marshal(flat)
}
