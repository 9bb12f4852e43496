package domain

import "time"

// Question is a single multiple-choice prompt in an assessment step
type Question struct {
	ID       string   `json:"id" yaml:"id"`
	Prompt   string   `json:"prompt" yaml:"prompt"`
	Options  []string `json:"options" yaml:"options"`
	Selected *int     `json:"selected,omitempty" yaml:"-"`
	Comment  string   `json:"comment,omitempty" yaml:"-"`
}

// Category is one wizard step: a named group of questions
type Category struct {
	Key       string     `json:"key" yaml:"key"`
	Name      string     `json:"name" yaml:"name"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Answer is the recorded response to a question
type Answer struct {
	QuestionID  string `json:"question_id"`
	OptionIndex int    `json:"option_index"`
	Comment     string `json:"comment,omitempty"`
}

// Attachment is a local file attached to a wizard step
type Attachment struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// Assessment summarizes a submitted assessment
type Assessment struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Status      string    `json:"status"`
	HealthScore float64   `json:"health_score"`
	CreatedAt   time.Time `json:"created_at"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
}

// CategoryScore is the score of one category in a report
type CategoryScore struct {
	Key      string  `json:"key"`
	Name     string  `json:"name"`
	Percent  float64 `json:"percent"`
	Answered int     `json:"answered"`
	Total    int     `json:"total"`
}

// AssessmentReport is the scored outcome of an assessment
type AssessmentReport struct {
	AssessmentID string          `json:"assessment_id,omitempty"`
	HealthScore  float64         `json:"health_score"`
	Categories   []CategoryScore `json:"categories"`
	Strengths    []string        `json:"strengths,omitempty"`
	Weaknesses   []string        `json:"weaknesses,omitempty"`
}

// AnswerSubmission is the payload for submitting assessment answers
type AnswerSubmission struct {
	Answers []Answer `json:"answers"`
}

// SubmissionResult is returned after answers are stored
type SubmissionResult struct {
	AssessmentID string `json:"assessment_id"`
	Saved        int    `json:"saved"`
}
