package dto

import "time"

// Requests

type CreateSessionRequest struct {
	ProjectId string `json:"project_id"`
}

type SendMessageRequest struct {
	Message string `json:"message" validate:"required,min=1"`
}

// Responses

type MessageResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type SessionResponse struct {
	SessionId string    `json:"session_id"`
	ProjectId string    `json:"project_id"`
	Status    string    `json:"status"`
	Phase     string    `json:"phase"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateSessionResponse struct {
	Session  SessionResponse   `json:"session"`
	Messages []MessageResponse `json:"messages"`
}

type SendMessageResponse struct {
	Messages   []MessageResponse `json:"messages"`
	Phase      string            `json:"phase"`
	IsComplete bool              `json:"is_complete"`
	Score      int               `json:"score"`
	Progress   int               `json:"progress_percent"`
}

type HistoryResponse struct {
	SessionId string            `json:"session_id"`
	Messages  []MessageResponse `json:"messages"`
}

type ProgressResponse struct {
	SessionId     string   `json:"session_id"`
	Phase         string   `json:"phase"`
	Score         int      `json:"score"`
	QuestionCount int      `json:"question_count"`
	MaxQuestions  int      `json:"max_questions"`
	CriticalGaps  []string `json:"critical_gaps,omitempty"`
	PhaseStrategy string   `json:"phase_strategy,omitempty"`
}

type DesignProgressResponse struct {
	SessionId            string    `json:"session_id"`
	Status               string    `json:"status"`
	CurrentPhase         string    `json:"current_phase"`
	PhaseDescription     string    `json:"phase_description"`
	ProgressPercent      int       `json:"progress_percent"`
	EstimatedSecondsLeft int       `json:"estimated_seconds_left,omitempty"`
	LastUpdated          time.Time `json:"last_updated"`
}
