package types

import (
	"time"

	"proposal_ai_server/internal/orchestrator"
	"proposal_ai_server/internal/proposal"
)

// GenerateRequest carries the raw project notes, from JSON or the form.
// Blank notes pass binding and are rejected by the orchestrator.
type GenerateRequest struct {
	Notes     string `json:"notes" form:"notes" binding:"max=50000"`
	SessionID string `json:"sessionId" form:"sessionId" binding:"omitempty,max=64"` // empty starts a new session
}

type GenerateResponse struct {
	SessionID string              `json:"sessionId"`
	Proposal  *proposal.Document  `json:"proposal"`
	Images    orchestrator.Report `json:"images"`
}

// StatusResponse reports where a session's generation stands.
type StatusResponse struct {
	SessionID string    `json:"sessionId"`
	State     string    `json:"state"`
	Error     string    `json:"error,omitempty"`
	Pages     int       `json:"pages,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}
