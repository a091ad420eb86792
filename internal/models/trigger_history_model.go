package models

import "time"

const (
	WorkflowContent  = "content"
	WorkflowCampaign = "campaign"
	WorkflowIdea     = "idea"
)

type TriggerHistory struct {
	ID           int64     `db:"id" json:"id"`
	RequestID    string    `db:"request_id" json:"request_id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	Workflow     string    `db:"workflow" json:"workflow"`
	Attempts     int       `db:"attempts" json:"attempts"`
	StatusCode   int       `db:"status_code" json:"status_code"`
	ErrorMessage string    `db:"error_message" json:"error_message"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
