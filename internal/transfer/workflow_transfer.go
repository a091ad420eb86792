package transfer

import "encoding/json"

type ContentRequest struct {
	Headline   string   `json:"headline"`
	Summary    string   `json:"summary"`
	SourceURL  string   `json:"sourceUrl"`
	Channels   []string `json:"channels"`
	NeedsImage bool     `json:"needsImage"`
	ImageSize  string   `json:"imageSize"`
	StyleID    string   `json:"styleId,omitempty"`
	PostID     string   `json:"postId,omitempty"`
}

type CampaignRequest struct {
	Name     string   `json:"name"`
	Goal     string   `json:"goal"`
	Audience string   `json:"audience"`
	Channels []string `json:"channels"`
	Posts    int      `json:"posts"`
}

type IdeaRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

type TriggerResult struct {
	RequestID string          `json:"requestId"`
	Workflow  string          `json:"workflow"`
	Attempts  int             `json:"attempts"`
	Response  json.RawMessage `json:"response,omitempty"`
}
