package transfer

import (
	"time"

	"github.com/maheshrc27/contentdesk/internal/models"
)

// PostView is a post as the dashboard renders it: primary record with
// pending edits applied, plus the dirty marker.
type PostView struct {
	models.Post
	Dirty bool `json:"dirty"`
}

// RecordView carries a merged record of any table with its dirty marker.
type RecordView struct {
	Record models.Record `json:"record"`
	Dirty  bool          `json:"dirty"`
}

type PostEdit struct {
	Fields map[string]any `json:"fields"`
}

type StatusChange struct {
	Status string `json:"status"`
}

type ScheduleRequest struct {
	ScheduledAt time.Time `json:"scheduledAt"`
}

type SaveAllResponse struct {
	Saved  []string          `json:"saved"`
	Failed map[string]string `json:"failed"`
}

type Guidelines struct {
	Main   *models.BrandGuideline  `json:"main"`
	Styles []models.BrandGuideline `json:"styles"`
	Dirty  []string                `json:"dirty"`
}

type StyleRequest struct {
	StyleName   string `json:"styleName"`
	StylePrompt string `json:"stylePrompt"`
}

type Prompts struct {
	Prompts []models.WritingPrompt `json:"prompts"`
	Dirty   []string               `json:"dirty"`
}

type GuidelineText struct {
	Guidelines string `json:"guidelines"`
}

type PromptEdit struct {
	Prompt string `json:"prompt"`
}

type SourceRequest struct {
	URL string `json:"url"`
}
