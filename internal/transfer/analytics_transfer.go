package transfer

import "github.com/maheshrc27/contentdesk/internal/models"

type DayCount struct {
	Day        string         `json:"day"`
	ByPlatform map[string]int `json:"byPlatform"`
	Total      int            `json:"total"`
}

type Analytics struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"byStatus"`
	ByPlatform map[string]int `json:"byPlatform"`
	ByDay      []DayCount     `json:"byDay"`
}

type SourcePreview struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	SiteName    string `json:"siteName,omitempty"`
}

type UploadResult struct {
	Attachment models.Attachment `json:"attachment"`
	Size       string            `json:"size"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
}
