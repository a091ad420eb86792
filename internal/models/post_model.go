package models

import (
	"strings"
	"time"

	"github.com/spf13/cast"
)

const (
	PostStatusDraft         = "Draft"
	PostStatusNeedsApproval = "Needs Approval"
	PostStatusApproved      = "Approved"
	PostStatusDeclined      = "Declined"
	PostStatusScheduled     = "Scheduled"
	PostStatusPublished     = "Published"
)

const (
	ImageSizeSquare    = "square"
	ImageSizeLandscape = "landscape"
	ImageSizePortrait  = "portrait"
)

// Local field names of the posts table.
const (
	PostFieldHeadline       = "headline"
	PostFieldSummary        = "summary"
	PostFieldSourceURL      = "sourceUrl"
	PostFieldSocialChannels = "socialChannels"
	PostFieldTwitter        = "twitter"
	PostFieldLinkedIn       = "linkedin"
	PostFieldInstagram      = "instagram"
	PostFieldFacebook       = "facebook"
	PostFieldBlog           = "blog"
	PostFieldNeedsImage     = "needsImage"
	PostFieldImageSize      = "imageSize"
	PostFieldStatus         = "status"
	PostFieldScheduledAt    = "scheduledAt"
	PostFieldImage          = "image"
)

var Platforms = []string{
	PostFieldTwitter,
	PostFieldLinkedIn,
	PostFieldInstagram,
	PostFieldFacebook,
	PostFieldBlog,
}

var PostStatuses = []string{
	PostStatusDraft,
	PostStatusNeedsApproval,
	PostStatusApproved,
	PostStatusDeclined,
	PostStatusScheduled,
	PostStatusPublished,
}

var ImageSizes = []string{ImageSizeSquare, ImageSizeLandscape, ImageSizePortrait}

type Post struct {
	ID             string            `json:"id"`
	Headline       string            `json:"headline"`
	Summary        string            `json:"summary"`
	SourceURL      string            `json:"sourceUrl"`
	SocialChannels string            `json:"socialChannels"`
	Copy           map[string]string `json:"copy"`
	NeedsImage     bool              `json:"needsImage"`
	ImageSize      string            `json:"imageSize"`
	Status         string            `json:"status"`
	ScheduledAt    *time.Time        `json:"scheduledAt,omitempty"`
	Images         []Attachment      `json:"images,omitempty"`
	CreatedTime    time.Time         `json:"createdTime"`
}

func PostFromRecord(r Record) Post {
	p := Post{
		ID:             r.ID,
		Headline:       r.Fields.String(PostFieldHeadline),
		Summary:        r.Fields.String(PostFieldSummary),
		SourceURL:      r.Fields.String(PostFieldSourceURL),
		SocialChannels: r.Fields.String(PostFieldSocialChannels),
		NeedsImage:     r.Fields.Bool(PostFieldNeedsImage),
		ImageSize:      r.Fields.String(PostFieldImageSize),
		Status:         r.Fields.String(PostFieldStatus),
		Images:         ParseAttachments(r.Fields[PostFieldImage]),
		CreatedTime:    r.CreatedTime,
		Copy:           map[string]string{},
	}
	for _, platform := range Platforms {
		if text := r.Fields.String(platform); text != "" {
			p.Copy[platform] = text
		}
	}
	if raw, ok := r.Fields[PostFieldScheduledAt]; ok && raw != nil && raw != "" {
		if at, err := cast.ToTimeE(raw); err == nil {
			p.ScheduledAt = &at
		}
	}
	return p
}

// Channels splits the canonical "a, b" channel string.
func (p Post) Channels() []string {
	return SplitList(p.SocialChannels)
}

func ApprovalQueue(posts []Post) []Post {
	return filterByStatus(posts, PostStatusNeedsApproval)
}

func PublishQueue(posts []Post) []Post {
	return filterByStatus(posts, PostStatusApproved)
}

func filterByStatus(posts []Post, status string) []Post {
	out := []Post{}
	for _, p := range posts {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out
}

var transitions = map[string][]string{
	PostStatusDraft:         {PostStatusNeedsApproval},
	PostStatusNeedsApproval: {PostStatusApproved, PostStatusDeclined},
	PostStatusDeclined:      {PostStatusNeedsApproval},
	PostStatusApproved:      {PostStatusNeedsApproval},
}

// CanTransition reports whether the dashboard may move a post from one
// status to another. Scheduled and Published are set by external
// automations only.
func CanTransition(from, to string) bool {
	if from == "" {
		from = PostStatusDraft
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func IsPostStatus(status string) bool {
	return contains(PostStatuses, status)
}

func IsImageSize(size string) bool {
	return contains(ImageSizes, size)
}

// SplitList splits a comma separated list, trimming blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// JoinList is the canonical list encoding used for multi-value fields.
func JoinList(items []string) string {
	return strings.Join(items, ", ")
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
