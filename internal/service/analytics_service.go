package service

import (
	"context"
	"sort"

	"github.com/maheshrc27/contentdesk/internal/airtable"
	"github.com/maheshrc27/contentdesk/internal/models"
	"github.com/maheshrc27/contentdesk/internal/transfer"
	"github.com/maheshrc27/contentdesk/internal/workspace"
)

type AnalyticsService interface {
	Summary(ctx context.Context, userID int64) (*transfer.Analytics, error)
}

type analyticsService struct {
	registry *workspace.Registry
}

func NewAnalyticsService(registry *workspace.Registry) AnalyticsService {
	return &analyticsService{registry: registry}
}

// Summary charts what the store holds; drafts and unsaved edits are left out.
func (s *analyticsService) Summary(ctx context.Context, userID int64) (*transfer.Analytics, error) {
	w, err := s.registry.Open(ctx, userID, airtable.TablePosts)
	if err != nil {
		return nil, err
	}
	records := w.PrimaryRecords()
	posts := make([]models.Post, 0, len(records))
	for _, r := range records {
		posts = append(posts, models.PostFromRecord(r))
	}
	return Summarize(posts), nil
}

// Summarize groups posts for the dashboard charts. A post counts once for
// every platform it targets; a post without channels counts for every
// platform it has copy for. Days come from scheduledAt, else createdTime.
func Summarize(posts []models.Post) *transfer.Analytics {
	out := &transfer.Analytics{
		Total:      len(posts),
		ByStatus:   map[string]int{},
		ByPlatform: map[string]int{},
		ByDay:      []transfer.DayCount{},
	}

	days := map[string]*transfer.DayCount{}
	for _, p := range posts {
		status := p.Status
		if status == "" {
			status = models.PostStatusDraft
		}
		out.ByStatus[status]++

		platforms := postPlatforms(p)
		for _, platform := range platforms {
			out.ByPlatform[platform]++
		}

		day := ""
		if p.ScheduledAt != nil {
			day = p.ScheduledAt.UTC().Format("2006-01-02")
		} else if !p.CreatedTime.IsZero() {
			day = p.CreatedTime.UTC().Format("2006-01-02")
		}
		if day == "" {
			continue
		}
		dc, ok := days[day]
		if !ok {
			dc = &transfer.DayCount{Day: day, ByPlatform: map[string]int{}}
			days[day] = dc
		}
		dc.Total++
		for _, platform := range platforms {
			dc.ByPlatform[platform]++
		}
	}

	for _, dc := range days {
		out.ByDay = append(out.ByDay, *dc)
	}
	sort.Slice(out.ByDay, func(i, j int) bool { return out.ByDay[i].Day < out.ByDay[j].Day })
	return out
}

func postPlatforms(p models.Post) []string {
	if channels := p.Channels(); len(channels) > 0 {
		return channels
	}
	var out []string
	for _, platform := range models.Platforms {
		if _, ok := p.Copy[platform]; ok {
			out = append(out, platform)
		}
	}
	return out
}
