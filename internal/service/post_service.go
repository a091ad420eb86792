package service

import (
	"context"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/maheshrc27/contentdesk/internal/airtable"
	"github.com/maheshrc27/contentdesk/internal/logger"
	"github.com/maheshrc27/contentdesk/internal/models"
	"github.com/maheshrc27/contentdesk/internal/transfer"
	"github.com/maheshrc27/contentdesk/internal/workspace"
	"github.com/maheshrc27/contentdesk/pkg/apperror"
)

// StatusCheckScheduler defers a status verification by delay.
type StatusCheckScheduler interface {
	ScheduleStatusCheck(check models.StatusCheck, delay time.Duration) error
}

type PostService interface {
	List(ctx context.Context, userID int64) ([]transfer.PostView, error)
	Get(ctx context.Context, userID int64, id string) (*transfer.PostView, error)
	Edit(ctx context.Context, userID int64, id string, fields models.Fields) (*transfer.PostView, error)
	Save(ctx context.Context, userID int64, id string) (*transfer.PostView, error)
	SaveAll(ctx context.Context, userID int64) (*transfer.SaveAllResponse, error)
	NewDraft(ctx context.Context, userID int64, fields models.Fields) (*transfer.PostView, error)
	Create(ctx context.Context, userID int64, fields models.Fields) (*transfer.PostView, error)
	Remove(ctx context.Context, userID int64, id string) error
	Discard(ctx context.Context, userID int64, id string) (*transfer.PostView, error)
	Reload(ctx context.Context, userID int64) ([]transfer.PostView, error)
	ApprovalQueue(ctx context.Context, userID int64) ([]transfer.PostView, error)
	PublishQueue(ctx context.Context, userID int64) ([]transfer.PostView, error)
	SetStatus(ctx context.Context, userID int64, id, status string) (*transfer.PostView, error)
	Schedule(ctx context.Context, userID int64, id string, at time.Time) (*transfer.PostView, error)
}

type postService struct {
	registry    *workspace.Registry
	scheduler   StatusCheckScheduler
	verifyDelay time.Duration
}

func NewPostService(registry *workspace.Registry, scheduler StatusCheckScheduler, verifyDelay time.Duration) PostService {
	return &postService{
		registry:    registry,
		scheduler:   scheduler,
		verifyDelay: verifyDelay,
	}
}

func (s *postService) open(ctx context.Context, userID int64) (*workspace.Workspace, error) {
	return s.registry.Open(ctx, userID, airtable.TablePosts)
}

func view(w *workspace.Workspace, r models.Record) transfer.PostView {
	return transfer.PostView{Post: models.PostFromRecord(r), Dirty: w.IsDirty(r.ID)}
}

func views(w *workspace.Workspace, records []models.Record) []transfer.PostView {
	out := make([]transfer.PostView, 0, len(records))
	for _, r := range records {
		out = append(out, view(w, r))
	}
	return out
}

func (s *postService) current(w *workspace.Workspace, id string) (*transfer.PostView, error) {
	r, err := w.Record(id)
	if err != nil {
		return nil, err
	}
	v := view(w, r)
	return &v, nil
}

func (s *postService) List(ctx context.Context, userID int64) ([]transfer.PostView, error) {
	w, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}
	return views(w, w.Records()), nil
}

func (s *postService) Get(ctx context.Context, userID int64, id string) (*transfer.PostView, error) {
	w, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.current(w, id)
}

// errStatusViaEdit keeps status changes on the transition path.
var errStatusViaEdit = apperror.ValidationError("status cannot be edited directly, use PUT /api/posts/:id/status")

func (s *postService) Edit(ctx context.Context, userID int64, id string, fields models.Fields) (*transfer.PostView, error) {
	if len(fields) == 0 {
		return nil, apperror.ValidationError("no fields to edit")
	}
	if _, ok := fields[models.PostFieldStatus]; ok {
		return nil, errStatusViaEdit
	}
	w, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := w.SetFields(id, fields); err != nil {
		return nil, err
	}
	return s.current(w, id)
}

func (s *postService) Save(ctx context.Context, userID int64, id string) (*transfer.PostView, error) {
	w, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}
	saved, err := w.SaveOne(ctx, id)
	if err != nil {
		return nil, err
	}
	v := view(w, saved)
	return &v, nil
}

func (s *postService) SaveAll(ctx context.Context, userID int64) (*transfer.SaveAllResponse, error) {
	w, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := w.SaveAll(ctx)
	if len(result.Failed) > 0 {
		logger.GetLogger().WithFields(map[string]interface{}{
			"user_id": userID,
			"saved":   len(result.Saved),
			"failed":  len(result.Failed),
		}).Warn("Save all finished with failures")
	}
	return &transfer.SaveAllResponse{Saved: result.Saved, Failed: result.Failed}, nil
}

func (s *postService) NewDraft(ctx context.Context, userID int64, fields models.Fields) (*transfer.PostView, error) {
	seed, err := draftFields(fields)
	if err != nil {
		return nil, err
	}
	w, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}
	id := w.NewDraft(seed)
	return s.current(w, id)
}

// draftFields copies fields and pins the status to Draft. New posts only
// enter the approval flow through SetStatus.
func draftFields(fields models.Fields) (models.Fields, error) {
	if status, ok := fields[models.PostFieldStatus]; ok && status != models.PostStatusDraft {
		return nil, errStatusViaEdit
	}
	seed := fields.Clone()
	seed[models.PostFieldStatus] = models.PostStatusDraft
	return seed, nil
}

func (s *postService) Create(ctx context.Context, userID int64, fields models.Fields) (*transfer.PostView, error) {
	if err := validation.Validate(fields.String(models.PostFieldHeadline), validation.Required.Error("headline is required")); err != nil {
		return nil, apperror.ValidationError(err.Error())
	}
	seed, err := draftFields(fields)
	if err != nil {
		return nil, err
	}
	w, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}
	created, err := w.Create(ctx, seed)
	if err != nil {
		return nil, err
	}
	v := view(w, created)
	return &v, nil
}

func (s *postService) Remove(ctx context.Context, userID int64, id string) error {
	w, err := s.open(ctx, userID)
	if err != nil {
		return err
	}
	return w.Remove(ctx, id)
}

func (s *postService) Discard(ctx context.Context, userID int64, id string) (*transfer.PostView, error) {
	w, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}
	w.Discard(id)
	if models.IsPlaceholderID(id) {
		return nil, nil
	}
	return s.current(w, id)
}

func (s *postService) Reload(ctx context.Context, userID int64) ([]transfer.PostView, error) {
	w, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := w.Load(ctx); err != nil {
		return nil, err
	}
	return views(w, w.Records()), nil
}

func (s *postService) ApprovalQueue(ctx context.Context, userID int64) ([]transfer.PostView, error) {
	return s.filtered(ctx, userID, models.ApprovalQueue)
}

func (s *postService) PublishQueue(ctx context.Context, userID int64) ([]transfer.PostView, error) {
	return s.filtered(ctx, userID, models.PublishQueue)
}

func (s *postService) filtered(ctx context.Context, userID int64, filter func([]models.Post) []models.Post) ([]transfer.PostView, error) {
	w, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}
	posts := make([]models.Post, 0)
	for _, r := range w.Records() {
		posts = append(posts, models.PostFromRecord(r))
	}
	out := []transfer.PostView{}
	for _, p := range filter(posts) {
		out = append(out, transfer.PostView{Post: p, Dirty: w.IsDirty(p.ID)})
	}
	return out, nil
}

// SetStatus moves a post along the approval flow and saves it. The store's
// echo is adopted even if an automation already changed the status; a
// deferred check records that case.
func (s *postService) SetStatus(ctx context.Context, userID int64, id, status string) (*transfer.PostView, error) {
	err := validation.Validate(status,
		validation.Required.Error("status is required"),
		validation.In(toAny(models.PostStatuses)...).Error("unknown status"),
	)
	if err != nil {
		return nil, apperror.ValidationError(err.Error())
	}

	w, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}

	from := ""
	if primary, ok := w.Primary(id); ok {
		from = primary.Fields.String(models.PostFieldStatus)
	} else if !models.IsPlaceholderID(id) {
		return nil, apperror.NotFoundError(fmt.Sprintf("post %s not found", id))
	}
	if !models.CanTransition(from, status) {
		return nil, apperror.ValidationError(fmt.Sprintf("cannot move post from %q to %q", from, status))
	}

	if err := w.SetField(id, models.PostFieldStatus, status); err != nil {
		return nil, err
	}
	saved, err := w.SaveOne(ctx, id)
	if err != nil {
		return nil, err
	}

	observed := saved.Fields.String(models.PostFieldStatus)
	if observed != status {
		logger.GetLogger().WithFields(map[string]interface{}{
			"post_id":  saved.ID,
			"expected": status,
			"observed": observed,
		}).Warn("Store echoed a different status than was saved")
	}

	if s.scheduler != nil {
		check := models.StatusCheck{UserID: userID, PostID: saved.ID, Expected: status}
		if err := s.scheduler.ScheduleStatusCheck(check, s.verifyDelay); err != nil {
			logger.GetLogger().WithError(err).WithField("post_id", saved.ID).Error("Failed to schedule status verification")
		}
	}

	v := view(w, saved)
	return &v, nil
}

// Schedule sets the publish timestamp of an approved post. The automation
// that publishes it owns the Scheduled and Published statuses.
func (s *postService) Schedule(ctx context.Context, userID int64, id string, at time.Time) (*transfer.PostView, error) {
	if at.IsZero() {
		return nil, apperror.ValidationError("scheduledAt is required")
	}
	if at.Before(time.Now()) {
		return nil, apperror.ValidationError("scheduledAt must be in the future")
	}

	w, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}
	primary, ok := w.Primary(id)
	if !ok {
		return nil, apperror.NotFoundError(fmt.Sprintf("post %s not found", id))
	}
	if status := primary.Fields.String(models.PostFieldStatus); status != models.PostStatusApproved {
		return nil, apperror.ValidationError(fmt.Sprintf("only approved posts can be scheduled, post is %q", status))
	}

	if err := w.SetField(id, models.PostFieldScheduledAt, at.UTC().Format(time.RFC3339)); err != nil {
		return nil, err
	}
	saved, err := w.SaveOne(ctx, id)
	if err != nil {
		return nil, err
	}
	v := view(w, saved)
	return &v, nil
}

func toAny(items []string) []interface{} {
	out := make([]interface{}, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
