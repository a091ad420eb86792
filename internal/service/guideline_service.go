package service

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/maheshrc27/contentdesk/internal/airtable"
	"github.com/maheshrc27/contentdesk/internal/models"
	"github.com/maheshrc27/contentdesk/internal/transfer"
	"github.com/maheshrc27/contentdesk/internal/workspace"
	"github.com/maheshrc27/contentdesk/pkg/apperror"
)

type GuidelineService interface {
	List(ctx context.Context, userID int64) (*transfer.Guidelines, error)
	EditMain(ctx context.Context, userID int64, text string) (*models.BrandGuideline, error)
	Edit(ctx context.Context, userID int64, id string, fields models.Fields) (*models.BrandGuideline, error)
	Save(ctx context.Context, userID int64, id string) (*models.BrandGuideline, error)
	SaveAll(ctx context.Context, userID int64) (*transfer.SaveAllResponse, error)
	CreateStyle(ctx context.Context, userID int64, req transfer.StyleRequest) (*models.BrandGuideline, error)
	RemoveStyle(ctx context.Context, userID int64, id string) error
	Discard(ctx context.Context, userID int64, id string) error
}

type guidelineService struct {
	registry *workspace.Registry
}

func NewGuidelineService(registry *workspace.Registry) GuidelineService {
	return &guidelineService{registry: registry}
}

func (s *guidelineService) open(ctx context.Context, userID int64) (*workspace.Workspace, error) {
	return s.registry.Open(ctx, userID, airtable.TableGuidelines)
}

func (s *guidelineService) List(ctx context.Context, userID int64) (*transfer.Guidelines, error) {
	w, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &transfer.Guidelines{Styles: []models.BrandGuideline{}, Dirty: w.DirtyIDs()}
	for _, r := range w.Records() {
		g := models.GuidelineFromRecord(r)
		if g.Kind == models.GuidelineKindMain {
			if out.Main == nil {
				out.Main = &g
			}
			continue
		}
		out.Styles = append(out.Styles, g)
	}
	return out, nil
}

// EditMain stages the main guideline text. Without a main record yet, a
// draft is started and the next save creates it.
func (s *guidelineService) EditMain(ctx context.Context, userID int64, text string) (*models.BrandGuideline, error) {
	w, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, r := range w.Records() {
		if models.GuidelineFromRecord(r).Kind == models.GuidelineKindMain {
			return s.edit(w, r.ID, models.Fields{models.GuidelineFieldGuidelines: text})
		}
	}

	id := w.NewDraft(models.Fields{
		models.GuidelineFieldKind:       models.GuidelineKindMain,
		models.GuidelineFieldGuidelines: text,
	})
	return s.get(w, id)
}

func (s *guidelineService) Edit(ctx context.Context, userID int64, id string, fields models.Fields) (*models.BrandGuideline, error) {
	if len(fields) == 0 {
		return nil, apperror.ValidationError("no fields to edit")
	}
	if _, ok := fields[models.GuidelineFieldKind]; ok {
		return nil, apperror.ValidationError("kind is fixed when a guideline is created")
	}
	w, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.edit(w, id, fields)
}

func (s *guidelineService) edit(w *workspace.Workspace, id string, fields models.Fields) (*models.BrandGuideline, error) {
	if err := w.SetFields(id, fields); err != nil {
		return nil, err
	}
	return s.get(w, id)
}

func (s *guidelineService) get(w *workspace.Workspace, id string) (*models.BrandGuideline, error) {
	r, err := w.Record(id)
	if err != nil {
		return nil, err
	}
	g := models.GuidelineFromRecord(r)
	return &g, nil
}

func (s *guidelineService) Save(ctx context.Context, userID int64, id string) (*models.BrandGuideline, error) {
	w, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}
	saved, err := w.SaveOne(ctx, id)
	if err != nil {
		return nil, err
	}
	g := models.GuidelineFromRecord(saved)
	return &g, nil
}

func (s *guidelineService) SaveAll(ctx context.Context, userID int64) (*transfer.SaveAllResponse, error) {
	w, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := w.SaveAll(ctx)
	return &transfer.SaveAllResponse{Saved: result.Saved, Failed: result.Failed}, nil
}

func (s *guidelineService) CreateStyle(ctx context.Context, userID int64, req transfer.StyleRequest) (*models.BrandGuideline, error) {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.StyleName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.StylePrompt, validation.Required),
	)
	if err != nil {
		return nil, apperror.ValidationError(err.Error())
	}

	w, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}
	created, err := w.Create(ctx, models.Fields{
		models.GuidelineFieldKind:        models.GuidelineKindStyle,
		models.GuidelineFieldStyleName:   req.StyleName,
		models.GuidelineFieldStylePrompt: req.StylePrompt,
	})
	if err != nil {
		return nil, err
	}
	g := models.GuidelineFromRecord(created)
	return &g, nil
}

func (s *guidelineService) RemoveStyle(ctx context.Context, userID int64, id string) error {
	w, err := s.open(ctx, userID)
	if err != nil {
		return err
	}
	r, err := w.Record(id)
	if err != nil {
		return err
	}
	if models.GuidelineFromRecord(r).Kind != models.GuidelineKindStyle {
		return apperror.ValidationError(fmt.Sprintf("guideline %s is not a style record", id))
	}
	return w.Remove(ctx, id)
}

func (s *guidelineService) Discard(ctx context.Context, userID int64, id string) error {
	w, err := s.open(ctx, userID)
	if err != nil {
		return err
	}
	w.Discard(id)
	return nil
}
