package service

import (
	"context"

	"github.com/maheshrc27/contentdesk/internal/airtable"
	"github.com/maheshrc27/contentdesk/internal/models"
	"github.com/maheshrc27/contentdesk/internal/transfer"
	"github.com/maheshrc27/contentdesk/internal/workspace"
)

type PromptService interface {
	List(ctx context.Context, userID int64) (*transfer.Prompts, error)
	Edit(ctx context.Context, userID int64, id, prompt string) (*models.WritingPrompt, error)
	Save(ctx context.Context, userID int64, id string) (*models.WritingPrompt, error)
	SaveAll(ctx context.Context, userID int64) (*transfer.SaveAllResponse, error)
}

type promptService struct {
	registry *workspace.Registry
}

func NewPromptService(registry *workspace.Registry) PromptService {
	return &promptService{registry: registry}
}

func (s *promptService) List(ctx context.Context, userID int64) (*transfer.Prompts, error) {
	w, err := s.registry.Open(ctx, userID, airtable.TablePrompts)
	if err != nil {
		return nil, err
	}
	prompts := []models.WritingPrompt{}
	for _, r := range w.Records() {
		prompts = append(prompts, models.PromptFromRecord(r))
	}
	models.SortPrompts(prompts)
	return &transfer.Prompts{Prompts: prompts, Dirty: w.DirtyIDs()}, nil
}

func (s *promptService) Edit(ctx context.Context, userID int64, id, prompt string) (*models.WritingPrompt, error) {
	w, err := s.registry.Open(ctx, userID, airtable.TablePrompts)
	if err != nil {
		return nil, err
	}
	if err := w.SetField(id, models.PromptFieldPrompt, prompt); err != nil {
		return nil, err
	}
	r, err := w.Record(id)
	if err != nil {
		return nil, err
	}
	p := models.PromptFromRecord(r)
	return &p, nil
}

func (s *promptService) Save(ctx context.Context, userID int64, id string) (*models.WritingPrompt, error) {
	w, err := s.registry.Open(ctx, userID, airtable.TablePrompts)
	if err != nil {
		return nil, err
	}
	saved, err := w.SaveOne(ctx, id)
	if err != nil {
		return nil, err
	}
	p := models.PromptFromRecord(saved)
	return &p, nil
}

func (s *promptService) SaveAll(ctx context.Context, userID int64) (*transfer.SaveAllResponse, error) {
	w, err := s.registry.Open(ctx, userID, airtable.TablePrompts)
	if err != nil {
		return nil, err
	}
	result := w.SaveAll(ctx)
	return &transfer.SaveAllResponse{Saved: result.Saved, Failed: result.Failed}, nil
}
