package service

import (
	"context"
	"time"

	"github.com/maheshrc27/contentdesk/internal/airtable"
	"github.com/maheshrc27/contentdesk/internal/logger"
	"github.com/maheshrc27/contentdesk/internal/models"
	"github.com/maheshrc27/contentdesk/internal/repository"
	"github.com/maheshrc27/contentdesk/internal/workspace"
)

// StatusVerifier re-reads a post some time after a status save to detect
// automations that silently reverted it. It never writes to the store.
type StatusVerifier interface {
	Verify(ctx context.Context, check models.StatusCheck) (*models.StatusAnomaly, error)
}

type statusVerifier struct {
	store    airtable.RecordStore
	registry *workspace.Registry
	ar       repository.AnomalyRepository
}

func NewStatusVerifier(store airtable.RecordStore, registry *workspace.Registry, ar repository.AnomalyRepository) StatusVerifier {
	return &statusVerifier{store: store, registry: registry, ar: ar}
}

// Verify returns the anomaly when the stored status differs from the one
// that was saved, nil otherwise. A mismatch is not an error.
func (v *statusVerifier) Verify(ctx context.Context, check models.StatusCheck) (*models.StatusAnomaly, error) {
	var (
		w    *workspace.Workspace
		mark uint64
	)
	if v.registry != nil {
		if open, ok := v.registry.Lookup(check.UserID, airtable.TablePosts); ok {
			w, mark = open, open.WriteMark()
		}
	}

	record, err := v.store.Get(ctx, airtable.TablePosts, check.PostID)
	if err != nil {
		return nil, err
	}
	if w != nil {
		w.Replace(record, mark)
	}

	observed := record.Fields.String(models.PostFieldStatus)
	if observed == check.Expected {
		return nil, nil
	}

	anomaly := &models.StatusAnomaly{
		UserID:         check.UserID,
		PostID:         check.PostID,
		ExpectedStatus: check.Expected,
		ObservedStatus: observed,
		DetectedAt:     time.Now().UTC(),
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"post_id":  check.PostID,
		"expected": check.Expected,
		"observed": observed,
	}).Warn("Saved status did not persist")

	if v.ar != nil {
		id, err := v.ar.Create(ctx, anomaly)
		if err != nil {
			return anomaly, err
		}
		anomaly.ID = id
	}
	return anomaly, nil
}
