package service

import (
	"context"

	"github.com/maheshrc27/contentdesk/internal/airtable"
	"github.com/maheshrc27/contentdesk/internal/models"
)

// FolderService lists marketing video folders. The table is read-only from
// the dashboard, so it goes straight to the store.
type FolderService interface {
	List(ctx context.Context) ([]models.VideoFolder, error)
}

type folderService struct {
	store airtable.RecordStore
}

func NewFolderService(store airtable.RecordStore) FolderService {
	return &folderService{store: store}
}

func (s *folderService) List(ctx context.Context) ([]models.VideoFolder, error) {
	records, err := s.store.List(ctx, airtable.TableFolders)
	if err != nil {
		return nil, err
	}
	folders := make([]models.VideoFolder, 0, len(records))
	for _, r := range records {
		folders = append(folders, models.VideoFolderFromRecord(r))
	}
	return folders, nil
}
