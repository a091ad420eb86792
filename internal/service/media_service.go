package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/h2non/filetype"
	"github.com/maheshrc27/contentdesk/internal/airtable"
	"github.com/maheshrc27/contentdesk/internal/logger"
	"github.com/maheshrc27/contentdesk/internal/models"
	"github.com/maheshrc27/contentdesk/internal/transfer"
	"github.com/maheshrc27/contentdesk/internal/workspace"
	"github.com/maheshrc27/contentdesk/pkg/apperror"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const MaxImageBytes = 10 << 20

type dimensions struct {
	width, height int
}

var imageDimensions = map[string]dimensions{
	models.ImageSizeSquare:    {1080, 1080},
	models.ImageSizeLandscape: {1200, 628},
	models.ImageSizePortrait:  {1080, 1350},
}

// MediaService crops post images to the post's image size, uploads them
// and stages the attachment as an unsaved edit on the post.
type MediaService interface {
	UploadPostImage(ctx context.Context, userID int64, postID, filename string, data []byte) (*transfer.UploadResult, error)
}

type mediaService struct {
	registry *workspace.Registry
	objects  ObjectStore
}

func NewMediaService(registry *workspace.Registry, objects ObjectStore) MediaService {
	return &mediaService{registry: registry, objects: objects}
}

func (s *mediaService) UploadPostImage(ctx context.Context, userID int64, postID, filename string, data []byte) (*transfer.UploadResult, error) {
	if len(data) == 0 {
		return nil, apperror.ValidationError("empty file")
	}
	if len(data) > MaxImageBytes {
		return nil, apperror.ValidationError(fmt.Sprintf("image is %s, limit is %s",
			humanize.Bytes(uint64(len(data))), humanize.Bytes(MaxImageBytes)))
	}

	kind, err := filetype.Match(data)
	if err != nil || !filetype.IsImage(data) {
		return nil, apperror.ValidationError("file is not a supported image")
	}
	switch kind.Extension {
	case "jpg", "png", "gif", "bmp", "tif":
	default:
		return nil, apperror.ValidationError(fmt.Sprintf("image type %s is not supported", kind.Extension))
	}

	w, err := s.registry.Open(ctx, userID, airtable.TablePosts)
	if err != nil {
		return nil, err
	}
	record, err := w.Record(postID)
	if err != nil {
		return nil, err
	}
	post := models.PostFromRecord(record)

	size := post.ImageSize
	if !models.IsImageSize(size) {
		size = models.ImageSizeSquare
	}
	dim := imageDimensions[size]

	cropped, err := Crop(data, dim.width, dim.height)
	if err != nil {
		return nil, err
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("posts/%s/%s.jpg", postID, id)
	if err := s.objects.Upload(ctx, key, cropped, "image/jpeg"); err != nil {
		return nil, err
	}

	attachment := models.Attachment{
		URL:      s.objects.PublicURL(key),
		Filename: filename,
		Width:    dim.width,
		Height:   dim.height,
		Size:     int64(len(cropped)),
		Type:     "image/jpeg",
	}

	// Existing attachments are referenced by id, new ones by url.
	images := []any{}
	for _, a := range post.Images {
		if a.ID != "" {
			images = append(images, map[string]any{"id": a.ID, "url": a.URL, "filename": a.Filename})
		} else {
			images = append(images, map[string]any{"url": a.URL, "filename": a.Filename})
		}
	}
	images = append(images, map[string]any{"url": attachment.URL, "filename": attachment.Filename})

	if err := w.SetFields(postID, models.Fields{
		models.PostFieldImage:      images,
		models.PostFieldNeedsImage: false,
	}); err != nil {
		return nil, err
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"post_id": postID,
		"key":     key,
		"size":    humanize.Bytes(uint64(len(cropped))),
	}).Info("Uploaded post image")

	return &transfer.UploadResult{
		Attachment: attachment,
		Size:       humanize.Bytes(uint64(len(cropped))),
		Width:      dim.width,
		Height:     dim.height,
	}, nil
}

// Crop fills width x height from the centre of the image and re-encodes it
// as JPEG.
func Crop(data []byte, width, height int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, apperror.ValidationError(fmt.Sprintf("cannot decode image: %v", err))
	}
	filled := imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, filled, imaging.JPEG, imaging.JPEGQuality(88)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
