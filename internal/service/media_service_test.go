package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/maheshrc27/contentdesk/internal/airtable"
	"github.com/maheshrc27/contentdesk/internal/airtable/airtabletest"
	"github.com/maheshrc27/contentdesk/internal/models"
	"github.com/maheshrc27/contentdesk/internal/workspace"
	"github.com/maheshrc27/contentdesk/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestMediaService_UploadCropsAndStages(t *testing.T) {
	store := airtabletest.NewStore()
	store.Put(airtable.TablePosts, models.Record{ID: "rec1", Fields: models.Fields{
		"headline":   "x",
		"imageSize":  "landscape",
		"needsImage": true,
		"image":      []any{map[string]any{"id": "att1", "url": "https://old.test/a.jpg", "filename": "a.jpg"}},
	}})
	registry := workspace.NewRegistry(store, 2)
	objects := newMemoryObjects()

	svc := NewMediaService(registry, objects)
	result, err := svc.UploadPostImage(context.Background(), testUser, "rec1", "photo.png", pngBytes(t, 300, 300))
	require.NoError(t, err)
	assert.Equal(t, 1200, result.Width)
	assert.Equal(t, 628, result.Height)
	require.Len(t, objects.uploads, 1)

	for key, data := range objects.uploads {
		assert.Equal(t, "image/jpeg", objects.types[key])
		assert.Equal(t, "https://cdn.test/"+key, result.Attachment.URL)
		img, err := imaging.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 1200, img.Bounds().Dx())
		assert.Equal(t, 628, img.Bounds().Dy())
	}

	w, err := registry.Open(context.Background(), testUser, airtable.TablePosts)
	require.NoError(t, err)
	assert.True(t, w.IsDirty("rec1"))
	rec, err := w.Record("rec1")
	require.NoError(t, err)
	post := models.PostFromRecord(rec)
	require.Len(t, post.Images, 2)
	assert.Equal(t, "att1", post.Images[0].ID)
	assert.Equal(t, result.Attachment.URL, post.Images[1].URL)
	assert.False(t, post.NeedsImage)
	assert.Equal(t, 0, store.CallCount("update"))
}

func TestMediaService_RejectsNonImage(t *testing.T) {
	svc := NewMediaService(workspace.NewRegistry(airtabletest.NewStore(), 2), newMemoryObjects())

	_, err := svc.UploadPostImage(context.Background(), testUser, "rec1", "notes.txt", []byte("plain text, not an image"))
	var verr apperror.ValidationError
	assert.True(t, errors.As(err, &verr))

	_, err = svc.UploadPostImage(context.Background(), testUser, "rec1", "empty.png", nil)
	assert.True(t, errors.As(err, &verr))
}

func TestCrop_Square(t *testing.T) {
	out, err := Crop(pngBytes(t, 400, 200), 100, 100)
	require.NoError(t, err)
	img, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 100), img.Bounds())
}
