package airtable

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/maheshrc27/contentdesk/internal/models"
	"github.com/maheshrc27/contentdesk/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	schema, err := LoadSchema("")
	require.NoError(t, err)
	return NewClient(context.Background(), Config{BaseURL: srv.URL, BaseID: "appBase", Token: "pat-secret"}, schema)
}

func TestList_NormalizesChannelsAndPaginates(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/appBase/Posts", r.URL.Path)
		assert.Equal(t, "Bearer pat-secret", r.Header.Get("Authorization"))

		if r.URL.Query().Get("offset") == "" {
			_, _ = io.WriteString(w, `{"records":[{"id":"rec1","createdTime":"2024-05-01T10:00:00.000Z","fields":{"Headline":"One","socialChannels":["twitter","linkedin"],"Status":"Draft"}}],"offset":"page2"}`)
			return
		}
		assert.Equal(t, "page2", r.URL.Query().Get("offset"))
		_, _ = io.WriteString(w, `{"records":[{"id":"rec2","createdTime":"2024-05-02T10:00:00.000Z","fields":{"Headline":"Two","socialChannels":"twitter,linkedin","needsImage?":true}}]}`)
	})

	records, err := client.List(context.Background(), TablePosts)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 2, calls)

	assert.Equal(t, "rec1", records[0].ID)
	assert.Equal(t, "One", records[0].Fields["headline"])
	assert.Equal(t, "twitter, linkedin", records[0].Fields["socialChannels"])
	assert.Equal(t, "twitter, linkedin", records[1].Fields["socialChannels"])
	assert.Equal(t, true, records[1].Fields["needsImage"])
	assert.Equal(t, 2024, records[0].CreatedTime.Year())
}

func TestList_KeepsUnmappedFieldsUnderRemoteName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"records":[{"id":"rec1","fields":{"Notes":"internal"}}]}`)
	})

	records, err := client.List(context.Background(), TablePosts)
	require.NoError(t, err)
	assert.Equal(t, "internal", records[0].Fields["Notes"])
}

func TestCreate_StripsReadOnlyFieldsAndMapsNames(t *testing.T) {
	var sent map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/appBase/Brand%20Guidelines", r.URL.EscapedPath())
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		_, _ = io.WriteString(w, `{"id":"recNew","fields":{"Style Name":"Bold","Style Prompt":"high contrast"}}`)
	})

	rec, err := client.Create(context.Background(), TableGuidelines, models.Fields{
		"styleName":   "Bold",
		"stylePrompt": "high contrast",
	})
	require.NoError(t, err)
	assert.Equal(t, "recNew", rec.ID)
	assert.Equal(t, "Bold", rec.Fields["styleName"])

	fields := sent["fields"].(map[string]any)
	assert.Equal(t, "Bold", fields["Style Name"])
	assert.NotContains(t, fields, "styleName")

	postsClient := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		sent = nil
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		_, _ = io.WriteString(w, `{"id":"recP","fields":{"Headline":"H"}}`)
	})
	_, err = postsClient.Create(context.Background(), TablePosts, models.Fields{"headline": "H", "created": "2024-01-01"})
	require.NoError(t, err)
	fields = sent["fields"].(map[string]any)
	assert.NotContains(t, fields, "Created")
	assert.Equal(t, "H", fields["Headline"])
}

func TestUpdate_ReturnsStoreEchoNotSentValues(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/appBase/Posts/rec1", r.URL.Path)

		var body map[string]map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"Status": "Approved"}, body["fields"])

		_, _ = io.WriteString(w, `{"id":"rec1","fields":{"Status":"Needs Approval","Headline":"H"}}`)
	})

	rec, err := client.Update(context.Background(), TablePosts, "rec1", models.Fields{"status": "Approved"})
	require.NoError(t, err)
	assert.Equal(t, "Needs Approval", rec.Fields["status"])
}

func TestUpdate_WritesListFieldsAsArrays(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []any{"twitter", "blog"}, body["fields"]["socialChannels"])
		_, _ = io.WriteString(w, `{"id":"rec1","fields":{"socialChannels":["twitter","blog"]}}`)
	})

	rec, err := client.Update(context.Background(), TablePosts, "rec1", models.Fields{"socialChannels": "twitter, blog"})
	require.NoError(t, err)
	assert.Equal(t, "twitter, blog", rec.Fields["socialChannels"])
}

func TestUpdate_UnknownFieldIsValidationError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.Update(context.Background(), TableGuidelines, "rec1", models.Fields{"Guidelines": "x"})
	var verr apperror.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestRemoteErrors(t *testing.T) {
	t.Run("non-success status", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = io.WriteString(w, `{"error":{"type":"INVALID_VALUE_FOR_COLUMN"}}`)
		})

		_, err := client.Update(context.Background(), TablePosts, "rec1", models.Fields{"status": "Approved"})
		var rerr *apperror.RemoteError
		require.True(t, errors.As(err, &rerr))
		assert.Equal(t, http.StatusUnprocessableEntity, rerr.Status)
		assert.Contains(t, rerr.Body, "INVALID_VALUE_FOR_COLUMN")
	})

	t.Run("unparsable body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `<html>gateway</html>`)
		})

		_, err := client.List(context.Background(), TablePrompts)
		var rerr *apperror.RemoteError
		require.True(t, errors.As(err, &rerr))
		assert.Equal(t, http.StatusOK, rerr.Status)
		assert.Equal(t, "<html>gateway</html>", rerr.Body)
	})
}

func TestDelete(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/appBase/Writing%20Prompts/rec9", r.URL.EscapedPath())
		_, _ = io.WriteString(w, `{"id":"rec9","deleted":true}`)
	})

	require.NoError(t, client.Delete(context.Background(), TablePrompts, "rec9"))
}

func TestUnknownTable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := client.List(context.Background(), "campaigns")
	var nf apperror.NotFoundError
	assert.True(t, errors.As(err, &nf))
}
