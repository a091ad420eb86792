package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/maheshrc27/contentdesk/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<!doctype html>
<html><head>
<title>Fallback title</title>
<meta property="og:title" content="Launch day at Acme">
<meta name="description" content="We shipped the new dashboard.">
<meta property="og:image" content="/img/cover.png">
<meta property="og:site_name" content="Acme Blog">
</head><body><h1>Hello</h1></body></html>`

func TestSourceService_Preview(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	svc := NewSourceService(srv.Client())
	preview, err := svc.Preview(context.Background(), srv.URL+"/posts/launch")
	require.NoError(t, err)

	assert.Equal(t, "Launch day at Acme", preview.Title)
	assert.Equal(t, "We shipped the new dashboard.", preview.Description)
	assert.Equal(t, srv.URL+"/img/cover.png", preview.Image)
	assert.Equal(t, "Acme Blog", preview.SiteName)
}

func TestSourceService_FallbackTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title> Plain </title></head></html>`))
	}))
	defer srv.Close()

	preview, err := NewSourceService(srv.Client()).Preview(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Plain", preview.Title)
	assert.Empty(t, preview.Image)
}

func TestSourceService_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	svc := NewSourceService(srv.Client())

	_, err := svc.Preview(context.Background(), srv.URL)
	var rerr *apperror.RemoteError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, http.StatusNotFound, rerr.Status)

	_, err = svc.Preview(context.Background(), "ftp://example.com/file")
	var verr apperror.ValidationError
	assert.True(t, errors.As(err, &verr))

	_, err = svc.Preview(context.Background(), "")
	assert.True(t, errors.As(err, &verr))
}
