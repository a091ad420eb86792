package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/maheshrc27/contentdesk/internal/logger"
	"github.com/maheshrc27/contentdesk/internal/transfer"
	"github.com/maheshrc27/contentdesk/pkg/apperror"
)

// SourceService reads a source article so the dashboard can prefill the
// headline and summary of a content request.
type SourceService interface {
	Preview(ctx context.Context, rawURL string) (*transfer.SourcePreview, error)
}

type sourceService struct {
	httpClient *http.Client
}

func NewSourceService(httpClient *http.Client) SourceService {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &sourceService{httpClient: httpClient}
}

func (s *sourceService) Preview(ctx context.Context, rawURL string) (*transfer.SourcePreview, error) {
	if err := validation.Validate(rawURL, validation.Required, is.URL); err != nil {
		return nil, apperror.ValidationError("url: " + err.Error())
	}
	base, err := url.Parse(rawURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") {
		return nil, apperror.ValidationError("url must be http or https")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")
	req.Header.Set("User-Agent", "contentdesk-preview/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("url", rawURL).Warn("Source fetch failed")
		return nil, &apperror.RemoteError{Body: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &apperror.RemoteError{Status: resp.StatusCode, Body: string(body)}
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, 5<<20))
	if err != nil {
		return nil, &apperror.RemoteError{Status: resp.StatusCode, Body: err.Error()}
	}

	preview := &transfer.SourcePreview{
		URL:         rawURL,
		Title:       firstNonEmpty(meta(doc, "og:title"), meta(doc, "twitter:title"), strings.TrimSpace(doc.Find("title").First().Text())),
		Description: firstNonEmpty(meta(doc, "og:description"), meta(doc, "description"), meta(doc, "twitter:description")),
		SiteName:    meta(doc, "og:site_name"),
	}
	if image := firstNonEmpty(meta(doc, "og:image"), meta(doc, "twitter:image")); image != "" {
		if ref, err := url.Parse(image); err == nil {
			image = base.ResolveReference(ref).String()
		}
		preview.Image = image
	}
	return preview, nil
}

// meta reads <meta property=name> or <meta name=name>.
func meta(doc *goquery.Document, name string) string {
	sel := doc.Find(fmt.Sprintf(`meta[property=%q], meta[name=%q]`, name, name)).First()
	content, _ := sel.Attr("content")
	return strings.TrimSpace(content)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
