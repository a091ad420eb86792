package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/maheshrc27/contentdesk/internal/logger"
	"github.com/maheshrc27/contentdesk/internal/models"
	"github.com/maheshrc27/contentdesk/pkg/apperror"
	"golang.org/x/oauth2"
)

const DefaultBaseURL = "https://api.airtable.com/v0"

// RecordStore is the remote record surface the rest of the module depends on.
type RecordStore interface {
	List(ctx context.Context, table string) ([]models.Record, error)
	Get(ctx context.Context, table, id string) (models.Record, error)
	Create(ctx context.Context, table string, fields models.Fields) (models.Record, error)
	Update(ctx context.Context, table, id string, fields models.Fields) (models.Record, error)
	Delete(ctx context.Context, table, id string) error
}

type Config struct {
	BaseURL string
	BaseID  string
	Token   string
}

type Client struct {
	baseURL    string
	baseID     string
	schema     *Schema
	httpClient *http.Client
}

// NewClient authenticates every request with the static bearer token. The
// underlying transport comes from ctx (oauth2.HTTPClient) when present.
func NewClient(ctx context.Context, cfg Config, schema *Schema) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"})

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		baseID:     cfg.BaseID,
		schema:     schema,
		httpClient: oauth2.NewClient(ctx, ts),
	}
}

type wireRecord struct {
	ID          string         `json:"id"`
	CreatedTime time.Time      `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
}

type listResponse struct {
	Records []wireRecord `json:"records"`
	Offset  string       `json:"offset"`
}

type writeRequest struct {
	Fields   map[string]any `json:"fields"`
	Typecast bool           `json:"typecast"`
}

func (c *Client) List(ctx context.Context, table string) ([]models.Record, error) {
	spec, err := c.schema.Table(table)
	if err != nil {
		return nil, err
	}

	records := []models.Record{}
	offset := ""
	for {
		query := url.Values{}
		if offset != "" {
			query.Set("offset", offset)
		}

		var page listResponse
		if err := c.do(ctx, http.MethodGet, c.tableURL(spec, "", query), nil, &page); err != nil {
			return nil, err
		}
		for _, wr := range page.Records {
			records = append(records, toRecord(spec, wr))
		}

		if page.Offset == "" {
			break
		}
		offset = page.Offset
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"table":   table,
		"records": len(records),
	}).Debug("Listed records")
	return records, nil
}

func (c *Client) Get(ctx context.Context, table, id string) (models.Record, error) {
	spec, err := c.schema.Table(table)
	if err != nil {
		return models.Record{}, err
	}

	var wr wireRecord
	if err := c.do(ctx, http.MethodGet, c.tableURL(spec, id, nil), nil, &wr); err != nil {
		return models.Record{}, err
	}
	return toRecord(spec, wr), nil
}

func (c *Client) Create(ctx context.Context, table string, fields models.Fields) (models.Record, error) {
	return c.write(ctx, http.MethodPost, table, "", fields)
}

// Update sends only the given fields. The returned record is what the store
// holds after the write, which can differ from what was sent.
func (c *Client) Update(ctx context.Context, table, id string, fields models.Fields) (models.Record, error) {
	if id == "" {
		return models.Record{}, apperror.ValidationError("record id is required")
	}
	return c.write(ctx, http.MethodPatch, table, id, fields)
}

func (c *Client) Delete(ctx context.Context, table, id string) error {
	spec, err := c.schema.Table(table)
	if err != nil {
		return err
	}
	if id == "" {
		return apperror.ValidationError("record id is required")
	}
	return c.do(ctx, http.MethodDelete, c.tableURL(spec, id, nil), nil, nil)
}

func (c *Client) write(ctx context.Context, method, table, id string, fields models.Fields) (models.Record, error) {
	spec, err := c.schema.Table(table)
	if err != nil {
		return models.Record{}, err
	}

	remote, err := spec.toRemote(fields)
	if err != nil {
		return models.Record{}, err
	}

	body, err := json.Marshal(writeRequest{Fields: remote, Typecast: true})
	if err != nil {
		return models.Record{}, fmt.Errorf("encode %s request: %w", table, err)
	}

	var wr wireRecord
	if err := c.do(ctx, method, c.tableURL(spec, id, nil), body, &wr); err != nil {
		return models.Record{}, err
	}
	return toRecord(spec, wr), nil
}

func (c *Client) tableURL(spec *TableSpec, id string, query url.Values) string {
	u := fmt.Sprintf("%s/%s/%s", c.baseURL, url.PathEscape(c.baseID), url.PathEscape(spec.Remote))
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("method", method).Warn("Airtable request failed")
		return &apperror.RemoteError{Body: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apperror.RemoteError{Status: resp.StatusCode, Body: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.GetLogger().WithFields(map[string]interface{}{
			"method": method,
			"status": resp.StatusCode,
		}).Warn("Airtable returned an error")
		return &apperror.RemoteError{Status: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &apperror.RemoteError{Status: resp.StatusCode, Body: string(raw)}
	}
	return nil
}

func toRecord(spec *TableSpec, wr wireRecord) models.Record {
	return models.Record{
		ID:          wr.ID,
		CreatedTime: wr.CreatedTime,
		Fields:      spec.toLocal(wr.Fields),
	}
}
