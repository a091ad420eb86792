package models

import (
	"encoding/json"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/cast"
)

// Fields is keyed by local field names; remote names never leave the
// airtable package.
type Fields map[string]any

func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

func (f Fields) String(name string) string {
	return cast.ToString(f[name])
}

func (f Fields) Bool(name string) bool {
	return cast.ToBool(f[name])
}

type Record struct {
	ID          string
	CreatedTime time.Time
	Fields      Fields
}

// Clone returns a record whose field map can be mutated independently.
func (r Record) Clone() Record {
	r.Fields = r.Fields.Clone()
	return r
}

// MarshalJSON flattens the record to {id, createdTime, ...fields}.
func (r Record) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(r.Fields)+2)
	for k, v := range r.Fields {
		flat[k] = v
	}
	flat["id"] = r.ID
	if !r.CreatedTime.IsZero() {
		flat["createdTime"] = r.CreatedTime
	}
	return json.Marshal(flat)
}

const placeholderPrefix = "tmp_"

// NewPlaceholderID names a record that has not been created in the store yet.
func NewPlaceholderID() string {
	id, err := gonanoid.New(12)
	if err != nil {
		id = cast.ToString(time.Now().UnixNano())
	}
	return placeholderPrefix + id
}

func IsPlaceholderID(id string) bool {
	return strings.HasPrefix(id, placeholderPrefix)
}

type Attachment struct {
	ID       string `json:"id,omitempty"`
	URL      string `json:"url"`
	Filename string `json:"filename,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Size     int64  `json:"size,omitempty"`
	Type     string `json:"type,omitempty"`
}

// ParseAttachments reads the store's attachment array, skipping entries
// without a url.
func ParseAttachments(value any) []Attachment {
	items, ok := value.([]any)
	if !ok {
		if typed, ok := value.([]Attachment); ok {
			return typed
		}
		return nil
	}

	var out []Attachment
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		a := Attachment{
			ID:       cast.ToString(m["id"]),
			URL:      cast.ToString(m["url"]),
			Filename: cast.ToString(m["filename"]),
			Width:    cast.ToInt(m["width"]),
			Height:   cast.ToInt(m["height"]),
			Size:     cast.ToInt64(m["size"]),
			Type:     cast.ToString(m["type"]),
		}
		if a.URL == "" {
			continue
		}
		out = append(out, a)
	}
	return out
}
