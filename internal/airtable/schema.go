package airtable

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/maheshrc27/contentdesk/pkg/apperror"
	"gopkg.in/yaml.v3"
)

const (
	TablePosts      = "posts"
	TableGuidelines = "guidelines"
	TablePrompts    = "prompts"
	TableFolders    = "folders"
)

//go:embed schema.yaml
var defaultSchema []byte

type FieldSpec struct {
	Remote   string `yaml:"remote"`
	ReadOnly bool   `yaml:"readOnly"`
	List     bool   `yaml:"list"`
}

type TableSpec struct {
	Remote string               `yaml:"remote"`
	Fields map[string]FieldSpec `yaml:"fields"`

	byRemote map[string]string
}

// Schema is the single mapping between local and remote names.
type Schema struct {
	Tables map[string]*TableSpec `yaml:"tables"`
}

// LoadSchema parses the embedded schema, or the file at path when set.
func LoadSchema(path string) (*Schema, error) {
	data := defaultSchema
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", path, err)
		}
		data = b
	}
	return ParseSchema(data)
}

func ParseSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	if len(s.Tables) == 0 {
		return nil, fmt.Errorf("schema defines no tables")
	}

	for name, t := range s.Tables {
		if t == nil || t.Remote == "" {
			return nil, fmt.Errorf("table %q has no remote name", name)
		}
		t.byRemote = make(map[string]string, len(t.Fields))
		for local, f := range t.Fields {
			if f.Remote == "" {
				return nil, fmt.Errorf("field %s.%s has no remote name", name, local)
			}
			if other, dup := t.byRemote[f.Remote]; dup {
				return nil, fmt.Errorf("fields %s.%s and %s.%s map to the same remote field %q", name, other, name, local, f.Remote)
			}
			t.byRemote[f.Remote] = local
		}
	}
	return &s, nil
}

// SetRemoteTables overrides remote table names, keyed by logical table.
func (s *Schema) SetRemoteTables(names map[string]string) {
	for logical, remote := range names {
		if t, ok := s.Tables[logical]; ok && remote != "" {
			t.Remote = remote
		}
	}
}

func (s *Schema) Table(name string) (*TableSpec, error) {
	t, ok := s.Tables[name]
	if !ok {
		return nil, apperror.NotFoundError(fmt.Sprintf("unknown table %q", name))
	}
	return t, nil
}

// toLocal renames remote fields. Unmapped fields keep their remote name;
// list fields collapse to the canonical "a, b" form.
func (t *TableSpec) toLocal(remote map[string]any) map[string]any {
	out := make(map[string]any, len(remote))
	for name, value := range remote {
		local, ok := t.byRemote[name]
		if !ok {
			out[name] = value
			continue
		}
		if t.Fields[local].List {
			value = normalizeList(value)
		}
		out[local] = value
	}
	return out
}

// toRemote renames local fields for a write and drops read-only ones.
// Unknown names are rejected rather than guessed.
func (t *TableSpec) toRemote(local map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(local))
	for name, value := range local {
		f, ok := t.Fields[name]
		if !ok {
			return nil, apperror.ValidationError(fmt.Sprintf("unknown field %q for table %q", name, t.Remote))
		}
		if f.ReadOnly {
			continue
		}
		if f.List {
			value = listForWrite(value)
		}
		out[f.Remote] = value
	}
	return out, nil
}
