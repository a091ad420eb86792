package airtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSchema_RejectsDuplicateRemoteNames(t *testing.T) {
	_, err := ParseSchema([]byte(`
tables:
  posts:
    remote: Posts
    fields:
      a: { remote: Same }
      b: { remote: Same }
`))
	assert.Error(t, err)
}

func TestParseSchema_RequiresRemoteTable(t *testing.T) {
	_, err := ParseSchema([]byte(`
tables:
  posts:
    fields:
      a: { remote: A }
`))
	assert.Error(t, err)
}

func TestSetRemoteTables(t *testing.T) {
	schema, err := LoadSchema("")
	require.NoError(t, err)

	schema.SetRemoteTables(map[string]string{TablePosts: "tblPosts123", "unknown": "x"})

	table, err := schema.Table(TablePosts)
	require.NoError(t, err)
	assert.Equal(t, "tblPosts123", table.Remote)
}

func TestNormalizeList(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{[]any{"twitter", "linkedin"}, "twitter, linkedin"},
		{"twitter,linkedin", "twitter, linkedin"},
		{"twitter, linkedin", "twitter, linkedin"},
		{" twitter ,, linkedin ", "twitter, linkedin"},
		{nil, ""},
		{[]string{"blog"}, "blog"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, normalizeList(tc.in))
	}
}
