package airtable

import (
	"strings"

	"github.com/maheshrc27/contentdesk/internal/models"
	"github.com/spf13/cast"
)

// normalizeList accepts either an array or a comma joined string and
// returns the canonical "a, b" string.
func normalizeList(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return models.JoinList(models.SplitList(v))
	case []string:
		return models.JoinList(trimAll(v))
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, cast.ToString(item))
		}
		return models.JoinList(trimAll(items))
	default:
		return cast.ToString(v)
	}
}

// listForWrite sends list fields as arrays, which multi-select columns need.
func listForWrite(value any) any {
	switch v := value.(type) {
	case string:
		items := models.SplitList(v)
		if items == nil {
			return []string{}
		}
		return items
	case []any, []string:
		return models.SplitList(normalizeList(v))
	default:
		return value
	}
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
