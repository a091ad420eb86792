package models

const (
	GuidelineKindMain  = "main"
	GuidelineKindStyle = "style"
)

const (
	GuidelineFieldKind        = "kind"
	GuidelineFieldGuidelines  = "guidelines"
	GuidelineFieldStyleName   = "styleName"
	GuidelineFieldStylePrompt = "stylePrompt"
)

type BrandGuideline struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Guidelines  string `json:"guidelines,omitempty"`
	StyleName   string `json:"styleName,omitempty"`
	StylePrompt string `json:"stylePrompt,omitempty"`
}

// GuidelineFromRecord tags the record once. An explicit kind field wins;
// otherwise a record carrying a style name or prompt is a style record.
func GuidelineFromRecord(r Record) BrandGuideline {
	g := BrandGuideline{
		ID:          r.ID,
		Guidelines:  r.Fields.String(GuidelineFieldGuidelines),
		StyleName:   r.Fields.String(GuidelineFieldStyleName),
		StylePrompt: r.Fields.String(GuidelineFieldStylePrompt),
	}

	switch kind := r.Fields.String(GuidelineFieldKind); kind {
	case GuidelineKindMain, GuidelineKindStyle:
		g.Kind = kind
	default:
		if g.StyleName != "" || g.StylePrompt != "" {
			g.Kind = GuidelineKindStyle
		} else {
			g.Kind = GuidelineKindMain
		}
	}
	return g
}
