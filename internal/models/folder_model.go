package models

const (
	FolderFieldName = "name"
	FolderFieldURL  = "url"
)

type VideoFolder struct {
	RecordID string `json:"recordId"`
	Name     string `json:"name"`
	URL      string `json:"url"`
}

func VideoFolderFromRecord(r Record) VideoFolder {
	return VideoFolder{
		RecordID: r.ID,
		Name:     r.Fields.String(FolderFieldName),
		URL:      r.Fields.String(FolderFieldURL),
	}
}
