package models

import "time"

// Event types carried on the event backend.
const (
	EventUploadProcessed = "upload.processed"
	EventSeriesIngested  = "series.ingested"
)

// UploadEvent is published after an upload has been stored.
type UploadEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	UploadID   int64     `json:"upload_id"`
	FileName   string    `json:"file_name"`
	FileSize   int64     `json:"file_size"`
	DataKind   string    `json:"data_kind"`
	Rows       int       `json:"rows"`
	Series     string    `json:"series,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
