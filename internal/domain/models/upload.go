package models

import (
	"encoding/json"
	"time"
)

// Upload statuses.
const (
	UploadProcessed = "Processed"
	UploadFailed    = "Failed"
)

// Kinds of content detected in an uploaded file.
const (
	DataKindCSV        = "csv"
	DataKindTimeSeries = "timeseries"
	DataKindRecords    = "records"
	DataKindDocument   = "document"
)

// UploadMetadata is stored alongside the upload payload.
type UploadMetadata struct {
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimetype"`
	DataKind     string    `json:"dataKind"`
	Rows         int       `json:"rows"`
	Series       string    `json:"series,omitempty"`
	Ingested     int       `json:"ingested,omitempty"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

type Upload struct {
	ID         int64           `json:"id"`
	FileName   string          `json:"file_name"`
	FileSize   int64           `json:"file_size"`
	FileType   string          `json:"file_type"`
	Data       json.RawMessage `json:"data,omitempty"`
	Metadata   UploadMetadata  `json:"metadata"`
	Status     string          `json:"status"`
	UploadedAt time.Time       `json:"uploaded_at"`
}

// UploadSummary is an Upload without its payload, used for listings.
type UploadSummary struct {
	ID         int64          `json:"id"`
	FileName   string         `json:"file_name"`
	FileSize   int64          `json:"file_size"`
	FileType   string         `json:"file_type"`
	Metadata   UploadMetadata `json:"metadata"`
	Status     string         `json:"status"`
	UploadedAt time.Time      `json:"uploaded_at"`
}
