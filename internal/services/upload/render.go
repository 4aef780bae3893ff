package upload

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
)

// Render turns a stored upload back into a downloadable body.
func Render(fileType string, data json.RawMessage) (contentType string, body []byte, err error) {
	switch fileType {
	case TypeJSON:
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return "", nil, fmt.Errorf("indent json: %w", err)
		}
		return "application/json", buf.Bytes(), nil
	case TypeCSV:
		var stored struct {
			Rows [][]string `json:"rows"`
		}
		if err := json.Unmarshal(data, &stored); err != nil {
			return "", nil, fmt.Errorf("decode csv rows: %w", err)
		}
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.WriteAll(stored.Rows); err != nil {
			return "", nil, fmt.Errorf("write csv: %w", err)
		}
		return "text/csv", buf.Bytes(), nil
	default:
		return "", nil, ErrUnsupportedType
	}
}
