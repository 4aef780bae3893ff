package upload

import (
	"errors"
	"strings"
	"testing"
	"time"

	"SmartBank/internal/domain/models"
)

func TestFileType(t *testing.T) {
	if ft, err := FileType("Report.CSV"); err != nil || ft != TypeCSV {
		t.Fatalf("unexpected %q %v", ft, err)
	}
	if _, err := FileType("notes.txt"); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected unsupported type, got %v", err)
	}
}

func TestAnalyzeCSVCountsRowsWithoutHeader(t *testing.T) {
	content := "date,value\n2025-01-01,10\n\n2025-01-02,12\n , \n"
	res, err := Analyze("vol.csv", []byte(content))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.Kind != models.DataKindCSV || res.Rows != 2 {
		t.Fatalf("unexpected kind/rows %s/%d", res.Kind, res.Rows)
	}
	if len(res.Series) != 2 || res.Series[1].Value != 12 {
		t.Fatalf("dated csv should yield points, got %+v", res.Series)
	}
	if !res.Series[0].Timestamp.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected timestamp %v", res.Series[0].Timestamp)
	}
}

func TestAnalyzeCSVWithoutDateColumn(t *testing.T) {
	res, err := Analyze("c.csv", []byte("name,amount\nA,1\n"))
	if err != nil || res.Rows != 1 || res.Series != nil {
		t.Fatalf("unexpected %+v %v", res, err)
	}
}

func TestAnalyzeJSONKinds(t *testing.T) {
	cases := []struct {
		body string
		kind string
		rows int
	}{
		{`[{"date":"2025-01-01","value":1},{"month":"2025-02","value":2}]`, models.DataKindTimeSeries, 2},
		{`[{"name":"a"},{"name":"b"},{"name":"c"}]`, models.DataKindRecords, 3},
		{`[{"date":"2025-01-01"}, 5]`, models.DataKindRecords, 2},
		{`{"total": 1}`, models.DataKindDocument, 1},
	}
	for _, tc := range cases {
		res, err := Analyze("x.json", []byte(tc.body))
		if err != nil {
			t.Fatalf("%s: %v", tc.body, err)
		}
		if res.Kind != tc.kind || res.Rows != tc.rows {
			t.Fatalf("%s: got %s/%d want %s/%d", tc.body, res.Kind, res.Rows, tc.kind, tc.rows)
		}
	}
}

func TestAnalyzeRejectsBadContent(t *testing.T) {
	for _, body := range []string{"", "   ", "42", `{"a":1} {"b":2}`, "{broken"} {
		if _, err := Analyze("x.json", []byte(body)); err == nil {
			t.Fatalf("expected error for %q", body)
		}
	}
}

func TestRenderCSVRoundTrip(t *testing.T) {
	res, err := Analyze("a.csv", []byte("a,b\n1,\"x,y\"\n"))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	ct, body, err := Render(TypeCSV, res.Data)
	if err != nil || ct != "text/csv" {
		t.Fatalf("render: %q %v", ct, err)
	}
	if string(body) != "a,b\n1,\"x,y\"\n" {
		t.Fatalf("unexpected csv %q", body)
	}
}

func TestRenderJSONIndents(t *testing.T) {
	_, body, err := Render(TypeJSON, []byte(`{"a":1}`))
	if err != nil || !strings.Contains(string(body), "\n  \"a\": 1") {
		t.Fatalf("unexpected json %q %v", body, err)
	}
	if _, _, err := Render("xml", nil); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected unsupported type")
	}
}
