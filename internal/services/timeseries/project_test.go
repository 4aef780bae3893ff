package timeseries

import "testing"

func TestProjectSingleValue(t *testing.T) {
	s := daily(day(2025, 1, 1), 3)
	c := Project(s, nil)
	if len(c.Labels) != 3 || len(c.Datasets) != 1 {
		t.Fatalf("unexpected chart shape %+v", c)
	}
	if c.Datasets[0].Label != ValueField {
		t.Fatalf("expected value dataset, got %q", c.Datasets[0].Label)
	}
	for i := range s {
		if c.Labels[i] != s[i].Timestamp.Format(LabelLayout) || c.Datasets[0].Data[i] != s[i].Value {
			t.Fatalf("index %d misaligned", i)
		}
	}
}

func TestProjectMultiField(t *testing.T) {
	s := Series{
		{Timestamp: day(2025, 1, 1), Fields: map[string]float64{"Equity": 40, "FX": 20}},
		{Label: "bad-date", Fields: map[string]float64{"Equity": 41}},
	}
	c := Project(s, nil)
	if len(c.Datasets) != 2 || c.Datasets[0].Label != "Equity" || c.Datasets[1].Label != "FX" {
		t.Fatalf("unexpected datasets %+v", c.Datasets)
	}
	if c.Labels[1] != "bad-date" {
		t.Fatalf("expected raw label for point without timestamp, got %q", c.Labels[1])
	}
	if c.Datasets[1].Data[1] != 0 {
		t.Fatalf("missing field should project as zero")
	}
}

func TestProjectSelectedFields(t *testing.T) {
	s := Series{{Timestamp: day(2025, 1, 1), Fields: map[string]float64{"a": 1, "b": 2}}}
	c := Project(s, []string{"b"})
	if len(c.Datasets) != 1 || c.Datasets[0].Data[0] != 2 {
		t.Fatalf("unexpected projection %+v", c)
	}
}

func TestProjectEmpty(t *testing.T) {
	c := Project(Series{}, nil)
	if len(c.Labels) != 0 || len(c.Datasets) != 1 || len(c.Datasets[0].Data) != 0 {
		t.Fatalf("unexpected empty chart %+v", c)
	}
}
