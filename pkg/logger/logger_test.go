package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestWriterLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "info")
	l.Info("series filtered", String("series", "trade_count"), Int("points", 7), Bool("fallback", false))

	var got map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("expected json line, got %q: %v", buf.String(), err)
	}
	if got["message"] != "series filtered" || got["series"] != "trade_count" || got["points"] != float64(7) {
		t.Fatalf("unexpected log line %v", got)
	}
}

func TestWriterLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "warn")
	l.Info("dropped")
	l.Debug("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info must be filtered at warn level, got %q", buf.String())
	}
	l.Warn("kept")
	if buf.Len() == 0 {
		t.Fatalf("warn should be written")
	}
}

func TestWithCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "info").With(String("component", "uploads"))
	l.Info("hello")
	if !bytes.Contains(buf.Bytes(), []byte(`"component":"uploads"`)) {
		t.Fatalf("child logger lost its fields: %q", buf.String())
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	topic  string
	batch  LogBatch
	called chan struct{}
}

func (p *recordingPublisher) PublishMessage(_ context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topic = topic
	p.batch = payload.(LogBatch)
	close(p.called)
	return nil
}

func TestCollectorAggregatesErrors(t *testing.T) {
	pub := &recordingPublisher{called: make(chan struct{})}
	l := Nop()
	l.AddCollector(&CollectionConfig{Source: "smartbank-test", TimeInterval: time.Hour, CountThreshold: 10, Topic: "logs", Publisher: pub})

	for i := 0; i < 3; i++ {
		l.Error("store unavailable", Error(errors.New("dial tcp: refused")), Int("attempt", i))
	}
	if n := l.collector.Pending(); n != 1 {
		t.Fatalf("identical errors should collapse into one entry, got %d", n)
	}
	l.RemoveCollector()

	select {
	case <-pub.called:
	case <-time.After(2 * time.Second):
		t.Fatalf("collector did not flush on close")
	}
	pub.mu.Lock()
	defer pub.mu.Unlock()
	if pub.topic != "logs" || pub.batch.Source != "smartbank-test" || len(pub.batch.Entries) != 1 {
		t.Fatalf("unexpected flushed batch %+v", pub.batch)
	}
	e := pub.batch.Entries[0]
	if e.Count != 3 || e.Fields["attempt"] != 0 {
		t.Fatalf("entry should count all occurrences and keep the first fields, got %+v", e)
	}
}
