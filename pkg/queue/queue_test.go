package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type uploadPayload struct {
	UploadID int64  `json:"upload_id"`
	FileName string `json:"file_name"`
}

func TestNewMessageAndParsePayload(t *testing.T) {
	now := time.Date(2025, 2, 27, 10, 0, 0, 0, time.UTC)
	msg, err := NewMessage("id-1", "upload.processed", uploadPayload{UploadID: 7, FileName: "a.csv"}, now)
	if err != nil {
		t.Fatalf("new message: %v", err)
	}

	data, _ := json.Marshal(msg)
	var back Message
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	p, err := ParsePayload[uploadPayload](back.Payload)
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	if p.UploadID != 7 || p.FileName != "a.csv" || back.Type != "upload.processed" {
		t.Fatalf("unexpected payload %+v", p)
	}
}

func TestNewMessageRejectsInvalidRaw(t *testing.T) {
	if _, err := NewMessage("id", "t", []byte("{not json"), time.Now()); err == nil {
		t.Fatalf("expected invalid json error")
	}
	if _, err := ParsePayload[uploadPayload](nil); err == nil {
		t.Fatalf("expected empty payload error")
	}
}

func TestKeysAndModes(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()
	q := NewRedisQueue(nil, nil, client, ModeProducerOnly, WithKeyPrefix("sb:events"))
	if q.queueKey() != "sb:events:messages" || q.retryKey() != "sb:events:retry" || q.deadLetterKey() != "sb:events:dlq" {
		t.Fatalf("unexpected keys")
	}
	if q.config.Workers != 1 || q.config.RetryDelay != 10*time.Second {
		t.Fatalf("defaults not applied: %+v", q.config)
	}
	q.RegisterJob(JobFunc{JobName: "x", MsgType: "t", Fn: func(context.Context, json.RawMessage) error { return nil }})
	if len(q.jobs) != 0 {
		t.Fatalf("producer-only queue must ignore jobs")
	}
	if err := q.Enqueue(context.Background(), "t", 1); err == nil {
		t.Fatalf("enqueue before start must fail")
	}
	if ModeConsumerOnly.String() != "consumer-only" {
		t.Fatalf("unexpected mode string")
	}
}
