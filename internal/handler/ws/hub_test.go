package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"SmartBank/internal/domain/models"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

func TestHubBroadcastsToClients(t *testing.T) {
	hub := NewHub(nil)
	e := echo.New()
	hub.RegisterRoutes(e)
	srv := httptest.NewServer(e)
	defer srv.Close()
	defer hub.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/notifications/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.Broadcast(models.Notification{ID: 7, Type: models.NotificationSuccess, Message: "hello"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got models.Notification
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.ID != 7 || got.Message != "hello" {
		t.Fatalf("unexpected notification %+v", got)
	}
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://bank.example"})
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Origin", "https://evil.example")
	if check(r) {
		t.Fatalf("unexpected origin accepted")
	}
	r.Header.Set("Origin", "https://bank.example")
	if !check(r) {
		t.Fatalf("configured origin rejected")
	}
	if !originChecker(nil)(r) {
		t.Fatalf("empty list should accept any origin")
	}
}
