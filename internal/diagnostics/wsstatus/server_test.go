package wsstatus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/aerolume/iekf-nav/internal/messages"
)

func TestBroadcastWithNoClientsDoesNotPanic(t *testing.T) {
	s := New()
	s.Broadcast(messages.EstimatorStatus{TimestampUs: 1})
}

func TestBroadcastReachesConnectedClient(t *testing.T) {
	s := New()
	srv := httptest.NewServer(http.HandlerFunc(s.HandleWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	// give HandleWS a moment to register the connection before
	// broadcasting.
	deadline := time.Now().Add(time.Second)
	for len(s.clients) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	s.Broadcast(messages.EstimatorStatus{TimestampUs: 42})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !strings.Contains(string(payload), `"timestamp":42`) {
		t.Fatalf("payload = %s, want timestamp 42", payload)
	}
}
