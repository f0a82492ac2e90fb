package realtime

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/noteeline-backend/internal/platform/logger"
)

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func TestSSEHubOrderingAndReconnect(t *testing.T) {
	hub := NewSSEHub(logger.Nop())

	clientA := hub.NewSSEClient()
	hub.AddChannel(clientA, SessionChannel)

	hub.Broadcast(SSEMessage{Channel: SessionChannel, Event: SSEEventEntryChanged, Data: map[string]any{"seq": 1}})
	hub.Broadcast(SSEMessage{Channel: SessionChannel, Event: SSEEventStreamFragment, Data: map[string]any{"seq": 2}})

	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventEntryChanged {
		t.Fatalf("first event: got=%s", got.Event)
	}
	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventStreamFragment {
		t.Fatalf("second event: got=%s", got.Event)
	}

	hub.CloseClient(clientA)
	hub.CloseClient(clientA)
	if n := hub.Subscribers(SessionChannel); n != 0 {
		t.Fatalf("subscribers after close=%d", n)
	}

	clientB := hub.NewSSEClient()
	hub.AddChannel(clientB, SessionChannel)
	hub.Broadcast(SSEMessage{Channel: SessionChannel, Event: SSEEventNotification})
	if got := recvMessage(t, clientB.Outbound, time.Second); got.Event != SSEEventNotification {
		t.Fatalf("reconnect event: got=%s", got.Event)
	}
}

func TestSSEHubDropsWhenBufferFull(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	client := hub.NewSSEClient()
	hub.AddChannel(client, SessionChannel)
	for i := 0; i < outboundBuffer+5; i++ {
		hub.Broadcast(SSEMessage{Channel: SessionChannel, Event: SSEEventStreamFragment})
	}
	if n := len(client.Outbound); n != outboundBuffer {
		t.Fatalf("buffered=%d want %d", n, outboundBuffer)
	}
	hub.Broadcast(SSEMessage{Event: SSEEventNotification})
}

func TestSSEHubServeHTTPWritesEvents(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	client := hub.NewSSEClient()
	hub.AddChannel(client, SessionChannel)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeHTTP(w, r, client)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content-type=%q", ct)
	}

	hub.Broadcast(SSEMessage{Channel: SessionChannel, Event: SSEEventNotification, Data: Notification{Level: LevelWarning, Title: "No transcript"}})

	sc := bufio.NewScanner(resp.Body)
	var lines []string
	for sc.Scan() {
		line := sc.Text()
		if line == "" && len(lines) > 0 {
			break
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) != 2 || lines[0] != "event: Notification" || !strings.Contains(lines[1], `"title":"No transcript"`) {
		t.Fatalf("frame=%q", lines)
	}
}
