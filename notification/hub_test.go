package notification

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/TpPoom/POS-System/models"
)

func startRelay(t *testing.T) (string, func()) {
	t.Helper()

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(hub)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	return url, func() {
		srv.Close()
		cancel()
	}
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env Envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read envelope: %v", err)
	}
	return env
}

func readBacklog(t *testing.T, conn *websocket.Conn) []models.Notification {
	t.Helper()
	env := readEnvelope(t, conn)
	if env.Event != EventInitial {
		t.Fatalf("first message must be %s, got %s", EventInitial, env.Event)
	}
	var backlog []models.Notification
	if err := json.Unmarshal(env.Data, &backlog); err != nil {
		t.Fatalf("decode backlog: %v", err)
	}
	return backlog
}

func publish(t *testing.T, conn *websocket.Conn, message, table string) {
	t.Helper()
	raw, _ := json.Marshal(sendRequest{Message: message, Table: table})
	if err := conn.WriteJSON(Envelope{Event: EventSend, Data: raw}); err != nil {
		t.Fatalf("publish: %v", err)
	}
}

func acknowledge(t *testing.T, conn *websocket.Conn, id int64) {
	t.Helper()
	raw, _ := json.Marshal(deleteRequest{ID: id})
	if err := conn.WriteJSON(Envelope{Event: EventDelete, Data: raw}); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
}

func TestPublishReachesEveryClientIncludingPublisher(t *testing.T) {
	url, stop := startRelay(t)
	defer stop()

	a := dial(t, url)
	defer a.Close()
	b := dial(t, url)
	defer b.Close()

	if backlog := readBacklog(t, a); len(backlog) != 0 {
		t.Fatalf("fresh relay should have an empty backlog, got %d", len(backlog))
	}
	if backlog := readBacklog(t, b); len(backlog) != 0 {
		t.Fatalf("fresh relay should have an empty backlog, got %d", len(backlog))
	}

	publish(t, a, models.NotifyService, "T3")

	for _, conn := range []*websocket.Conn{a, b} {
		env := readEnvelope(t, conn)
		if env.Event != EventNew {
			t.Fatalf("want %s, got %s", EventNew, env.Event)
		}
		var n models.Notification
		if err := json.Unmarshal(env.Data, &n); err != nil {
			t.Fatal(err)
		}
		if n.Message != models.NotifyService || n.Table != "T3" {
			t.Fatalf("unexpected notification %+v", n)
		}
		if n.ID == 0 || n.Timestamp == "" {
			t.Fatalf("relay must assign id and timestamp, got %+v", n)
		}
	}
}

func TestLateJoinerReceivesBacklogAndAckClearsEverywhere(t *testing.T) {
	url, stop := startRelay(t)
	defer stop()

	a := dial(t, url)
	defer a.Close()
	readBacklog(t, a)

	publish(t, a, models.NotifyService, "T3")
	env := readEnvelope(t, a)
	var n models.Notification
	if err := json.Unmarshal(env.Data, &n); err != nil {
		t.Fatal(err)
	}

	// A dashboard opened after the Service call still sees it.
	b := dial(t, url)
	defer b.Close()
	backlog := readBacklog(t, b)
	if len(backlog) != 1 || backlog[0].ID != n.ID {
		t.Fatalf("late joiner should see the outstanding notification, got %+v", backlog)
	}

	acknowledge(t, b, n.ID)

	for _, conn := range []*websocket.Conn{a, b} {
		env := readEnvelope(t, conn)
		if env.Event != EventDelete {
			t.Fatalf("want %s, got %s", EventDelete, env.Event)
		}
		var del deleteRequest
		if err := json.Unmarshal(env.Data, &del); err != nil {
			t.Fatal(err)
		}
		if del.ID != n.ID {
			t.Fatalf("removal should carry id %d, got %d", n.ID, del.ID)
		}
	}

	// Anyone connecting after the ack gets a clean backlog.
	c := dial(t, url)
	defer c.Close()
	if backlog := readBacklog(t, c); len(backlog) != 0 {
		t.Fatalf("acknowledged notification must not reappear, got %+v", backlog)
	}
}

func TestReconnectRecoversUnacknowledgedNotifications(t *testing.T) {
	url, stop := startRelay(t)
	defer stop()

	a := dial(t, url)
	readBacklog(t, a)
	publish(t, a, models.NotifyBill, "T1")
	readEnvelope(t, a)
	a.Close()

	// The same page reconnecting relies on the snapshot, not on replay.
	again := dial(t, url)
	defer again.Close()
	backlog := readBacklog(t, again)
	if len(backlog) != 1 || backlog[0].Message != models.NotifyBill || backlog[0].Table != "T1" {
		t.Fatalf("unacknowledged notification should survive reconnect, got %+v", backlog)
	}
}

func TestMalformedNotificationIsDropped(t *testing.T) {
	url, stop := startRelay(t)
	defer stop()

	a := dial(t, url)
	defer a.Close()
	readBacklog(t, a)

	publish(t, a, "Party", "T1") // not one of Order/Bill/Service
	publish(t, a, models.NotifyOrder, "T2")

	env := readEnvelope(t, a)
	var n models.Notification
	if err := json.Unmarshal(env.Data, &n); err != nil {
		t.Fatal(err)
	}
	if n.Message != models.NotifyOrder {
		t.Fatalf("invalid message should have been dropped, got %+v", n)
	}

	b := dial(t, url)
	defer b.Close()
	backlog := readBacklog(t, b)
	if len(backlog) != 1 || backlog[0].Message != models.NotifyOrder {
		t.Fatalf("backlog should only hold the valid notification, got %+v", backlog)
	}
}

func TestShutdownReleasesConnectionPumps(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(hub)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	before := runtime.NumGoroutine()

	conns := make([]*websocket.Conn, 0, 3)
	for i := 0; i < 3; i++ {
		conn := dial(t, url)
		readBacklog(t, conn)
		conns = append(conns, conn)
	}

	cancel()

	// Shutdown closes every connection from the hub side; drain until the
	// close surfaces, then release our end so only leaked pumps remain.
	for _, conn := range conns {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		conn.Close()
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if runtime.NumGoroutine() <= before {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("connection goroutines still running after shutdown: %d, baseline %d",
		runtime.NumGoroutine(), before)
}

func TestNotificationIDsAreStrictlyIncreasing(t *testing.T) {
	url, stop := startRelay(t)
	defer stop()

	a := dial(t, url)
	defer a.Close()
	readBacklog(t, a)

	var last int64
	for i := 0; i < 5; i++ {
		publish(t, a, models.NotifyService, "T1")
		env := readEnvelope(t, a)
		var n models.Notification
		if err := json.Unmarshal(env.Data, &n); err != nil {
			t.Fatal(err)
		}
		if n.ID <= last {
			t.Fatalf("ids must increase: %d after %d", n.ID, last)
		}
		last = n.ID
	}
}
