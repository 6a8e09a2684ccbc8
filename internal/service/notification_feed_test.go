package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/Gilson1506/CCALLASPROJET/internal/realtime"
)

func insertChange(t *testing.T, table string, row map[string]any) realtime.Change {
	t.Helper()
	rec, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return realtime.Change{Table: table, Type: realtime.Insert, Record: rec}
}

func TestNotificationFeed_RegistrationAndMessage(t *testing.T) {
	broker := realtime.NewBroker(0)
	feed := NewNotificationFeed(broker)
	feed.Start()
	defer feed.Stop()

	events, stop := feed.Listen()
	defer stop()

	broker.Publish(insertChange(t, "registrations", map[string]any{"user_name": "Ana Silva", "event_name": "FILDA 2026"}))
	broker.Publish(insertChange(t, "messages", map[string]any{"sender": "João", "subject": "Stand"}))
	broker.Publish(realtime.Change{Table: "registrations", Type: realtime.Update, Record: json.RawMessage(`{}`)})

	var got []model.Notification
	for len(got) < 2 {
		select {
		case n := <-events:
			got = append(got, n)
		case <-time.After(time.Second):
			t.Fatalf("timed out, got %d notifications", len(got))
		}
	}

	if got[0].Title != "Nova Inscrição!" || got[0].Message != "Ana Silva inscreveu-se em FILDA 2026" {
		t.Errorf("unexpected registration notification %+v", got[0])
	}
	if got[1].Title != "Nova Mensagem!" || got[1].Message != "De: João - Stand" {
		t.Errorf("unexpected message notification %+v", got[1])
	}
	if !got[0].Sound || got[0].Read {
		t.Errorf("expected unread notification with sound, got %+v", got[0])
	}

	list := feed.List()
	if len(list) != 2 || list[0].Type != model.NotificationMessage {
		t.Errorf("expected newest first, got %+v", list)
	}
	if feed.Unread() != 2 {
		t.Errorf("expected unread=2, got %d", feed.Unread())
	}

	feed.MarkAllRead()
	if feed.Unread() != 0 {
		t.Errorf("expected unread=0, got %d", feed.Unread())
	}
	for _, n := range feed.List() {
		if !n.Read {
			t.Errorf("notification %d should be read", n.ID)
		}
	}
}

func TestNotificationFeed_StopClosesListenersAndSubscription(t *testing.T) {
	broker := realtime.NewBroker(0)
	feed := NewNotificationFeed(broker)
	feed.Start()
	events, stop := feed.Listen()

	feed.Stop()
	stop()

	if _, ok := <-events; ok {
		t.Error("expected listener channel closed")
	}
	if broker.Len() != 0 {
		t.Errorf("expected subscription removed, got %d", broker.Len())
	}
	feed.Stop()
}

func TestNotificationFromChange_TruncatedMessage(t *testing.T) {
	c, err := realtime.ParseChange([]byte(`{"table":"messages","type":"INSERT","truncated":true,` +
		`"record":{"id":"6f1c","sender":"Marta","subject":"Patrocínio"}}`))
	if err != nil {
		t.Fatal(err)
	}
	n, err := notificationFromChange(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Message != "De: Marta - Patrocínio" {
		t.Errorf("unexpected message %q", n.Message)
	}
}
