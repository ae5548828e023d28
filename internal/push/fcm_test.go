package push

import (
	"context"
	"errors"
	"testing"
	"time"

	"firebase.google.com/go/v4/messaging"
)

// fakeSender captures the outgoing FCM message.
type fakeSender struct {
	got *messaging.Message
	err error
}

func (f *fakeSender) Send(_ context.Context, message *messaging.Message) (string, error) {
	f.got = message
	if f.err != nil {
		return "", f.err
	}
	return "projects/p/messages/1", nil
}

func TestFCMSend_Token(t *testing.T) {
	fake := &fakeSender{}
	n := &FCMNotifier{client: fake}

	id, err := n.Send(context.Background(), Message{
		To:       "device-token",
		Data:     map[string]string{"k": "v"},
		Priority: PriorityHigh,
		TTL:      90 * time.Second,
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if id != "projects/p/messages/1" {
		t.Fatalf("id = %q", id)
	}

	if fake.got.Token != "device-token" || fake.got.Topic != "" {
		t.Fatalf("token routing: token=%q topic=%q", fake.got.Token, fake.got.Topic)
	}
	if fake.got.Data["k"] != "v" {
		t.Fatalf("data mismatch: %v", fake.got.Data)
	}
	if fake.got.Android == nil || fake.got.Android.Priority != PriorityHigh {
		t.Fatalf("android config mismatch: %+v", fake.got.Android)
	}
	if fake.got.Android.TTL == nil || *fake.got.Android.TTL != 90*time.Second {
		t.Fatalf("ttl mismatch: %v", fake.got.Android.TTL)
	}
}

func TestFCMSend_Topic(t *testing.T) {
	fake := &fakeSender{}
	n := &FCMNotifier{client: fake}

	if _, err := n.Send(context.Background(), Message{
		To:       "/topics/deploys",
		Data:     map[string]string{"k": "v"},
		Priority: PriorityNormal,
	}); err != nil {
		t.Fatalf("send: %v", err)
	}

	if fake.got.Topic != "deploys" || fake.got.Token != "" {
		t.Fatalf("topic routing: token=%q topic=%q", fake.got.Token, fake.got.Topic)
	}
}

func TestFCMSend_RejectsInvalidMessage(t *testing.T) {
	fake := &fakeSender{}
	n := &FCMNotifier{client: fake}

	_, err := n.Send(context.Background(), Message{To: "tok", Priority: "urgent"})
	if !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
	if fake.got != nil {
		t.Fatal("invalid message must not reach the client")
	}
}

func TestFCMSend_PropagatesClientError(t *testing.T) {
	fake := &fakeSender{err: errors.New("UNREGISTERED")}
	n := &FCMNotifier{client: fake}

	_, err := n.Send(context.Background(), Message{
		To:       "tok",
		Data:     map[string]string{"k": "v"},
		Priority: PriorityHigh,
	})
	if err == nil || err.Error() != "UNREGISTERED" {
		t.Fatalf("expected client error, got %v", err)
	}
}
