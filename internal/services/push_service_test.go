package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ccpush/go-interact-backend/internal/push"
)

func TestPushSend_MissingTo(t *testing.T) {
	svc := &PushService{Notifier: &stubNotifier{}}

	_, err := svc.Send(context.Background(), SendInput{Data: map[string]any{"k": "v"}, Priority: push.PriorityNormal})
	var missing *MissingFieldError
	if !errors.As(err, &missing) || missing.Field != "to" {
		t.Fatalf("expected MissingFieldError{to}, got %v", err)
	}
}

func TestPushSend_MissingData(t *testing.T) {
	svc := &PushService{Notifier: &stubNotifier{}}

	_, err := svc.Send(context.Background(), SendInput{To: "tok", Priority: push.PriorityNormal})
	var missing *MissingFieldError
	if !errors.As(err, &missing) || missing.Field != "data" {
		t.Fatalf("expected MissingFieldError{data}, got %v", err)
	}
}

func TestPushSend_InvalidPriority(t *testing.T) {
	svc := &PushService{Notifier: &stubNotifier{}}

	_, err := svc.Send(context.Background(), SendInput{
		To:       "tok",
		Data:     map[string]any{"k": "v"},
		Priority: "urgent",
	})
	if !errors.Is(err, push.ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
}

func TestPushSend_InvalidTTL(t *testing.T) {
	svc := &PushService{Notifier: &stubNotifier{}}

	for _, ttl := range []int{-1, 2419201} {
		_, err := svc.Send(context.Background(), SendInput{
			To:         "tok",
			Data:       map[string]any{"k": "v"},
			Priority:   push.PriorityHigh,
			TTLSeconds: ttl,
		})
		if !errors.Is(err, push.ErrInvalidTTL) {
			t.Fatalf("ttl %d: expected ErrInvalidTTL, got %v", ttl, err)
		}
	}
}

func TestPushSend_ConvertsDataAndForwards(t *testing.T) {
	notifier := &stubNotifier{}
	svc := &PushService{Notifier: notifier}

	id, err := svc.Send(context.Background(), SendInput{
		To:         "/topics/alerts",
		Data:       map[string]any{"text": "hello", "count": 3, "flags": []string{"a", "b"}},
		Priority:   push.PriorityNormal,
		TTLSeconds: 60,
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if id != "stub-msg-id" {
		t.Fatalf("message id = %q", id)
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("expected one delivery, got %d", len(notifier.sent))
	}
	msg := notifier.sent[0]
	if msg.To != "/topics/alerts" {
		t.Fatalf("to = %q", msg.To)
	}
	if msg.TTL != 60*time.Second {
		t.Fatalf("ttl = %v", msg.TTL)
	}
	if msg.Data["text"] != "hello" {
		t.Fatalf("string value must pass through, got %q", msg.Data["text"])
	}
	if msg.Data["count"] != "3" {
		t.Fatalf("number must be JSON-stringified, got %q", msg.Data["count"])
	}
	if msg.Data["flags"] != `["a","b"]` {
		t.Fatalf("slice must be JSON-stringified, got %q", msg.Data["flags"])
	}
}

func TestPushSend_DeliveryFailure(t *testing.T) {
	notifier := &stubNotifier{err: errors.New("unavailable")}
	svc := &PushService{Notifier: notifier}

	_, err := svc.Send(context.Background(), SendInput{
		To:       "tok",
		Data:     map[string]any{"k": "v"},
		Priority: push.PriorityHigh,
	})
	if err == nil || err.Error() != "unavailable" {
		t.Fatalf("expected delivery error, got %v", err)
	}
}
