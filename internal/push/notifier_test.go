package push

import (
	"errors"
	"testing"
	"time"
)

func TestMessageValidate(t *testing.T) {
	cases := []struct {
		name string
		msg  Message
		want error
	}{
		{"normal", Message{Priority: PriorityNormal}, nil},
		{"high with ttl", Message{Priority: PriorityHigh, TTL: time.Hour}, nil},
		{"max ttl", Message{Priority: PriorityNormal, TTL: MaxTTL}, nil},
		{"empty priority", Message{}, ErrInvalidPriority},
		{"unknown priority", Message{Priority: "urgent"}, ErrInvalidPriority},
		{"negative ttl", Message{Priority: PriorityNormal, TTL: -time.Second}, ErrInvalidTTL},
		{"ttl over max", Message{Priority: PriorityNormal, TTL: MaxTTL + time.Second}, ErrInvalidTTL},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.msg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestConvertData(t *testing.T) {
	out := ConvertData(map[string]any{
		"text":  "plain",
		"count": 7,
		"ok":    true,
		"obj":   map[string]any{"a": 1},
	})

	if out["text"] != "plain" {
		t.Fatalf("string value must pass through, got %q", out["text"])
	}
	if out["count"] != "7" {
		t.Fatalf("count = %q", out["count"])
	}
	if out["ok"] != "true" {
		t.Fatalf("ok = %q", out["ok"])
	}
	if out["obj"] != `{"a":1}` {
		t.Fatalf("obj = %q", out["obj"])
	}
}

func TestConvertData_DropsUnmarshalable(t *testing.T) {
	out := ConvertData(map[string]any{
		"good": "v",
		"bad":  make(chan int),
	})
	if out["good"] != "v" {
		t.Fatalf("good = %q", out["good"])
	}
	if _, present := out["bad"]; present {
		t.Fatal("unmarshalable value must be dropped")
	}
}
