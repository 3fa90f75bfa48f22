package push

import (
	"Murmur/internal/api/config"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendToDevice(t *testing.T) {
	var got payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(config.PushConfig{
		URL:          server.URL,
		Timeout:      2,
		DefaultSound: "default",
	})

	err := client.SendToDevice(context.Background(), "ExponentPushToken[abc]", Notification{
		Title: "新消息",
		Body:  "你好",
		Data:  map[string]string{"type": "new_message", "conversation_id": "7"},
	})
	if err != nil {
		t.Fatalf("SendToDevice: %v", err)
	}

	if got.To != "ExponentPushToken[abc]" {
		t.Fatalf("to = %q", got.To)
	}
	if got.Title != "新消息" || got.Body != "你好" {
		t.Fatalf("title/body = %q/%q", got.Title, got.Body)
	}
	if got.Data["conversation_id"] != "7" {
		t.Fatalf("data = %v", got.Data)
	}
	// 未显式指定音效时回落到默认音效
	if got.Sound != "default" {
		t.Fatalf("sound = %q, want default", got.Sound)
	}
}

func TestSendToDeviceGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(config.PushConfig{URL: server.URL, Timeout: 2})

	err := client.SendToDevice(context.Background(), "tok", Notification{Title: "t", Body: "b"})
	if err == nil {
		t.Fatal("expected error on gateway failure")
	}
}
