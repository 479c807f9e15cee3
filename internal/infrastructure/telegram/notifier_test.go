package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"ArticleEnhancer/internal/config"
)

func TestNotifierNotify(t *testing.T) {
	t.Parallel()

	var gotPath, gotChat, gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotPath = r.URL.Path
		gotChat = r.PostForm.Get("chat_id")
		gotText = r.PostForm.Get("text")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewNotifier(config.TelegramConfig{BotToken: "token", ChatID: "42"}, server.Client())
	n.apiBase = server.URL

	if err := n.Notify(context.Background(), "enhanced: 2"); err != nil {
		t.Fatalf("Notify error: %v", err)
	}
	if gotPath != "/bottoken/sendMessage" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotChat != "42" || gotText != "enhanced: 2" {
		t.Fatalf("unexpected form: chat=%s text=%s", gotChat, gotText)
	}
}

func TestNotifierErrors(t *testing.T) {
	t.Parallel()

	if err := NewNotifier(config.TelegramConfig{}, nil).Notify(context.Background(), "x"); err == nil {
		t.Fatalf("expected misconfiguration error")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	n := NewNotifier(config.TelegramConfig{BotToken: "bad", ChatID: "1"}, server.Client())
	n.apiBase = server.URL
	if err := n.Notify(context.Background(), "x"); err == nil {
		t.Fatalf("expected error for 401 response")
	}
}
