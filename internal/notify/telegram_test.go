package notify

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeSender struct {
	sent   []tgbotapi.Chattable
	failOn int64
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	switch m := c.(type) {
	case tgbotapi.MessageConfig:
		if m.ChatID == f.failOn {
			return tgbotapi.Message{}, errors.New("Bad Request: chat not found")
		}
	case tgbotapi.DocumentConfig:
		if m.ChatID == f.failOn {
			return tgbotapi.Message{}, errors.New("Too Many Requests: retry after 5")
		}
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func TestNotifyAdmins(t *testing.T) {
	s := &fakeSender{failOn: 2}
	n := NewTelegram(s, []int64{1, 2, 3}, nil)
	n.NotifyAdmins(context.Background(), "new product pending")
	if len(s.sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(s.sent))
	}
	if m := s.sent[1].(tgbotapi.MessageConfig); m.ChatID != 3 || m.Text != "new product pending" {
		t.Fatalf("message = %+v", m)
	}
}

func TestSendDocumentToAdmins(t *testing.T) {
	s := &fakeSender{failOn: 2}
	n := NewTelegram(s, []int64{1, 2}, nil)
	err := n.SendDocumentToAdmins(context.Background(), "report.xlsx", []byte("x"), "Judging report")
	if err == nil {
		t.Fatal("expected the failed chat to be reported")
	}
	if len(s.sent) != 1 {
		t.Fatalf("sent = %d", len(s.sent))
	}
	if d := s.sent[0].(tgbotapi.DocumentConfig); d.Caption != "Judging report" {
		t.Fatalf("caption = %q", d.Caption)
	}
}

func TestNewDisabled(t *testing.T) {
	n, err := New("", []int64{1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := n.(Nop); !ok {
		t.Fatalf("got %T", n)
	}
}

func TestIsSystemErr(t *testing.T) {
	cases := map[string]bool{
		"Too Many Requests: retry after 3": true,
		"Post ...: i/o timeout":            true,
		"502 Bad Gateway":                  true,
		"Bad Request: chat not found":      false,
		"Forbidden: bot was blocked":       false,
	}
	for msg, want := range cases {
		if got := isSystemErr(errors.New(msg)); got != want {
			t.Errorf("isSystemErr(%q) = %v", msg, got)
		}
	}
	if isSystemErr(nil) {
		t.Fatal("nil is not an error")
	}
}
