package mail

import (
	"strings"
	"testing"
)

func TestRenderMessageHeaders(t *testing.T) {
	msg := Message{
		Subject: "plain subject",
		Body:    "hello body",
		From:    "forum@example.com",
		To:      []string{"a@example.com", "b@example.com"},
	}

	raw := render(msg)
	if !strings.Contains(raw, "From: forum@example.com\r\n") {
		t.Fatalf("missing from header: %q", raw)
	}
	if !strings.Contains(raw, "To: a@example.com, b@example.com\r\n") {
		t.Fatalf("missing to header: %q", raw)
	}
	if !strings.Contains(raw, "Subject: plain subject\r\n") {
		t.Fatalf("ascii subject should stay readable: %q", raw)
	}
	if !strings.Contains(raw, "Content-Type: text/plain; charset=UTF-8\r\n") {
		t.Fatalf("missing content type: %q", raw)
	}
	if !strings.HasSuffix(raw, "\r\n\r\nhello body") {
		t.Fatalf("body should follow a blank line: %q", raw)
	}
}

func TestEncodeRFC2047(t *testing.T) {
	if got := encodeRFC2047("hello"); got != "hello" {
		t.Fatalf("ascii should pass through, got %q", got)
	}

	got := encodeRFC2047("张三, 李四回应了您")
	if !strings.HasPrefix(got, "=?UTF-8?B?") || !strings.HasSuffix(got, "?=") {
		t.Fatalf("non-ascii subject should be base64 encoded, got %q", got)
	}
}
