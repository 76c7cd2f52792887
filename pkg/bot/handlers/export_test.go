package handlers

import (
	"context"
	"strings"
	"testing"

	"github.com/minhtq/tg-vocab-bank/pkg/vocab"
)

func TestHandleExport(t *testing.T) {
	setupHandlerTest(t)
	client := newMockClient()
	b := newTestTelegramBot(t, client)

	HandleExport(context.Background(), b, newTestUpdate("/export", 1))

	data, filename := client.lastMultipartField(t, "document")
	if !strings.HasPrefix(filename, "vocab-bank-") || !strings.HasSuffix(filename, ".csv") {
		t.Errorf("filename = %q", filename)
	}
	if !strings.Contains(data, "hello,She said hello to everyone.") {
		t.Errorf("document missing seeded entry: %q", data)
	}
	if caption, _ := client.lastMultipartField(t, "caption"); !strings.Contains(caption, "4 words") {
		t.Errorf("caption = %q", caption)
	}
}

func TestHandleExportEmptyBank(t *testing.T) {
	setupHandlerTest(t)
	client := newMockClient()
	b := newTestTelegramBot(t, client)

	if err := vocab.DefaultService.Bank(1).Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	HandleExport(context.Background(), b, newTestUpdate("/export", 1))

	if text := client.lastMessageText(t); !strings.Contains(text, "no vocabulary to export") {
		t.Errorf("unexpected reply: %q", text)
	}
}
