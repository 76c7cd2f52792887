package handlers

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/minhtq/tg-vocab-bank/pkg/quiz"
	"github.com/minhtq/tg-vocab-bank/pkg/vocab"
)

// fillBank tops the seeded collection up to the quiz threshold.
func fillBank(t *testing.T, userID int64) {
	t.Helper()
	repo := vocab.DefaultService.Bank(userID)
	i := 0
	for repo.Count() < vocab.DefaultQuizThreshold {
		word := fmt.Sprintf("filler%d", i)
		if err := repo.Add(word, fmt.Sprintf("A sentence with %s in it.", word), "", ""); err != nil {
			t.Fatalf("Add(%q) error = %v", word, err)
		}
		i++
	}
}

func TestHandleQuizStartLocked(t *testing.T) {
	setupHandlerTest(t)
	client := newMockClient()
	b := newTestTelegramBot(t, client)

	HandleQuizStart(context.Background(), b, newTestUpdate("/quiz", 1))

	text := client.lastMessageText(t)
	if !strings.Contains(text, "Add 6 more words to unlock the quiz") {
		t.Errorf("locked reply = %q, want gate status", text)
	}
	if quiz.DefaultManager.GetSession(1, 1) {
		t.Error("locked start must not create a session")
	}
}

func TestHandleQuizStartUnlocked(t *testing.T) {
	setupHandlerTest(t)
	client := newMockClient()
	b := newTestTelegramBot(t, client)
	fillBank(t, 1)

	HandleQuizStart(context.Background(), b, newTestUpdate("/quiz", 1))

	text := client.lastMessageText(t)
	if !strings.Contains(text, "Which word matches?") {
		t.Errorf("question missing: %q", text)
	}
	if !quiz.DefaultManager.GetSession(1, 1) {
		t.Error("session should be active after start")
	}

	markup, _ := client.lastMultipartField(t, "reply_markup")
	if !strings.Contains(markup, "q:ans:0:") || !strings.Contains(markup, "q:stop") {
		t.Errorf("keyboard missing answer or stop buttons: %s", markup)
	}
}

func TestHandleQuizAnswerAdvances(t *testing.T) {
	setupHandlerTest(t)
	client := newMockClient()
	b := newTestTelegramBot(t, client)
	fillBank(t, 1)

	HandleQuizStart(context.Background(), b, newTestUpdate("/quiz", 1))
	token := quizTokenFromKeyboard(t, client)

	HandleQuizCallback(context.Background(), b,
		newTestCallbackUpdate("q:ans:0:"+token, 1, 1, 10))

	// A 10-question deck always has a follow-up after one answer.
	if text := client.lastMessageText(t); !strings.Contains(text, "Which word matches?") {
		t.Errorf("next question missing: %q", text)
	}
	if !quiz.DefaultManager.GetSession(1, 1) {
		t.Error("session should stay active mid-deck")
	}

	next := quizTokenFromKeyboard(t, client)
	if next == token {
		t.Error("each question should carry a fresh token")
	}
}

func TestHandleQuizStaleToken(t *testing.T) {
	setupHandlerTest(t)
	client := newMockClient()
	b := newTestTelegramBot(t, client)
	fillBank(t, 1)

	HandleQuizStart(context.Background(), b, newTestUpdate("/quiz", 1))
	before := len(client.requests)

	HandleQuizCallback(context.Background(), b,
		newTestCallbackUpdate("q:ans:0:stale-token", 1, 1, 10))

	if got := len(client.requests) - before; got != 1 {
		t.Errorf("stale token produced %d requests, want only the callback answer", got)
	}
}

func TestHandleQuizStop(t *testing.T) {
	setupHandlerTest(t)
	client := newMockClient()
	b := newTestTelegramBot(t, client)
	fillBank(t, 1)

	HandleQuizStart(context.Background(), b, newTestUpdate("/quiz", 1))
	HandleQuizCallback(context.Background(), b,
		newTestCallbackUpdate("q:stop", 1, 1, 10))

	if text := client.lastMessageText(t); !strings.Contains(text, "Quiz over!") {
		t.Errorf("stats missing: %q", text)
	}
	if quiz.DefaultManager.GetSession(1, 1) {
		t.Error("session should be dropped after stop")
	}
}
