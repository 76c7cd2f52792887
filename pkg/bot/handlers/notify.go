package handlers

import (
	"context"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/minhtq/tg-vocab-bank/pkg/logger"
	"github.com/minhtq/tg-vocab-bank/pkg/vocab"
)

// GateUnlockNotifier returns a subscriber for vocab.Service that sends
// a one-time message when a learner's collection crosses the quiz
// threshold. Collections shrinking below the threshold re-arm it.
func GateUnlockNotifier(ctx context.Context, b *bot.Bot) func(userID int64) {
	var mu sync.Mutex
	unlocked := make(map[int64]bool)

	return func(userID int64) {
		repo := vocab.DefaultService.Bank(userID)
		count := repo.Count()
		status := vocab.Gate(count, quizThreshold())

		mu.Lock()
		wasUnlocked := unlocked[userID]
		unlocked[userID] = status.Unlocked
		mu.Unlock()

		// Announce only the exact crossing so a collection that was
		// already past the goal stays quiet.
		if !status.Unlocked || wasUnlocked || count != quizThreshold() {
			return
		}
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: userID,
			Text:   "Quiz unlocked! You reached the word goal. Try /quiz.",
		}); err != nil {
			logger.Error("failed to send gate unlock message", "user_id", userID, "error", err)
		}
	}
}
