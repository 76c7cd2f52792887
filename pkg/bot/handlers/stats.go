package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/minhtq/tg-vocab-bank/pkg/logger"
	"github.com/minhtq/tg-vocab-bank/pkg/vocab"
)

// HandleStats sends the dashboard summary. The gate line is recomputed
// from the live count, same as the bank view.
func HandleStats(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleStats")
		return
	}

	repo := vocab.DefaultService.Bank(update.Message.From.ID)
	entries := repo.Entries()
	defined := 0
	for _, entry := range entries {
		if entry.EnglishDef != "" {
			defined++
		}
	}
	text := fmt.Sprintf("Your progress:\n"+
		"Words saved: %d\n"+
		"Words with definitions: %d\n%s",
		len(entries), defined, formatGateStatus(len(entries)))
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   text,
	}); err != nil {
		logger.Error("failed to send stats", "user_id", update.Message.From.ID, "error", err)
	}
}
