package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/minhtq/tg-vocab-bank/pkg/logger"
	"github.com/minhtq/tg-vocab-bank/pkg/vocab"
)

// HandleBank lists the collection, newest first. An optional query
// filters by case-insensitive substring of the headword.
func HandleBank(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleBank")
		return
	}

	repo := vocab.DefaultService.Bank(update.Message.From.ID)
	query := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/bank"))
	entries := repo.Search(query)

	if len(entries) == 0 {
		text := "Your vocab bank is empty. Save a word with /add."
		if query != "" {
			text = fmt.Sprintf("No words match %q.", query)
		}
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   text,
		})
		return
	}

	var sb strings.Builder
	if query == "" {
		fmt.Fprintf(&sb, "Your vocab bank (%d words):\n", len(entries))
	} else {
		fmt.Fprintf(&sb, "Words matching %q:\n", query)
	}
	for i, entry := range entries {
		sb.WriteString(formatEntryLine(i+1, entry))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(formatGateStatus(repo.Count()))

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   sb.String(),
	}); err != nil {
		logger.Error("failed to send bank listing", "user_id", update.Message.From.ID, "error", err)
	}
}

// HandleShow renders one entry in full, enrichment fields included.
func HandleShow(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleShow")
		return
	}

	repo := vocab.DefaultService.Bank(update.Message.From.ID)
	position, err := parsePosition(update.Message.Text, "/show", repo.Count())
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   fmt.Sprintf("Usage: /show n, where n is between 1 and %d.", repo.Count()),
		})
		return
	}

	entry, err := repo.Entry(position - 1)
	if err != nil {
		logger.Error("failed to fetch entry", "user_id", update.Message.From.ID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Failed to look up that word. Please try again.",
		})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   formatEntryDetail(position, entry),
	})
}

func HandleClear(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleClear")
		return
	}

	repo := vocab.DefaultService.Bank(update.Message.From.ID)
	if err := repo.Clear(); err != nil {
		logger.Error("failed to clear vocab bank", "user_id", update.Message.From.ID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Failed to clear your vocab bank. Please try again later.",
		})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   "Your vocab bank has been cleared.",
	})
}
