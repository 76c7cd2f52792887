package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/minhtq/tg-vocab-bank/pkg/dictionary"
	"github.com/minhtq/tg-vocab-bank/pkg/logger"
	"github.com/minhtq/tg-vocab-bank/pkg/vocab"
)

// HandleDefine enriches one entry from the dictionary. Entries that
// already carry a definition are left alone.
func HandleDefine(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleDefine")
		return
	}
	if dictionary.Default == nil {
		logger.Error("dictionary enricher is not initialized")
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Dictionary lookups are not available right now.",
		})
		return
	}

	repo := vocab.DefaultService.Bank(update.Message.From.ID)
	position, err := parsePosition(update.Message.Text, "/define", repo.Count())
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   fmt.Sprintf("Usage: /define n, where n is between 1 and %d.", repo.Count()),
		})
		return
	}
	index := position - 1

	err = dictionary.Default.Enrich(ctx, repo, index)
	switch {
	case errors.Is(err, dictionary.ErrAlreadyEnriched):
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "That word already has a definition. Edit it with /edit if needed.",
		})
		return
	case errors.Is(err, vocab.ErrEnrichmentPending):
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "A lookup for that word is already running.",
		})
		return
	case errors.Is(err, dictionary.ErrLookupFailed):
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "No definition available for that word.",
		})
		return
	case errors.Is(err, vocab.ErrStaleEnrichment):
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "The word changed while the lookup was running. Try /define again.",
		})
		return
	case err != nil:
		logger.Error("failed to enrich entry", "user_id", update.Message.From.ID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Failed to look up that word. Please try again later.",
		})
		return
	}

	entry, err := repo.Entry(index)
	if err != nil {
		logger.Error("failed to fetch enriched entry", "user_id", update.Message.From.ID, "error", err)
		return
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   formatEntryDetail(position, entry),
	})
}
