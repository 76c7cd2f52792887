package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/minhtq/tg-vocab-bank/pkg/logger"
	"github.com/minhtq/tg-vocab-bank/pkg/vocab"
)

const addUsage = "Usage: /add word | example sentence [| English definition [| your-language meaning]]"

// HandleAdd saves a new word at the top of the collection.
func HandleAdd(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleAdd")
		return
	}

	args := parsePipeArgs(update.Message.Text, "/add")
	if len(args) < 2 || len(args) > 4 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   addUsage,
		})
		return
	}
	headword := args[0]
	example := args[1]
	englishDef := ""
	nativeDef := ""
	if len(args) > 2 {
		englishDef = args[2]
	}
	if len(args) > 3 {
		nativeDef = args[3]
	}

	repo := vocab.DefaultService.Bank(update.Message.From.ID)
	err := repo.Add(headword, example, englishDef, nativeDef)
	switch {
	case errors.Is(err, vocab.ErrEmptyField):
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   addUsage,
		})
		return
	case errors.Is(err, vocab.ErrDuplicateHeadword):
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   fmt.Sprintf("%q is already in your vocab bank.", strings.TrimSpace(headword)),
		})
		return
	case err != nil:
		logger.Error("failed to add entry", "user_id", update.Message.From.ID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Failed to save the word. Please try again later.",
		})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text: fmt.Sprintf("Saved %q. %s", strings.TrimSpace(headword),
			formatGateStatus(repo.Count())),
	})
}

const editUsage = "Usage: /edit n field value, where field is word, example, definition, or meaning."

// HandleEdit changes one field of an entry without moving it.
func HandleEdit(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleEdit")
		return
	}

	repo := vocab.DefaultService.Bank(update.Message.From.ID)
	payload := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/edit"))
	fields := strings.Fields(payload)
	if len(fields) < 3 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   editUsage,
		})
		return
	}

	position, err := strconv.Atoi(fields[0])
	if err != nil || position < 1 || position > repo.Count() {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   fmt.Sprintf("Pick a word between 1 and %d.", repo.Count()),
		})
		return
	}

	value := strings.TrimSpace(strings.Join(fields[2:], " "))
	var patch vocab.Patch
	switch strings.ToLower(fields[1]) {
	case "word", "headword":
		patch.Headword = &value
	case "example":
		patch.Example = &value
	case "definition", "endef":
		patch.EnglishDef = &value
	case "meaning", "videf":
		patch.NativeDef = &value
	default:
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   editUsage,
		})
		return
	}

	err = repo.Edit(position-1, patch)
	switch {
	case errors.Is(err, vocab.ErrIndexOutOfRange):
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   fmt.Sprintf("Pick a word between 1 and %d.", repo.Count()),
		})
		return
	case err != nil:
		logger.Error("failed to edit entry", "user_id", update.Message.From.ID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Failed to update the word. Please try again later.",
		})
		return
	}

	entry, err := repo.Entry(position - 1)
	if err != nil {
		logger.Error("failed to fetch edited entry", "user_id", update.Message.From.ID, "error", err)
		return
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   "Updated:\n" + formatEntryDetail(position, entry),
	})
}
