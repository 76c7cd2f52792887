package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/minhtq/tg-vocab-bank/pkg/logger"
	"github.com/minhtq/tg-vocab-bank/pkg/vocab"
)

func HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleStart")
		return
	}

	repo := vocab.DefaultService.Bank(update.Message.From.ID)
	text := "Welcome to your vocab bank!\n\n" +
		"Commands:\n" +
		"* /bank [query]: list or search your saved words.\n" +
		"* /add word | example [| definition [| meaning]]: save a word.\n" +
		"* /edit n field value: change a saved word.\n" +
		"* /define n: look up a word in the dictionary.\n" +
		"* /flashcard: review your words as flashcards.\n" +
		"* /quiz: test yourself once the quiz is unlocked.\n" +
		"* /watch: browse content to learn from.\n" +
		"* /read url: open an article for capture.\n" +
		"* /save word: save a word from the open source.\n" +
		"* /stats: see your progress.\n" +
		"* /export: download your words as CSV.\n" +
		"* /clear: remove all saved words.\n\n" +
		fmt.Sprintf("You have %d words saved. %s", repo.Count(), formatGateStatus(repo.Count()))
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   text,
	}); err != nil {
		logger.Error("failed to send start message", "user_id", update.Message.From.ID, "error", err)
	}
}
