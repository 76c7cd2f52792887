package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/minhtq/tg-vocab-bank/pkg/logger"
	"github.com/minhtq/tg-vocab-bank/pkg/review"
	"github.com/minhtq/tg-vocab-bank/pkg/ui"
	"github.com/minhtq/tg-vocab-bank/pkg/vocab"
)

// HandleFlashcardStart opens a flashcard deck over the current collection.
func HandleFlashcardStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleFlashcardStart")
		return
	}

	repo := vocab.DefaultService.Bank(update.Message.From.ID)
	card, token, err := review.DefaultManager.StartOrRestart(
		update.Message.Chat.ID, update.Message.From.ID, repo.Entries())
	if errors.Is(err, review.ErrNoEntries) {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Your vocab bank is empty. Save a word with /add first.",
		})
		return
	}
	if err != nil {
		logger.Error("failed to start flashcards", "user_id", update.Message.From.ID, "error", err)
		return
	}

	keyboard, err := flashcardKeyboard(token)
	if err != nil {
		logger.Error("failed to build flashcard keyboard", "error", err)
		return
	}
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        formatFlashcard(card),
		ReplyMarkup: keyboard,
	}); err != nil {
		logger.Error("failed to send flashcard", "user_id", update.Message.From.ID, "error", err)
	}
}

// HandleFlashcardCallback applies one inline-keyboard action to the deck.
func HandleFlashcardCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.CallbackQuery == nil {
		logger.Error("invalid update in HandleFlashcardCallback")
		return
	}

	callbackID := update.CallbackQuery.ID
	answerCallback := func(text string) {
		if callbackID == "" {
			return
		}
		if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: callbackID,
			Text:            text,
		}); err != nil {
			logger.Error("failed to answer flashcard callback query", "error", err)
		}
	}

	action, err := ui.ParseFlashcardCallback(update.CallbackQuery.Data)
	if err != nil {
		answerCallback("Not active")
		return
	}

	message := update.CallbackQuery.Message
	if message.Type != models.MaybeInaccessibleMessageTypeMessage || message.Message == nil || message.Message.Chat.ID == 0 {
		answerCallback("Message missing")
		return
	}
	chatID := message.Message.Chat.ID
	userID := update.CallbackQuery.From.ID

	if action.Op == ui.FlashStop {
		summary, ok := review.DefaultManager.End(chatID, userID)
		if !ok {
			answerCallback("Not active")
			return
		}
		answerCallback("")
		if _, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    chatID,
			MessageID: message.Message.ID,
			Text:      formatReviewSummary(summary),
			ReplyMarkup: &models.InlineKeyboardMarkup{
				InlineKeyboard: [][]models.InlineKeyboardButton{},
			},
		}); err != nil {
			logger.Error("failed to close flashcard deck", "user_id", userID, "error", err)
		}
		return
	}

	card, err := review.DefaultManager.Apply(chatID, userID, action.Token, reviewAction(action.Op))
	switch {
	case errors.Is(err, review.ErrNoSession), errors.Is(err, review.ErrInvalidToken):
		answerCallback("Not active")
		return
	case err != nil:
		logger.Error("failed to apply flashcard action", "user_id", userID, "error", err)
		answerCallback("Something went wrong")
		return
	}
	answerCallback("")

	keyboard, err := flashcardKeyboard(action.Token)
	if err != nil {
		logger.Error("failed to build flashcard keyboard", "error", err)
		return
	}
	if _, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   message.Message.ID,
		Text:        formatFlashcard(card),
		ReplyMarkup: keyboard,
	}); err != nil {
		logger.Error("failed to update flashcard", "user_id", userID, "error", err)
	}
}

func reviewAction(op ui.FlashcardOp) review.Action {
	switch op {
	case ui.FlashFlip:
		return review.ActionFlip
	case ui.FlashPrev:
		return review.ActionPrev
	case ui.FlashNext:
		return review.ActionNext
	case ui.FlashKnown:
		return review.ActionKnown
	case ui.FlashReview:
		return review.ActionReview
	}
	return review.Action(op)
}

func formatFlashcard(card review.Card) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Card %d of %d\n\n", card.Position, card.Total)
	if card.FaceUp {
		if card.Entry.EnglishDef != "" {
			fmt.Fprintf(&sb, "%s\n", card.Entry.EnglishDef)
		}
		if card.Entry.NativeDef != "" {
			fmt.Fprintf(&sb, "%s\n", card.Entry.NativeDef)
		}
		fmt.Fprintf(&sb, "Example: %s", card.Entry.Example)
	} else {
		sb.WriteString(card.Entry.Headword)
		if card.Entry.Pronunciation != "" {
			fmt.Fprintf(&sb, " %s", card.Entry.Pronunciation)
		}
	}
	labels := make([]string, 0, 2)
	if card.Known {
		labels = append(labels, "known")
	}
	if card.NeedsReview {
		labels = append(labels, "needs review")
	}
	if len(labels) > 0 {
		fmt.Fprintf(&sb, "\n\nMarked: %s", strings.Join(labels, ", "))
	}
	return sb.String()
}

func formatReviewSummary(summary review.Summary) string {
	return fmt.Sprintf("Review finished.\nCards: %d\nKnown: %d\nNeed review: %d",
		summary.Total, summary.KnownCount, summary.ReviewCount)
}

func flashcardKeyboard(token string) (*models.InlineKeyboardMarkup, error) {
	type buttonSpec struct {
		label string
		op    ui.FlashcardOp
	}
	rows := [][]buttonSpec{
		{{"Flip", ui.FlashFlip}},
		{{"< Prev", ui.FlashPrev}, {"Next >", ui.FlashNext}},
		{{"Known", ui.FlashKnown}, {"Review again", ui.FlashReview}},
		{{"Finish", ui.FlashStop}},
	}

	keyboard := make([][]models.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]models.InlineKeyboardButton, 0, len(row))
		for _, spec := range row {
			data, err := ui.BuildFlashcardCallback(spec.op, token)
			if err != nil {
				return nil, err
			}
			buttons = append(buttons, models.InlineKeyboardButton{
				Text:         spec.label,
				CallbackData: data,
			})
		}
		keyboard = append(keyboard, buttons)
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: keyboard}, nil
}
