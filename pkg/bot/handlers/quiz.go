package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/minhtq/tg-vocab-bank/pkg/logger"
	"github.com/minhtq/tg-vocab-bank/pkg/quiz"
	"github.com/minhtq/tg-vocab-bank/pkg/ui"
	"github.com/minhtq/tg-vocab-bank/pkg/vocab"
)

// HandleQuizStart begins a multiple-choice quiz once the gate is open.
func HandleQuizStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleQuizStart")
		return
	}

	repo := vocab.DefaultService.Bank(update.Message.From.ID)
	question, token, err := quiz.DefaultManager.StartOrRestart(
		update.Message.Chat.ID, update.Message.From.ID, repo.Entries(), quizThreshold())
	switch {
	case errors.Is(err, quiz.ErrLocked):
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   formatGateStatus(repo.Count()),
		})
		return
	case errors.Is(err, quiz.ErrTooFewWords):
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "You need a few more distinct words before a quiz can be built.",
		})
		return
	case err != nil:
		logger.Error("failed to start quiz", "user_id", update.Message.From.ID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Failed to start the quiz. Please try again later.",
		})
		return
	}

	if err := sendQuizQuestion(ctx, b, update.Message.Chat.ID, question, token); err != nil {
		logger.Error("failed to send quiz question", "user_id", update.Message.From.ID, "error", err)
	}
}

// HandleQuizCallback applies an answer or stop action from the inline keyboard.
func HandleQuizCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.CallbackQuery == nil {
		logger.Error("invalid update in HandleQuizCallback")
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
			logger.Error("failed to answer quiz callback query", "error", err)
		}
	}

	action, err := ui.ParseQuizCallback(update.CallbackQuery.Data)
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

	if action.Op == ui.QuizStop {
		stats, ok := quiz.DefaultManager.Stop(chatID, userID)
		if !ok {
			answerCallback("Not active")
			return
		}
		answerCallback("")
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   stats,
		})
		return
	}

	result, err := quiz.DefaultManager.Answer(chatID, userID, action.Token, action.Option)
	switch {
	case errors.Is(err, quiz.ErrNoSession), errors.Is(err, quiz.ErrNotCurrent), errors.Is(err, quiz.ErrBadOption):
		answerCallback("Not active")
		return
	case err != nil:
		logger.Error("failed to apply quiz answer", "user_id", userID, "error", err)
		answerCallback("Something went wrong")
		return
	}

	if result.Correct {
		answerCallback("Correct!")
	} else {
		answerCallback(fmt.Sprintf("It was %q", result.Expected))
	}

	// Freeze the answered question.
	if _, err := b.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
		ChatID:    chatID,
		MessageID: message.Message.ID,
		ReplyMarkup: &models.InlineKeyboardMarkup{
			InlineKeyboard: [][]models.InlineKeyboardButton{},
		},
	}); err != nil {
		logger.Error("failed to freeze quiz question", "user_id", userID, "error", err)
	}

	if result.Done {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   result.StatsText,
		})
		return
	}
	if result.NextQuestion != nil {
		if err := sendQuizQuestion(ctx, b, chatID, *result.NextQuestion, result.NextToken); err != nil {
			logger.Error("failed to send next quiz question", "user_id", userID, "error", err)
		}
	}
}

func sendQuizQuestion(ctx context.Context, b *bot.Bot, chatID int64, question quiz.Question, token string) error {
	keyboard, err := quizKeyboard(question, token)
	if err != nil {
		return err
	}
	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        "Which word matches?\n\n" + question.Prompt,
		ReplyMarkup: keyboard,
	})
	return err
}

func quizKeyboard(question quiz.Question, token string) (*models.InlineKeyboardMarkup, error) {
	keyboard := make([][]models.InlineKeyboardButton, 0, len(question.Options)+1)
	for i, option := range question.Options {
		data, err := ui.BuildQuizAnswerCallback(i, token)
		if err != nil {
			return nil, err
		}
		keyboard = append(keyboard, []models.InlineKeyboardButton{{
			Text:         option,
			CallbackData: data,
		}})
	}
	stopData, err := ui.BuildQuizStopCallback()
	if err != nil {
		return nil, err
	}
	keyboard = append(keyboard, []models.InlineKeyboardButton{{
		Text:         "Stop quiz",
		CallbackData: stopData,
	}})
	return &models.InlineKeyboardMarkup{InlineKeyboard: keyboard}, nil
}
