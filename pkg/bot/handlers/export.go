package handlers

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/minhtq/tg-vocab-bank/pkg/bot/importexport"
	"github.com/minhtq/tg-vocab-bank/pkg/logger"
	"github.com/minhtq/tg-vocab-bank/pkg/vocab"
)

func HandleExport(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleExport")
		return
	}
	if update.Message.Chat.Type != models.ChatTypePrivate {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "The /export command works only in private chat.",
		})
		return
	}

	repo := vocab.DefaultService.Bank(update.Message.From.ID)
	entries := repo.Entries()
	if len(entries) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "You have no vocabulary to export.",
		})
		return
	}

	data, err := importexport.BuildExportCSV(entries)
	if err != nil {
		logger.Error("failed to build export CSV", "user_id", update.Message.From.ID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Failed to export your vocabulary. Please try again later.",
		})
		return
	}

	filename := importexport.ExportFilename(time.Now())
	caption := fmt.Sprintf("Your vocab bank export (%d words).", len(entries))
	_, err = b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: update.Message.Chat.ID,
		Document: &models.InputFileUpload{
			Filename: filename,
			Data:     bytes.NewReader(data),
		},
		Caption: caption,
	})
	if err != nil {
		logger.Error("failed to send export document", "user_id", update.Message.From.ID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Failed to export your vocabulary. Please try again later.",
		})
	}
}
