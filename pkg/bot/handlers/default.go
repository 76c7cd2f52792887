package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/minhtq/tg-vocab-bank/pkg/bot/importexport"
	"github.com/minhtq/tg-vocab-bank/pkg/config"
	"github.com/minhtq/tg-vocab-bank/pkg/logger"
	"github.com/minhtq/tg-vocab-bank/pkg/vocab"
)

func DefaultHandler(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil {
		logger.Error("received invalid update in DefaultHandler")
		return
	}
	if update.Message.Chat.ID == 0 {
		logger.Error("chat ID is zero in DefaultHandler")
		return
	}

	if update.Message.Document == nil {
		if update.Message.Text != "" {
			if handled := tryHandleCapture(ctx, b, update); handled {
				return
			}
		}
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text: "I didn't catch that. Use /start to see the full command list.\n\n" +
				"If you attach a CSV file here, I'll import the words into your vocab bank. " +
				"Rows look like: headword,example[,definition[,meaning]].",
		})
		if err != nil {
			logger.Error("failed to send message in DefaultHandler", "error", err)
		}
		return
	}

	logger.Info("uploading file", "file_name", update.Message.Document.FileName, "user_id", update.Message.From.ID)

	if !strings.HasSuffix(update.Message.Document.FileName, ".csv") {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "The uploaded file is not a CSV. Please upload a valid CSV file.",
		})
		return
	}

	file, err := b.GetFile(ctx, &bot.GetFileParams{FileID: update.Message.Document.FileID})
	if err != nil {
		logger.Error("failed to get file", "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Failed to download the file. Please try again.",
		})
		return
	}

	fileURL := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", config.AppConfig.Telegram.Token, file.FilePath)
	resp, err := http.Get(fileURL)
	if err != nil {
		logger.Error("failed to open file", "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Failed to open the file. Please try again.",
		})
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("failed to read CSV file", "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Failed to read the CSV file. Please try again.",
		})
		return
	}

	inputs, skipped, err := importexport.ParseEntriesCSV(data)
	if err != nil {
		logger.Error("failed to parse CSV file", "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Failed to read the CSV file. Please ensure it is in the correct format.",
		})
		return
	}
	if len(inputs) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "No valid rows found to import.",
		})
		return
	}

	repo := vocab.DefaultService.Bank(update.Message.From.ID)
	added, duplicates, invalid, err := importexport.ImportEntries(repo, inputs)
	if err != nil {
		logger.Error("failed to import entries", "user_id", update.Message.From.ID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Failed to import the words. Please try again later.",
		})
		return
	}

	summary := fmt.Sprintf("Imported %d words.", added)
	if duplicates > 0 {
		summary += fmt.Sprintf(" Skipped %d already saved.", duplicates)
	}
	if skipped+invalid > 0 {
		summary += fmt.Sprintf(" Ignored %d malformed rows.", skipped+invalid)
	}
	summary += " " + formatGateStatus(repo.Count())
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   summary,
	})
}
