package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/minhtq/tg-vocab-bank/pkg/logger"
	"github.com/minhtq/tg-vocab-bank/pkg/vocab"
	"github.com/minhtq/tg-vocab-bank/pkg/watch"
)

// previewLines caps how much of an opened body is echoed into the chat.
const previewLines = 4

// HandleWatch lists the content catalog. An optional argument filters
// by type: movie, song, or mv.
func HandleWatch(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleWatch")
		return
	}

	filter := watch.ItemType(strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/watch")))
	switch filter {
	case "", watch.TypeMovie, watch.TypeSong, watch.TypeMV:
	default:
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Usage: /watch [movie|song|mv]",
		})
		return
	}

	items := watch.DefaultCatalog.Items("")
	var sb strings.Builder
	sb.WriteString("Watching content:\n")
	listed := 0
	for i, item := range items {
		if filter != "" && item.Type != filter {
			continue
		}
		listed++
		fmt.Fprintf(&sb, "%d. [%s] %s — %s\n", i+1, item.Type, item.Title, item.Desc)
	}
	if listed == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Nothing in the catalog matches that type.",
		})
		return
	}
	sb.WriteString("\nUse /open n to study an item with text, or /read url for an article.")

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   sb.String(),
	}); err != nil {
		logger.Error("failed to send watch catalog", "user_id", update.Message.From.ID, "error", err)
	}
}

// HandleOpen makes a catalog item the chat's capture source.
func HandleOpen(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleOpen")
		return
	}

	position, err := parsePosition(update.Message.Text, "/open", watch.DefaultCatalog.Len())
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   fmt.Sprintf("Usage: /open n, where n is between 1 and %d.", watch.DefaultCatalog.Len()),
		})
		return
	}

	item, err := watch.DefaultCatalog.Item(position)
	if err != nil {
		logger.Error("failed to resolve catalog item", "position", position, "error", err)
		return
	}
	if !item.HasBody() {
		text := fmt.Sprintf("%q has no text to study here.", item.Title)
		if item.URL != "" {
			text += " Watch it at " + item.URL
		}
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   text,
		})
		return
	}

	watch.DefaultSources.Open(update.Message.Chat.ID, item)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   formatOpenedSource(item),
	})
}

// HandleRead fetches an article and makes it the chat's capture source.
func HandleRead(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleRead")
		return
	}

	pageURL := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/read"))
	if pageURL == "" {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Usage: /read url",
		})
		return
	}

	item, err := watch.DefaultReader.FetchArticle(ctx, pageURL)
	if err != nil {
		logger.Error("failed to fetch article", "user_id", update.Message.From.ID, "url", pageURL, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Could not read that page. Check the URL and try again.",
		})
		return
	}

	watch.DefaultSources.Open(update.Message.Chat.ID, item)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   formatOpenedSource(item),
	})
}

// HandleClose clears the chat's capture source.
func HandleClose(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleClose")
		return
	}

	if !watch.DefaultSources.Close(update.Message.Chat.ID) {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Nothing is open right now.",
		})
		return
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   "Closed. Messages are no longer captured.",
	})
}

// HandleSave saves a word or phrase explicitly. When a source is open
// its body supplies the example sentence.
func HandleSave(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleSave")
		return
	}

	text := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/save"))
	if text == "" {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Usage: /save word or phrase",
		})
		return
	}

	var body string
	if item, ok := watch.DefaultSources.Active(update.Message.Chat.ID); ok {
		body = item.Body
	}

	repo := vocab.DefaultService.Bank(update.Message.From.ID)
	err := repo.CaptureFromSelection(text, body)
	switch {
	case errors.Is(err, vocab.ErrDuplicateHeadword):
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Word already in Vocab Bank!",
		})
		return
	case err != nil:
		logger.Error("failed to save selection", "user_id", update.Message.From.ID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Failed to save the word. Please try again later.",
		})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   fmt.Sprintf("Saved %q to Vocab Bank! %s", text, formatGateStatus(repo.Count())),
	})
}

// tryHandleCapture saves plain text as a captured word while a source
// is open. Returns true if the message was consumed.
func tryHandleCapture(ctx context.Context, b *bot.Bot, update *models.Update) bool {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		return false
	}
	text := strings.TrimSpace(update.Message.Text)
	if text == "" || strings.HasPrefix(text, "/") {
		return false
	}
	item, ok := watch.DefaultSources.Active(update.Message.Chat.ID)
	if !ok {
		return false
	}

	repo := vocab.DefaultService.Bank(update.Message.From.ID)
	err := repo.CaptureFromSelection(text, item.Body)
	switch {
	case errors.Is(err, vocab.ErrDuplicateHeadword):
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Word already in Vocab Bank!",
		})
		return true
	case errors.Is(err, vocab.ErrEmptyText):
		return false
	case err != nil:
		logger.Error("failed to capture selection", "user_id", update.Message.From.ID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Failed to save the word. Please try again later.",
		})
		return true
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   fmt.Sprintf("Saved %q to Vocab Bank! %s", text, formatGateStatus(repo.Count())),
	})
	return true
}

func formatOpenedSource(item watch.Item) string {
	lines := strings.Split(item.Body, "\n")
	preview := lines
	truncated := false
	if len(lines) > previewLines {
		preview = lines[:previewLines]
		truncated = true
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Now studying: %s\n", item.Title)
	if item.URL != "" {
		fmt.Fprintf(&sb, "%s\n", item.URL)
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Join(preview, "\n"))
	if truncated {
		sb.WriteString("\n…")
	}
	sb.WriteString("\n\nSend any word or phrase from the text to save it. /close when done.")
	return sb.String()
}
