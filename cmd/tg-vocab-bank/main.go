package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/go-telegram/bot"
	"github.com/minhtq/tg-vocab-bank/pkg/bot/handlers"
	"github.com/minhtq/tg-vocab-bank/pkg/config"
	"github.com/minhtq/tg-vocab-bank/pkg/db"
	"github.com/minhtq/tg-vocab-bank/pkg/dictionary"
	"github.com/minhtq/tg-vocab-bank/pkg/logger"
	"github.com/minhtq/tg-vocab-bank/pkg/quiz"
	"github.com/minhtq/tg-vocab-bank/pkg/review"
	"github.com/minhtq/tg-vocab-bank/pkg/ui"
	"github.com/minhtq/tg-vocab-bank/pkg/vocab"
	"github.com/minhtq/tg-vocab-bank/pkg/watch"
)

type botSender struct {
	b *bot.Bot
}

func (s botSender) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := s.b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	return err
}

func main() {
	if err := config.LoadConfig("config.json"); err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := logger.Configure(logger.Options{
		Level: config.AppConfig.Logging.Level,
		File:  config.AppConfig.Logging.File,
	}); err != nil {
		logger.Error("failed to configure logger", "error", err)
	}

	if err := db.InitDB(config.AppConfig.Database); err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	dictionary.Init(config.AppConfig.Dictionary)
	if err := watch.InitCatalog(config.AppConfig.Watch.CatalogFile); err != nil {
		logger.Error("failed to load watch catalog", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	opts := []bot.Option{
		bot.WithDefaultHandler(handlers.DefaultHandler),
	}
	b, err := bot.New(config.AppConfig.Telegram.Token, opts...)
	if err != nil {
		logger.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, handlers.HandleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/bank", bot.MatchTypePrefix, handlers.HandleBank)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/show", bot.MatchTypePrefix, handlers.HandleShow)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/add", bot.MatchTypePrefix, handlers.HandleAdd)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/edit", bot.MatchTypePrefix, handlers.HandleEdit)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/define", bot.MatchTypePrefix, handlers.HandleDefine)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/flashcard", bot.MatchTypeExact, handlers.HandleFlashcardStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/quiz", bot.MatchTypeExact, handlers.HandleQuizStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/watch", bot.MatchTypePrefix, handlers.HandleWatch)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/open", bot.MatchTypePrefix, handlers.HandleOpen)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/read", bot.MatchTypePrefix, handlers.HandleRead)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/save", bot.MatchTypePrefix, handlers.HandleSave)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/close", bot.MatchTypeExact, handlers.HandleClose)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/stats", bot.MatchTypeExact, handlers.HandleStats)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/export", bot.MatchTypeExact, handlers.HandleExport)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/clear", bot.MatchTypeExact, handlers.HandleClear)
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, ui.FlashcardPrefix, bot.MatchTypePrefix, handlers.HandleFlashcardCallback)
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, ui.QuizPrefix, bot.MatchTypePrefix, handlers.HandleQuizCallback)

	vocab.DefaultService.Subscribe(handlers.GateUnlockNotifier(ctx, b))

	go quiz.StartSweeper(ctx, botSender{b: b})
	go review.DefaultManager.StartSweeper(ctx)

	logger.Info("Starting bot...")
	b.Start(ctx)
}
