package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("invalid timezone %q: %v", cfg.Timezone, err)
	}

	logWriter, err := NewDailyLogWriter(cfg.LogDir, cfg.LogRetentionDays, loc)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logWriter.Close()
	log.SetOutput(io.MultiWriter(os.Stdout, logWriter))
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	window, err := NewActiveWindow(cfg.InactiveStart, cfg.InactiveEnd, loc)
	if err != nil {
		log.Fatalf("active window error: %v", err)
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("telegram bot init error: %v", err)
	}
	log.Printf("authorized as %s", bot.Self.UserName)

	router := NewRouter(
		cfg,
		newTelegramTransport(bot),
		NewDeliveryRegistry(),
		window,
		NewClassifier(cfg.RecipientNames, cfg.MerchantTill, cfg.MinPaymentAmount),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := newLivenessServer(cfg.HTTPAddr, time.Now())
	go func() {
		log.Printf("liveness server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("liveness server error: %v", err)
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := bot.GetUpdatesChan(u)

	log.Printf("bot is running")
	for {
		select {
		case <-ctx.Done():
			log.Printf("shutting down")
			bot.StopReceivingUpdates()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("liveness server shutdown error: %v", err)
			}
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			ev, ok := eventFromUpdate(update)
			if !ok {
				continue
			}
			router.HandleEvent(ev)
		}
	}
}
