package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	BotToken         string
	OperatorID       int64
	Timezone         string
	InactiveStart    string
	InactiveEnd      string
	RecipientNames   []string
	MerchantTill     string
	MinPaymentAmount float64
	PriceCheck       int
	PriceRecheck     int
	HTTPAddr         string
	LogDir           string
	LogRetentionDays int
}

func loadConfig() (Config, error) {
	cfg := Config{
		BotToken:         strings.TrimSpace(os.Getenv("BOT_TOKEN")),
		Timezone:         envOrDefault("TZ_LOCATION", "Africa/Nairobi"),
		InactiveStart:    envOrDefault("INACTIVE_START", "00:00"),
		InactiveEnd:      envOrDefault("INACTIVE_END", "06:00"),
		RecipientNames:   splitCSV(envOrDefault("RECIPIENT_NAMES", "john,makokha")),
		MerchantTill:     envOrDefault("MERCHANT_TILL", "6164915"),
		MinPaymentAmount: floatEnvOrDefault("MIN_PAYMENT_AMOUNT", 0),
		PriceCheck:       intEnvOrDefault("PRICE_CHECK", 60),
		PriceRecheck:     intEnvOrDefault("PRICE_RECHECK", 50),
		HTTPAddr:         envOrDefault("HTTP_ADDR", ":3000"),
		LogDir:           envOrDefault("LOG_DIR", "data/logs"),
		LogRetentionDays: intEnvOrDefault("LOG_RETENTION_DAYS", 14),
	}
	if cfg.BotToken == "" {
		return Config{}, errors.New("BOT_TOKEN is required")
	}
	rawOperator := strings.TrimSpace(os.Getenv("OPERATOR_ID"))
	if rawOperator == "" {
		return Config{}, errors.New("OPERATOR_ID is required")
	}
	operatorID, err := strconv.ParseInt(rawOperator, 10, 64)
	if err != nil || operatorID == 0 {
		return Config{}, fmt.Errorf("invalid OPERATOR_ID %q", rawOperator)
	}
	cfg.OperatorID = operatorID
	if _, _, err := parseClockHHMM(cfg.InactiveStart); err != nil {
		return Config{}, fmt.Errorf("invalid INACTIVE_START: %w", err)
	}
	if _, _, err := parseClockHHMM(cfg.InactiveEnd); err != nil {
		return Config{}, fmt.Errorf("invalid INACTIVE_END: %w", err)
	}
	if len(cfg.RecipientNames) == 0 {
		return Config{}, errors.New("RECIPIENT_NAMES must list at least one name fragment")
	}
	if cfg.MinPaymentAmount < 0 {
		return Config{}, errors.New("MIN_PAYMENT_AMOUNT must not be negative")
	}
	if cfg.LogRetentionDays < 1 {
		return Config{}, errors.New("LOG_RETENTION_DAYS must be >= 1")
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func intEnvOrDefault(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	out, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return out
}

func floatEnvOrDefault(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	out, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return out
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseClockHHMM(v string) (int, int, error) {
	tm, err := time.Parse("15:04", strings.TrimSpace(v))
	if err != nil {
		return 0, 0, err
	}
	return tm.Hour(), tm.Minute(), nil
}
