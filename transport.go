package main

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Transport is the outbound side of the chat platform. Every call is a
// single best-effort send; failures carry the platform's cause and are
// handled locally by the caller.
type Transport interface {
	SendText(chatID int64, text string) error
	// SendKeyboard sends one text message with a persistent reply keyboard;
	// buttons is a row-major grid of button labels.
	SendKeyboard(chatID int64, text string, buttons [][]string) error
	SendDocument(chatID int64, fileID, caption string) error
	SendPhoto(chatID int64, fileID, caption string) error
	Forward(toChatID, fromChatID int64, messageID int) error
}

type telegramTransport struct {
	bot *tgbotapi.BotAPI
}

func newTelegramTransport(bot *tgbotapi.BotAPI) *telegramTransport {
	return &telegramTransport{bot: bot}
}

func (t *telegramTransport) SendText(chatID int64, text string) error {
	// Telegram rejects invalid UTF-8 and messages past its length cap.
	text = strings.ToValidUTF8(text, " ")
	for _, part := range splitMessageText(text, 3500) {
		msg := tgbotapi.NewMessage(chatID, part)
		if _, err := t.bot.Send(msg); err != nil {
			return err
		}
	}
	return nil
}

func (t *telegramTransport) SendDocument(chatID int64, fileID, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileID(fileID))
	doc.Caption = caption
	_, err := t.bot.Send(doc)
	return err
}

func (t *telegramTransport) SendPhoto(chatID int64, fileID, caption string) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(fileID))
	photo.Caption = caption
	_, err := t.bot.Send(photo)
	return err
}

func (t *telegramTransport) Forward(toChatID, fromChatID int64, messageID int) error {
	_, err := t.bot.Send(tgbotapi.NewForward(toChatID, fromChatID, messageID))
	return err
}

func (t *telegramTransport) SendKeyboard(chatID int64, text string, buttons [][]string) error {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(buttons))
	for _, labels := range buttons {
		row := make([]tgbotapi.KeyboardButton, 0, len(labels))
		for _, label := range labels {
			row = append(row, tgbotapi.NewKeyboardButton(label))
		}
		rows = append(rows, row)
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true

	msg := tgbotapi.NewMessage(chatID, strings.ToValidUTF8(text, " "))
	msg.ReplyMarkup = kb
	_, err := t.bot.Send(msg)
	return err
}

func splitMessageText(text string, maxRunes int) []string {
	if maxRunes <= 0 {
		maxRunes = 3500
	}
	r := []rune(text)
	if len(r) <= maxRunes {
		return []string{text}
	}

	parts := make([]string, 0, (len(r)/maxRunes)+1)
	for len(r) > maxRunes {
		split := maxRunes
		for i := maxRunes; i > maxRunes/2; i-- {
			if r[i] == '\n' {
				split = i + 1
				break
			}
		}
		parts = append(parts, strings.TrimSpace(string(r[:split])))
		r = r[split:]
	}
	if len(r) > 0 {
		parts = append(parts, strings.TrimSpace(string(r)))
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{text}
	}
	return out
}

func truncateErr(v string, limit int) string {
	v = strings.TrimSpace(v)
	r := []rune(v)
	if len(r) <= limit {
		return v
	}
	if limit < 4 {
		return string(r[:limit])
	}
	return string(r[:limit-3]) + "..."
}
