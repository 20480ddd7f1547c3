package main

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type EventKind string

const (
	eventStart    EventKind = "start"
	eventDocument EventKind = "document"
	eventPhoto    EventKind = "photo"
	eventText     EventKind = "text"
)

// Event is the normalized inbound record the router consumes. How updates
// arrive (long poll here, webhook elsewhere) is not the router's concern.
type Event struct {
	Kind      EventKind
	SenderID  int64
	ChatID    int64
	MessageID int
	Text      string
	Caption   string
	FileID    string
	Username  string
	FirstName string
	LastName  string
}

// eventFromUpdate normalizes a Telegram update. The second return is false
// for updates that carry no message or no sender.
func eventFromUpdate(update tgbotapi.Update) (Event, bool) {
	m := update.Message
	if m == nil || m.From == nil {
		return Event{}, false
	}

	ev := Event{
		SenderID:  m.From.ID,
		ChatID:    m.Chat.ID,
		MessageID: m.MessageID,
		Text:      strings.TrimSpace(m.Text),
		Caption:   strings.TrimSpace(m.Caption),
		Username:  strings.TrimSpace(m.From.UserName),
		FirstName: strings.TrimSpace(m.From.FirstName),
		LastName:  strings.TrimSpace(m.From.LastName),
	}

	switch {
	case m.Document != nil:
		ev.Kind = eventDocument
		ev.FileID = m.Document.FileID
	case len(m.Photo) > 0:
		ev.Kind = eventPhoto
		ev.FileID = largestPhotoID(m.Photo)
	case strings.HasPrefix(ev.Text, "/start"):
		ev.Kind = eventStart
	default:
		ev.Kind = eventText
	}
	return ev, true
}

// largestPhotoID picks the biggest rendition Telegram offers for a photo.
func largestPhotoID(sizes []tgbotapi.PhotoSize) string {
	best := sizes[0]
	for _, s := range sizes[1:] {
		if s.Width*s.Height > best.Width*best.Height {
			best = s
		}
	}
	return best.FileID
}
