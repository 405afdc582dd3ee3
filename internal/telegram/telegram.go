package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/minhpq/reddit-mirror-bot/internal/domain"
)

// Target addresses a chat, optionally scoped to a forum topic.
type Target struct {
	ChatID   int64
	ThreadID int64
}

//go:generate go run go.uber.org/mock/mockgen -source=telegram.go -destination=mocks/mock.go
type Client interface {
	GetUpdatesChan(u tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()

	// SendMessage delivers a MarkdownV2 message. A non-empty imageURL
	// shows as the message's inline image.
	SendMessage(target Target, text, imageURL string, buttons []domain.Button) (int, error)

	// SendPlainMessage delivers unformatted text, used for command replies.
	SendPlainMessage(chatID int64, text string) error

	// SendVideo delivers one hosted video by URL.
	SendVideo(target Target, videoURL string, buttons []domain.Button) error

	// SendMediaGroup delivers one attachment batch.
	SendMediaGroup(target Target, items []domain.MediaItem) error

	// CreateForumTopic opens a new topic and returns its thread id.
	CreateForumTopic(chatID int64, name string) (int64, error)

	// Resolve reports whether a chat, and thread when given, still exists.
	Resolve(target Target) (bool, error)

	SendMessageToAdmin(msg string)
}
