package telegramimpl

import (
	"encoding/json"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/minhpq/reddit-mirror-bot/internal/domain"
	"github.com/minhpq/reddit-mirror-bot/internal/telegram"
)

// Forum topics accept messages addressed as replies to the topic starter,
// whose message id equals the thread id.
func applyTarget(base *tgbotapi.BaseChat, target telegram.Target) {
	base.ChatID = target.ChatID
	if target.ThreadID != 0 {
		base.ReplyToMessageID = int(target.ThreadID)
	}
}

func (tg *TelegramImpl) SendMessage(target telegram.Target, text, imageURL string, buttons []domain.Button) (int, error) {
	if imageURL != "" {
		// A zero-width link at the head of the message makes the preview
		// show the image without consuming caption budget.
		text = "[​](" + escapeLinkURL(imageURL) + ")" + text
	}

	msg := tgbotapi.NewMessage(target.ChatID, text)
	applyTarget(&msg.BaseChat, target)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = imageURL == ""
	if markup := inlineKeyboard(buttons); markup != nil {
		msg.ReplyMarkup = markup
	}

	sent, err := tg.bot.Send(msg)
	if err != nil {
		tg.logger.Error("Error sending message", "chat_id", target.ChatID, "error", err)
		return 0, fmt.Errorf("failed to send message: %w", err)
	}
	return sent.MessageID, nil
}

func (tg *TelegramImpl) SendPlainMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := tg.bot.Send(msg); err != nil {
		tg.logger.Error("Error sending message", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (tg *TelegramImpl) SendVideo(target telegram.Target, videoURL string, buttons []domain.Button) error {
	video := tgbotapi.NewVideo(target.ChatID, tgbotapi.FileURL(videoURL))
	applyTarget(&video.BaseChat, target)
	if markup := inlineKeyboard(buttons); markup != nil {
		video.ReplyMarkup = markup
	}

	if _, err := tg.bot.Send(video); err != nil {
		tg.logger.Error("Error sending video", "chat_id", target.ChatID, "error", err)
		return fmt.Errorf("failed to send video: %w", err)
	}
	return nil
}

func (tg *TelegramImpl) SendMediaGroup(target telegram.Target, items []domain.MediaItem) error {
	media := make([]interface{}, 0, len(items))
	for _, item := range items {
		if item.Animated {
			media = append(media, tgbotapi.NewInputMediaVideo(tgbotapi.FileURL(item.URL)))
		} else {
			media = append(media, tgbotapi.NewInputMediaPhoto(tgbotapi.FileURL(item.URL)))
		}
	}

	group := tgbotapi.NewMediaGroup(target.ChatID, media)
	if target.ThreadID != 0 {
		group.ReplyToMessageID = int(target.ThreadID)
	}

	if _, err := tg.bot.SendMediaGroup(group); err != nil {
		tg.logger.Error("Error sending media group", "chat_id", target.ChatID, "count", len(items), "error", err)
		return fmt.Errorf("failed to send media group: %w", err)
	}
	return nil
}

// CreateForumTopic goes through the raw API; the bot library predates forum
// support.
func (tg *TelegramImpl) CreateForumTopic(chatID int64, name string) (int64, error) {
	params := tgbotapi.Params{}
	params.AddNonZero64("chat_id", chatID)
	params["name"] = name

	resp, err := tg.bot.MakeRequest("createForumTopic", params)
	if err != nil {
		return 0, fmt.Errorf("failed to create forum topic: %w", err)
	}

	var topic struct {
		MessageThreadID int64 `json:"message_thread_id"`
	}
	if err := json.Unmarshal(resp.Result, &topic); err != nil {
		return 0, fmt.Errorf("failed to decode forum topic: %w", err)
	}
	return topic.MessageThreadID, nil
}

func (tg *TelegramImpl) Resolve(target telegram.Target) (bool, error) {
	_, err := tg.bot.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: target.ChatID},
	})
	if err != nil {
		if isGoneError(err) {
			return false, nil
		}
		return false, err
	}
	if target.ThreadID == 0 {
		return true, nil
	}
	return tg.resolveThread(target)
}

// resolveThread probes a forum topic with a chat action addressed to it;
// a deleted topic answers "message thread not found" while a live one
// accepts the action.
func (tg *TelegramImpl) resolveThread(target telegram.Target) (bool, error) {
	params := tgbotapi.Params{}
	params.AddNonZero64("chat_id", target.ChatID)
	params.AddNonZero64("message_thread_id", target.ThreadID)
	params["action"] = "typing"

	if _, err := tg.bot.MakeRequest("sendChatAction", params); err != nil {
		if isGoneError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// isGoneError distinguishes a deleted or inaccessible destination from a
// transport failure.
func isGoneError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "chat not found") ||
		strings.Contains(msg, "bot was kicked") ||
		strings.Contains(msg, "bot is not a member") ||
		strings.Contains(msg, "message thread not found")
}

func inlineKeyboard(buttons []domain.Button) *tgbotapi.InlineKeyboardMarkup {
	if len(buttons) == 0 {
		return nil
	}
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, b := range buttons {
		row = append(row, tgbotapi.NewInlineKeyboardButtonURL(b.Label, b.URL))
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(row)
	return &markup
}

func escapeLinkURL(url string) string {
	url = strings.ReplaceAll(url, `\`, `\\`)
	return strings.ReplaceAll(url, `)`, `\)`)
}
