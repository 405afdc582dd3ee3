package commandimpl

import (
	"context"
	"errors"
	"runtime/debug"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpMessage = `Reddit Mirror Bot

SUBSCRIPTIONS:
/subscribe <subreddit> - Mirror new posts from a subreddit into this chat.
/subscribe <subreddit> perpost - Open a new forum topic for every post.
/unsubscribe <subreddit> - Stop mirroring a subreddit.
/list - List this chat's subscriptions.

BUTTONS:
/buttons - Show which link buttons are enabled.
/mute_button <label> - Hide a button on future posts.
/unmute_button <label> - Show a hidden button again.

Type /help at any time to see this guide.`

func (c *CommandImpl) HandleCommand(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := c.Telegram.GetUpdatesChan(u)
	c.Logger.Info("Command handler started, listening for updates.")

	for {
		select {
		case <-ctx.Done():
			c.Logger.Info("Command handler shutting down.")
			c.Telegram.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				c.Logger.Warn("Telegram updates channel closed unexpectedly.")
				return errors.New("telegram updates channel closed")
			}

			go func(u tgbotapi.Update) {
				defer func() {
					if r := recover(); r != nil {
						c.Logger.Error("Panic recovered while processing an update", "panic", r, "stack", string(debug.Stack()))
					}
				}()

				if u.Message == nil || !u.Message.IsCommand() {
					return
				}

				if u.Message.From != nil && !c.allow(u.Message.From.ID) {
					c.Logger.Debug("Rate limited command", "user_id", u.Message.From.ID)
					return
				}

				c.Logger.Info("Command received", "command", u.Message.Command(), "chat_id", u.Message.Chat.ID)

				if err := c.processCommand(ctx, u); err != nil {
					c.Logger.Error("Error processing command", "command", u.Message.Command(), "error", err)
				}
			}(update)
		}
	}
}

func (c *CommandImpl) processCommand(ctx context.Context, update tgbotapi.Update) error {
	command := update.Message.Command()
	args := update.Message.CommandArguments()
	chatID := update.Message.Chat.ID

	switch command {
	case "start", "help":
		return c.Telegram.SendPlainMessage(chatID, helpMessage)
	case "subscribe":
		c.handleSubscribe(ctx, chatID, args)
		return nil
	case "unsubscribe":
		c.handleUnsubscribe(ctx, chatID, args)
		return nil
	case "list":
		c.handleList(ctx, chatID)
		return nil
	case "buttons":
		c.handleButtons(ctx, chatID)
		return nil
	case "mute_button":
		c.handleSetButton(ctx, chatID, args, false)
		return nil
	case "unmute_button":
		c.handleSetButton(ctx, chatID, args, true)
		return nil
	default:
		return c.Telegram.SendPlainMessage(chatID, "Unknown command. Type /help to see the list of available commands.")
	}
}
