package telegramimpl

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/minhpq/reddit-mirror-bot/internal/telegram"
	"github.com/minhpq/reddit-mirror-bot/pkg/config"
	"github.com/minhpq/reddit-mirror-bot/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type TelegramImpl struct {
	bot    *tgbotapi.BotAPI
	logger logger.Logger
	config *config.Config
}

func New(opts Opts) (*TelegramImpl, error) {
	bot, err := tgbotapi.NewBotAPI(opts.Config.Telegram.Token)
	if err != nil {
		opts.Logger.Error("Error creating bot", "error", err)
		return nil, err
	}

	return &TelegramImpl{
		bot:    bot,
		logger: opts.Logger.WithComponent("Telegram"),
		config: opts.Config,
	}, nil
}

var _ telegram.Client = (*TelegramImpl)(nil)

func (tg *TelegramImpl) GetUpdatesChan(u tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return tg.bot.GetUpdatesChan(u)
}

func (tg *TelegramImpl) StopReceivingUpdates() {
	tg.bot.StopReceivingUpdates()
}

// SendMessageToAdmin reports operational events to the configured admin.
// Failures are logged and swallowed so reporting never breaks a pipeline.
func (tg *TelegramImpl) SendMessageToAdmin(msg string) {
	m := tgbotapi.NewMessage(tg.config.Telegram.Admin, msg)
	if _, err := tg.bot.Send(m); err != nil {
		tg.logger.Error("Error sending message to admin", "error", err)
	}
}
